// Package auth implements the admin gate: verifying the shared admin secret
// and carrying the unlocked state in a signed session token.
//
// There is exactly one privilege level. A correct secret yields an admin JWT
// in an HttpOnly cookie; the panel is never "locked again" programmatically —
// the cookie simply expires or the browser drops it.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// adminSubject is the only subject these tokens ever carry.
const adminSubject = "admin"

// tokenTTL is the admin session lifetime.
const tokenTTL = 12 * time.Hour

// TokenService signs and validates admin session tokens.
//
// HS256 (HMAC-SHA256) — symmetric, one key for signing and verifying. Fine
// for a single-server board; the key never leaves the process.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given signing key.
// The key should be at least 16 bytes; generate one with
// `openssl rand -hex 32` or let the server pick a random per-process key.
func NewTokenService(secret []byte) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: session secret must be at least 16 bytes")
	}
	return &TokenService{secret: secret}, nil
}

// Generate creates a signed admin session token.
func (s *TokenService) Generate() (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   adminSubject,
		Issuer:    "codeshare",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Validate checks the signature, expiry and subject of a session token.
func (s *TokenService) Validate(tokenString string) error {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			// Reject any algorithm other than the one we sign with —
			// accepting the token's own alg claim is a classic JWT bypass.
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method %v", t.Header["alg"])
			}
			return s.secret, nil
		},
	)
	if err != nil {
		return fmt.Errorf("auth: parsing token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return errors.New("auth: invalid token")
	}
	if claims.Subject != adminSubject {
		return errors.New("auth: not an admin token")
	}
	return nil
}
