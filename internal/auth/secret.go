package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// VerifySecret compares a submitted admin key against the configured secret.
//
// The configured value may be either the plain secret or a bcrypt hash of
// it (any "$2a$"/"$2b$"/"$2y$" prefix) — hashing the secret keeps it out of
// the config file in clear text without changing the unlock flow. Plain
// comparison is constant time so the check leaks nothing about how much of
// a guess matched.
//
// There is deliberately no lockout and no backoff: a wrong key just never
// unlocks, exactly once per submission.
func VerifySecret(configured, submitted string) bool {
	if configured == "" {
		return false
	}

	if strings.HasPrefix(configured, "$2a$") ||
		strings.HasPrefix(configured, "$2b$") ||
		strings.HasPrefix(configured, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(configured), []byte(submitted)) == nil
	}

	return subtle.ConstantTimeCompare([]byte(configured), []byte(submitted)) == 1
}
