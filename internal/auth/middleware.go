package auth

import (
	"net/http"
	"time"
)

// CookieName is the HttpOnly cookie carrying the admin session token.
// HttpOnly keeps the token out of reach of injected scripts.
const CookieName = "admin_token"

// SetAdminCookie writes the session token cookie on a successful unlock.
func SetAdminCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(tokenTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// IsAdmin reports whether the request carries a valid admin session.
// Pages use this to decide between the unlock form and the panel.
func IsAdmin(r *http.Request, tokens *TokenService) bool {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return false
	}
	return tokens.Validate(cookie.Value) == nil
}

// RequireAdmin guards the admin-only API routes. Requests without a valid
// session token get 403 and never reach the handler.
func RequireAdmin(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsAdmin(r, tokens) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"error":"forbidden","message":"admin access required"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
