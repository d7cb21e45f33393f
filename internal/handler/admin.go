package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/satriadev/codeshare/internal/apperror"
	"github.com/satriadev/codeshare/internal/auth"
)

// AdminHandler handles the admin unlock flow.
type AdminHandler struct {
	secret string // configured admin secret (plain or bcrypt hash)
	tokens *auth.TokenService
	logger *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(secret string, tokens *auth.TokenService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{secret: secret, tokens: tokens, logger: logger}
}

// unlockRequest is the JSON body for the unlock endpoint.
type unlockRequest struct {
	Secret string `json:"secret"`
}

// HandleUnlock compares the submitted key against the admin secret. A match
// sets the admin session cookie; anything else is forbidden, with no
// lockout and no backoff — each submission stands alone.
//
// HTTP: POST /api/admin/unlock
func (h *AdminHandler) HandleUnlock(w http.ResponseWriter, r *http.Request) {
	var req unlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	if !auth.VerifySecret(h.secret, req.Secret) {
		h.logger.Warn("admin unlock rejected")
		writeError(w, apperror.Forbidden("wrong admin key"))
		return
	}

	token, err := h.tokens.Generate()
	if err != nil {
		h.logger.Error("failed to generate admin token", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	auth.SetAdminCookie(w, token)
	h.logger.Info("admin unlocked")
	writeJSON(w, http.StatusOK, map[string]bool{"unlocked": true})
}
