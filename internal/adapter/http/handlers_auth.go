package http

import (
	"net/http"

	"github.com/Strob0t/StayForge/internal/domain/backoffice"
	"github.com/Strob0t/StayForge/internal/middleware"
)

// Login authenticates a backoffice user.
// POST /api/v1/auth/login
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[backoffice.LoginRequest](w, r)
	if !ok {
		return
	}

	resp, err := h.auth.Login(r.Context(), req)
	if err != nil {
		writeDomainError(w, err, "login failed")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Me returns the authenticated user's profile.
// GET /api/v1/auth/me
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.auth.Me(r.Context(), middleware.UserFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// ChangePassword updates the authenticated user's password.
// POST /api/v1/auth/change-password
func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[backoffice.ChangePasswordRequest](w, r)
	if !ok {
		return
	}
	if err := h.auth.ChangePassword(r.Context(), middleware.UserFromContext(r.Context()), req); err != nil {
		writeDomainError(w, err, "failed to change password")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
