package http

import (
	"net/http"
	"strings"

	"github.com/Strob0t/StayForge/internal/domain/backoffice"
	"github.com/Strob0t/StayForge/internal/middleware"
)

// ListBackofficeUsers returns all backoffice accounts.
// GET /api/v1/backoffice/users
func (h *Handlers) ListBackofficeUsers(w http.ResponseWriter, r *http.Request) {
	items, err := h.backoffice.ListUsers(r.Context(), middleware.UserFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err, "failed to list users")
		return
	}
	if items == nil {
		items = []backoffice.User{}
	}
	writeJSON(w, http.StatusOK, items)
}

// GetBackofficeUser returns a single backoffice account.
// GET /api/v1/backoffice/users/{id}
func (h *Handlers) GetBackofficeUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.backoffice.GetUser(r.Context(), middleware.UserFromContext(r.Context()), urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// CreateBackofficeUser provisions a backoffice account.
// POST /api/v1/backoffice/users
func (h *Handlers) CreateBackofficeUser(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[backoffice.CreateRequest](w, r)
	if !ok {
		return
	}
	u, err := h.backoffice.CreateUser(r.Context(), middleware.UserFromContext(r.Context()), req)
	if err != nil {
		writeDomainError(w, err, "failed to create user")
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// UpdateBackofficeUser updates a backoffice account.
// PUT /api/v1/backoffice/users/{id}
func (h *Handlers) UpdateBackofficeUser(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[backoffice.UpdateRequest](w, r)
	if !ok {
		return
	}
	u, err := h.backoffice.UpdateUser(r.Context(), middleware.UserFromContext(r.Context()), urlParam(r, "id"), req)
	if err != nil {
		writeDomainError(w, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// DeleteBackofficeUser removes a backoffice account.
// DELETE /api/v1/backoffice/users/{id}
func (h *Handlers) DeleteBackofficeUser(w http.ResponseWriter, r *http.Request) {
	if err := h.backoffice.DeleteUser(r.Context(), middleware.UserFromContext(r.Context()), urlParam(r, "id")); err != nil {
		writeDomainError(w, err, "user not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Legacy endpoints
// ---------------------------------------------------------------------------
//
// The original console called two standalone functions for the account
// lifecycle. They respond 200 with {"message": ...} on success and 400
// with {"message": ...} on every failure; the failure kind is carried
// in the message text only. Kept for existing clients; new clients use
// /api/v1/backoffice/users.

// legacyCaller resolves the bearer token into a backoffice user. These
// routes sit outside the auth middleware so failures render as 400.
func (h *Handlers) legacyCaller(r *http.Request) (*backoffice.User, error) {
	authHeader := r.Header.Get("Authorization")
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if authHeader == "" || token == authHeader {
		return nil, nil
	}
	claims, err := h.auth.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}
	return &backoffice.User{
		ID:    claims.UserID,
		Email: claims.Email,
		Name:  claims.Name,
		Role:  claims.Role,
	}, nil
}

type legacyDeleteRequest struct {
	ID string `json:"id"`
}

// LegacyCreateBackofficeUser is the original account-creation endpoint.
// POST /create-backoffice-user
func (h *Handlers) LegacyCreateBackofficeUser(w http.ResponseWriter, r *http.Request) {
	caller, err := h.legacyCaller(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid authorization token"})
		return
	}

	req, ok := readJSONLegacy[backoffice.CreateRequest](w, r)
	if !ok {
		return
	}

	if _, err := h.backoffice.CreateUser(r.Context(), caller, req); err != nil {
		writeLegacyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "User created successfully"})
}

// LegacyDeleteBackofficeUser is the original account-deletion endpoint.
// POST /delete-backoffice-user
func (h *Handlers) LegacyDeleteBackofficeUser(w http.ResponseWriter, r *http.Request) {
	caller, err := h.legacyCaller(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid authorization token"})
		return
	}

	req, ok := readJSONLegacy[legacyDeleteRequest](w, r)
	if !ok {
		return
	}
	if req.ID == "" {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "id is required"})
		return
	}

	if err := h.backoffice.DeleteUser(r.Context(), caller, req.ID); err != nil {
		writeLegacyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "User deleted successfully"})
}

// readJSONLegacy decodes a body, rendering failures in the legacy
// message shape.
func readJSONLegacy[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var v T
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := jsonDecode(r, &v); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid request body"})
		return v, false
	}
	return v, true
}
