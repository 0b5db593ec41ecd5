package http

import (
	"net/http"

	"github.com/Strob0t/StayForge/internal/domain/tenant"
)

// ListTenants returns the tenants of a property.
// GET /api/v1/properties/{id}/tenants
func (h *Handlers) ListTenants(w http.ResponseWriter, r *http.Request) {
	items, err := h.tenants.List(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if items == nil {
		items = []tenant.Tenant{}
	}
	writeJSON(w, http.StatusOK, items)
}

// GetTenant returns a single tenant.
// GET /api/v1/tenants/{id}
func (h *Handlers) GetTenant(w http.ResponseWriter, r *http.Request) {
	t, err := h.tenants.Get(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "tenant not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// CreateTenant registers a tenant under a property.
// POST /api/v1/properties/{id}/tenants
func (h *Handlers) CreateTenant(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[tenant.CreateRequest](w, r)
	if !ok {
		return
	}
	req.PropertyID = urlParam(r, "id")
	t, err := h.tenants.Create(r.Context(), req)
	if err != nil {
		writeDomainError(w, err, "failed to create tenant")
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// UpdateTenant updates a tenant.
// PUT /api/v1/tenants/{id}
func (h *Handlers) UpdateTenant(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[tenant.UpdateRequest](w, r)
	if !ok {
		return
	}
	t, err := h.tenants.Update(r.Context(), urlParam(r, "id"), req)
	if err != nil {
		writeDomainError(w, err, "tenant not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// DeleteTenant removes a tenant.
// DELETE /api/v1/tenants/{id}
func (h *Handlers) DeleteTenant(w http.ResponseWriter, r *http.Request) {
	if err := h.tenants.Delete(r.Context(), urlParam(r, "id")); err != nil {
		writeDomainError(w, err, "tenant not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
