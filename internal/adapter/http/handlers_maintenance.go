package http

import (
	"net/http"

	"github.com/Strob0t/StayForge/internal/domain/maintenance"
)

// ListMaintenanceRequests returns the maintenance requests of a property.
// GET /api/v1/properties/{id}/maintenance
func (h *Handlers) ListMaintenanceRequests(w http.ResponseWriter, r *http.Request) {
	items, err := h.maintenance.List(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if items == nil {
		items = []maintenance.Request{}
	}
	writeJSON(w, http.StatusOK, items)
}

// GetMaintenanceRequest returns a single maintenance request.
// GET /api/v1/maintenance/{id}
func (h *Handlers) GetMaintenanceRequest(w http.ResponseWriter, r *http.Request) {
	m, err := h.maintenance.Get(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "maintenance request not found")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// CreateMaintenanceRequest files a maintenance request under a property.
// POST /api/v1/properties/{id}/maintenance
func (h *Handlers) CreateMaintenanceRequest(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[maintenance.CreateRequest](w, r)
	if !ok {
		return
	}
	req.PropertyID = urlParam(r, "id")
	m, err := h.maintenance.Create(r.Context(), req)
	if err != nil {
		writeDomainError(w, err, "failed to create maintenance request")
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// UpdateMaintenanceRequest updates a maintenance request.
// PUT /api/v1/maintenance/{id}
func (h *Handlers) UpdateMaintenanceRequest(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[maintenance.UpdateRequest](w, r)
	if !ok {
		return
	}
	m, err := h.maintenance.Update(r.Context(), urlParam(r, "id"), req)
	if err != nil {
		writeDomainError(w, err, "maintenance request not found")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// DeleteMaintenanceRequest removes a maintenance request.
// DELETE /api/v1/maintenance/{id}
func (h *Handlers) DeleteMaintenanceRequest(w http.ResponseWriter, r *http.Request) {
	if err := h.maintenance.Delete(r.Context(), urlParam(r, "id")); err != nil {
		writeDomainError(w, err, "maintenance request not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
