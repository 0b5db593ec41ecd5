package http

import (
	"net/http"

	"github.com/Strob0t/StayForge/internal/domain/property"
)

// ListProperties returns properties, optionally filtered by owner_id.
// GET /api/v1/properties
func (h *Handlers) ListProperties(w http.ResponseWriter, r *http.Request) {
	items, err := h.properties.List(r.Context(), r.URL.Query().Get("owner_id"))
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if items == nil {
		items = []property.Property{}
	}
	writeJSON(w, http.StatusOK, items)
}

// GetProperty returns a single property.
// GET /api/v1/properties/{id}
func (h *Handlers) GetProperty(w http.ResponseWriter, r *http.Request) {
	p, err := h.properties.Get(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "property not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// CreateProperty registers a new property.
// POST /api/v1/properties
func (h *Handlers) CreateProperty(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[property.CreateRequest](w, r)
	if !ok {
		return
	}
	p, err := h.properties.Create(r.Context(), req)
	if err != nil {
		writeDomainError(w, err, "failed to create property")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// UpdateProperty updates a property.
// PUT /api/v1/properties/{id}
func (h *Handlers) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[property.UpdateRequest](w, r)
	if !ok {
		return
	}
	p, err := h.properties.Update(r.Context(), urlParam(r, "id"), req)
	if err != nil {
		writeDomainError(w, err, "property not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeleteProperty removes a property.
// DELETE /api/v1/properties/{id}
func (h *Handlers) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	if err := h.properties.Delete(r.Context(), urlParam(r, "id")); err != nil {
		writeDomainError(w, err, "property not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
