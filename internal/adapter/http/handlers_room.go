package http

import (
	"net/http"

	"github.com/Strob0t/StayForge/internal/domain/room"
)

// ListRooms returns the rooms of a property ordered by room number.
// GET /api/v1/properties/{id}/rooms
func (h *Handlers) ListRooms(w http.ResponseWriter, r *http.Request) {
	items, err := h.rooms.List(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if items == nil {
		items = []room.Room{}
	}
	writeJSON(w, http.StatusOK, items)
}

// GetRoom returns a single room.
// GET /api/v1/rooms/{id}
func (h *Handlers) GetRoom(w http.ResponseWriter, r *http.Request) {
	rm, err := h.rooms.Get(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "room not found")
		return
	}
	writeJSON(w, http.StatusOK, rm)
}

// CreateRoom adds a room to a property.
// POST /api/v1/properties/{id}/rooms
func (h *Handlers) CreateRoom(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[room.CreateRequest](w, r)
	if !ok {
		return
	}
	req.PropertyID = urlParam(r, "id")
	rm, err := h.rooms.Create(r.Context(), req)
	if err != nil {
		writeDomainError(w, err, "failed to create room")
		return
	}
	writeJSON(w, http.StatusCreated, rm)
}

// UpdateRoom updates a room.
// PUT /api/v1/rooms/{id}
func (h *Handlers) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[room.UpdateRequest](w, r)
	if !ok {
		return
	}
	rm, err := h.rooms.Update(r.Context(), urlParam(r, "id"), req)
	if err != nil {
		writeDomainError(w, err, "room not found")
		return
	}
	writeJSON(w, http.StatusOK, rm)
}

// DeleteRoom removes a room.
// DELETE /api/v1/rooms/{id}
func (h *Handlers) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	if err := h.rooms.Delete(r.Context(), urlParam(r, "id")); err != nil {
		writeDomainError(w, err, "room not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
