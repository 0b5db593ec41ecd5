package http

import "net/http"

// PropertyStats returns the aggregated statistics snapshot of a property.
// GET /api/v1/properties/{id}/stats
func (h *Handlers) PropertyStats(w http.ResponseWriter, r *http.Request) {
	snap, err := h.stats.PropertyStats(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "property not found")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
