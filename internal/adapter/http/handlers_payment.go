package http

import (
	"net/http"

	"github.com/Strob0t/StayForge/internal/domain/payment"
)

// ListPayments returns the payments of a property.
// GET /api/v1/properties/{id}/payments
func (h *Handlers) ListPayments(w http.ResponseWriter, r *http.Request) {
	items, err := h.payments.List(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if items == nil {
		items = []payment.Payment{}
	}
	writeJSON(w, http.StatusOK, items)
}

// GetPayment returns a single payment.
// GET /api/v1/payments/{id}
func (h *Handlers) GetPayment(w http.ResponseWriter, r *http.Request) {
	p, err := h.payments.Get(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "payment not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// CreatePayment records a payment under a property.
// POST /api/v1/properties/{id}/payments
func (h *Handlers) CreatePayment(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[payment.CreateRequest](w, r)
	if !ok {
		return
	}
	req.PropertyID = urlParam(r, "id")
	p, err := h.payments.Create(r.Context(), req)
	if err != nil {
		writeDomainError(w, err, "failed to create payment")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// UpdatePayment updates a payment.
// PUT /api/v1/payments/{id}
func (h *Handlers) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[payment.UpdateRequest](w, r)
	if !ok {
		return
	}
	p, err := h.payments.Update(r.Context(), urlParam(r, "id"), req)
	if err != nil {
		writeDomainError(w, err, "payment not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeletePayment removes a payment.
// DELETE /api/v1/payments/{id}
func (h *Handlers) DeletePayment(w http.ResponseWriter, r *http.Request) {
	if err := h.payments.Delete(r.Context(), urlParam(r, "id")); err != nil {
		writeDomainError(w, err, "payment not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
