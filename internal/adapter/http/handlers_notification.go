package http

import (
	"net/http"

	"github.com/Strob0t/StayForge/internal/domain/notification"
	"github.com/Strob0t/StayForge/internal/middleware"
)

// ListNotifications returns the notifications visible to the caller,
// newest first. An optional property_id query narrows the list.
// GET /api/v1/notifications
func (h *Handlers) ListNotifications(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	if u == nil {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	items, err := h.notifications.List(r.Context(), u.ID, r.URL.Query().Get("property_id"))
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if items == nil {
		items = []notification.Notification{}
	}
	writeJSON(w, http.StatusOK, items)
}

// GetNotification returns a single notification.
// GET /api/v1/notifications/{id}
func (h *Handlers) GetNotification(w http.ResponseWriter, r *http.Request) {
	n, err := h.notifications.Get(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "notification not found")
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// CreateNotification publishes a notification.
// POST /api/v1/notifications
func (h *Handlers) CreateNotification(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[notification.CreateRequest](w, r)
	if !ok {
		return
	}
	n, err := h.notifications.Create(r.Context(), req)
	if err != nil {
		writeDomainError(w, err, "failed to create notification")
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

// MarkNotificationRead marks one notification as read.
// POST /api/v1/notifications/{id}/read
func (h *Handlers) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	if err := h.notifications.MarkRead(r.Context(), urlParam(r, "id")); err != nil {
		writeDomainError(w, err, "notification not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkAllNotificationsRead marks everything visible to the caller as read.
// POST /api/v1/notifications/read-all
func (h *Handlers) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	if u == nil {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	n, err := h.notifications.MarkAllRead(r.Context(), u.ID, r.URL.Query().Get("property_id"))
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"marked": n})
}

// DeleteNotification removes a notification.
// DELETE /api/v1/notifications/{id}
func (h *Handlers) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	if err := h.notifications.Delete(r.Context(), urlParam(r, "id")); err != nil {
		writeDomainError(w, err, "notification not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
