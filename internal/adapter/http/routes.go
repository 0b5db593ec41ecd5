package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Strob0t/StayForge/internal/domain/backoffice"
	"github.com/Strob0t/StayForge/internal/domain/notification"
	"github.com/Strob0t/StayForge/internal/middleware"
	"github.com/Strob0t/StayForge/internal/service"
)

// MountRoutes registers all API routes on the given chi router.
func MountRoutes(r chi.Router, h *Handlers, authSvc *service.AuthService) {
	// Legacy backoffice lifecycle endpoints. They sit outside the auth
	// middleware: every failure, including a missing token, renders as
	// 400 with a message body.
	r.Post("/create-backoffice-user", h.LegacyCreateBackofficeUser)
	r.Post("/delete-backoffice-user", h.LegacyDeleteBackofficeUser)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(authSvc))

		r.Get("/ws", h.HandleWS)

		r.Route("/api/v1", func(r chi.Router) {
			// Version
			r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"version":"0.1.0"}`))
			})

			// Auth
			r.Post("/auth/login", h.Login)
			r.Get("/auth/me", h.Me)
			r.Post("/auth/change-password", h.ChangePassword)

			// Properties
			r.Get("/properties", h.ListProperties)
			r.Post("/properties", h.CreateProperty)
			r.Get("/properties/{id}", h.GetProperty)
			r.Put("/properties/{id}", h.UpdateProperty)
			r.Delete("/properties/{id}", h.DeleteProperty)
			r.Get("/properties/{id}/stats", h.PropertyStats)

			// Rooms (nested under properties, direct access by ID)
			r.Get("/properties/{id}/rooms", h.ListRooms)
			r.Post("/properties/{id}/rooms", h.CreateRoom)
			r.Get("/rooms/{id}", h.GetRoom)
			r.Put("/rooms/{id}", h.UpdateRoom)
			r.Delete("/rooms/{id}", h.DeleteRoom)

			// Tenants
			r.Get("/properties/{id}/tenants", h.ListTenants)
			r.Post("/properties/{id}/tenants", h.CreateTenant)
			r.Get("/tenants/{id}", h.GetTenant)
			r.Put("/tenants/{id}", h.UpdateTenant)
			r.Delete("/tenants/{id}", h.DeleteTenant)

			// Payments
			r.Get("/properties/{id}/payments", h.ListPayments)
			r.Post("/properties/{id}/payments", h.CreatePayment)
			r.Get("/payments/{id}", h.GetPayment)
			r.Put("/payments/{id}", h.UpdatePayment)
			r.Delete("/payments/{id}", h.DeletePayment)

			// Maintenance requests
			r.Get("/properties/{id}/maintenance", h.ListMaintenanceRequests)
			r.Post("/properties/{id}/maintenance", h.CreateMaintenanceRequest)
			r.Get("/maintenance/{id}", h.GetMaintenanceRequest)
			r.Put("/maintenance/{id}", h.UpdateMaintenanceRequest)
			r.Delete("/maintenance/{id}", h.DeleteMaintenanceRequest)

			// Notifications
			r.Get("/notifications", h.ListNotifications)
			r.Post("/notifications", h.CreateNotification)
			r.Get("/notifications/{id}", h.GetNotification)
			r.Post("/notifications/{id}/read", h.MarkNotificationRead)
			r.Post("/notifications/read-all", h.MarkAllNotificationsRead)
			r.Delete("/notifications/{id}", h.DeleteNotification)

			// Backoffice accounts (superadmin only)
			r.Route("/backoffice/users", func(r chi.Router) {
				r.Use(middleware.RequireRole(backoffice.RoleSuperadmin))
				r.Get("/", h.ListBackofficeUsers)
				r.Post("/", h.CreateBackofficeUser)
				r.Get("/{id}", h.GetBackofficeUser)
				r.Put("/{id}", h.UpdateBackofficeUser)
				r.Delete("/{id}", h.DeleteBackofficeUser)
			})
		})
	})
}

// notificationsPayload is the per-user message pushed over a websocket
// connection whenever the caller's visible notification list changes.
type notificationsPayload struct {
	Unread int                         `json:"unread"`
	Items  []notification.Notification `json:"items"`
}

// HandleWS upgrades the request, registers the connection with the hub
// for change-event broadcasts, and attaches a live notification feed
// for the authenticated user. The feed pushes the full reloaded view on
// every matching change and is closed when the peer disconnects.
func (h *Handlers) HandleWS(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	if u == nil {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	var opts service.FeedOptions
	if h.scopeFeedsByProperty {
		opts.PropertyID = r.URL.Query().Get("property_id")
	}

	client, err := h.hub.Accept(w, r)
	if err != nil {
		return
	}

	feed, err := h.notifications.OpenFeed(client.Context(), u.ID, opts)
	if err != nil {
		slog.Warn("failed to open notification feed", "user_id", u.ID, "error", err)
		client.Close()
		return
	}
	context.AfterFunc(client.Context(), feed.Close)

	push := func() {
		items := feed.Items()
		if items == nil {
			items = []notification.Notification{}
		}
		if err := client.Send("notifications", notificationsPayload{Unread: feed.Unread(), Items: items}); err != nil {
			slog.Debug("notification push failed", "user_id", u.ID, "error", err)
		}
	}
	feed.SetOnReload(push)
	push()
}
