package http

import (
	"github.com/Strob0t/StayForge/internal/adapter/ws"
	"github.com/Strob0t/StayForge/internal/service"
)

// Handlers bundles the services the HTTP boundary exposes.
type Handlers struct {
	auth          *service.AuthService
	backoffice    *service.BackofficeService
	properties    *service.PropertyService
	rooms         *service.RoomService
	tenants       *service.TenantService
	payments      *service.PaymentService
	maintenance   *service.MaintenanceService
	notifications *service.NotificationService
	stats         *service.StatsService
	hub           *ws.Hub

	// scopeFeedsByProperty narrows each live notification feed to the
	// property named in the connection's property_id query parameter.
	// Off for the backoffice console, on for the owner app.
	scopeFeedsByProperty bool
}

// NewHandlers creates the handler set.
func NewHandlers(
	auth *service.AuthService,
	backoffice *service.BackofficeService,
	properties *service.PropertyService,
	rooms *service.RoomService,
	tenants *service.TenantService,
	payments *service.PaymentService,
	maintenance *service.MaintenanceService,
	notifications *service.NotificationService,
	stats *service.StatsService,
	hub *ws.Hub,
	scopeFeedsByProperty bool,
) *Handlers {
	return &Handlers{
		auth:          auth,
		backoffice:    backoffice,
		properties:    properties,
		rooms:         rooms,
		tenants:       tenants,
		payments:      payments,
		maintenance:   maintenance,
		notifications: notifications,
		stats:         stats,
		hub:           hub,

		scopeFeedsByProperty: scopeFeedsByProperty,
	}
}
