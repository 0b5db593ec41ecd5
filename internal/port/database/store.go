// Package database defines the database store port (interface).
package database

import (
	"context"
	"time"

	"github.com/Strob0t/StayForge/internal/domain/backoffice"
	"github.com/Strob0t/StayForge/internal/domain/maintenance"
	"github.com/Strob0t/StayForge/internal/domain/notification"
	"github.com/Strob0t/StayForge/internal/domain/payment"
	"github.com/Strob0t/StayForge/internal/domain/property"
	"github.com/Strob0t/StayForge/internal/domain/room"
	"github.com/Strob0t/StayForge/internal/domain/tenant"
)

// NotificationFilter selects the notifications visible to a caller:
// rows targeted at UserID plus broadcast rows, optionally narrowed to
// a property.
type NotificationFilter struct {
	UserID     string
	PropertyID string // empty means no property scoping
}

// Store is the port interface for database operations.
type Store interface {
	// Properties
	ListProperties(ctx context.Context, ownerID string) ([]property.Property, error)
	GetProperty(ctx context.Context, id string) (*property.Property, error)
	CreateProperty(ctx context.Context, req property.CreateRequest) (*property.Property, error)
	UpdateProperty(ctx context.Context, p *property.Property) error
	DeleteProperty(ctx context.Context, id string) error

	// Rooms
	ListRooms(ctx context.Context, propertyID string) ([]room.Room, error)
	GetRoom(ctx context.Context, id string) (*room.Room, error)
	CreateRoom(ctx context.Context, req room.CreateRequest) (*room.Room, error)
	UpdateRoom(ctx context.Context, r *room.Room) error
	DeleteRoom(ctx context.Context, id string) error

	// Tenants
	ListTenants(ctx context.Context, propertyID string) ([]tenant.Tenant, error)
	GetTenant(ctx context.Context, id string) (*tenant.Tenant, error)
	CreateTenant(ctx context.Context, req tenant.CreateRequest) (*tenant.Tenant, error)
	UpdateTenant(ctx context.Context, t *tenant.Tenant) error
	DeleteTenant(ctx context.Context, id string) error
	CountActiveTenants(ctx context.Context, propertyID string) (int, error)

	// Payments
	ListPayments(ctx context.Context, propertyID string) ([]payment.Payment, error)
	GetPayment(ctx context.Context, id string) (*payment.Payment, error)
	CreatePayment(ctx context.Context, req payment.CreateRequest) (*payment.Payment, error)
	UpdatePayment(ctx context.Context, p *payment.Payment) error
	DeletePayment(ctx context.Context, id string) error
	SumPayments(ctx context.Context, propertyID string, statuses []payment.Status) (float64, error)

	// Maintenance requests
	ListMaintenanceRequests(ctx context.Context, propertyID string) ([]maintenance.Request, error)
	GetMaintenanceRequest(ctx context.Context, id string) (*maintenance.Request, error)
	CreateMaintenanceRequest(ctx context.Context, req maintenance.CreateRequest) (*maintenance.Request, error)
	UpdateMaintenanceRequest(ctx context.Context, m *maintenance.Request) error
	DeleteMaintenanceRequest(ctx context.Context, id string) error

	// Notifications
	ListNotifications(ctx context.Context, filter NotificationFilter) ([]notification.Notification, error)
	GetNotification(ctx context.Context, id string) (*notification.Notification, error)
	CreateNotification(ctx context.Context, req notification.CreateRequest) (*notification.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context, filter NotificationFilter) (int, error)
	DeleteNotification(ctx context.Context, id string) error

	// Backoffice users
	ListBackofficeUsers(ctx context.Context) ([]backoffice.User, error)
	GetBackofficeUser(ctx context.Context, id string) (*backoffice.User, error)
	GetBackofficeUserByEmail(ctx context.Context, email string) (*backoffice.User, error)
	CreateBackofficeUser(ctx context.Context, u *backoffice.User) error
	UpdateBackofficeUser(ctx context.Context, u *backoffice.User) error
	TouchBackofficeLogin(ctx context.Context, id string, at time.Time) error
}
