package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Strob0t/StayForge/internal/domain"
	"github.com/Strob0t/StayForge/internal/domain/room"
	"github.com/Strob0t/StayForge/internal/domain/tenant"
	"github.com/Strob0t/StayForge/internal/port/changefeed"
	"github.com/Strob0t/StayForge/internal/port/database"
)

const tableTenants = "tenants"

// TenantService manages tenants and keeps room occupancy in step with
// tenant assignments.
type TenantService struct {
	store database.Store
	feed  changefeed.Feed
}

// NewTenantService creates a new tenant service.
func NewTenantService(store database.Store, feed changefeed.Feed) *TenantService {
	return &TenantService{store: store, feed: feed}
}

// List returns all tenants of a property.
func (s *TenantService) List(ctx context.Context, propertyID string) ([]tenant.Tenant, error) {
	return s.store.ListTenants(ctx, propertyID)
}

// Get returns a tenant by ID.
func (s *TenantService) Get(ctx context.Context, id string) (*tenant.Tenant, error) {
	return s.store.GetTenant(ctx, id)
}

// Create registers a tenant. When a room is given it must be vacant;
// the room is then marked occupied by the new tenant.
func (s *TenantService) Create(ctx context.Context, req tenant.CreateRequest) (*tenant.Tenant, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}
	if _, err := s.store.GetProperty(ctx, req.PropertyID); err != nil {
		return nil, fmt.Errorf("property: %w", err)
	}

	if req.RoomID != nil {
		r, err := s.store.GetRoom(ctx, *req.RoomID)
		if err != nil {
			return nil, fmt.Errorf("room: %w", err)
		}
		if r.Status == room.StatusOccupied {
			return nil, fmt.Errorf("%w: room is already occupied", domain.ErrConflict)
		}
	}

	t, err := s.store.CreateTenant(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create tenant: %w", err)
	}

	if t.RoomID != nil {
		if err := s.occupyRoom(ctx, *t.RoomID, t.ID); err != nil {
			return nil, err
		}
	}

	publishEvent(ctx, s.feed, changefeed.Event{
		Table: tableTenants, Op: changefeed.OpInsert, EntityID: t.ID, PropertyID: t.PropertyID,
	})
	return t, nil
}

// Update applies the set fields of req to a tenant. Moving a tenant to
// a different room vacates the old one and occupies the new one;
// deactivating a tenant vacates their room.
func (s *TenantService) Update(ctx context.Context, id string, req tenant.UpdateRequest) (*tenant.Tenant, error) {
	t, err := s.store.GetTenant(ctx, id)
	if err != nil {
		return nil, err
	}
	oldRoomID := t.RoomID

	if req.Name != "" {
		t.Name = req.Name
	}
	if req.Phone != "" {
		t.Phone = req.Phone
	}
	if req.Email != "" {
		t.Email = req.Email
	}
	if req.LeaseEnd != nil {
		if req.LeaseEnd.Before(t.LeaseStart) {
			return nil, fmt.Errorf("%w: lease_end must not be before lease_start", domain.ErrValidation)
		}
		t.LeaseEnd = req.LeaseEnd
	}
	if req.Status != "" {
		if !tenant.ValidStatuses[req.Status] {
			return nil, fmt.Errorf("%w: invalid status", domain.ErrValidation)
		}
		t.Status = req.Status
	}
	if req.PaymentStatus != "" {
		if !tenant.ValidPaymentStatuses[req.PaymentStatus] {
			return nil, fmt.Errorf("%w: invalid payment_status", domain.ErrValidation)
		}
		t.PaymentStatus = req.PaymentStatus
	}
	if req.RoomID != nil {
		if *req.RoomID == "" {
			t.RoomID = nil
		} else {
			r, err := s.store.GetRoom(ctx, *req.RoomID)
			if err != nil {
				return nil, fmt.Errorf("room: %w", err)
			}
			if r.Status == room.StatusOccupied && (r.TenantID == nil || *r.TenantID != t.ID) {
				return nil, fmt.Errorf("%w: room is already occupied", domain.ErrConflict)
			}
			t.RoomID = req.RoomID
		}
	}

	// An inactive tenant holds no room.
	if t.Status == tenant.StatusInactive {
		t.RoomID = nil
	}

	if err := s.store.UpdateTenant(ctx, t); err != nil {
		return nil, err
	}

	if err := s.syncRooms(ctx, oldRoomID, t.RoomID, t.ID); err != nil {
		return nil, err
	}

	publishEvent(ctx, s.feed, changefeed.Event{
		Table: tableTenants, Op: changefeed.OpUpdate, EntityID: t.ID, PropertyID: t.PropertyID,
	})
	return t, nil
}

// Delete removes a tenant and vacates their room.
func (s *TenantService) Delete(ctx context.Context, id string) error {
	t, err := s.store.GetTenant(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteTenant(ctx, id); err != nil {
		return err
	}

	if t.RoomID != nil {
		if err := s.vacateRoom(ctx, *t.RoomID); err != nil {
			return err
		}
	}

	publishEvent(ctx, s.feed, changefeed.Event{
		Table: tableTenants, Op: changefeed.OpDelete, EntityID: id, PropertyID: t.PropertyID,
	})
	return nil
}

// syncRooms reconciles room occupancy after a tenant's room changed.
func (s *TenantService) syncRooms(ctx context.Context, oldRoomID, newRoomID *string, tenantID string) error {
	same := oldRoomID != nil && newRoomID != nil && *oldRoomID == *newRoomID
	if same {
		return nil
	}
	if oldRoomID != nil {
		if err := s.vacateRoom(ctx, *oldRoomID); err != nil {
			return err
		}
	}
	if newRoomID != nil {
		if err := s.occupyRoom(ctx, *newRoomID, tenantID); err != nil {
			return err
		}
	}
	return nil
}

func (s *TenantService) occupyRoom(ctx context.Context, roomID, tenantID string) error {
	r, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return fmt.Errorf("room: %w", err)
	}
	r.TenantID = &tenantID
	r.Status = room.StatusOccupied
	if err := s.store.UpdateRoom(ctx, r); err != nil {
		return fmt.Errorf("occupy room: %w", err)
	}
	publishEvent(ctx, s.feed, changefeed.Event{
		Table: tableRooms, Op: changefeed.OpUpdate, EntityID: r.ID, PropertyID: r.PropertyID,
	})
	return nil
}

func (s *TenantService) vacateRoom(ctx context.Context, roomID string) error {
	r, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("room: %w", err)
	}
	r.TenantID = nil
	r.Status = room.StatusVacant
	if err := s.store.UpdateRoom(ctx, r); err != nil {
		return fmt.Errorf("vacate room: %w", err)
	}
	publishEvent(ctx, s.feed, changefeed.Event{
		Table: tableRooms, Op: changefeed.OpUpdate, EntityID: r.ID, PropertyID: r.PropertyID,
	})
	return nil
}
