package service

import (
	"context"
	"fmt"

	"github.com/Strob0t/StayForge/internal/domain"
	"github.com/Strob0t/StayForge/internal/domain/room"
	"github.com/Strob0t/StayForge/internal/port/changefeed"
	"github.com/Strob0t/StayForge/internal/port/database"
)

const tableRooms = "rooms"

// RoomService manages rooms within a property.
type RoomService struct {
	store database.Store
	feed  changefeed.Feed
}

// NewRoomService creates a new room service.
func NewRoomService(store database.Store, feed changefeed.Feed) *RoomService {
	return &RoomService{store: store, feed: feed}
}

// List returns all rooms of a property ordered by room number.
func (s *RoomService) List(ctx context.Context, propertyID string) ([]room.Room, error) {
	return s.store.ListRooms(ctx, propertyID)
}

// Get returns a room by ID.
func (s *RoomService) Get(ctx context.Context, id string) (*room.Room, error) {
	return s.store.GetRoom(ctx, id)
}

// Create adds a room to a property. New rooms start vacant.
func (s *RoomService) Create(ctx context.Context, req room.CreateRequest) (*room.Room, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}
	if _, err := s.store.GetProperty(ctx, req.PropertyID); err != nil {
		return nil, fmt.Errorf("property: %w", err)
	}

	r, err := s.store.CreateRoom(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}

	publishEvent(ctx, s.feed, changefeed.Event{
		Table: tableRooms, Op: changefeed.OpInsert, EntityID: r.ID, PropertyID: r.PropertyID,
	})
	return r, nil
}

// Update applies the set fields of req to a room. Assigning a tenant
// marks the room occupied; clearing the tenant marks it vacant unless
// the update also sets an explicit status.
func (s *RoomService) Update(ctx context.Context, id string, req room.UpdateRequest) (*room.Room, error) {
	r, err := s.store.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Number != "" {
		r.Number = req.Number
	}
	if req.Floor != nil {
		r.Floor = *req.Floor
	}
	if req.Type != "" {
		if !room.ValidTypes[req.Type] {
			return nil, fmt.Errorf("%w: invalid type", domain.ErrValidation)
		}
		r.Type = req.Type
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
		}
		r.Price = *req.Price
	}
	if req.Facilities != nil {
		r.Facilities = req.Facilities
	}
	if req.TenantID != nil {
		if *req.TenantID == "" {
			r.TenantID = nil
			r.Status = room.StatusVacant
		} else {
			if _, err := s.store.GetTenant(ctx, *req.TenantID); err != nil {
				return nil, fmt.Errorf("tenant: %w", err)
			}
			r.TenantID = req.TenantID
			r.Status = room.StatusOccupied
		}
	}
	if req.Status != "" {
		if !room.ValidStatuses[req.Status] {
			return nil, fmt.Errorf("%w: invalid status", domain.ErrValidation)
		}
		r.Status = req.Status
	}

	if err := s.store.UpdateRoom(ctx, r); err != nil {
		return nil, err
	}

	publishEvent(ctx, s.feed, changefeed.Event{
		Table: tableRooms, Op: changefeed.OpUpdate, EntityID: r.ID, PropertyID: r.PropertyID,
	})
	return r, nil
}

// Delete removes a room. Occupied rooms cannot be deleted.
func (s *RoomService) Delete(ctx context.Context, id string) error {
	r, err := s.store.GetRoom(ctx, id)
	if err != nil {
		return err
	}
	if r.Status == room.StatusOccupied {
		return fmt.Errorf("%w: room is occupied", domain.ErrConflict)
	}

	if err := s.store.DeleteRoom(ctx, id); err != nil {
		return err
	}

	publishEvent(ctx, s.feed, changefeed.Event{
		Table: tableRooms, Op: changefeed.OpDelete, EntityID: id, PropertyID: r.PropertyID,
	})
	return nil
}
