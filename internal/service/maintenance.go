package service

import (
	"context"
	"fmt"

	"github.com/Strob0t/StayForge/internal/domain"
	"github.com/Strob0t/StayForge/internal/domain/maintenance"
	"github.com/Strob0t/StayForge/internal/port/changefeed"
	"github.com/Strob0t/StayForge/internal/port/database"
)

const tableMaintenance = "maintenance_requests"

// MaintenanceService manages maintenance requests.
type MaintenanceService struct {
	store database.Store
	feed  changefeed.Feed
}

// NewMaintenanceService creates a new maintenance service.
func NewMaintenanceService(store database.Store, feed changefeed.Feed) *MaintenanceService {
	return &MaintenanceService{store: store, feed: feed}
}

// List returns all maintenance requests of a property.
func (s *MaintenanceService) List(ctx context.Context, propertyID string) ([]maintenance.Request, error) {
	return s.store.ListMaintenanceRequests(ctx, propertyID)
}

// Get returns a maintenance request by ID.
func (s *MaintenanceService) Get(ctx context.Context, id string) (*maintenance.Request, error) {
	return s.store.GetMaintenanceRequest(ctx, id)
}

// Create files a maintenance request against a room.
func (s *MaintenanceService) Create(ctx context.Context, req maintenance.CreateRequest) (*maintenance.Request, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}
	if _, err := s.store.GetRoom(ctx, req.RoomID); err != nil {
		return nil, fmt.Errorf("room: %w", err)
	}

	m, err := s.store.CreateMaintenanceRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create maintenance request: %w", err)
	}

	publishEvent(ctx, s.feed, changefeed.Event{
		Table: tableMaintenance, Op: changefeed.OpInsert, EntityID: m.ID, PropertyID: m.PropertyID,
	})
	return m, nil
}

// Update applies the set fields of req to a maintenance request.
func (s *MaintenanceService) Update(ctx context.Context, id string, req maintenance.UpdateRequest) (*maintenance.Request, error) {
	m, err := s.store.GetMaintenanceRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		m.Title = req.Title
	}
	if req.Description != "" {
		m.Description = req.Description
	}
	if req.Status != "" {
		if !maintenance.ValidStatuses[req.Status] {
			return nil, fmt.Errorf("%w: invalid status", domain.ErrValidation)
		}
		m.Status = req.Status
	}
	if req.Priority != "" {
		if !maintenance.ValidPriorities[req.Priority] {
			return nil, fmt.Errorf("%w: invalid priority", domain.ErrValidation)
		}
		m.Priority = req.Priority
	}

	if err := s.store.UpdateMaintenanceRequest(ctx, m); err != nil {
		return nil, err
	}

	publishEvent(ctx, s.feed, changefeed.Event{
		Table: tableMaintenance, Op: changefeed.OpUpdate, EntityID: m.ID, PropertyID: m.PropertyID,
	})
	return m, nil
}

// Delete removes a maintenance request.
func (s *MaintenanceService) Delete(ctx context.Context, id string) error {
	m, err := s.store.GetMaintenanceRequest(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteMaintenanceRequest(ctx, id); err != nil {
		return err
	}

	publishEvent(ctx, s.feed, changefeed.Event{
		Table: tableMaintenance, Op: changefeed.OpDelete, EntityID: id, PropertyID: m.PropertyID,
	})
	return nil
}
