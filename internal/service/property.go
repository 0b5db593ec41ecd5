package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Strob0t/StayForge/internal/domain"
	"github.com/Strob0t/StayForge/internal/domain/property"
	"github.com/Strob0t/StayForge/internal/port/changefeed"
	"github.com/Strob0t/StayForge/internal/port/database"
)

const tableProperties = "properties"

// PropertyService manages properties.
type PropertyService struct {
	store database.Store
	feed  changefeed.Feed
}

// NewPropertyService creates a new property service.
func NewPropertyService(store database.Store, feed changefeed.Feed) *PropertyService {
	return &PropertyService{store: store, feed: feed}
}

// List returns the properties of an owner; an empty ownerID returns all.
func (s *PropertyService) List(ctx context.Context, ownerID string) ([]property.Property, error) {
	return s.store.ListProperties(ctx, ownerID)
}

// Get returns a property by ID.
func (s *PropertyService) Get(ctx context.Context, id string) (*property.Property, error) {
	return s.store.GetProperty(ctx, id)
}

// Create registers a new property.
func (s *PropertyService) Create(ctx context.Context, req property.CreateRequest) (*property.Property, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	p, err := s.store.CreateProperty(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}

	publishEvent(ctx, s.feed, changefeed.Event{
		Table: tableProperties, Op: changefeed.OpInsert, EntityID: p.ID, PropertyID: p.ID,
	})
	return p, nil
}

// Update applies the non-empty fields of req to a property.
func (s *PropertyService) Update(ctx context.Context, id string, req property.UpdateRequest) (*property.Property, error) {
	p, err := s.store.GetProperty(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		p.Name = req.Name
	}
	if req.Address != "" {
		p.Address = req.Address
	}
	if req.City != "" {
		p.City = req.City
	}
	if req.Phone != "" {
		p.Phone = req.Phone
	}
	if req.Email != "" {
		p.Email = req.Email
	}

	if err := s.store.UpdateProperty(ctx, p); err != nil {
		return nil, err
	}

	publishEvent(ctx, s.feed, changefeed.Event{
		Table: tableProperties, Op: changefeed.OpUpdate, EntityID: p.ID, PropertyID: p.ID,
	})
	return p, nil
}

// Delete removes a property and, through the store cascade, its rooms,
// tenants, payments, maintenance requests, and scoped notifications.
func (s *PropertyService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteProperty(ctx, id); err != nil {
		return err
	}

	publishEvent(ctx, s.feed, changefeed.Event{
		Table: tableProperties, Op: changefeed.OpDelete, EntityID: id, PropertyID: id,
	})
	return nil
}

// publishEvent emits a change event, logging instead of failing: a
// mutation that committed must not be reported as failed because the
// feed is down.
func publishEvent(ctx context.Context, feed changefeed.Feed, e changefeed.Event) {
	if feed == nil {
		return
	}
	if err := feed.Publish(ctx, e); err != nil {
		slog.Warn("failed to publish change event", "table", e.Table, "op", e.Op, "error", err)
	}
}
