// Package room defines the room domain model.
package room

import (
	"errors"
	"time"
)

// Type is the room category.
type Type string

const (
	TypeSingle Type = "single"
	TypeDouble Type = "double"
	TypeDeluxe Type = "deluxe"
)

// ValidTypes is the set of all valid room types.
var ValidTypes = map[Type]bool{
	TypeSingle: true,
	TypeDouble: true,
	TypeDeluxe: true,
}

// Status is the occupancy state of a room.
type Status string

const (
	StatusOccupied    Status = "occupied"
	StatusVacant      Status = "vacant"
	StatusMaintenance Status = "maintenance"
)

// ValidStatuses is the set of all valid room statuses.
var ValidStatuses = map[Status]bool{
	StatusOccupied:    true,
	StatusVacant:      true,
	StatusMaintenance: true,
}

// Room is a rentable unit within a property.
type Room struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"property_id"`
	Number     string    `json:"number"`
	Floor      int       `json:"floor"`
	Type       Type      `json:"type"`
	Price      float64   `json:"price"`
	Status     Status    `json:"status"`
	Facilities []string  `json:"facilities,omitempty"`
	TenantID   *string   `json:"tenant_id,omitempty"` // occupying tenant, nil when vacant
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateRequest holds the fields required to add a room to a property.
type CreateRequest struct {
	PropertyID string   `json:"property_id"`
	Number     string   `json:"number"`
	Floor      int      `json:"floor"`
	Type       Type     `json:"type"`
	Price      float64  `json:"price"`
	Facilities []string `json:"facilities,omitempty"`
}

// Validate checks that the CreateRequest has all required fields.
func (r *CreateRequest) Validate() error {
	if r.PropertyID == "" {
		return errors.New("property_id is required")
	}
	if r.Number == "" {
		return errors.New("number is required")
	}
	if !ValidTypes[r.Type] {
		return errors.New("invalid type: must be single, double, or deluxe")
	}
	if r.Price < 0 {
		return errors.New("price must not be negative")
	}
	return nil
}

// UpdateRequest holds the fields that can be updated on a room.
type UpdateRequest struct {
	Number     string   `json:"number,omitempty"`
	Floor      *int     `json:"floor,omitempty"`
	Type       Type     `json:"type,omitempty"`
	Price      *float64 `json:"price,omitempty"`
	Status     Status   `json:"status,omitempty"`
	Facilities []string `json:"facilities,omitempty"`
	TenantID   *string  `json:"tenant_id,omitempty"`
}
