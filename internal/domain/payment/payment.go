// Package payment defines the payment domain model.
package payment

import (
	"errors"
	"time"
)

// Status is the settlement state of a payment.
type Status string

const (
	StatusPaid    Status = "paid"
	StatusPending Status = "pending"
	StatusOverdue Status = "overdue"
)

// ValidStatuses is the set of all valid payment statuses.
var ValidStatuses = map[Status]bool{
	StatusPaid:    true,
	StatusPending: true,
	StatusOverdue: true,
}

// Payment is a rent payment owed or made by a tenant for a room.
type Payment struct {
	ID         string     `json:"id"`
	PropertyID string     `json:"property_id"`
	TenantID   string     `json:"tenant_id"`
	RoomID     string     `json:"room_id"`
	Amount     float64    `json:"amount"`
	PaidAt     *time.Time `json:"paid_at,omitempty"`
	DueDate    time.Time  `json:"due_date"`
	Status     Status     `json:"status"`
	Method     string     `json:"method,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// CreateRequest holds the fields required to record a payment.
type CreateRequest struct {
	PropertyID string     `json:"property_id"`
	TenantID   string     `json:"tenant_id"`
	RoomID     string     `json:"room_id"`
	Amount     float64    `json:"amount"`
	PaidAt     *time.Time `json:"paid_at,omitempty"`
	DueDate    time.Time  `json:"due_date"`
	Status     Status     `json:"status"`
	Method     string     `json:"method,omitempty"`
	Notes      string     `json:"notes,omitempty"`
}

// Validate checks that the CreateRequest has all required fields.
func (r *CreateRequest) Validate() error {
	if r.PropertyID == "" {
		return errors.New("property_id is required")
	}
	if r.TenantID == "" {
		return errors.New("tenant_id is required")
	}
	if r.RoomID == "" {
		return errors.New("room_id is required")
	}
	if r.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	if r.DueDate.IsZero() {
		return errors.New("due_date is required")
	}
	if r.Status == "" {
		r.Status = StatusPending
	}
	if !ValidStatuses[r.Status] {
		return errors.New("invalid status: must be paid, pending, or overdue")
	}
	return nil
}

// UpdateRequest holds the fields that can be updated on a payment.
type UpdateRequest struct {
	Amount *float64   `json:"amount,omitempty"`
	PaidAt *time.Time `json:"paid_at,omitempty"`
	Status Status     `json:"status,omitempty"`
	Method string     `json:"method,omitempty"`
	Notes  string     `json:"notes,omitempty"`
}
