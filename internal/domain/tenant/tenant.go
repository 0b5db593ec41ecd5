// Package tenant defines the tenant domain model.
package tenant

import (
	"errors"
	"time"
)

// Status is the lease state of a tenant.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// ValidStatuses is the set of all valid tenant statuses.
var ValidStatuses = map[Status]bool{
	StatusActive:   true,
	StatusInactive: true,
}

// PaymentStatus is the rolled-up payment state of a tenant.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
	PaymentOverdue PaymentStatus = "overdue"
)

// ValidPaymentStatuses is the set of all valid tenant payment statuses.
var ValidPaymentStatuses = map[PaymentStatus]bool{
	PaymentPaid:    true,
	PaymentPending: true,
	PaymentOverdue: true,
}

// Tenant is a person renting a room within a property.
type Tenant struct {
	ID            string        `json:"id"`
	PropertyID    string        `json:"property_id"`
	RoomID        *string       `json:"room_id,omitempty"`
	Name          string        `json:"name"`
	Phone         string        `json:"phone,omitempty"`
	Email         string        `json:"email,omitempty"`
	LeaseStart    time.Time     `json:"lease_start"`
	LeaseEnd      *time.Time    `json:"lease_end,omitempty"`
	Status        Status        `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// CreateRequest holds the fields required to register a tenant.
type CreateRequest struct {
	PropertyID string     `json:"property_id"`
	RoomID     *string    `json:"room_id,omitempty"`
	Name       string     `json:"name"`
	Phone      string     `json:"phone,omitempty"`
	Email      string     `json:"email,omitempty"`
	LeaseStart time.Time  `json:"lease_start"`
	LeaseEnd   *time.Time `json:"lease_end,omitempty"`
}

// Validate checks that the CreateRequest has all required fields.
func (r *CreateRequest) Validate() error {
	if r.PropertyID == "" {
		return errors.New("property_id is required")
	}
	if r.Name == "" {
		return errors.New("name is required")
	}
	if r.LeaseStart.IsZero() {
		return errors.New("lease_start is required")
	}
	if r.LeaseEnd != nil && r.LeaseEnd.Before(r.LeaseStart) {
		return errors.New("lease_end must not be before lease_start")
	}
	return nil
}

// UpdateRequest holds the fields that can be updated on a tenant.
type UpdateRequest struct {
	RoomID        *string       `json:"room_id,omitempty"`
	Name          string        `json:"name,omitempty"`
	Phone         string        `json:"phone,omitempty"`
	Email         string        `json:"email,omitempty"`
	LeaseEnd      *time.Time    `json:"lease_end,omitempty"`
	Status        Status        `json:"status,omitempty"`
	PaymentStatus PaymentStatus `json:"payment_status,omitempty"`
}
