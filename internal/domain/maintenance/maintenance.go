// Package maintenance defines the maintenance-request domain model.
package maintenance

import (
	"errors"
	"time"
)

// Status is the progress state of a maintenance request.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// ValidStatuses is the set of all valid maintenance statuses.
var ValidStatuses = map[Status]bool{
	StatusPending:    true,
	StatusInProgress: true,
	StatusCompleted:  true,
}

// Priority is the urgency of a maintenance request.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ValidPriorities is the set of all valid priorities.
var ValidPriorities = map[Priority]bool{
	PriorityLow:    true,
	PriorityMedium: true,
	PriorityHigh:   true,
}

// Request is a reported maintenance issue for a room.
type Request struct {
	ID          string    `json:"id"`
	PropertyID  string    `json:"property_id"`
	RoomID      string    `json:"room_id"`
	TenantID    *string   `json:"tenant_id,omitempty"` // reporter, nil when staff-reported
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ReportedAt  time.Time `json:"reported_at"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateRequest holds the fields required to file a maintenance request.
type CreateRequest struct {
	PropertyID  string   `json:"property_id"`
	RoomID      string   `json:"room_id"`
	TenantID    *string  `json:"tenant_id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Priority    Priority `json:"priority"`
}

// Validate checks that the CreateRequest has all required fields.
func (r *CreateRequest) Validate() error {
	if r.PropertyID == "" {
		return errors.New("property_id is required")
	}
	if r.RoomID == "" {
		return errors.New("room_id is required")
	}
	if r.Title == "" {
		return errors.New("title is required")
	}
	if r.Priority == "" {
		r.Priority = PriorityMedium
	}
	if !ValidPriorities[r.Priority] {
		return errors.New("invalid priority: must be low, medium, or high")
	}
	return nil
}

// UpdateRequest holds the fields that can be updated on a maintenance request.
type UpdateRequest struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Status      Status   `json:"status,omitempty"`
	Priority    Priority `json:"priority,omitempty"`
}
