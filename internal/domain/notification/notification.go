// Package notification defines the notification domain model.
package notification

import (
	"errors"
	"time"
)

// Type classifies a notification by origin.
type Type string

const (
	TypeSystem   Type = "system"
	TypeUser     Type = "user"
	TypeProperty Type = "property"
	TypePayment  Type = "payment"
)

// ValidTypes is the set of all valid notification types.
var ValidTypes = map[Type]bool{
	TypeSystem:   true,
	TypeUser:     true,
	TypeProperty: true,
	TypePayment:  true,
}

// Status is the read state of a notification.
type Status string

const (
	StatusUnread Status = "unread"
	StatusRead   Status = "read"
)

// Notification is a message delivered to a specific user or, when
// UserID is nil, broadcast to every authenticated user.
type Notification struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Type       Type      `json:"type"`
	Status     Status    `json:"status"`
	UserID     *string   `json:"user_id,omitempty"`
	PropertyID *string   `json:"property_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Broadcast reports whether the notification targets every user.
func (n *Notification) Broadcast() bool {
	return n.UserID == nil
}

// CreateRequest holds the fields required to publish a notification.
type CreateRequest struct {
	Title      string  `json:"title"`
	Message    string  `json:"message"`
	Type       Type    `json:"type"`
	UserID     *string `json:"user_id,omitempty"`
	PropertyID *string `json:"property_id,omitempty"`
}

// Validate checks that the CreateRequest has all required fields.
func (r *CreateRequest) Validate() error {
	if r.Title == "" {
		return errors.New("title is required")
	}
	if r.Message == "" {
		return errors.New("message is required")
	}
	if r.Type == "" {
		r.Type = TypeSystem
	}
	if !ValidTypes[r.Type] {
		return errors.New("invalid type: must be system, user, property, or payment")
	}
	return nil
}
