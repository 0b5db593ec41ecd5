// Package backoffice defines the platform-operator user model for the
// backoffice console.
package backoffice

import (
	"errors"
	"net/mail"
	"time"
)

// Role represents the authorization level of a backoffice user.
type Role string

const (
	RoleSuperadmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleSupport    Role = "support"
)

// ValidRoles is the set of all valid backoffice roles.
var ValidRoles = map[Role]bool{
	RoleSuperadmin: true,
	RoleAdmin:      true,
	RoleSupport:    true,
}

// Status marks whether an account may sign in.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// ValidStatuses is the set of all valid account statuses.
var ValidStatuses = map[Status]bool{
	StatusActive:   true,
	StatusInactive: true,
}

// User is a backoffice account. Its ID is shared with the
// authentication identity that backs it.
type User struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        Role       `json:"role"`
	Status      Status     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Active reports whether the account may perform privileged operations.
func (u *User) Active() bool {
	return u.Status == StatusActive
}

// CreateRequest is the input for provisioning a new backoffice account.
type CreateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"` //nolint:gosec // request field, not a hardcoded secret
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Status   Status `json:"status"`
}

// Validate checks that the CreateRequest has all required fields.
func (r *CreateRequest) Validate() error {
	if r.Email == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return errors.New("invalid email format")
	}
	if r.Password == "" {
		return errors.New("password is required")
	}
	if len(r.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if r.Name == "" {
		return errors.New("name is required")
	}
	if !ValidRoles[r.Role] {
		return errors.New("invalid role: must be superadmin, admin, or support")
	}
	if r.Status == "" {
		r.Status = StatusActive
	}
	if !ValidStatuses[r.Status] {
		return errors.New("invalid status: must be active or inactive")
	}
	return nil
}

// UpdateRequest holds the fields that can be updated on a backoffice user.
type UpdateRequest struct {
	Name   string `json:"name,omitempty"`
	Role   Role   `json:"role,omitempty"`
	Status Status `json:"status,omitempty"`
}

// LoginRequest is the input for backoffice authentication.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"` //nolint:gosec // request field, not a hardcoded secret
}

// Validate checks that the LoginRequest has all required fields.
func (r *LoginRequest) Validate() error {
	if r.Email == "" {
		return errors.New("email is required")
	}
	if r.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

// ChangePasswordRequest is the input for a self-service password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"` //nolint:gosec // request field, not a hardcoded secret
	NewPassword     string `json:"new_password"`     //nolint:gosec // request field, not a hardcoded secret
}

// Validate checks that the ChangePasswordRequest has all required fields.
func (r *ChangePasswordRequest) Validate() error {
	if r.CurrentPassword == "" {
		return errors.New("current_password is required")
	}
	if len(r.NewPassword) < 8 {
		return errors.New("new_password must be at least 8 characters")
	}
	return nil
}

// LoginResponse is returned after successful authentication.
type LoginResponse struct {
	AccessToken string `json:"access_token"` //nolint:gosec // response field, not a hardcoded secret
	ExpiresIn   int    `json:"expires_in"` // seconds until the access token expires
	User        User   `json:"user"`
}

// TokenClaims contains the JWT payload fields.
type TokenClaims struct {
	UserID   string `json:"sub"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	IssuedAt int64  `json:"iat"`
	Expiry   int64  `json:"exp"`
	Audience string `json:"aud"`
	Issuer   string `json:"iss"`
}
