// Package service contains the application services that sit between
// the HTTP boundary and the ports.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Strob0t/StayForge/internal/domain"
	"github.com/Strob0t/StayForge/internal/domain/backoffice"
	"github.com/Strob0t/StayForge/internal/port/changefeed"
	"github.com/Strob0t/StayForge/internal/port/database"
	"github.com/Strob0t/StayForge/internal/port/identity"
)

const tableBackofficeUsers = "backoffice_users"

// BackofficeService manages the backoffice account lifecycle. Account
// provisioning is a two-phase operation against two stores: the
// identity provider first, then the profile row. A failed second phase
// is compensated by deleting the identity created in the first.
type BackofficeService struct {
	store database.Store
	ids   identity.Provider
	feed  changefeed.Feed
}

// NewBackofficeService creates a new backoffice account service.
func NewBackofficeService(store database.Store, ids identity.Provider, feed changefeed.Feed) *BackofficeService {
	return &BackofficeService{store: store, ids: ids, feed: feed}
}

// authorize checks that the caller may run privileged account operations:
// only an active superadmin qualifies.
func (s *BackofficeService) authorize(ctx context.Context, caller *backoffice.User) error {
	if caller == nil {
		return fmt.Errorf("%w: authentication required", domain.ErrUnauthorized)
	}
	// The context user is built from token claims; re-read the profile so
	// a deactivation or demotion takes effect before token expiry.
	u, err := s.store.GetBackofficeUser(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: unknown caller", domain.ErrUnauthorized)
		}
		return fmt.Errorf("get caller: %w", err)
	}
	if u.Role != backoffice.RoleSuperadmin || !u.Active() {
		return fmt.Errorf("%w: superadmin required", domain.ErrForbidden)
	}
	return nil
}

// CreateUser provisions a backoffice account: identity first, profile
// second. When the profile insert fails the identity is deleted so no
// orphaned credential remains.
func (s *BackofficeService) CreateUser(ctx context.Context, caller *backoffice.User, req backoffice.CreateRequest) (*backoffice.User, error) {
	if err := s.authorize(ctx, caller); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	// Refuse before phase one when the email already has a profile, so
	// no identity is created only to be rolled back.
	if _, err := s.store.GetBackofficeUserByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	id, err := s.ids.CreateIdentity(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
		}
		return nil, fmt.Errorf("create identity: %w", err)
	}

	now := time.Now().UTC()
	u := &backoffice.User{
		ID:        id.ID,
		Email:     req.Email,
		Name:      req.Name,
		Role:      req.Role,
		Status:    req.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if u.Status == "" {
		u.Status = backoffice.StatusActive
	}

	if err := s.store.CreateBackofficeUser(ctx, u); err != nil {
		// Compensate: remove the identity so the operation leaves no trace.
		if delErr := s.ids.DeleteIdentity(ctx, id.ID); delErr != nil {
			slog.Error("failed to roll back identity after profile insert failure",
				"identity_id", id.ID, "error", delErr)
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}

	s.publish(ctx, changefeed.OpInsert, u.ID)
	slog.Info("backoffice user created", "user_id", u.ID, "role", u.Role, "by", caller.ID)
	return u, nil
}

// DeleteUser removes a backoffice account. The identity is deleted and
// the profile row goes with it through the store-level cascade.
// Superadmin accounts and the caller's own account cannot be deleted.
func (s *BackofficeService) DeleteUser(ctx context.Context, caller *backoffice.User, id string) error {
	if err := s.authorize(ctx, caller); err != nil {
		return err
	}

	target, err := s.store.GetBackofficeUser(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: user not found", domain.ErrNotFound)
		}
		return fmt.Errorf("get user: %w", err)
	}

	if target.Role == backoffice.RoleSuperadmin {
		return fmt.Errorf("%w: superadmin accounts cannot be deleted", domain.ErrForbidden)
	}
	if target.ID == caller.ID {
		return fmt.Errorf("%w: cannot delete own account", domain.ErrForbidden)
	}

	if err := s.ids.DeleteIdentity(ctx, target.ID); err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}

	s.publish(ctx, changefeed.OpDelete, target.ID)
	slog.Info("backoffice user deleted", "user_id", target.ID, "by", caller.ID)
	return nil
}

// ListUsers returns all backoffice accounts.
func (s *BackofficeService) ListUsers(ctx context.Context, caller *backoffice.User) ([]backoffice.User, error) {
	if err := s.authorize(ctx, caller); err != nil {
		return nil, err
	}
	return s.store.ListBackofficeUsers(ctx)
}

// GetUser returns a backoffice account by ID.
func (s *BackofficeService) GetUser(ctx context.Context, caller *backoffice.User, id string) (*backoffice.User, error) {
	if err := s.authorize(ctx, caller); err != nil {
		return nil, err
	}
	return s.store.GetBackofficeUser(ctx, id)
}

// UpdateUser updates name, role, or status of a backoffice account.
// A superadmin profile cannot be demoted or deactivated here.
func (s *BackofficeService) UpdateUser(ctx context.Context, caller *backoffice.User, id string, req backoffice.UpdateRequest) (*backoffice.User, error) {
	if err := s.authorize(ctx, caller); err != nil {
		return nil, err
	}

	u, err := s.store.GetBackofficeUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Role == backoffice.RoleSuperadmin && (req.Role != "" && req.Role != backoffice.RoleSuperadmin || req.Status == backoffice.StatusInactive) {
		return nil, fmt.Errorf("%w: superadmin accounts cannot be demoted or deactivated", domain.ErrForbidden)
	}

	if req.Name != "" {
		u.Name = req.Name
	}
	if req.Role != "" {
		if !backoffice.ValidRoles[req.Role] {
			return nil, fmt.Errorf("%w: invalid role", domain.ErrValidation)
		}
		u.Role = req.Role
	}
	if req.Status != "" {
		if !backoffice.ValidStatuses[req.Status] {
			return nil, fmt.Errorf("%w: invalid status", domain.ErrValidation)
		}
		u.Status = req.Status
	}
	u.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateBackofficeUser(ctx, u); err != nil {
		return nil, err
	}

	s.publish(ctx, changefeed.OpUpdate, u.ID)
	return u, nil
}

func (s *BackofficeService) publish(ctx context.Context, op changefeed.Op, entityID string) {
	if s.feed == nil {
		return
	}
	e := changefeed.Event{Table: tableBackofficeUsers, Op: op, EntityID: entityID}
	if err := s.feed.Publish(ctx, e); err != nil {
		slog.Warn("failed to publish change event", "table", e.Table, "op", e.Op, "error", err)
	}
}
