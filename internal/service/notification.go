package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Strob0t/StayForge/internal/domain"
	"github.com/Strob0t/StayForge/internal/domain/notification"
	"github.com/Strob0t/StayForge/internal/port/changefeed"
	"github.com/Strob0t/StayForge/internal/port/database"
)

const tableNotifications = "notifications"

// NotificationService manages notifications and their live feeds.
type NotificationService struct {
	store database.Store
	feed  changefeed.Feed
}

// NewNotificationService creates a new notification service.
func NewNotificationService(store database.Store, feed changefeed.Feed) *NotificationService {
	return &NotificationService{store: store, feed: feed}
}

// List returns the notifications visible to a user: rows targeted at
// them plus broadcasts, newest first. A non-empty propertyID narrows
// the list to that property.
func (s *NotificationService) List(ctx context.Context, userID, propertyID string) ([]notification.Notification, error) {
	return s.store.ListNotifications(ctx, database.NotificationFilter{
		UserID:     userID,
		PropertyID: propertyID,
	})
}

// Get returns a notification by ID.
func (s *NotificationService) Get(ctx context.Context, id string) (*notification.Notification, error) {
	return s.store.GetNotification(ctx, id)
}

// Create publishes a notification. New notifications always start unread.
func (s *NotificationService) Create(ctx context.Context, req notification.CreateRequest) (*notification.Notification, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	n, err := s.store.CreateNotification(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	s.publish(ctx, changefeed.OpInsert, n)
	return n, nil
}

// MarkRead marks a single notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	if err := s.store.MarkNotificationRead(ctx, id); err != nil {
		return err
	}
	s.publishID(ctx, changefeed.OpUpdate, id, "")
	return nil
}

// MarkAllRead marks every unread notification visible to the user as
// read and returns how many rows changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID, propertyID string) (int, error) {
	n, err := s.store.MarkAllNotificationsRead(ctx, database.NotificationFilter{
		UserID:     userID,
		PropertyID: propertyID,
	})
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.publishID(ctx, changefeed.OpUpdate, "", propertyID)
	}
	return n, nil
}

// Delete removes a notification.
func (s *NotificationService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteNotification(ctx, id); err != nil {
		return err
	}
	s.publishID(ctx, changefeed.OpDelete, id, "")
	return nil
}

func (s *NotificationService) publish(ctx context.Context, op changefeed.Op, n *notification.Notification) {
	propertyID := ""
	if n.PropertyID != nil {
		propertyID = *n.PropertyID
	}
	userID := ""
	if n.UserID != nil {
		userID = *n.UserID
	}
	if s.feed == nil {
		return
	}
	e := changefeed.Event{
		Table:      tableNotifications,
		Op:         op,
		EntityID:   n.ID,
		PropertyID: propertyID,
		UserID:     userID,
	}
	if err := s.feed.Publish(ctx, e); err != nil {
		slog.Warn("failed to publish change event", "table", e.Table, "op", e.Op, "error", err)
	}
}

func (s *NotificationService) publishID(ctx context.Context, op changefeed.Op, id, propertyID string) {
	if s.feed == nil {
		return
	}
	e := changefeed.Event{Table: tableNotifications, Op: op, EntityID: id, PropertyID: propertyID}
	if err := s.feed.Publish(ctx, e); err != nil {
		slog.Warn("failed to publish change event", "table", e.Table, "op", e.Op, "error", err)
	}
}

// FeedOptions configures a live notification feed. An empty PropertyID
// delivers everything visible to the user; a non-empty one narrows the
// feed to that property.
type FeedOptions struct {
	PropertyID string
}

// NotificationFeed is a live, per-user view of visible notifications.
// Any matching change event invalidates the whole view and reloads it
// from the store; there is no incremental merge.
type NotificationFeed struct {
	svc      *NotificationService
	userID   string
	opts     FeedOptions
	onReload func()

	mu     sync.RWMutex
	items  []notification.Notification
	closed bool

	cancel func()
}

// OpenFeed loads the user's current notifications and subscribes to
// change events that keep the view fresh. Callers must Close the feed
// when the user signs out.
func (s *NotificationService) OpenFeed(ctx context.Context, userID string, opts FeedOptions) (*NotificationFeed, error) {
	f := &NotificationFeed{svc: s, userID: userID, opts: opts}

	if err := f.reload(ctx); err != nil {
		return nil, fmt.Errorf("initial load: %w", err)
	}

	if s.feed != nil {
		filter := changefeed.Filter{Table: tableNotifications, PropertyID: opts.PropertyID}
		cancel, err := s.feed.Subscribe(ctx, filter, func(ctx context.Context, _ changefeed.Event) {
			if err := f.reload(ctx); err != nil {
				slog.Warn("notification feed reload failed", "user_id", userID, "error", err)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("subscribe: %w", err)
		}
		f.cancel = cancel
	}

	return f, nil
}

// SetOnReload registers a hook invoked after every successful reload.
func (f *NotificationFeed) SetOnReload(fn func()) {
	f.mu.Lock()
	f.onReload = fn
	f.mu.Unlock()
}

func (f *NotificationFeed) reload(ctx context.Context) error {
	items, err := f.svc.List(ctx, f.userID, f.opts.PropertyID)
	if err != nil {
		return err
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.items = items
	hook := f.onReload
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return nil
}

// Items returns the current view of visible notifications.
func (f *NotificationFeed) Items() []notification.Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]notification.Notification, len(f.items))
	copy(out, f.items)
	return out
}

// Unread returns how many notifications in the view are unread.
func (f *NotificationFeed) Unread() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	n := 0
	for i := range f.items {
		if f.items[i].Status == notification.StatusUnread {
			n++
		}
	}
	return n
}

// Close cancels the subscription and clears the view. Called on
// sign-out so no notifications linger for the next session.
func (f *NotificationFeed) Close() {
	if f.cancel != nil {
		f.cancel()
	}
	f.mu.Lock()
	f.closed = true
	f.items = nil
	f.mu.Unlock()
}
