package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Strob0t/StayForge/internal/domain/notification"
	"github.com/Strob0t/StayForge/internal/port/database"
)

const notificationColumns = `id, title, message, type, status, user_id, property_id, created_at, updated_at`

func scanNotification(row scannable) (notification.Notification, error) {
	var n notification.Notification
	err := row.Scan(&n.ID, &n.Title, &n.Message, &n.Type, &n.Status, &n.UserID, &n.PropertyID, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

// ListNotifications returns the notifications visible to the filter's
// user (targeted or broadcast), newest first, optionally narrowed to a
// property.
func (s *Store) ListNotifications(ctx context.Context, filter database.NotificationFilter) ([]notification.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications
		 WHERE (user_id IS NULL OR user_id = $1)`
	args := []any{filter.UserID}
	if filter.PropertyID != "" {
		query += ` AND (property_id IS NULL OR property_id = $2)`
		args = append(args, filter.PropertyID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []notification.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (s *Store) GetNotification(ctx context.Context, id string) (*notification.Notification, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id)

	n, err := scanNotification(row)
	if err != nil {
		return nil, notFoundWrap(err, "get notification %s", id)
	}
	return &n, nil
}

func (s *Store) CreateNotification(ctx context.Context, req notification.CreateRequest) (*notification.Notification, error) {
	now := time.Now().UTC()
	row := s.pool.QueryRow(ctx,
		`INSERT INTO notifications (id, title, message, type, status, user_id, property_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		 RETURNING `+notificationColumns,
		uuid.NewString(), req.Title, req.Message, req.Type, notification.StatusUnread,
		req.UserID, req.PropertyID, now)

	n, err := scanNotification(row)
	if err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return &n, nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE notifications SET status = $2, updated_at = $3 WHERE id = $1`,
		id, notification.StatusRead, time.Now().UTC())
	return execExpectOne(tag, err, "mark notification %s read", id)
}

// MarkAllNotificationsRead marks every unread notification visible to
// the filter's user as read and returns the number of rows changed.
// Rows targeted at other users are untouched.
func (s *Store) MarkAllNotificationsRead(ctx context.Context, filter database.NotificationFilter) (int, error) {
	query := `UPDATE notifications SET status = $2, updated_at = $3
		 WHERE status = $4 AND (user_id IS NULL OR user_id = $1)`
	args := []any{filter.UserID, notification.StatusRead, time.Now().UTC(), notification.StatusUnread}
	if filter.PropertyID != "" {
		query += ` AND (property_id IS NULL OR property_id = $5)`
		args = append(args, filter.PropertyID)
	}

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *Store) DeleteNotification(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	return execExpectOne(tag, err, "delete notification %s", id)
}
