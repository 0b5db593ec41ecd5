package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Strob0t/StayForge/internal/domain/backoffice"
)

const backofficeColumns = `id, email, name, role, status, last_login_at, created_at, updated_at`

func scanBackofficeUser(row scannable) (backoffice.User, error) {
	var u backoffice.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.Status, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// ListBackofficeUsers returns all backoffice accounts, newest first.
func (s *Store) ListBackofficeUsers(ctx context.Context) ([]backoffice.User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+backofficeColumns+` FROM backoffice_users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list backoffice users: %w", err)
	}
	defer rows.Close()

	var users []backoffice.User
	for rows.Next() {
		u, err := scanBackofficeUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan backoffice user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) GetBackofficeUser(ctx context.Context, id string) (*backoffice.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+backofficeColumns+` FROM backoffice_users WHERE id = $1`, id)

	u, err := scanBackofficeUser(row)
	if err != nil {
		return nil, notFoundWrap(err, "get backoffice user %s", id)
	}
	return &u, nil
}

func (s *Store) GetBackofficeUserByEmail(ctx context.Context, email string) (*backoffice.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+backofficeColumns+` FROM backoffice_users WHERE email = $1`, email)

	u, err := scanBackofficeUser(row)
	if err != nil {
		return nil, notFoundWrap(err, "get backoffice user by email %s", email)
	}
	return &u, nil
}

// CreateBackofficeUser inserts a profile row for an existing identity.
// The caller supplies the identity's ID; the row is removed by the
// identities FK cascade when the identity is deleted.
func (s *Store) CreateBackofficeUser(ctx context.Context, u *backoffice.User) error {
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := s.pool.Exec(ctx,
		`INSERT INTO backoffice_users (id, email, name, role, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Email, u.Name, u.Role, u.Status, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create backoffice user: %w", err)
	}
	return nil
}

func (s *Store) UpdateBackofficeUser(ctx context.Context, u *backoffice.User) error {
	u.UpdatedAt = time.Now().UTC()
	tag, err := s.pool.Exec(ctx,
		`UPDATE backoffice_users SET name = $2, role = $3, status = $4, updated_at = $5
		 WHERE id = $1`,
		u.ID, u.Name, u.Role, u.Status, u.UpdatedAt)
	return execExpectOne(tag, err, "update backoffice user %s", u.ID)
}

// TouchBackofficeLogin stamps the last successful sign-in time.
func (s *Store) TouchBackofficeLogin(ctx context.Context, id string, at time.Time) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE backoffice_users SET last_login_at = $2 WHERE id = $1`, id, at)
	return execExpectOne(tag, err, "touch backoffice login %s", id)
}
