package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/Strob0t/StayForge/internal/domain"
	"github.com/Strob0t/StayForge/internal/port/identity"
)

// uniqueViolation is the SQLSTATE for unique constraint violations.
const uniqueViolation = "23505"

// IdentityProvider implements identity.Provider on the identities
// table. It stands in for the hosted authentication service: the
// backoffice_users FK cascades on identity deletion, mirroring the
// profile cleanup the hosted store performs.
type IdentityProvider struct {
	pool       *pgxpool.Pool
	bcryptCost int
}

// NewIdentityProvider creates an IdentityProvider with the given bcrypt cost.
func NewIdentityProvider(pool *pgxpool.Pool, bcryptCost int) *IdentityProvider {
	return &IdentityProvider{pool: pool, bcryptCost: bcryptCost}
}

// CreateIdentity registers a new identity with a hashed password.
// A duplicate email surfaces as domain.ErrConflict.
func (p *IdentityProvider) CreateIdentity(ctx context.Context, email, password string) (*identity.Identity, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	id := uuid.NewString()
	_, err = p.pool.Exec(ctx,
		`INSERT INTO identities (id, email, password_hash, email_confirmed, created_at)
		 VALUES ($1, $2, $3, TRUE, $4)`,
		id, email, string(hash), time.Now().UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("create identity %s: %w", email, domain.ErrConflict)
		}
		return nil, fmt.Errorf("create identity: %w", err)
	}

	return &identity.Identity{ID: id, Email: email}, nil
}

// DeleteIdentity removes an identity. Deleting an absent identity is
// reported as not found, never silently succeeded.
func (p *IdentityProvider) DeleteIdentity(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM identities WHERE id = $1`, id)
	return execExpectOne(tag, err, "delete identity %s", id)
}

// VerifyPassword checks a credential pair against the stored hash.
func (p *IdentityProvider) VerifyPassword(ctx context.Context, email, password string) (*identity.Identity, error) {
	var (
		id   string
		hash string
	)
	err := p.pool.QueryRow(ctx,
		`SELECT id, password_hash FROM identities WHERE email = $1`, email).Scan(&id, &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("verify password: %w", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, fmt.Errorf("verify password: %w", domain.ErrUnauthorized)
	}

	return &identity.Identity{ID: id, Email: email}, nil
}

// UpdatePassword replaces the stored hash for an email.
func (p *IdentityProvider) UpdatePassword(ctx context.Context, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	tag, err := p.pool.Exec(ctx,
		`UPDATE identities SET password_hash = $1 WHERE email = $2`, string(hash), email)
	return execExpectOne(tag, err, "reset password for %s", email)
}
