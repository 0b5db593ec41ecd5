package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Strob0t/StayForge/internal/domain/tenant"
)

const tenantColumns = `id, property_id, room_id, name, phone, email, lease_start, lease_end, status, payment_status, created_at, updated_at`

func scanTenant(row scannable) (tenant.Tenant, error) {
	var t tenant.Tenant
	err := row.Scan(&t.ID, &t.PropertyID, &t.RoomID, &t.Name, &t.Phone, &t.Email,
		&t.LeaseStart, &t.LeaseEnd, &t.Status, &t.PaymentStatus, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// ListTenants returns all tenants of a property, newest first.
func (s *Store) ListTenants(ctx context.Context, propertyID string) ([]tenant.Tenant, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE property_id = $1 ORDER BY created_at DESC`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []tenant.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

func (s *Store) GetTenant(ctx context.Context, id string) (*tenant.Tenant, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id)

	t, err := scanTenant(row)
	if err != nil {
		return nil, notFoundWrap(err, "get tenant %s", id)
	}
	return &t, nil
}

func (s *Store) CreateTenant(ctx context.Context, req tenant.CreateRequest) (*tenant.Tenant, error) {
	now := time.Now().UTC()
	row := s.pool.QueryRow(ctx,
		`INSERT INTO tenants (id, property_id, room_id, name, phone, email, lease_start, lease_end, status, payment_status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		 RETURNING `+tenantColumns,
		uuid.NewString(), req.PropertyID, req.RoomID, req.Name, req.Phone, req.Email,
		req.LeaseStart, nullTime(req.LeaseEnd), tenant.StatusActive, tenant.PaymentPending, now)

	t, err := scanTenant(row)
	if err != nil {
		return nil, fmt.Errorf("create tenant: %w", err)
	}
	return &t, nil
}

func (s *Store) UpdateTenant(ctx context.Context, t *tenant.Tenant) error {
	t.UpdatedAt = time.Now().UTC()
	tag, err := s.pool.Exec(ctx,
		`UPDATE tenants SET room_id = $2, name = $3, phone = $4, email = $5, lease_end = $6, status = $7, payment_status = $8, updated_at = $9
		 WHERE id = $1`,
		t.ID, t.RoomID, t.Name, t.Phone, t.Email, nullTime(t.LeaseEnd), t.Status, t.PaymentStatus, t.UpdatedAt)
	return execExpectOne(tag, err, "update tenant %s", t.ID)
}

func (s *Store) DeleteTenant(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	return execExpectOne(tag, err, "delete tenant %s", id)
}

// CountActiveTenants returns the number of tenants with status=active
// for a property.
func (s *Store) CountActiveTenants(ctx context.Context, propertyID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM tenants WHERE property_id = $1 AND status = $2`,
		propertyID, tenant.StatusActive).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count active tenants: %w", err)
	}
	return count, nil
}
