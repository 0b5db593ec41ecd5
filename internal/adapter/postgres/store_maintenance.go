package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Strob0t/StayForge/internal/domain/maintenance"
)

const maintenanceColumns = `id, property_id, room_id, tenant_id, title, description, reported_at, status, priority, created_at, updated_at`

func scanMaintenance(row scannable) (maintenance.Request, error) {
	var m maintenance.Request
	err := row.Scan(&m.ID, &m.PropertyID, &m.RoomID, &m.TenantID, &m.Title, &m.Description,
		&m.ReportedAt, &m.Status, &m.Priority, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// ListMaintenanceRequests returns all maintenance requests of a property, newest first.
func (s *Store) ListMaintenanceRequests(ctx context.Context, propertyID string) ([]maintenance.Request, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+maintenanceColumns+` FROM maintenance_requests WHERE property_id = $1 ORDER BY created_at DESC`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("list maintenance requests: %w", err)
	}
	defer rows.Close()

	var requests []maintenance.Request
	for rows.Next() {
		m, err := scanMaintenance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan maintenance request: %w", err)
		}
		requests = append(requests, m)
	}
	return requests, rows.Err()
}

func (s *Store) GetMaintenanceRequest(ctx context.Context, id string) (*maintenance.Request, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+maintenanceColumns+` FROM maintenance_requests WHERE id = $1`, id)

	m, err := scanMaintenance(row)
	if err != nil {
		return nil, notFoundWrap(err, "get maintenance request %s", id)
	}
	return &m, nil
}

func (s *Store) CreateMaintenanceRequest(ctx context.Context, req maintenance.CreateRequest) (*maintenance.Request, error) {
	now := time.Now().UTC()
	row := s.pool.QueryRow(ctx,
		`INSERT INTO maintenance_requests (id, property_id, room_id, tenant_id, title, description, reported_at, status, priority, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		 RETURNING `+maintenanceColumns,
		uuid.NewString(), req.PropertyID, req.RoomID, req.TenantID, req.Title, req.Description,
		now, maintenance.StatusPending, req.Priority, now)

	m, err := scanMaintenance(row)
	if err != nil {
		return nil, fmt.Errorf("create maintenance request: %w", err)
	}
	return &m, nil
}

func (s *Store) UpdateMaintenanceRequest(ctx context.Context, m *maintenance.Request) error {
	m.UpdatedAt = time.Now().UTC()
	tag, err := s.pool.Exec(ctx,
		`UPDATE maintenance_requests SET title = $2, description = $3, status = $4, priority = $5, updated_at = $6
		 WHERE id = $1`,
		m.ID, m.Title, m.Description, m.Status, m.Priority, m.UpdatedAt)
	return execExpectOne(tag, err, "update maintenance request %s", m.ID)
}

func (s *Store) DeleteMaintenanceRequest(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM maintenance_requests WHERE id = $1`, id)
	return execExpectOne(tag, err, "delete maintenance request %s", id)
}
