package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Strob0t/StayForge/internal/domain/room"
)

const roomColumns = `id, property_id, number, floor, type, price, status, facilities, tenant_id, created_at, updated_at`

func scanRoom(row scannable) (room.Room, error) {
	var r room.Room
	err := row.Scan(&r.ID, &r.PropertyID, &r.Number, &r.Floor, &r.Type, &r.Price, &r.Status, &r.Facilities, &r.TenantID, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

// ListRooms returns all rooms of a property ordered by room number.
func (s *Store) ListRooms(ctx context.Context, propertyID string) ([]room.Room, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE property_id = $1 ORDER BY number`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []room.Room
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, r)
	}
	return rooms, rows.Err()
}

func (s *Store) GetRoom(ctx context.Context, id string) (*room.Room, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = $1`, id)

	r, err := scanRoom(row)
	if err != nil {
		return nil, notFoundWrap(err, "get room %s", id)
	}
	return &r, nil
}

func (s *Store) CreateRoom(ctx context.Context, req room.CreateRequest) (*room.Room, error) {
	now := time.Now().UTC()
	row := s.pool.QueryRow(ctx,
		`INSERT INTO rooms (id, property_id, number, floor, type, price, status, facilities, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		 RETURNING `+roomColumns,
		uuid.NewString(), req.PropertyID, req.Number, req.Floor, req.Type, req.Price,
		room.StatusVacant, pgTextArray(req.Facilities), now)

	r, err := scanRoom(row)
	if err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}
	return &r, nil
}

func (s *Store) UpdateRoom(ctx context.Context, r *room.Room) error {
	r.UpdatedAt = time.Now().UTC()
	tag, err := s.pool.Exec(ctx,
		`UPDATE rooms SET number = $2, floor = $3, type = $4, price = $5, status = $6, facilities = $7, tenant_id = $8, updated_at = $9
		 WHERE id = $1`,
		r.ID, r.Number, r.Floor, r.Type, r.Price, r.Status, pgTextArray(r.Facilities), r.TenantID, r.UpdatedAt)
	return execExpectOne(tag, err, "update room %s", r.ID)
}

func (s *Store) DeleteRoom(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	return execExpectOne(tag, err, "delete room %s", id)
}
