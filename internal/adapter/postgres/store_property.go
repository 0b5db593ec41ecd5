package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Strob0t/StayForge/internal/domain/property"
)

func scanProperty(row scannable) (property.Property, error) {
	var p property.Property
	err := row.Scan(&p.ID, &p.Name, &p.Address, &p.City, &p.Phone, &p.Email, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

const propertyColumns = `id, name, address, city, phone, email, owner_id, created_at, updated_at`

// ListProperties returns all properties for an owner, newest first.
// Empty ownerID returns every property (backoffice view).
func (s *Store) ListProperties(ctx context.Context, ownerID string) ([]property.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties ORDER BY created_at DESC`
	args := []any{}
	if ownerID != "" {
		query = `SELECT ` + propertyColumns + ` FROM properties WHERE owner_id = $1 ORDER BY created_at DESC`
		args = append(args, ownerID)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()

	var properties []property.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

func (s *Store) GetProperty(ctx context.Context, id string) (*property.Property, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE id = $1`, id)

	p, err := scanProperty(row)
	if err != nil {
		return nil, notFoundWrap(err, "get property %s", id)
	}
	return &p, nil
}

func (s *Store) CreateProperty(ctx context.Context, req property.CreateRequest) (*property.Property, error) {
	now := time.Now().UTC()
	row := s.pool.QueryRow(ctx,
		`INSERT INTO properties (id, name, address, city, phone, email, owner_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		 RETURNING `+propertyColumns,
		uuid.NewString(), req.Name, req.Address, req.City, req.Phone, req.Email, req.OwnerID, now)

	p, err := scanProperty(row)
	if err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}
	return &p, nil
}

func (s *Store) UpdateProperty(ctx context.Context, p *property.Property) error {
	p.UpdatedAt = time.Now().UTC()
	tag, err := s.pool.Exec(ctx,
		`UPDATE properties SET name = $2, address = $3, city = $4, phone = $5, email = $6, updated_at = $7
		 WHERE id = $1`,
		p.ID, p.Name, p.Address, p.City, p.Phone, p.Email, p.UpdatedAt)
	return execExpectOne(tag, err, "update property %s", p.ID)
}

func (s *Store) DeleteProperty(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	return execExpectOne(tag, err, "delete property %s", id)
}
