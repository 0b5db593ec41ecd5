package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Strob0t/StayForge/internal/domain/payment"
)

const paymentColumns = `id, property_id, tenant_id, room_id, amount, paid_at, due_date, status, method, notes, created_at, updated_at`

func scanPayment(row scannable) (payment.Payment, error) {
	var p payment.Payment
	err := row.Scan(&p.ID, &p.PropertyID, &p.TenantID, &p.RoomID, &p.Amount, &p.PaidAt,
		&p.DueDate, &p.Status, &p.Method, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// ListPayments returns all payments of a property, newest first.
func (s *Store) ListPayments(ctx context.Context, propertyID string) ([]payment.Payment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE property_id = $1 ORDER BY created_at DESC`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []payment.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (s *Store) GetPayment(ctx context.Context, id string) (*payment.Payment, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)

	p, err := scanPayment(row)
	if err != nil {
		return nil, notFoundWrap(err, "get payment %s", id)
	}
	return &p, nil
}

func (s *Store) CreatePayment(ctx context.Context, req payment.CreateRequest) (*payment.Payment, error) {
	now := time.Now().UTC()
	row := s.pool.QueryRow(ctx,
		`INSERT INTO payments (id, property_id, tenant_id, room_id, amount, paid_at, due_date, status, method, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		 RETURNING `+paymentColumns,
		uuid.NewString(), req.PropertyID, req.TenantID, req.RoomID, req.Amount,
		nullTime(req.PaidAt), req.DueDate, req.Status, req.Method, req.Notes, now)

	p, err := scanPayment(row)
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	return &p, nil
}

func (s *Store) UpdatePayment(ctx context.Context, p *payment.Payment) error {
	p.UpdatedAt = time.Now().UTC()
	tag, err := s.pool.Exec(ctx,
		`UPDATE payments SET amount = $2, paid_at = $3, status = $4, method = $5, notes = $6, updated_at = $7
		 WHERE id = $1`,
		p.ID, p.Amount, nullTime(p.PaidAt), p.Status, p.Method, p.Notes, p.UpdatedAt)
	return execExpectOne(tag, err, "update payment %s", p.ID)
}

func (s *Store) DeletePayment(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	return execExpectOne(tag, err, "delete payment %s", id)
}

// SumPayments returns the total amount over payments of a property
// whose status is in the given set.
func (s *Store) SumPayments(ctx context.Context, propertyID string, statuses []payment.Status) (float64, error) {
	strs := make([]string, len(statuses))
	for i, st := range statuses {
		strs[i] = string(st)
	}

	var sum float64
	err := s.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE property_id = $1 AND status = ANY($2)`,
		propertyID, strs).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum payments: %w", err)
	}
	return sum, nil
}
