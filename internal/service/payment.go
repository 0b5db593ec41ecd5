package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Strob0t/StayForge/internal/domain"
	"github.com/Strob0t/StayForge/internal/domain/payment"
	"github.com/Strob0t/StayForge/internal/domain/tenant"
	"github.com/Strob0t/StayForge/internal/port/changefeed"
	"github.com/Strob0t/StayForge/internal/port/database"
)

const tablePayments = "payments"

// PaymentService manages rent payments and rolls their settlement
// state up into the owing tenant's payment status.
type PaymentService struct {
	store database.Store
	feed  changefeed.Feed
}

// NewPaymentService creates a new payment service.
func NewPaymentService(store database.Store, feed changefeed.Feed) *PaymentService {
	return &PaymentService{store: store, feed: feed}
}

// List returns all payments of a property.
func (s *PaymentService) List(ctx context.Context, propertyID string) ([]payment.Payment, error) {
	return s.store.ListPayments(ctx, propertyID)
}

// Get returns a payment by ID.
func (s *PaymentService) Get(ctx context.Context, id string) (*payment.Payment, error) {
	return s.store.GetPayment(ctx, id)
}

// Create records a payment.
func (s *PaymentService) Create(ctx context.Context, req payment.CreateRequest) (*payment.Payment, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}
	if _, err := s.store.GetTenant(ctx, req.TenantID); err != nil {
		return nil, fmt.Errorf("tenant: %w", err)
	}

	if req.Status == payment.StatusPaid && req.PaidAt == nil {
		now := time.Now().UTC()
		req.PaidAt = &now
	}

	p, err := s.store.CreatePayment(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	s.syncTenantStatus(ctx, p.PropertyID, p.TenantID)
	publishEvent(ctx, s.feed, changefeed.Event{
		Table: tablePayments, Op: changefeed.OpInsert, EntityID: p.ID, PropertyID: p.PropertyID,
	})
	return p, nil
}

// Update applies the set fields of req to a payment. Marking a payment
// paid stamps paid_at when none was provided.
func (s *PaymentService) Update(ctx context.Context, id string, req payment.UpdateRequest) (*payment.Payment, error) {
	p, err := s.store.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Amount != nil {
		if *req.Amount <= 0 {
			return nil, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
		}
		p.Amount = *req.Amount
	}
	if req.PaidAt != nil {
		p.PaidAt = req.PaidAt
	}
	if req.Status != "" {
		if !payment.ValidStatuses[req.Status] {
			return nil, fmt.Errorf("%w: invalid status", domain.ErrValidation)
		}
		p.Status = req.Status
		if p.Status == payment.StatusPaid && p.PaidAt == nil {
			now := time.Now().UTC()
			p.PaidAt = &now
		}
	}
	if req.Method != "" {
		p.Method = req.Method
	}
	if req.Notes != "" {
		p.Notes = req.Notes
	}

	if err := s.store.UpdatePayment(ctx, p); err != nil {
		return nil, err
	}

	s.syncTenantStatus(ctx, p.PropertyID, p.TenantID)
	publishEvent(ctx, s.feed, changefeed.Event{
		Table: tablePayments, Op: changefeed.OpUpdate, EntityID: p.ID, PropertyID: p.PropertyID,
	})
	return p, nil
}

// Delete removes a payment.
func (s *PaymentService) Delete(ctx context.Context, id string) error {
	p, err := s.store.GetPayment(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.DeletePayment(ctx, id); err != nil {
		return err
	}

	s.syncTenantStatus(ctx, p.PropertyID, p.TenantID)
	publishEvent(ctx, s.feed, changefeed.Event{
		Table: tablePayments, Op: changefeed.OpDelete, EntityID: id, PropertyID: p.PropertyID,
	})
	return nil
}

// syncTenantStatus recomputes a tenant's rolled-up payment status from
// their open payments: any overdue wins, then any pending, else paid.
// Sync failure is logged, not returned; the payment mutation already
// committed.
func (s *PaymentService) syncTenantStatus(ctx context.Context, propertyID, tenantID string) {
	payments, err := s.store.ListPayments(ctx, propertyID)
	if err != nil {
		slog.Warn("failed to list payments for tenant status sync", "tenant_id", tenantID, "error", err)
		return
	}

	status := tenant.PaymentPaid
	for i := range payments {
		if payments[i].TenantID != tenantID {
			continue
		}
		switch payments[i].Status {
		case payment.StatusOverdue:
			status = tenant.PaymentOverdue
		case payment.StatusPending:
			if status != tenant.PaymentOverdue {
				status = tenant.PaymentPending
			}
		}
	}

	t, err := s.store.GetTenant(ctx, tenantID)
	if err != nil {
		slog.Warn("failed to load tenant for status sync", "tenant_id", tenantID, "error", err)
		return
	}
	if t.PaymentStatus == status {
		return
	}
	t.PaymentStatus = status
	if err := s.store.UpdateTenant(ctx, t); err != nil {
		slog.Warn("failed to update tenant payment status", "tenant_id", tenantID, "error", err)
		return
	}
	publishEvent(ctx, s.feed, changefeed.Event{
		Table: tableTenants, Op: changefeed.OpUpdate, EntityID: t.ID, PropertyID: t.PropertyID,
	})
}
