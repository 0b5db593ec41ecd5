package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Strob0t/StayForge/internal/domain/payment"
	"github.com/Strob0t/StayForge/internal/domain/room"
	"github.com/Strob0t/StayForge/internal/domain/stats"
	"github.com/Strob0t/StayForge/internal/port/cache"
	"github.com/Strob0t/StayForge/internal/port/changefeed"
	"github.com/Strob0t/StayForge/internal/port/database"
)

// statsSourceTables are the tables whose changes invalidate a
// property's cached snapshot.
var statsSourceTables = []string{"rooms", "tenants", "payments"}

// StatsService computes per-property statistics snapshots. Snapshots
// are cached with a short TTL and invalidated early when a change
// event touches one of the source tables.
type StatsService struct {
	store database.Store
	cache cache.Cache
	feed  changefeed.Feed
	ttl   time.Duration
}

// NewStatsService creates a new statistics service.
func NewStatsService(store database.Store, c cache.Cache, feed changefeed.Feed, ttl time.Duration) *StatsService {
	return &StatsService{store: store, cache: c, feed: feed, ttl: ttl}
}

// PropertyStats returns the statistics snapshot for a property,
// serving from cache when a fresh one exists.
func (s *StatsService) PropertyStats(ctx context.Context, propertyID string) (*stats.PropertySnapshot, error) {
	if s.cache != nil {
		if data, ok, err := s.cache.Get(ctx, snapshotKey(propertyID)); err == nil && ok {
			var snap stats.PropertySnapshot
			if err := json.Unmarshal(data, &snap); err == nil {
				return &snap, nil
			}
			// Corrupt entry: drop it and recompute.
			_ = s.cache.Delete(ctx, snapshotKey(propertyID))
		}
	}

	snap, err := s.refresh(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(snap); err == nil {
			if err := s.cache.Set(ctx, snapshotKey(propertyID), data, s.ttl); err != nil {
				slog.Warn("failed to cache stats snapshot", "property_id", propertyID, "error", err)
			}
		}
	}
	return snap, nil
}

// refresh recomputes the snapshot from the store. The four reads are
// independent and run concurrently; any failure fails the whole
// snapshot for this property only.
func (s *StatsService) refresh(ctx context.Context, propertyID string) (*stats.PropertySnapshot, error) {
	// Verify the property exists so a typo'd ID is a 404, not an
	// all-zeros snapshot.
	if _, err := s.store.GetProperty(ctx, propertyID); err != nil {
		return nil, err
	}

	var (
		rooms          []room.Room
		activeTenants  int
		totalRevenue   float64
		pendingBalance float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rooms, err = s.store.ListRooms(gctx, propertyID)
		if err != nil {
			return fmt.Errorf("list rooms: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		activeTenants, err = s.store.CountActiveTenants(gctx, propertyID)
		if err != nil {
			return fmt.Errorf("count active tenants: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		totalRevenue, err = s.store.SumPayments(gctx, propertyID, []payment.Status{payment.StatusPaid})
		if err != nil {
			return fmt.Errorf("sum revenue: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		pendingBalance, err = s.store.SumPayments(gctx, propertyID, []payment.Status{payment.StatusPending, payment.StatusOverdue})
		if err != nil {
			return fmt.Errorf("sum pending balance: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	occupied := 0
	for i := range rooms {
		if rooms[i].Status == room.StatusOccupied {
			occupied++
		}
	}

	return &stats.PropertySnapshot{
		PropertyID:     propertyID,
		TotalRooms:     len(rooms),
		OccupiedRooms:  occupied,
		OccupancyRate:  stats.Occupancy(occupied, len(rooms)),
		ActiveTenants:  activeTenants,
		TotalRevenue:   totalRevenue,
		PendingBalance: pendingBalance,
		ComputedAt:     time.Now().UTC(),
	}, nil
}

// StartInvalidation subscribes to change events on the source tables
// and drops the affected property's cached snapshot. Events without a
// property ID are ignored; they cannot move any property's numbers.
// The subscriptions end when ctx is cancelled.
func (s *StatsService) StartInvalidation(ctx context.Context) error {
	if s.cache == nil || s.feed == nil {
		return nil
	}

	cancels := make([]func(), 0, len(statsSourceTables))
	for _, table := range statsSourceTables {
		cancel, err := s.feed.Subscribe(ctx, changefeed.Filter{Table: table}, func(ctx context.Context, e changefeed.Event) {
			if e.PropertyID == "" {
				return
			}
			if err := s.cache.Delete(ctx, snapshotKey(e.PropertyID)); err != nil {
				slog.Warn("failed to invalidate stats snapshot", "property_id", e.PropertyID, "error", err)
			}
		})
		if err != nil {
			for _, c := range cancels {
				c()
			}
			return fmt.Errorf("subscribe %s: %w", table, err)
		}
		cancels = append(cancels, cancel)
	}

	go func() {
		<-ctx.Done()
		for _, c := range cancels {
			c()
		}
	}()
	return nil
}

func snapshotKey(propertyID string) string {
	return "stats:" + propertyID
}
