package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Strob0t/StayForge/internal/port/changefeed"
)

const meterName = "stayforge"

// Metrics holds the StayForge metric instruments. Counters are fed by
// a change-feed tap; the connection gauge observes the websocket hub.
type Metrics struct {
	meter        metric.Meter
	changeEvents metric.Int64Counter
	usersCreated metric.Int64Counter
	usersDeleted metric.Int64Counter
}

// NewMetrics creates the metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{meter: meter}
	var err error

	m.changeEvents, err = meter.Int64Counter("stayforge.changefeed.events",
		metric.WithDescription("Change events published, by table and operation"))
	if err != nil {
		return nil, err
	}

	m.usersCreated, err = meter.Int64Counter("stayforge.backoffice.users.created",
		metric.WithDescription("Backoffice users created"))
	if err != nil {
		return nil, err
	}

	m.usersDeleted, err = meter.Int64Counter("stayforge.backoffice.users.deleted",
		metric.WithDescription("Backoffice users deleted"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// TapFeed subscribes a counting handler to every change event. The
// returned cancel removes the subscription.
func (m *Metrics) TapFeed(ctx context.Context, feed changefeed.Feed) (func(), error) {
	return feed.Subscribe(ctx, changefeed.Filter{}, func(ctx context.Context, e changefeed.Event) {
		m.changeEvents.Add(ctx, 1,
			metric.WithAttributes(
				attribute.String("table", e.Table),
				attribute.String("op", string(e.Op)),
			))
		if e.Table == "backoffice_users" {
			switch e.Op {
			case changefeed.OpInsert:
				m.usersCreated.Add(ctx, 1)
			case changefeed.OpDelete:
				m.usersDeleted.Add(ctx, 1)
			}
		}
	})
}

// ObserveConnections registers a gauge reporting the current number
// of live websocket connections.
func (m *Metrics) ObserveConnections(count func() int) error {
	gauge, err := m.meter.Int64ObservableGauge("stayforge.ws.connections",
		metric.WithDescription("Open websocket connections"))
	if err != nil {
		return err
	}
	_, err = m.meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(gauge, int64(count()))
		return nil
	}, gauge)
	return err
}
