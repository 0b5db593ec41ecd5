// Package nats implements the change feed port over NATS.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/Strob0t/StayForge/internal/port/changefeed"
)

// subjectPrefix namespaces all change events.
const subjectPrefix = "stayforge.changes."

// Feed implements changefeed.Feed using core NATS pub/sub. Change
// events are reload triggers, not records, so at-most-once delivery
// is acceptable: a missed event is corrected by the next one or by
// the consumer's own refresh.
type Feed struct {
	nc *nats.Conn
}

// Connect establishes a connection to NATS.
func Connect(url string) (*Feed, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	slog.Info("nats connected", "url", url)
	return &Feed{nc: nc}, nil
}

// Publish emits a change event on the table's subject.
func (f *Feed) Publish(_ context.Context, e changefeed.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	if err := f.nc.Publish(subjectPrefix+e.Table, data); err != nil {
		return fmt.Errorf("nats publish %s: %w", e.Table, err)
	}
	return nil
}

// Subscribe registers a handler for change events passing the filter.
// An empty filter table subscribes to every table.
func (f *Feed) Subscribe(ctx context.Context, filter changefeed.Filter, handler changefeed.Handler) (func(), error) {
	subject := subjectPrefix + "*"
	if filter.Table != "" {
		subject = subjectPrefix + filter.Table
	}

	sub, err := f.nc.Subscribe(subject, func(msg *nats.Msg) {
		var e changefeed.Event
		if err := json.Unmarshal(msg.Data, &e); err != nil {
			slog.Error("malformed change event", "subject", msg.Subject, "error", err)
			return
		}
		if !filter.Matches(e) {
			return
		}
		handler(ctx, e)
	})
	if err != nil {
		return nil, fmt.Errorf("nats subscribe %s: %w", subject, err)
	}

	return func() {
		if err := sub.Unsubscribe(); err != nil {
			slog.Debug("nats unsubscribe failed", "subject", subject, "error", err)
		}
	}, nil
}

// Connected reports whether the underlying connection is up.
func (f *Feed) Connected() bool {
	return f.nc.IsConnected()
}

// Close shuts down the NATS connection.
func (f *Feed) Close() error {
	f.nc.Close()
	return nil
}
