// Package changefeed defines the observer port for table change
// events. Consumers subscribe with a filter and reload their state on
// every matching event; there is no delta merge.
package changefeed

import "context"

// Op is the kind of mutation that produced an event.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Event describes a single row mutation.
type Event struct {
	Table      string `json:"table"`
	Op         Op     `json:"op"`
	EntityID   string `json:"entity_id"`
	PropertyID string `json:"property_id,omitempty"`
	UserID     string `json:"user_id,omitempty"`
}

// Filter narrows the events delivered to a subscriber. Zero-value
// fields match everything.
type Filter struct {
	Table      string
	PropertyID string
}

// Matches reports whether the event passes the filter.
func (f Filter) Matches(e Event) bool {
	if f.Table != "" && f.Table != e.Table {
		return false
	}
	if f.PropertyID != "" && e.PropertyID != "" && f.PropertyID != e.PropertyID {
		return false
	}
	return true
}

// Handler receives matching change events.
type Handler func(ctx context.Context, e Event)

// Feed publishes and delivers change events.
type Feed interface {
	// Publish emits an event to all matching subscribers.
	Publish(ctx context.Context, e Event) error

	// Subscribe registers a handler for events passing the filter and
	// returns a cancel function that removes the registration.
	Subscribe(ctx context.Context, filter Filter, handler Handler) (func(), error)
}
