// Package cache defines the port interface for short-lived snapshot caching.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-value key cache with per-entry TTL. StayForge uses
// it for property statistics snapshots, keyed by property ID.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
