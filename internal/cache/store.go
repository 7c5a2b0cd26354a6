// Package cache provides the TTL key-value stores used to avoid redundant
// upstream calls. Stores own entry lifetime; the dispatcher never deletes.
package cache

import (
	"context"
	"time"
)

// Store is a TTL key-value store. Get returns (value, true, nil) on a live
// hit and (_, false, nil) on a miss; errors are reserved for backend
// failures, which callers treat as misses.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Noop is the disabled-cache store: every read misses, every write is
// discarded. Used when no backend is configured.
type Noop struct{}

func (Noop) Get(ctx context.Context, key string) (string, bool, error) { return "", false, nil }

func (Noop) Set(ctx context.Context, key, value string, ttl time.Duration) error { return nil }
