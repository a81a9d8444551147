package domain

import (
	"context"
	"time"
)

// CacheError is a sentinel error reported by Cache implementations.
type CacheError string

func (e CacheError) Error() string {
	return string(e)
}

// ErrCacheMiss means the key is absent or its TTL has passed.
const ErrCacheMiss = CacheError("cache: key not found")

// Cache holds short-lived values: rendered exam packages keyed by run ID and
// JSON snapshots of question banks. Values are opaque strings and may carry
// binary data.
type Cache interface {
	// Get returns ErrCacheMiss when the key is absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key for ttl. A zero ttl keeps it until evicted.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Delete is a no-op for absent keys.
	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error
}
