// Package kvstore provides a minimal key-value store abstraction with TTL
// expiry, backed by Redis in production and an in-memory map in tests and
// local development. It carries both the rate-limit windows and the
// consumer-email abuse log.
package kvstore

import (
	"context"
	"errors"
	"time"
)

// Store is a string key-value store with per-key TTL.
type Store interface {
	// Get returns the value for key and whether the key exists. A missing
	// or expired key is (_, false, nil), not an error.
	Get(ctx context.Context, key string) (string, bool, error)

	// Put stores value under key. A positive ttl makes the key self-expire;
	// zero or negative ttl stores it without expiry.
	Put(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

var (
	// ErrKeyRequired is returned when an empty key is supplied.
	ErrKeyRequired = errors.New("key is required")
	// ErrStoreUnavailable wraps backend connectivity failures.
	ErrStoreUnavailable = errors.New("kv store unavailable")
)
