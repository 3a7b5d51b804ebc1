// Package cache stores computed layouts and rendered artifacts.
//
// # Backends
//
//   - [FileCache]: one file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for servers running side by side
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// # Keys
//
// Entries are addressed by keys built with a [Keyer]. [DefaultKeyer] hashes
// the content hash of the input together with every option that affects the
// output, so a changed option never serves a stale entry. [ScopedKeyer]
// prefixes keys, which the CLI uses to separate builds of different versions.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store with per-entry expiry.
type Cache interface {
	// Get returns the stored data and whether the key was present.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	// Clear removes all entries and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// Entry lifetimes.
const (
	TTLLayout = 30 * 24 * time.Hour
	TTLRender = 7 * 24 * time.Hour
)
