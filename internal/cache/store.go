// Package cache provides the memoizing metric cache: per-entry TTL,
// tag and prefix invalidation, and hit/miss accounting. The cache is a
// performance layer, never a correctness dependency: every store failure
// is swallowed and the caller's computation proceeds.
package cache

import (
	"context"
	"time"
)

// Store is the backing key/value store consumed by the cache. Values are
// opaque serialized payloads. Implementations that cannot support scoped
// deletion return false from DeleteByPrefix/DeleteByTags without error.
type Store interface {
	// Get returns the stored value for key, or found=false when the key is
	// absent or expired.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Put stores value under key with the given TTL and tag labels,
	// overwriting any existing entry.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration, tags []string) error

	// Delete removes a single key. Returns true if an entry was removed.
	Delete(ctx context.Context, key string) (bool, error)

	// DeleteByPrefix removes every key sharing prefix. Returns false when
	// the store does not support prefix deletion.
	DeleteByPrefix(ctx context.Context, prefix string) (bool, error)

	// DeleteByTags removes every entry labeled with any of the tags.
	// Returns false when the store does not support tag deletion.
	DeleteByTags(ctx context.Context, tags []string) (bool, error)

	// Len returns the number of live entries, or -1 when the store cannot
	// count cheaply.
	Len(ctx context.Context) int
}
