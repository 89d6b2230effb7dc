// Package cache provides a tagged, TTL-aware metric cache with pluggable
// backing stores. Reads and writes fail open: a broken store degrades the
// cache to a pass-through rather than failing callers.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hsh723/rocket-sourcer-sub001/pkg/logger"
	"github.com/hsh723/rocket-sourcer-sub001/pkg/metrics"
)

const defaultTTL = time.Hour

// Cache wraps a Store with JSON serialization, namespaced keys, hit/miss
// statistics and fail-open semantics.
type Cache struct {
	store Store
	keys  *KeyBuilder
	stats *Stats
	ttl   time.Duration
	log   logger.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithDefaultTTL sets the TTL applied when a caller passes ttl <= 0.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithNamespace sets the key namespace prepended to every cache key.
func WithNamespace(ns string) Option {
	return func(c *Cache) {
		if ns != "" {
			c.keys = NewKeyBuilder(ns)
		}
	}
}

// WithLogger sets the logger used for fail-open warnings.
func WithLogger(log logger.Logger) Option {
	return func(c *Cache) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a Cache backed by the given store.
func New(store Store, opts ...Option) *Cache {
	c := &Cache{
		store: store,
		keys:  NewKeyBuilder("sourcer"),
		stats: NewStats(),
		ttl:   defaultTTL,
		log:   logger.Named("cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key builds a namespaced cache key from the given segments.
func (c *Cache) Key(segments ...string) string {
	return c.keys.Key(segments...)
}

// Prefix builds a namespaced key prefix from the given segments.
func (c *Cache) Prefix(segments ...string) string {
	return c.keys.Prefix(segments...)
}

// Get loads the value stored under key into dest, which must be a pointer.
// It reports whether a usable value was found. Store and decode failures
// count as misses.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	start := time.Now()
	defer func() { metrics.RecordCacheOpLatency(float64(time.Since(start).Milliseconds())) }()

	raw, found, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.Warn(ctx, "cache get failed", logger.String("key", key), logger.Error(err))
		metrics.RecordCacheError("get")
		c.miss(key)
		return false
	}
	if !found {
		c.miss(key)
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.log.Warn(ctx, "cache entry decode failed", logger.String("key", key), logger.Error(err))
		metrics.RecordCacheError("decode")
		c.miss(key)
		return false
	}
	c.hit(key)
	return true
}

// Put stores value under key with the given TTL and tags. A ttl <= 0 uses
// the cache default. Put reports whether the value was stored.
func (c *Cache) Put(ctx context.Context, key string, value any, ttl time.Duration, tags ...string) bool {
	if ttl <= 0 {
		ttl = c.ttl
	}
	raw, err := json.Marshal(value)
	if err != nil {
		c.log.Warn(ctx, "cache entry encode failed", logger.String("key", key), logger.Error(err))
		metrics.RecordCacheError("encode")
		return false
	}
	if err := c.store.Put(ctx, key, raw, ttl, tags); err != nil {
		c.log.Warn(ctx, "cache put failed", logger.String("key", key), logger.Error(err))
		metrics.RecordCacheError("put")
		return false
	}
	c.stats.RecordSet()
	metrics.RecordCacheSet()
	if n := c.store.Len(ctx); n >= 0 {
		metrics.UpdateCacheEntryCount(n)
	}
	return true
}

// Remember loads the value under key into dest, computing and caching it on
// a miss. On any cache failure the computed value is still returned to the
// caller; it is simply not cached.
func (c *Cache) Remember(ctx context.Context, key string, ttl time.Duration, dest any, compute func() (any, error)) error {
	if c.Get(ctx, key, dest) {
		return nil
	}
	value, err := compute()
	if err != nil {
		return err
	}
	c.Put(ctx, key, value, ttl)
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// Forget removes the value stored under key and reports whether a value
// was removed.
func (c *Cache) Forget(ctx context.Context, key string) bool {
	removed, err := c.store.Delete(ctx, key)
	if err != nil {
		c.log.Warn(ctx, "cache delete failed", logger.String("key", key), logger.Error(err))
		metrics.RecordCacheError("delete")
		return false
	}
	if removed {
		c.stats.RecordDelete()
		metrics.RecordCacheDelete()
	}
	return removed
}

// ForgetByPrefix removes every entry whose key starts with prefix. It
// reports whether the backing store supports prefix invalidation.
func (c *Cache) ForgetByPrefix(ctx context.Context, prefix string) bool {
	supported, err := c.store.DeleteByPrefix(ctx, prefix)
	if err != nil {
		c.log.Warn(ctx, "cache prefix flush failed", logger.String("prefix", prefix), logger.Error(err))
		metrics.RecordCacheError("flush_prefix")
		return false
	}
	if supported {
		c.stats.RecordFlush()
		metrics.RecordCacheFlush()
	}
	return supported
}

// FlushByTags removes every entry associated with any of the tags. It
// reports whether the backing store supports tag invalidation.
func (c *Cache) FlushByTags(ctx context.Context, tags ...string) bool {
	supported, err := c.store.DeleteByTags(ctx, tags)
	if err != nil {
		c.log.Warn(ctx, "cache tag flush failed", logger.Error(err))
		metrics.RecordCacheError("flush_tags")
		return false
	}
	if supported {
		c.stats.RecordFlush()
		metrics.RecordCacheFlush()
	}
	return supported
}

// Stats returns a snapshot of cache activity since the last reset.
func (c *Cache) Stats() StatsSnapshot {
	return c.stats.Snapshot()
}

// ResetStats zeroes all counters and the tracked key frequencies.
func (c *Cache) ResetStats() {
	c.stats.Reset()
}

func (c *Cache) hit(key string) {
	c.stats.RecordHit(key)
	metrics.RecordCacheHit()
}

func (c *Cache) miss(key string) {
	c.stats.RecordMiss(key)
	metrics.RecordCacheMiss()
}
