// Package dedupe tracks alert fingerprints so identical state transitions
// are reported at most once.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Deduper records seen fingerprints for at-most-once alert delivery.
type Deduper interface {
	// SeenAndRecord atomically checks if fingerprint was seen and records
	// it if not. Returns true if it was already seen.
	SeenAndRecord(ctx context.Context, fingerprint string) bool

	// Unrecord removes a fingerprint, allowing the alert to fire again.
	// Intended for alerts that were recorded but failed to dispatch.
	Unrecord(ctx context.Context, fingerprint string)

	Size() int64
}

// inMemoryDeduper implements Deduper with a map plus a FIFO ring for
// bounded eviction. With maxSize <= 0 the map grows without bound.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	ring    []string
	next    int
	maxSize int
	size    atomic.Int64
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: 10000,
	}

	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[string]struct{})
	if d.maxSize > 0 {
		d.ring = make([]string, d.maxSize)
	}

	return d
}

func (d *inMemoryDeduper) SeenAndRecord(ctx context.Context, fingerprint string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[fingerprint]; exists {
		return true
	}

	if d.maxSize > 0 {
		// Evict the oldest fingerprint occupying this ring slot.
		if old := d.ring[d.next]; old != "" {
			if _, ok := d.seen[old]; ok {
				delete(d.seen, old)
				d.size.Add(-1)
			}
		}
		d.ring[d.next] = fingerprint
		d.next = (d.next + 1) % d.maxSize
	}

	d.seen[fingerprint] = struct{}{}
	d.size.Add(1)
	return false
}

func (d *inMemoryDeduper) Unrecord(ctx context.Context, fingerprint string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[fingerprint]; exists {
		delete(d.seen, fingerprint)
		d.size.Add(-1)
	}
}

// Size returns the current number of tracked fingerprints.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
