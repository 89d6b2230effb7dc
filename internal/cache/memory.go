package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/hsh723/rocket-sourcer-sub001/pkg/metrics"
)

// Default memory store configuration constants.
const (
	defaultSweepInterval = 1 * time.Minute
)

// entry is a single stored value with its expiry and tag labels.
type entry struct {
	value     []byte
	tags      map[string]struct{}
	expiresAt time.Time
}

func (e *entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStore implements Store with an in-process map. Expired entries are
// treated as absent on read, purged on overwrite, and swept periodically by
// a background janitor.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*entry

	sweepInterval time.Duration

	// Janitor lifecycle
	wg       sync.WaitGroup
	stopChan chan struct{}
}

// MemoryOption applies a configuration option to the MemoryStore.
type MemoryOption func(*MemoryStore)

// WithSweepInterval sets how often the janitor sweeps expired entries.
func WithSweepInterval(interval time.Duration) MemoryOption {
	return func(s *MemoryStore) {
		if interval > 0 {
			s.sweepInterval = interval
		}
	}
}

// NewMemoryStore constructs a memory store and starts its janitor.
func NewMemoryStore(ctx context.Context, opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		entries:       make(map[string]*entry),
		sweepInterval: defaultSweepInterval,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	s.stopChan = make(chan struct{})
	s.startJanitor(ctx)

	return s
}

// startJanitor starts a background goroutine that sweeps expired entries
// at the configured interval.
func (s *MemoryStore) startJanitor(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

// sweep removes expired entries and refreshes the entry-count gauge.
func (s *MemoryStore) sweep() {
	now := time.Now()

	s.mu.Lock()
	for key, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, key)
		}
	}
	count := len(s.entries)
	s.mu.Unlock()

	metrics.UpdateCacheEntryCount(count)
}

// Close stops the janitor goroutine.
func (s *MemoryStore) Close() error {
	select {
	case <-s.stopChan:
		// Channel already closed
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}

// Get implements Store.Get. Expired entries read as absent.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || e.expired(time.Now()) {
		return nil, false, nil
	}
	return e.value, true, nil
}

// Put implements Store.Put. A zero TTL stores the entry without expiry.
func (s *MemoryStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration, tags []string) error {
	e := &entry{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	if len(tags) > 0 {
		e.tags = make(map[string]struct{}, len(tags))
		for _, t := range tags {
			e.tags[t] = struct{}{}
		}
	}

	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
	return nil
}

// Delete implements Store.Delete.
func (s *MemoryStore) Delete(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; !ok {
		return false, nil
	}
	delete(s.entries, key)
	return true, nil
}

// DeleteByPrefix implements Store.DeleteByPrefix.
func (s *MemoryStore) DeleteByPrefix(ctx context.Context, prefix string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
	return true, nil
}

// DeleteByTags implements Store.DeleteByTags.
func (s *MemoryStore) DeleteByTags(ctx context.Context, tags []string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, e := range s.entries {
		for _, t := range tags {
			if _, ok := e.tags[t]; ok {
				delete(s.entries, key)
				break
			}
		}
	}
	return true, nil
}

// Len implements Store.Len.
func (s *MemoryStore) Len(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
