package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

// maxTrackedKeys caps the key-frequency map; the least-frequent key is
// evicted on overflow.
const maxTrackedKeys = 100

// Stats tracks aggregate cache activity. Counters are atomic so concurrent
// cache calls never lose increments; the key-frequency map has its own lock.
type Stats struct {
	hits    atomic.Int64
	misses  atomic.Int64
	sets    atomic.Int64
	deletes atomic.Int64
	flushes atomic.Int64

	mu        sync.Mutex
	keyFreq   map[string]int64
	lastReset time.Time
}

// StatsSnapshot is a point-in-time copy of the counters with the derived
// hit rate.
type StatsSnapshot struct {
	Hits      int64            `json:"hits"`
	Misses    int64            `json:"misses"`
	Sets      int64            `json:"sets"`
	Deletes   int64            `json:"deletes"`
	Flushes   int64            `json:"flushes"`
	HitRate   float64          `json:"hit_rate"`
	TopKeys   map[string]int64 `json:"top_keys"`
	LastReset time.Time        `json:"last_reset"`
}

// NewStats creates a zeroed stats tracker.
func NewStats() *Stats {
	return &Stats{
		keyFreq:   make(map[string]int64, maxTrackedKeys),
		lastReset: time.Now(),
	}
}

// RecordHit records a cache hit for key.
func (s *Stats) RecordHit(key string) {
	s.hits.Add(1)
	s.touch(key)
}

// RecordMiss records a cache miss for key.
func (s *Stats) RecordMiss(key string) {
	s.misses.Add(1)
	s.touch(key)
}

// RecordSet records a cache write.
func (s *Stats) RecordSet() { s.sets.Add(1) }

// RecordDelete records a single-key invalidation.
func (s *Stats) RecordDelete() { s.deletes.Add(1) }

// RecordFlush records a bulk invalidation (prefix or tags).
func (s *Stats) RecordFlush() { s.flushes.Add(1) }

// touch bumps the frequency for key, evicting the least-frequent tracked
// key when the map is full.
func (s *Stats) touch(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.keyFreq[key]; !ok && len(s.keyFreq) >= maxTrackedKeys {
		var victim string
		var min int64 = -1
		for k, n := range s.keyFreq {
			if min < 0 || n < min {
				victim, min = k, n
			}
		}
		delete(s.keyFreq, victim)
	}
	s.keyFreq[key]++
}

// Snapshot returns a copy of the current counters. Hit rate is
// hits/(hits+misses), 0 when there are no observations yet.
func (s *Stats) Snapshot() StatsSnapshot {
	hits := s.hits.Load()
	misses := s.misses.Load()

	var rate float64
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total)
	}

	s.mu.Lock()
	topKeys := make(map[string]int64, len(s.keyFreq))
	for k, n := range s.keyFreq {
		topKeys[k] = n
	}
	lastReset := s.lastReset
	s.mu.Unlock()

	return StatsSnapshot{
		Hits:      hits,
		Misses:    misses,
		Sets:      s.sets.Load(),
		Deletes:   s.deletes.Load(),
		Flushes:   s.flushes.Load(),
		HitRate:   rate,
		TopKeys:   topKeys,
		LastReset: lastReset,
	}
}

// Reset zeroes all counters and the key-frequency map.
func (s *Stats) Reset() {
	s.hits.Store(0)
	s.misses.Store(0)
	s.sets.Store(0)
	s.deletes.Store(0)
	s.flushes.Store(0)

	s.mu.Lock()
	s.keyFreq = make(map[string]int64, maxTrackedKeys)
	s.lastReset = time.Now()
	s.mu.Unlock()
}
