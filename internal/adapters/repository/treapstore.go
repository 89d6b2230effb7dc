package repository

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/hsh723/rocket-sourcer-sub001/internal/domain/model"
	"github.com/hsh723/rocket-sourcer-sub001/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: score DESC, then keyword ASC (deterministic).
// The BST comparator treats "less" as ranks earlier, so an in-order
// traversal produces the ranking from best to worst.

// scoreScale controls fixed-point scaling from float64. Scores live on a
// 1..100 scale with two meaningful decimals, six gives ample headroom.
const scoreScale = 1_000_000

type scoreFP int64

func toFixedPoint(x float64) scoreFP {
	if math.IsNaN(x) {
		return 0
	}
	scaled := x * scoreScale
	if scaled > float64(math.MaxInt64) {
		return scoreFP(math.MaxInt64)
	}
	if scaled < float64(math.MinInt64) {
		return scoreFP(math.MinInt64)
	}
	return scoreFP(math.Round(scaled))
}

func toFloat(x scoreFP) float64 {
	return float64(x) / scoreScale
}

// record stores the fixed-point score plus metadata for a keyword.
type record struct {
	score  scoreFP
	tier   model.RecommendationTier
	volume int
}

// treap node
type node struct {
	keyword string
	score   scoreFP
	prio    uint64
	left    *node
	right   *node
	size    int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aScore, aKeyword) should appear before
// (bScore, bKeyword) on the ranking (higher scores first).
func less(aScore scoreFP, aKeyword string, bScore scoreFP, bKeyword string) bool {
	if aScore != bScore {
		return aScore > bScore
	}
	return aKeyword < bKeyword
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

// scoreToPriority keeps higher scores near the treap root. Negative
// fixed-point values are shifted into the positive range first.
func scoreToPriority(score scoreFP) uint64 {
	const offset = uint64(1) << 63
	return uint64(score) + offset
}

func insert(n *node, keyword string, score scoreFP) *node {
	if n == nil {
		return &node{keyword: keyword, score: score, prio: scoreToPriority(score), size: 1}
	}
	if less(score, keyword, n.score, n.keyword) {
		n.left = insert(n.left, keyword, score)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, keyword, score)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, keyword string, score scoreFP) *node {
	if n == nil {
		return nil
	}
	if score == n.score && keyword == n.keyword {
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, keyword, score)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, keyword, score)
		}
	} else if less(score, keyword, n.score, n.keyword) {
		n.left = deleteNode(n.left, keyword, score)
	} else {
		n.right = deleteNode(n.right, keyword, score)
	}
	fix(n)
	return n
}

// collectTopN appends up to limit entries in rank order (highest scores first).
func collectTopN(n *node, limit int, records map[string]record, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, records, out)
	if len(*out) < limit {
		if rec, exists := records[n.keyword]; exists {
			*out = append(*out, Entry{Keyword: n.keyword, Score: toFloat(rec.score), Tier: rec.tier, Volume: rec.volume})
		}
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, records, out)
	}
}

// collectAll appends all entries in rank order (highest scores first).
func collectAll(n *node, records map[string]record, out *[]Entry) {
	if n == nil {
		return
	}
	collectAll(n.left, records, out)
	if rec, ok := records[n.keyword]; ok {
		*out = append(*out, Entry{Keyword: n.keyword, Score: toFloat(rec.score), Tier: rec.tier, Volume: rec.volume})
	}
	collectAll(n.right, records, out)
}

// assignRanksWithTies assigns ranks so keywords with the same score share
// a rank, with consecutive rank numbering after a tie group.
func assignRanksWithTies(entries []Entry) {
	currentRank := 1
	for i := 0; i < len(entries); {
		entries[i].Rank = currentRank
		j := i + 1
		for j < len(entries) && entries[j].Score == entries[i].Score {
			entries[j].Rank = currentRank
			j++
		}
		currentRank++
		i = j
	}
}

// TreapStore is the in-memory Store implementation.
type TreapStore struct {
	mu        sync.RWMutex
	root      *node
	byKeyword map[string]record
}

// NewTreapStore constructs an empty ranking store.
func NewTreapStore() *TreapStore {
	return &TreapStore{byKeyword: make(map[string]record)}
}

// Record implements Store.Record with O(log n) expected time.
func (s *TreapStore) Record(ctx context.Context, keyword string, score float64, tier model.RecommendationTier, volume int) bool {
	if keyword == "" {
		return false
	}
	ns := toFixedPoint(score)

	s.mu.Lock()
	if old, ok := s.byKeyword[keyword]; ok {
		if ns == old.score && tier == old.tier && volume == old.volume {
			s.mu.Unlock()
			return false
		}
		s.root = deleteNode(s.root, keyword, old.score)
	}
	s.byKeyword[keyword] = record{score: ns, tier: tier, volume: volume}
	s.root = insert(s.root, keyword, ns)
	count := len(s.byKeyword)
	s.mu.Unlock()

	metrics.RecordRankingUpdate()
	metrics.UpdateRankingEntries(count)
	return true
}

// Rank returns the current rank and score for a keyword.
func (s *TreapStore) Rank(ctx context.Context, keyword string) (Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRankingQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.byKeyword[keyword]; !ok {
		metrics.RecordErrorByComponent("ranking", "not_found")
		return Entry{}, ErrNotFound
	}

	// Walk the full ordering so tie handling matches TopN exactly.
	all := make([]Entry, 0, len(s.byKeyword))
	collectAll(s.root, s.byKeyword, &all)
	assignRanksWithTies(all)
	for _, entry := range all {
		if entry.Keyword == keyword {
			return entry, nil
		}
	}
	return Entry{}, ErrNotFound
}

// TopN returns the top N entries ordered by score desc.
func (s *TreapStore) TopN(ctx context.Context, n int) ([]Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRankingQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("ranking", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, n)
	collectTopN(s.root, n, s.byKeyword, &out)

	// Tie ranks need the full ordering, not just the returned window.
	all := make([]Entry, 0, len(s.byKeyword))
	collectAll(s.root, s.byKeyword, &all)
	assignRanksWithTies(all)
	rankByKeyword := make(map[string]int, len(all))
	for _, e := range all {
		rankByKeyword[e.Keyword] = e.Rank
	}
	for i := range out {
		out[i].Rank = rankByKeyword[out[i].Keyword]
	}
	return out, nil
}

// Count returns the total number of ranked keywords.
func (s *TreapStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byKeyword)
}
