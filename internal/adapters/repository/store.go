// Package repository defines the opportunity ranking store interface and errors.
package repository

import (
	"context"

	"github.com/hsh723/rocket-sourcer-sub001/internal/domain/model"
)

// Entry represents one keyword row on the opportunity ranking.
type Entry struct {
	Rank    int                      `json:"rank"`
	Keyword string                   `json:"keyword"`
	Score   float64                  `json:"score"`
	Tier    model.RecommendationTier `json:"tier"`
	Volume  int                      `json:"volume"`
}

// Store provides read/write access to the ranking state.
type Store interface {
	// Record upserts the latest score for a keyword. A re-scored keyword
	// replaces its previous entry, newer data always wins.
	// Returns true if the ranking changed.
	Record(ctx context.Context, keyword string, score float64, tier model.RecommendationTier, volume int) bool

	// Rank returns the current rank and score for a keyword.
	// Returns ErrNotFound if the keyword has never been scored.
	Rank(ctx context.Context, keyword string) (Entry, error)

	// TopN returns the top-N entries ordered by score desc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of keywords tracked on the ranking.
	Count(ctx context.Context) int
}
