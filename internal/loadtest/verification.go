package loadtest

import (
	"context"
	"fmt"

	"github.com/hsh723/rocket-sourcer-sub001/internal/domain/model"
	"github.com/hsh723/rocket-sourcer-sub001/pkg/logger"
)

// Tier boundaries the service applies to total scores.
const (
	strongMin   = 80
	moderateMin = 60
	cautiousMin = 40
)

// verifyScore checks that a returned score is internally consistent.
func verifyScore(signal model.KeywordSignal, score model.KeywordScore) error {
	if score.Keyword != signal.Keyword {
		return fmt.Errorf("score keyword %q does not match submitted keyword %q", score.Keyword, signal.Keyword)
	}
	if score.TotalScore < 0 || score.TotalScore > 100 {
		return fmt.Errorf("total score %.3f outside [0,100]", score.TotalScore)
	}
	if want := tierForTotal(score.TotalScore); score.Tier != want {
		return fmt.Errorf("tier %q inconsistent with total score %.3f (expected %q)", score.Tier, score.TotalScore, want)
	}
	return nil
}

func tierForTotal(total float64) model.RecommendationTier {
	switch {
	case total >= strongMin:
		return model.TierStrong
	case total >= moderateMin:
		return model.TierModerate
	case total >= cautiousMin:
		return model.TierCautious
	default:
		return model.TierAvoid
	}
}

// verifyTopOrdering checks that the top listing is sorted by score
// descending with dense ranks starting at 1.
func verifyTopOrdering(ctx context.Context, top []Entry) error {
	if len(top) == 0 {
		return fmt.Errorf("empty top listing")
	}
	if top[0].Rank != 1 {
		return fmt.Errorf("top listing starts at rank %d, expected 1", top[0].Rank)
	}
	for i := 1; i < len(top); i++ {
		if top[i].Score > top[i-1].Score {
			return fmt.Errorf("top listing not sorted: entry %d outranks entry %d", i, i-1)
		}
		if top[i].Rank < top[i-1].Rank {
			return fmt.Errorf("ranks not monotonic: entry %d has rank %d after rank %d",
				i, top[i].Rank, top[i-1].Rank)
		}
		if top[i].Score == top[i-1].Score && top[i].Rank != top[i-1].Rank {
			return fmt.Errorf("tied scores at entries %d and %d have different ranks", i-1, i)
		}
	}

	logger.Get().Info(ctx, "top listing ordering verified", logger.Int("entries", len(top)))
	return nil
}

// displayTopOpportunities logs the leading entries of the listing.
func displayTopOpportunities(ctx context.Context, top []Entry, verbose bool) {
	shown := 10
	if len(top) < shown {
		shown = len(top)
	}
	for i := 0; i < shown; i++ {
		entry := top[i]
		logger.Get().Info(ctx, "top opportunity",
			logger.Int("rank", entry.Rank),
			logger.String("keyword", entry.Keyword),
			logger.Float64("score", entry.Score),
			logger.String("tier", string(entry.Tier)),
			logger.Int("volume", entry.Volume))
	}

	if verbose && len(top) > 0 {
		sum := 0.0
		for _, entry := range top {
			sum += entry.Score
		}
		logger.Get().Info(ctx, "top listing statistics",
			logger.Float64("averageScore", sum/float64(len(top))),
			logger.Float64("maxScore", top[0].Score),
			logger.Float64("minScore", top[len(top)-1].Score))
	}
}
