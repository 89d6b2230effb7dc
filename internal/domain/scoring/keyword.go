// Package scoring turns raw market signals into keyword recommendation
// scores and product profitability reports.
package scoring

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/hsh723/rocket-sourcer-sub001/internal/cache"
	"github.com/hsh723/rocket-sourcer-sub001/internal/domain/model"
	"github.com/hsh723/rocket-sourcer-sub001/pkg/logger"
	"github.com/hsh723/rocket-sourcer-sub001/pkg/metrics"
)

// Default scoring configuration constants.
const (
	defaultMemoTTL      = time.Hour
	defaultBatchWorkers = 4

	volumeWeight      = 0.4
	competitionWeight = 0.4
	trendWeight       = 0.2

	sellerCountWeight       = 0.3
	priceCompetitionWeight  = 0.3
	reviewCompetitionWeight = 0.2
	brandPresenceWeight     = 0.2

	tierStrongMin   = 80
	tierModerateMin = 60
	tierCautiousMin = 40
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithCache enables memoization of keyword scores through the given cache.
func WithCache(c *cache.Cache) Option {
	return func(e *Engine) {
		e.cache = c
	}
}

// WithMemoTTL sets how long a memoized keyword score stays valid.
func WithMemoTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		if ttl > 0 {
			e.memoTTL = ttl
		}
	}
}

// WithBatchWorkers bounds the parallelism of batch scoring.
func WithBatchWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.batchWorkers = n
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// Engine computes keyword and profitability scores. Scoring itself is a
// pure function; the optional cache only avoids recomputation for
// identical signals within the memo TTL.
type Engine struct {
	cache        *cache.Cache
	memoTTL      time.Duration
	batchWorkers int
	log          logger.Logger
}

// NewEngine creates a scoring engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		memoTTL:      defaultMemoTTL,
		batchWorkers: defaultBatchWorkers,
		log:          logger.Named("scoring"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ScoreKeyword scores a single keyword signal. When a cache is configured,
// identical signals within the memo TTL are served from the cache; two
// calls always return the same score either way.
func (e *Engine) ScoreKeyword(ctx context.Context, signal model.KeywordSignal) (model.KeywordScore, error) {
	if signal.Keyword == "" {
		metrics.RecordScoringError()
		return model.KeywordScore{}, ErrEmptyKeyword
	}

	start := time.Now()
	defer func() { metrics.RecordKeywordScoreLatency(float64(time.Since(start).Milliseconds())) }()

	if e.cache == nil {
		score := scoreSignal(signal)
		metrics.RecordKeywordScore()
		return score, nil
	}

	key := e.cache.Key("keyword", "score", signalHash(signal))
	var score model.KeywordScore
	if e.cache.Get(ctx, key, &score) {
		metrics.RecordMemoizedScoreServe()
		return score, nil
	}
	score = scoreSignal(signal)
	e.cache.Put(ctx, key, score, e.memoTTL, "keyword")
	metrics.RecordKeywordScore()
	return score, nil
}

// ScoreKeywords scores a batch of signals with bounded parallelism.
// Results keep the input order. A single bad signal fails the batch since
// signals are caller-constructed, not upstream data.
func (e *Engine) ScoreKeywords(ctx context.Context, signals []model.KeywordSignal) ([]model.KeywordScore, error) {
	scores := make([]model.KeywordScore, len(signals))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.batchWorkers)
	for i, signal := range signals {
		i, signal := i, signal
		g.Go(func() error {
			score, err := e.ScoreKeyword(gctx, signal)
			if err != nil {
				return fmt.Errorf("score keyword %q: %w", signal.Keyword, err)
			}
			scores[i] = score
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}

// scoreSignal holds the pure scoring math.
func scoreSignal(signal model.KeywordSignal) model.KeywordScore {
	volume := volumeScore(signal.MonthlyVolume)
	competition := competitionScore(signal.Competition)
	trend, growing, growthRate := trendScore(signal.TrendSeries)

	total := volume*volumeWeight + (100-competition)*competitionWeight + trend*trendWeight

	return model.KeywordScore{
		Keyword:          signal.Keyword,
		VolumeScore:      round2(volume),
		CompetitionScore: round2(competition),
		TrendScore:       round2(trend),
		TotalScore:       round2(total),
		Tier:             tierFor(total),
		IsGrowing:        growing,
		GrowthRate:       round2(growthRate),
	}
}

// volumeScore maps a monthly search volume onto [1,100] on a log scale so
// score growth flattens at high volumes.
func volumeScore(monthlyVolume int) float64 {
	v := float64(monthlyVolume)
	if v <= 0 {
		v = 1
	}
	return clamp(math.Log10(v)*20, 1, 100)
}

// competitionScore is the weighted sum of the sub-factors, each in [0,100].
// Higher means more competitive.
func competitionScore(f model.CompetitionFactors) float64 {
	score := f.SellerCount*sellerCountWeight +
		f.PriceCompetition*priceCompetitionWeight +
		f.ReviewCompetition*reviewCompetitionWeight +
		f.BrandPresence*brandPresenceWeight
	return clamp(score, 0, 100)
}

// trendScore fits an ordinary least-squares slope over the series indexed
// 0..n-1. Series too short to regress (n < 2) yield a neutral 50.
func trendScore(series []float64) (score float64, growing bool, growthRate float64) {
	if len(series) < 2 {
		return 50, false, 0
	}
	xs := make([]float64, len(series))
	for i := range xs {
		xs[i] = float64(i)
	}
	_, slope := stat.LinearRegression(xs, series, nil, false)

	score = clamp(50+slope*10, 0, 100)
	growing = slope > 0
	if growing {
		if mean := stat.Mean(series, nil); mean != 0 {
			growthRate = slope / mean * 100
		}
	}
	return score, growing, growthRate
}

func tierFor(total float64) model.RecommendationTier {
	switch {
	case total >= tierStrongMin:
		return model.TierStrong
	case total >= tierModerateMin:
		return model.TierModerate
	case total >= tierCautiousMin:
		return model.TierCautious
	default:
		return model.TierAvoid
	}
}

// signalHash produces a stable cache key component for a signal.
func signalHash(signal model.KeywordSignal) string {
	raw, err := json.Marshal(signal)
	if err != nil {
		// Marshaling a plain struct of numbers and strings cannot fail;
		// fall back to the keyword so the cache key stays usable.
		return signal.Keyword
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:16])
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
