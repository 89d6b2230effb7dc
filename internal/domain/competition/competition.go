// Package competition aggregates competitor snapshots for a category into
// an intensity score, price distribution, market share and review summary.
package competition

import (
	"context"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/hsh723/rocket-sourcer-sub001/internal/cache"
	"github.com/hsh723/rocket-sourcer-sub001/internal/domain/model"
	"github.com/hsh723/rocket-sourcer-sub001/pkg/logger"
	"github.com/hsh723/rocket-sourcer-sub001/pkg/metrics"
)

// Default analyzer configuration constants.
const (
	defaultReportTTL = 30 * time.Minute

	priceBucketCount = 5
	// Price windows narrower than this are widened on both sides so the
	// histogram never collapses into a single bucket.
	minPriceWindow  = 10000
	priceWindowPad  = 5000
	topSellerLimit  = 10
	otherSellerName = "other"

	sellerNormDivisor  = 5
	productNormDivisor = 20
	reviewNormDivisor  = 1000
	normCap            = 10

	sellerIntensityWeight  = 0.4
	productIntensityWeight = 0.3
	reviewIntensityWeight  = 0.3
)

// IntensityLevel buckets the intensity score.
type IntensityLevel string

const (
	IntensityLow      IntensityLevel = "low"
	IntensityMedium   IntensityLevel = "medium"
	IntensityHigh     IntensityLevel = "high"
	IntensityVeryHigh IntensityLevel = "very_high"
)

// PriceRange summarizes observed prices.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

// PriceBucket is one equal-width slice of the price histogram.
type PriceBucket struct {
	From  float64 `json:"from"`
	To    float64 `json:"to"`
	Count int     `json:"count"`
}

// SellerShare is a seller's slice of the category by product count.
type SellerShare struct {
	Seller       string  `json:"seller"`
	ProductCount int     `json:"product_count"`
	SharePercent float64 `json:"share_percent"`
}

// ReviewSummary aggregates rating and review information.
type ReviewSummary struct {
	AverageRating float64     `json:"average_rating"`
	RatingCounts  map[int]int `json:"rating_counts"`
	TotalReviews  int         `json:"total_reviews"`
}

// Report is the aggregate view of a category's competitive landscape.
type Report struct {
	IntensityScore    float64            `json:"intensity_score"`
	IntensityLevel    IntensityLevel     `json:"intensity_level"`
	SellerCount       int                `json:"seller_count"`
	ProductCount      int                `json:"product_count"`
	PriceRange        PriceRange         `json:"price_range"`
	PriceDistribution []PriceBucket      `json:"price_distribution"`
	MarketShare       []SellerShare      `json:"market_share"`
	PlatformShare     map[string]float64 `json:"platform_share"`
	ReviewSummary     ReviewSummary      `json:"review_summary"`
}

// Option applies a configuration option to the Analyzer.
type Option func(*Analyzer)

// WithCache enables category-level report caching.
func WithCache(c *cache.Cache) Option {
	return func(a *Analyzer) {
		a.cache = c
	}
}

// WithReportTTL sets how long a cached category report stays valid.
func WithReportTTL(ttl time.Duration) Option {
	return func(a *Analyzer) {
		if ttl > 0 {
			a.reportTTL = ttl
		}
	}
}

// WithLogger sets the analyzer logger.
func WithLogger(log logger.Logger) Option {
	return func(a *Analyzer) {
		if log != nil {
			a.log = log
		}
	}
}

// Analyzer computes competition reports from competitor snapshots.
type Analyzer struct {
	cache     *cache.Cache
	reportTTL time.Duration
	log       logger.Logger
}

// NewAnalyzer creates a competition analyzer.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		reportTTL: defaultReportTTL,
		log:       logger.Named("competition"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze aggregates the records into a report. An empty record set yields
// a zeroed report, never an error; no competitors is a valid finding.
func (a *Analyzer) Analyze(records []model.CompetitorSnapshot) Report {
	start := time.Now()
	defer func() { metrics.RecordCompetitionReportLatency(float64(time.Since(start).Milliseconds())) }()

	if len(records) == 0 {
		metrics.RecordCompetitionReport()
		return Report{IntensityLevel: IntensityLow}
	}
	report := buildReport(records)
	metrics.RecordCompetitionReport()
	return report
}

// AnalyzeCategory analyzes a category through the report cache. Without a
// cache it is equivalent to Analyze.
func (a *Analyzer) AnalyzeCategory(ctx context.Context, category string, records []model.CompetitorSnapshot) Report {
	if a.cache == nil {
		return a.Analyze(records)
	}
	key := a.cache.Key("competition", "report", category)
	var report Report
	err := a.cache.Remember(ctx, key, a.reportTTL, &report, func() (any, error) {
		return a.Analyze(records), nil
	})
	if err != nil {
		a.log.Warn(ctx, "category report cache bypass", logger.String("category", category), logger.Error(err))
		return a.Analyze(records)
	}
	return report
}

func buildReport(records []model.CompetitorSnapshot) Report {
	prices := make([]float64, 0, len(records))
	sellers := make(map[string]int)
	platforms := make(map[string]int)
	ratingCounts := make(map[int]int)
	totalReviews := 0
	ratingSum := 0.0
	ratedCount := 0

	for _, r := range records {
		if r.Price > 0 {
			prices = append(prices, r.Price)
		}
		if r.SellerName != "" {
			sellers[r.SellerName]++
		}
		if r.Platform != "" {
			platforms[r.Platform]++
		}
		totalReviews += r.ReviewCount
		if r.Rating > 0 {
			ratingSum += r.Rating
			ratedCount++
			star := int(math.Round(r.Rating))
			if star < 1 {
				star = 1
			}
			if star > 5 {
				star = 5
			}
			ratingCounts[star]++
		}
	}

	report := Report{
		SellerCount:       len(sellers),
		ProductCount:      len(records),
		PriceRange:        priceRange(prices),
		PriceDistribution: priceHistogram(prices),
		MarketShare:       marketShare(sellers, len(records)),
		PlatformShare:     platformShare(platforms, len(records)),
		ReviewSummary: ReviewSummary{
			RatingCounts: ratingCounts,
			TotalReviews: totalReviews,
		},
	}
	if ratedCount > 0 {
		report.ReviewSummary.AverageRating = round2(ratingSum / float64(ratedCount))
	}

	report.IntensityScore = intensityScore(report.SellerCount, report.ProductCount, totalReviews)
	report.IntensityLevel = intensityLevel(report.IntensityScore)
	return report
}

// intensityScore combines normalized seller, product and review pressure
// into a [1,10] score.
func intensityScore(sellerCount, productCount, totalReviews int) float64 {
	sellerTerm := math.Min(float64(sellerCount)/sellerNormDivisor, normCap)
	productTerm := math.Min(float64(productCount)/productNormDivisor, normCap)
	reviewTerm := math.Min(float64(totalReviews)/reviewNormDivisor, normCap)

	score := sellerTerm*sellerIntensityWeight +
		productTerm*productIntensityWeight +
		reviewTerm*reviewIntensityWeight
	return round2(math.Min(math.Max(score, 1), 10))
}

func intensityLevel(score float64) IntensityLevel {
	switch {
	case score < 3:
		return IntensityLow
	case score < 6:
		return IntensityMedium
	case score < 8:
		return IntensityHigh
	default:
		return IntensityVeryHigh
	}
}

func priceRange(prices []float64) PriceRange {
	if len(prices) == 0 {
		return PriceRange{}
	}
	return PriceRange{
		Min: floats.Min(prices),
		Max: floats.Max(prices),
		Avg: round2(stat.Mean(prices, nil)),
	}
}

// priceHistogram splits the observed price window into equal-width buckets.
// Narrow windows are widened so a cluster of near-identical prices still
// produces a readable distribution.
func priceHistogram(prices []float64) []PriceBucket {
	if len(prices) == 0 {
		return nil
	}
	lo, hi := floats.Min(prices), floats.Max(prices)
	if hi-lo < minPriceWindow {
		lo = math.Max(lo-priceWindowPad, 0)
		hi += priceWindowPad
	}

	width := (hi - lo) / priceBucketCount
	buckets := make([]PriceBucket, priceBucketCount)
	for i := range buckets {
		buckets[i].From = round2(lo + width*float64(i))
		buckets[i].To = round2(lo + width*float64(i+1))
	}
	for _, p := range prices {
		idx := int((p - lo) / width)
		if idx >= priceBucketCount {
			idx = priceBucketCount - 1
		}
		buckets[idx].Count++
	}
	return buckets
}

// marketShare ranks sellers by product count, keeping the top entries and
// rolling the remainder into a synthetic "other" share.
func marketShare(sellers map[string]int, total int) []SellerShare {
	if total == 0 || len(sellers) == 0 {
		return nil
	}
	shares := make([]SellerShare, 0, len(sellers))
	for seller, count := range sellers {
		shares = append(shares, SellerShare{Seller: seller, ProductCount: count})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].ProductCount != shares[j].ProductCount {
			return shares[i].ProductCount > shares[j].ProductCount
		}
		return shares[i].Seller < shares[j].Seller
	})

	if len(shares) > topSellerLimit {
		rest := 0
		for _, s := range shares[topSellerLimit:] {
			rest += s.ProductCount
		}
		shares = append(shares[:topSellerLimit], SellerShare{
			Seller:       otherSellerName,
			ProductCount: rest,
		})
	}
	for i := range shares {
		shares[i].SharePercent = round2(float64(shares[i].ProductCount) / float64(total) * 100)
	}
	return shares
}

func platformShare(platforms map[string]int, total int) map[string]float64 {
	if total == 0 || len(platforms) == 0 {
		return nil
	}
	shares := make(map[string]float64, len(platforms))
	for platform, count := range platforms {
		shares[platform] = round2(float64(count) / float64(total) * 100)
	}
	return shares
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
