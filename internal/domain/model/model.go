// Package model contains domain models passed between layers.
package model

import "time"

// RecommendationTier buckets a keyword's total score into a sourcing verdict.
type RecommendationTier string

// Recommendation tiers ordered from best to worst.
const (
	TierStrong   RecommendationTier = "strong"
	TierModerate RecommendationTier = "moderate"
	TierCautious RecommendationTier = "cautious"
	TierAvoid    RecommendationTier = "avoid"
)

// StockStatus describes a competitor listing's availability.
type StockStatus string

const (
	StockInStock    StockStatus = "in_stock"
	StockOutOfStock StockStatus = "out_of_stock"
	StockUnknown    StockStatus = "unknown"
)

// CompetitionFactors are the competition sub-factors for a keyword,
// each scaled to [0,100].
type CompetitionFactors struct {
	SellerCount       float64 `json:"seller_count"`
	PriceCompetition  float64 `json:"price_competition"`
	ReviewCompetition float64 `json:"review_competition"`
	BrandPresence     float64 `json:"brand_presence"`
}

// KeywordSignal carries the raw market signals for a single keyword.
type KeywordSignal struct {
	Keyword       string             `json:"keyword"`
	MonthlyVolume int                `json:"monthly_volume"`
	Competition   CompetitionFactors `json:"competition"`
	// TrendSeries holds monthly search volumes ordered oldest first.
	TrendSeries []float64 `json:"trend_series"`
}

// KeywordScore is the immutable result of scoring a keyword signal.
type KeywordScore struct {
	Keyword          string             `json:"keyword"`
	VolumeScore      float64            `json:"volume_score"`
	CompetitionScore float64            `json:"competition_score"`
	TrendScore       float64            `json:"trend_score"`
	TotalScore       float64            `json:"total_score"`
	Tier             RecommendationTier `json:"tier"`
	IsGrowing        bool               `json:"is_growing"`
	GrowthRate       float64            `json:"growth_rate"`
}

// ProfitabilityInput carries per-unit pricing for a candidate product.
// All values are non-negative; rates are percentages in [0,100].
type ProfitabilityInput struct {
	SellingPrice      float64 `json:"selling_price"`
	ProductCost       float64 `json:"product_cost"`
	ShippingCost      float64 `json:"shipping_cost"`
	FeeRatePercent    float64 `json:"fee_rate_percent"`
	ReturnRatePercent float64 `json:"return_rate_percent"`
}

// PriceScenario shows the margin outcome at an alternative selling price.
type PriceScenario struct {
	PriceDeltaPercent float64 `json:"price_delta_percent"`
	SellingPrice      float64 `json:"selling_price"`
	NetProfit         float64 `json:"net_profit"`
	MarginPercent     float64 `json:"margin_percent"`
}

// ProfitabilityReport is the derived, stateless profitability projection.
type ProfitabilityReport struct {
	Revenue             float64         `json:"revenue"`
	TotalCost           float64         `json:"total_cost"`
	NetProfit           float64         `json:"net_profit"`
	ProfitMarginPercent float64         `json:"profit_margin_percent"`
	// BreakEvenUnits is the minimum sales volume at which cumulative profit
	// becomes non-negative. Valid only when BreakEvenFeasible is true.
	BreakEvenUnits    int             `json:"break_even_units"`
	BreakEvenFeasible bool            `json:"break_even_feasible"`
	Scenarios         []PriceScenario `json:"scenarios"`
}

// CompetitorSnapshot is one observation of a competitor listing.
// The monitor keeps only the previous-vs-current pair per entity.
type CompetitorSnapshot struct {
	ProductID   string      `json:"product_id"`
	SellerName  string      `json:"seller_name"`
	Platform    string      `json:"platform"`
	Price       float64     `json:"price"`
	Rating      float64     `json:"rating"`       // 0-5
	ReviewCount int         `json:"review_count"` // >= 0
	Rank        int         `json:"rank"`         // >= 0, 0 = unknown
	StockStatus StockStatus `json:"stock_status"`
	Promotions  []string    `json:"promotions"`
	ObservedAt  time.Time   `json:"observed_at"`
}

// ProductMetrics is one observation of an owned product's performance.
type ProductMetrics struct {
	ProductID  string    `json:"product_id"`
	Sales      float64   `json:"sales"`
	Revenue    float64   `json:"revenue"`
	Margin     float64   `json:"margin"`
	Views      float64   `json:"views"`
	Conversion float64   `json:"conversion"`
	Inventory  float64   `json:"inventory"`
	Price      float64   `json:"price"`
	ObservedAt time.Time `json:"observed_at"`
}
