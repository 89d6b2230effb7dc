package monitor

// Threshold keys accepted by UpdateThresholds.
const (
	keyPriceIncreasePercent     = "price_increase_percent"
	keyPriceDecreasePercent     = "price_decrease_percent"
	keyRatingChange             = "rating_change"
	keyReviewIncreasePercent    = "review_increase_percent"
	keyRankChange               = "rank_change"
	keySalesChangePercent       = "sales_change_percent"
	keyRevenueChangePercent     = "revenue_change_percent"
	keyMarginChangePercent      = "margin_change_percent"
	keyViewsChangePercent       = "views_change_percent"
	keyConversionChangePercent  = "conversion_change_percent"
	keyInventoryDecreasePercent = "inventory_decrease_percent"
)

// ThresholdConfig holds per-family trigger thresholds. Percent fields
// compare against the signed percent change; RatingChange and RankChange
// compare against the absolute change magnitude.
type ThresholdConfig struct {
	PriceIncreasePercent     float64 `json:"price_increase_percent"`
	PriceDecreasePercent     float64 `json:"price_decrease_percent"`
	RatingChange             float64 `json:"rating_change"`
	ReviewIncreasePercent    float64 `json:"review_increase_percent"`
	RankChange               float64 `json:"rank_change"`
	SalesChangePercent       float64 `json:"sales_change_percent"`
	RevenueChangePercent     float64 `json:"revenue_change_percent"`
	MarginChangePercent      float64 `json:"margin_change_percent"`
	ViewsChangePercent       float64 `json:"views_change_percent"`
	ConversionChangePercent  float64 `json:"conversion_change_percent"`
	InventoryDecreasePercent float64 `json:"inventory_decrease_percent"`
}

// DefaultThresholds returns the built-in trigger thresholds.
func DefaultThresholds() ThresholdConfig {
	return ThresholdConfig{
		PriceIncreasePercent:     10,
		PriceDecreasePercent:     10,
		RatingChange:             0.3,
		ReviewIncreasePercent:    20,
		RankChange:               10,
		SalesChangePercent:       20,
		RevenueChangePercent:     20,
		MarginChangePercent:      5,
		ViewsChangePercent:       30,
		ConversionChangePercent:  20,
		InventoryDecreasePercent: 30,
	}
}

// merge applies the known keys of partial onto the config. Unknown keys
// are ignored. It reports whether any key was applied.
func (c *ThresholdConfig) merge(partial map[string]float64) bool {
	applied := false
	for key, value := range partial {
		switch key {
		case keyPriceIncreasePercent:
			c.PriceIncreasePercent = value
		case keyPriceDecreasePercent:
			c.PriceDecreasePercent = value
		case keyRatingChange:
			c.RatingChange = value
		case keyReviewIncreasePercent:
			c.ReviewIncreasePercent = value
		case keyRankChange:
			c.RankChange = value
		case keySalesChangePercent:
			c.SalesChangePercent = value
		case keyRevenueChangePercent:
			c.RevenueChangePercent = value
		case keyMarginChangePercent:
			c.MarginChangePercent = value
		case keyViewsChangePercent:
			c.ViewsChangePercent = value
		case keyConversionChangePercent:
			c.ConversionChangePercent = value
		case keyInventoryDecreasePercent:
			c.InventoryDecreasePercent = value
		default:
			continue
		}
		applied = true
	}
	return applied
}
