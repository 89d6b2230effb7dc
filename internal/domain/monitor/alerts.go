package monitor

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AlertType identifies one metric family and direction.
type AlertType string

// Competitor alert types.
const (
	AlertPriceIncrease   AlertType = "price_increase"
	AlertPriceDecrease   AlertType = "price_decrease"
	AlertRatingUp        AlertType = "rating_up"
	AlertRatingDown      AlertType = "rating_down"
	AlertReviewSurge     AlertType = "review_surge"
	AlertStockChange     AlertType = "stock_change"
	AlertRankImprove     AlertType = "rank_improve"
	AlertRankDrop        AlertType = "rank_drop"
	AlertPromotionChange AlertType = "promotion_change"
)

// Product alert types.
const (
	AlertSalesIncrease      AlertType = "sales_increase"
	AlertSalesDecrease      AlertType = "sales_decrease"
	AlertRevenueIncrease    AlertType = "revenue_increase"
	AlertRevenueDecrease    AlertType = "revenue_decrease"
	AlertMarginIncrease     AlertType = "margin_increase"
	AlertMarginDecrease     AlertType = "margin_decrease"
	AlertViewsIncrease      AlertType = "views_increase"
	AlertViewsDecrease      AlertType = "views_decrease"
	AlertConversionIncrease AlertType = "conversion_increase"
	AlertConversionDecrease AlertType = "conversion_decrease"
	AlertInventoryLow       AlertType = "inventory_low"
)

// Alert is an immutable change notification. ChangePercent carries the
// signed percent change for numeric families; ChangeMagnitude carries the
// absolute change for the rating and rank families.
type Alert struct {
	ID              string    `json:"id"`
	Type            AlertType `json:"type"`
	EntityID        string    `json:"entity_id"`
	EntityName      string    `json:"entity_name,omitempty"`
	Message         string    `json:"message"`
	Before          string    `json:"before"`
	After           string    `json:"after"`
	ChangePercent   float64   `json:"change_percent,omitempty"`
	ChangeMagnitude float64   `json:"change_magnitude,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func newAlert(alertType AlertType, entityID, entityName, message string, before, after any) Alert {
	return Alert{
		ID:         uuid.NewString(),
		Type:       alertType,
		EntityID:   entityID,
		EntityName: entityName,
		Message:    message,
		Before:     fmt.Sprintf("%v", before),
		After:      fmt.Sprintf("%v", after),
		CreatedAt:  time.Now().UTC(),
	}
}
