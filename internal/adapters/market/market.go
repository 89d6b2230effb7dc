// Package market defines the boundary to external market-data providers.
// Provider failures never cross this boundary as errors; every call
// returns a success/failure envelope so callers treat a bad cycle as "no
// data available," not as a fault.
package market

import (
	"context"

	"github.com/hsh723/rocket-sourcer-sub001/internal/domain/model"
)

// Result is the envelope every provider call resolves to. When Success is
// false, Message carries the provider's failure reason and the data fields
// are zero.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
	Total   int    `json:"total,omitempty"`
}

// Ok wraps data in a successful envelope.
func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// OkPage wraps a page of data with its total count.
func OkPage[T any](data T, total int) Result[T] {
	return Result[T]{Success: true, Data: data, Total: total}
}

// Fail builds a failure envelope with the given reason.
func Fail[T any](message string) Result[T] {
	return Result[T]{Success: false, Message: message}
}

// Review is one customer review of a product.
type Review struct {
	ProductID string  `json:"product_id"`
	Rating    float64 `json:"rating"`
	Content   string  `json:"content"`
}

// SalesPoint is one period of a product's sales history.
type SalesPoint struct {
	Period string  `json:"period"`
	Units  float64 `json:"units"`
}

// Provider is the market-data source consumed by scoring, competition
// analysis and monitoring.
type Provider interface {
	// SearchProducts returns a page of competitor snapshots matching the
	// keyword.
	SearchProducts(ctx context.Context, keyword string, page, size int) Result[[]model.CompetitorSnapshot]
	// GetProductDetails returns the current snapshot of one listing.
	GetProductDetails(ctx context.Context, productID string) Result[model.CompetitorSnapshot]
	// GetProductMetrics returns the current performance metrics of an
	// owned product.
	GetProductMetrics(ctx context.Context, productID string) Result[model.ProductMetrics]
	// GetReviews returns a page of reviews for a product.
	GetReviews(ctx context.Context, productID string, page, size int) Result[[]Review]
	// GetBestSellers returns up to limit top listings for a category.
	GetBestSellers(ctx context.Context, category string, limit int) Result[[]model.CompetitorSnapshot]
	// GetSalesHistory returns a product's recent sales series ordered
	// oldest first.
	GetSalesHistory(ctx context.Context, productID string, periods int) Result[[]SalesPoint]
}
