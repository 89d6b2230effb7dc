package market

import (
	"context"
	"strings"
	"sync"

	"github.com/hsh723/rocket-sourcer-sub001/internal/domain/model"
)

// MemoryProvider is an in-memory Provider backed by seeded fixtures. It
// stands in for a live marketplace client in tests and local runs.
type MemoryProvider struct {
	mu       sync.RWMutex
	products map[string]model.CompetitorSnapshot
	metrics  map[string]model.ProductMetrics
	reviews  map[string][]Review
	sales    map[string][]SalesPoint
	// category -> ordered product ids
	categories map[string][]string
	failing    bool
}

// NewMemoryProvider creates an empty in-memory provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		products:   make(map[string]model.CompetitorSnapshot),
		metrics:    make(map[string]model.ProductMetrics),
		reviews:    make(map[string][]Review),
		sales:      make(map[string][]SalesPoint),
		categories: make(map[string][]string),
	}
}

// SeedProduct registers a listing, optionally under a category.
func (p *MemoryProvider) SeedProduct(snapshot model.CompetitorSnapshot, category string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.products[snapshot.ProductID] = snapshot
	if category != "" {
		p.categories[category] = append(p.categories[category], snapshot.ProductID)
	}
}

// SeedMetrics registers an owned product's performance metrics.
func (p *MemoryProvider) SeedMetrics(m model.ProductMetrics) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.metrics[m.ProductID] = m
}

// SeedReviews registers reviews for a product.
func (p *MemoryProvider) SeedReviews(productID string, reviews []Review) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reviews[productID] = reviews
}

// SeedSales registers a sales history for a product.
func (p *MemoryProvider) SeedSales(productID string, points []SalesPoint) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sales[productID] = points
}

// SetFailing makes every subsequent call return a failure envelope.
func (p *MemoryProvider) SetFailing(failing bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failing = failing
}

// SearchProducts implements Provider.
func (p *MemoryProvider) SearchProducts(ctx context.Context, keyword string, page, size int) Result[[]model.CompetitorSnapshot] {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.failing {
		return Fail[[]model.CompetitorSnapshot]("provider unavailable")
	}
	matched := make([]model.CompetitorSnapshot, 0)
	needle := strings.ToLower(keyword)
	for _, snap := range p.products {
		if strings.Contains(strings.ToLower(snap.ProductID), needle) ||
			strings.Contains(strings.ToLower(snap.SellerName), needle) {
			matched = append(matched, snap)
		}
	}
	return OkPage(paginate(matched, page, size), len(matched))
}

// GetProductDetails implements Provider.
func (p *MemoryProvider) GetProductDetails(ctx context.Context, productID string) Result[model.CompetitorSnapshot] {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.failing {
		return Fail[model.CompetitorSnapshot]("provider unavailable")
	}
	snap, ok := p.products[productID]
	if !ok {
		return Fail[model.CompetitorSnapshot]("product not found: " + productID)
	}
	return Ok(snap)
}

// GetProductMetrics implements Provider.
func (p *MemoryProvider) GetProductMetrics(ctx context.Context, productID string) Result[model.ProductMetrics] {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.failing {
		return Fail[model.ProductMetrics]("provider unavailable")
	}
	m, ok := p.metrics[productID]
	if !ok {
		return Fail[model.ProductMetrics]("metrics not found: " + productID)
	}
	return Ok(m)
}

// GetReviews implements Provider.
func (p *MemoryProvider) GetReviews(ctx context.Context, productID string, page, size int) Result[[]Review] {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.failing {
		return Fail[[]Review]("provider unavailable")
	}
	all := p.reviews[productID]
	return OkPage(paginate(all, page, size), len(all))
}

// GetBestSellers implements Provider.
func (p *MemoryProvider) GetBestSellers(ctx context.Context, category string, limit int) Result[[]model.CompetitorSnapshot] {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.failing {
		return Fail[[]model.CompetitorSnapshot]("provider unavailable")
	}
	ids := p.categories[category]
	items := make([]model.CompetitorSnapshot, 0, len(ids))
	for _, id := range ids {
		if limit > 0 && len(items) >= limit {
			break
		}
		if snap, ok := p.products[id]; ok {
			items = append(items, snap)
		}
	}
	return Ok(items)
}

// GetSalesHistory implements Provider.
func (p *MemoryProvider) GetSalesHistory(ctx context.Context, productID string, periods int) Result[[]SalesPoint] {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.failing {
		return Fail[[]SalesPoint]("provider unavailable")
	}
	points := p.sales[productID]
	if periods > 0 && len(points) > periods {
		points = points[len(points)-periods:]
	}
	return Ok(points)
}

// paginate slices items for a 1-based page of the given size. Out-of-range
// pages yield an empty slice.
func paginate[T any](items []T, page, size int) []T {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		return items
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
