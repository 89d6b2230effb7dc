// Package monitor detects threshold-crossing changes between the previous
// and current observation of competitor listings and owned products. Each
// check runs Observe, Compare, Alert-or-Silent, then persists the current
// observation as the new baseline.
package monitor

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/hsh723/rocket-sourcer-sub001/internal/adapters/market"
	"github.com/hsh723/rocket-sourcer-sub001/internal/cache"
	"github.com/hsh723/rocket-sourcer-sub001/internal/domain/model"
	"github.com/hsh723/rocket-sourcer-sub001/pkg/logger"
	"github.com/hsh723/rocket-sourcer-sub001/pkg/metrics"
)

// Default monitor configuration constants.
const (
	defaultSnapshotTTL = 7 * 24 * time.Hour
	// Silent observations only refresh the baseline when price or rating
	// drifted more than this, to avoid thrashing writes.
	noiseThresholdPercent = 1.0
	progressLogInterval   = 50
)

// EntityKind distinguishes what a monitored entity refers to.
type EntityKind string

const (
	KindCompetitor EntityKind = "competitor"
	KindProduct    EntityKind = "product"
)

// Entity is one item in a monitoring batch.
type Entity struct {
	ID   string     `json:"id"`
	Kind EntityKind `json:"kind"`
}

// Summary aggregates the outcome of one batch run. A failed entity is
// counted but never aborts the batch.
type Summary struct {
	ProcessedCount int           `json:"processed_count"`
	FailedCount    int           `json:"failed_count"`
	Alerts         []Alert       `json:"alerts"`
	Duration       time.Duration `json:"duration"`
}

// Sink receives alerts as they are produced. Implementations must not
// block the monitoring cycle for long.
type Sink interface {
	Publish(ctx context.Context, alerts []Alert) error
}

// Option applies a configuration option to the Monitor.
type Option func(*Monitor)

// WithThresholds overrides the default trigger thresholds.
func WithThresholds(config ThresholdConfig) Option {
	return func(m *Monitor) {
		m.thresholds = config
	}
}

// WithSnapshotTTL sets how long persisted baselines stay valid.
func WithSnapshotTTL(ttl time.Duration) Option {
	return func(m *Monitor) {
		if ttl > 0 {
			m.snapshotTTL = ttl
		}
	}
}

// WithSink attaches an alert sink.
func WithSink(sink Sink) Option {
	return func(m *Monitor) {
		if sink != nil {
			m.sink = sink
		}
	}
}

// WithLogger sets the monitor logger.
func WithLogger(log logger.Logger) Option {
	return func(m *Monitor) {
		if log != nil {
			m.log = log
		}
	}
}

// Monitor compares observations against persisted baselines and emits
// typed alerts when a threshold rule fires.
type Monitor struct {
	provider    market.Provider
	cache       *cache.Cache
	sink        Sink
	snapshotTTL time.Duration
	log         logger.Logger

	mu         sync.RWMutex
	thresholds ThresholdConfig
}

// New creates a Monitor. The cache stores per-entity baselines; the
// provider supplies current observations for batch runs.
func New(provider market.Provider, c *cache.Cache, opts ...Option) *Monitor {
	m := &Monitor{
		provider:    provider,
		cache:       c,
		snapshotTTL: defaultSnapshotTTL,
		thresholds:  DefaultThresholds(),
		log:         logger.Named("monitor"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Thresholds returns the current trigger thresholds.
func (m *Monitor) Thresholds() ThresholdConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.thresholds
}

// UpdateThresholds merges the known keys of partial into the current
// thresholds. Unknown keys are ignored with a warning. It reports whether
// any key was applied.
func (m *Monitor) UpdateThresholds(partial map[string]float64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	known := m.thresholds
	applied := known.merge(partial)
	if !applied && len(partial) > 0 {
		m.log.Warn(context.Background(), "threshold update carried no known keys", logger.Int("keys", len(partial)))
		return false
	}
	m.thresholds = known
	return applied
}

// CheckCompetitor compares the current snapshot against the persisted
// baseline and returns the alerts fired. The first observation of an
// entity only establishes the baseline.
func (m *Monitor) CheckCompetitor(ctx context.Context, current model.CompetitorSnapshot) []Alert {
	key := m.cache.Key("monitor", "competitor", current.ProductID)

	var previous model.CompetitorSnapshot
	if !m.cache.Get(ctx, key, &previous) {
		m.cache.Put(ctx, key, current, m.snapshotTTL, "monitor")
		return nil
	}

	t := m.Thresholds()
	alerts := make([]Alert, 0, 4)
	alerts = append(alerts, m.checkPrice(previous, current, t)...)
	alerts = append(alerts, m.checkRating(previous, current, t)...)
	alerts = append(alerts, m.checkReviews(previous, current, t)...)
	alerts = append(alerts, m.checkStock(previous, current)...)
	alerts = append(alerts, m.checkRank(previous, current, t)...)
	alerts = append(alerts, m.checkPromotions(previous, current)...)

	if len(alerts) > 0 || m.exceedsNoise(previous.Price, current.Price) || m.exceedsNoise(previous.Rating, current.Rating) {
		m.cache.Put(ctx, key, current, m.snapshotTTL, "monitor")
	}
	m.emit(ctx, alerts)
	return alerts
}

// CheckProduct compares the current performance metrics of an owned
// product against the persisted baseline.
func (m *Monitor) CheckProduct(ctx context.Context, current model.ProductMetrics) []Alert {
	key := m.cache.Key("monitor", "product", current.ProductID)

	var previous model.ProductMetrics
	if !m.cache.Get(ctx, key, &previous) {
		m.cache.Put(ctx, key, current, m.snapshotTTL, "monitor")
		return nil
	}

	t := m.Thresholds()
	alerts := make([]Alert, 0, 4)
	alerts = append(alerts, m.checkSigned(current.ProductID, "sales", previous.Sales, current.Sales, t.SalesChangePercent, AlertSalesIncrease, AlertSalesDecrease)...)
	alerts = append(alerts, m.checkSigned(current.ProductID, "revenue", previous.Revenue, current.Revenue, t.RevenueChangePercent, AlertRevenueIncrease, AlertRevenueDecrease)...)
	alerts = append(alerts, m.checkSigned(current.ProductID, "margin", previous.Margin, current.Margin, t.MarginChangePercent, AlertMarginIncrease, AlertMarginDecrease)...)
	alerts = append(alerts, m.checkSigned(current.ProductID, "views", previous.Views, current.Views, t.ViewsChangePercent, AlertViewsIncrease, AlertViewsDecrease)...)
	alerts = append(alerts, m.checkSigned(current.ProductID, "conversion", previous.Conversion, current.Conversion, t.ConversionChangePercent, AlertConversionIncrease, AlertConversionDecrease)...)
	alerts = append(alerts, m.checkInventory(previous, current, t)...)
	alerts = append(alerts, m.checkDirectional(current.ProductID, "price", previous.Price, current.Price, t.PriceIncreasePercent, t.PriceDecreasePercent, AlertPriceIncrease, AlertPriceDecrease)...)

	if len(alerts) > 0 || m.exceedsNoise(previous.Price, current.Price) {
		m.cache.Put(ctx, key, current, m.snapshotTTL, "monitor")
	}
	m.emit(ctx, alerts)
	return alerts
}

// MonitorAll runs one monitoring pass over the entities. Individual
// entity failures are logged and counted, never propagated; the batch
// always completes with a summary. Cancellation is honored between
// entities.
func (m *Monitor) MonitorAll(ctx context.Context, entities []Entity) Summary {
	start := time.Now()
	summary := Summary{Alerts: make([]Alert, 0)}

	for i, entity := range entities {
		if ctx.Err() != nil {
			m.log.Warn(ctx, "monitoring batch canceled",
				logger.Int("processed", summary.ProcessedCount),
				logger.Int("remaining", len(entities)-i))
			break
		}

		alerts, err := m.checkEntity(ctx, entity)
		if err != nil {
			summary.FailedCount++
			metrics.RecordMonitorEntityError()
			m.log.Error(ctx, "entity check failed",
				logger.String("entity_id", entity.ID),
				logger.String("kind", string(entity.Kind)),
				logger.Error(err))
			continue
		}
		summary.ProcessedCount++
		summary.Alerts = append(summary.Alerts, alerts...)
		metrics.RecordMonitorEntity()

		if (i+1)%progressLogInterval == 0 {
			m.log.Info(ctx, "monitoring batch progress",
				logger.Int("checked", i+1),
				logger.Int("total", len(entities)),
				logger.Int("alerts", len(summary.Alerts)))
		}
	}

	summary.Duration = time.Since(start)
	metrics.RecordMonitorCycle()
	metrics.RecordMonitorCycleDuration(float64(summary.Duration.Milliseconds()))
	metrics.UpdateMonitorLastCycleUnix(float64(time.Now().Unix()))
	return summary
}

func (m *Monitor) checkEntity(ctx context.Context, entity Entity) ([]Alert, error) {
	switch entity.Kind {
	case KindCompetitor:
		res := m.provider.GetProductDetails(ctx, entity.ID)
		if !res.Success {
			return nil, fmt.Errorf("fetch competitor %s: %s", entity.ID, res.Message)
		}
		return m.CheckCompetitor(ctx, res.Data), nil
	case KindProduct:
		res := m.provider.GetProductMetrics(ctx, entity.ID)
		if !res.Success {
			return nil, fmt.Errorf("fetch product %s: %s", entity.ID, res.Message)
		}
		return m.CheckProduct(ctx, res.Data), nil
	default:
		return nil, fmt.Errorf("unknown entity kind %q", entity.Kind)
	}
}

func (m *Monitor) checkPrice(previous, current model.CompetitorSnapshot, t ThresholdConfig) []Alert {
	if previous.Price <= 0 {
		return nil
	}
	change := percentChange(previous.Price, current.Price)
	switch {
	case change >= t.PriceIncreasePercent:
		alert := newAlert(AlertPriceIncrease, current.ProductID, current.SellerName,
			fmt.Sprintf("price rose %.1f%%", change), previous.Price, current.Price)
		alert.ChangePercent = change
		return []Alert{alert}
	case change <= -t.PriceDecreasePercent:
		alert := newAlert(AlertPriceDecrease, current.ProductID, current.SellerName,
			fmt.Sprintf("price dropped %.1f%%", -change), previous.Price, current.Price)
		alert.ChangePercent = change
		return []Alert{alert}
	}
	return nil
}

func (m *Monitor) checkRating(previous, current model.CompetitorSnapshot, t ThresholdConfig) []Alert {
	if previous.Rating <= 0 {
		return nil
	}
	delta := current.Rating - previous.Rating
	if math.Abs(delta) < t.RatingChange {
		return nil
	}
	alertType := AlertRatingUp
	direction := "rose"
	if delta < 0 {
		alertType = AlertRatingDown
		direction = "fell"
	}
	alert := newAlert(alertType, current.ProductID, current.SellerName,
		fmt.Sprintf("rating %s by %.2f", direction, math.Abs(delta)), previous.Rating, current.Rating)
	alert.ChangeMagnitude = math.Abs(delta)
	return []Alert{alert}
}

func (m *Monitor) checkReviews(previous, current model.CompetitorSnapshot, t ThresholdConfig) []Alert {
	if previous.ReviewCount <= 0 {
		return nil
	}
	change := percentChange(float64(previous.ReviewCount), float64(current.ReviewCount))
	if change < t.ReviewIncreasePercent {
		return nil
	}
	alert := newAlert(AlertReviewSurge, current.ProductID, current.SellerName,
		fmt.Sprintf("review count surged %.1f%%", change), previous.ReviewCount, current.ReviewCount)
	alert.ChangePercent = change
	return []Alert{alert}
}

func (m *Monitor) checkStock(previous, current model.CompetitorSnapshot) []Alert {
	if previous.StockStatus == model.StockUnknown || previous.StockStatus == "" {
		return nil
	}
	if current.StockStatus == previous.StockStatus {
		return nil
	}
	return []Alert{newAlert(AlertStockChange, current.ProductID, current.SellerName,
		fmt.Sprintf("stock changed from %s to %s", previous.StockStatus, current.StockStatus),
		previous.StockStatus, current.StockStatus)}
}

func (m *Monitor) checkRank(previous, current model.CompetitorSnapshot, t ThresholdConfig) []Alert {
	// Rank 0 means unknown.
	if previous.Rank <= 0 || current.Rank <= 0 {
		return nil
	}
	delta := current.Rank - previous.Rank
	if math.Abs(float64(delta)) < t.RankChange {
		return nil
	}
	// A smaller rank number is a better position.
	alertType := AlertRankDrop
	direction := "dropped"
	if delta < 0 {
		alertType = AlertRankImprove
		direction = "improved"
	}
	alert := newAlert(alertType, current.ProductID, current.SellerName,
		fmt.Sprintf("rank %s by %d positions", direction, int(math.Abs(float64(delta)))),
		previous.Rank, current.Rank)
	alert.ChangeMagnitude = math.Abs(float64(delta))
	return []Alert{alert}
}

func (m *Monitor) checkPromotions(previous, current model.CompetitorSnapshot) []Alert {
	prev := slices.Clone(previous.Promotions)
	curr := slices.Clone(current.Promotions)
	slices.Sort(prev)
	slices.Sort(curr)
	if slices.Equal(prev, curr) {
		return nil
	}
	return []Alert{newAlert(AlertPromotionChange, current.ProductID, current.SellerName,
		fmt.Sprintf("promotions changed (%d before, %d now)", len(previous.Promotions), len(current.Promotions)),
		previous.Promotions, current.Promotions)}
}

// checkSigned is the shared rule for numeric product families: the signed
// percent change is compared against a symmetric threshold.
func (m *Monitor) checkSigned(entityID, family string, previous, current, threshold float64, up, down AlertType) []Alert {
	return m.checkDirectional(entityID, family, previous, current, threshold, threshold, up, down)
}

// checkDirectional compares a metric against independent rise and drop
// thresholds, for families where the two directions are configured
// separately.
func (m *Monitor) checkDirectional(entityID, family string, previous, current, riseThreshold, dropThreshold float64, up, down AlertType) []Alert {
	if previous <= 0 {
		return nil
	}
	change := percentChange(previous, current)
	switch {
	case change >= riseThreshold:
		alert := newAlert(up, entityID, "",
			fmt.Sprintf("%s rose %.1f%%", family, change), previous, current)
		alert.ChangePercent = change
		return []Alert{alert}
	case change <= -dropThreshold:
		alert := newAlert(down, entityID, "",
			fmt.Sprintf("%s fell %.1f%%", family, -change), previous, current)
		alert.ChangePercent = change
		return []Alert{alert}
	}
	return nil
}

func (m *Monitor) checkInventory(previous, current model.ProductMetrics, t ThresholdConfig) []Alert {
	if previous.Inventory <= 0 {
		return nil
	}
	change := percentChange(previous.Inventory, current.Inventory)
	if change > -t.InventoryDecreasePercent {
		return nil
	}
	alert := newAlert(AlertInventoryLow, current.ProductID, "",
		fmt.Sprintf("inventory fell %.1f%%", -change), previous.Inventory, current.Inventory)
	alert.ChangePercent = change
	return []Alert{alert}
}

func (m *Monitor) emit(ctx context.Context, alerts []Alert) {
	if len(alerts) == 0 {
		return
	}
	for _, alert := range alerts {
		metrics.RecordMonitorAlert(string(alert.Type))
	}
	if m.sink == nil {
		return
	}
	if err := m.sink.Publish(ctx, alerts); err != nil {
		m.log.Error(ctx, "alert sink publish failed", logger.Int("alerts", len(alerts)), logger.Error(err))
	}
}

func (m *Monitor) exceedsNoise(previous, current float64) bool {
	if previous <= 0 {
		return false
	}
	return math.Abs(percentChange(previous, current)) > noiseThresholdPercent
}

func percentChange(previous, current float64) float64 {
	return (current - previous) / previous * 100
}
