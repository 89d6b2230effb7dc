package monitor

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/hsh723/rocket-sourcer-sub001/internal/adapters/market"
	"github.com/hsh723/rocket-sourcer-sub001/internal/cache"
	"github.com/hsh723/rocket-sourcer-sub001/internal/domain/model"
)

func newTestMonitor(t *testing.T, opts ...Option) (*Monitor, *market.MemoryProvider, func()) {
	t.Helper()
	ctx := context.Background()
	store := cache.NewMemoryStore(ctx, cache.WithSweepInterval(time.Hour))
	c := cache.New(store, cache.WithNamespace("test"))
	provider := market.NewMemoryProvider()
	return New(provider, c, opts...), provider, func() { store.Close() }
}

func competitorAt(price, rating float64, reviews, rank int) model.CompetitorSnapshot {
	return model.CompetitorSnapshot{
		ProductID:   "comp-1",
		SellerName:  "rival",
		Platform:    "coupang",
		Price:       price,
		Rating:      rating,
		ReviewCount: reviews,
		Rank:        rank,
		StockStatus: model.StockInStock,
		ObservedAt:  time.Now(),
	}
}

func TestCheckCompetitor(t *testing.T) {
	Convey("Given a monitor with a persisted baseline", t, func() {
		ctx := context.Background()
		m, _, done := newTestMonitor(t)
		defer done()

		baseline := competitorAt(10000, 4.5, 100, 20)
		So(m.CheckCompetitor(ctx, baseline), ShouldBeEmpty)

		Convey("When the price drops 15% against a 10% threshold", func() {
			alerts := m.CheckCompetitor(ctx, competitorAt(8500, 4.5, 100, 20))

			Convey("Then exactly one price decrease alert fires", func() {
				So(len(alerts), ShouldEqual, 1)
				So(alerts[0].Type, ShouldEqual, AlertPriceDecrease)
				So(alerts[0].ChangePercent, ShouldEqual, -15.0)
				So(alerts[0].EntityID, ShouldEqual, "comp-1")
				So(alerts[0].ID, ShouldNotBeEmpty)
			})

			Convey("And the baseline advances so a repeat is silent", func() {
				So(m.CheckCompetitor(ctx, competitorAt(8500, 4.5, 100, 20)), ShouldBeEmpty)
			})
		})

		Convey("When the rating drifts below the threshold", func() {
			m.UpdateThresholds(map[string]float64{"rating_change": 0.5})
			alerts := m.CheckCompetitor(ctx, competitorAt(10000, 4.52, 100, 20))

			Convey("Then no alert fires", func() {
				So(alerts, ShouldBeEmpty)
			})
		})

		Convey("When the rating falls past the threshold", func() {
			alerts := m.CheckCompetitor(ctx, competitorAt(10000, 4.0, 100, 20))

			So(len(alerts), ShouldEqual, 1)
			So(alerts[0].Type, ShouldEqual, AlertRatingDown)
			So(alerts[0].ChangeMagnitude, ShouldAlmostEqual, 0.5, 0.0001)
		})

		Convey("When reviews surge past the threshold", func() {
			alerts := m.CheckCompetitor(ctx, competitorAt(10000, 4.5, 150, 20))

			So(len(alerts), ShouldEqual, 1)
			So(alerts[0].Type, ShouldEqual, AlertReviewSurge)
			So(alerts[0].ChangePercent, ShouldEqual, 50)
		})

		Convey("When the listing goes out of stock", func() {
			current := competitorAt(10000, 4.5, 100, 20)
			current.StockStatus = model.StockOutOfStock
			alerts := m.CheckCompetitor(ctx, current)

			So(len(alerts), ShouldEqual, 1)
			So(alerts[0].Type, ShouldEqual, AlertStockChange)
		})

		Convey("When the rank improves by more than the threshold", func() {
			alerts := m.CheckCompetitor(ctx, competitorAt(10000, 4.5, 100, 5))

			So(len(alerts), ShouldEqual, 1)
			So(alerts[0].Type, ShouldEqual, AlertRankImprove)
			So(alerts[0].ChangeMagnitude, ShouldEqual, 15)
		})

		Convey("When the promotion set changes", func() {
			current := competitorAt(10000, 4.5, 100, 20)
			current.Promotions = []string{"flash-sale"}
			alerts := m.CheckCompetitor(ctx, current)

			So(len(alerts), ShouldEqual, 1)
			So(alerts[0].Type, ShouldEqual, AlertPromotionChange)
		})

		Convey("When several families cross at once", func() {
			current := competitorAt(8000, 3.9, 160, 40)
			alerts := m.CheckCompetitor(ctx, current)

			Convey("Then each family contributes its own alert", func() {
				types := make([]AlertType, 0, len(alerts))
				for _, a := range alerts {
					types = append(types, a.Type)
				}
				So(types, ShouldContain, AlertPriceDecrease)
				So(types, ShouldContain, AlertRatingDown)
				So(types, ShouldContain, AlertReviewSurge)
				So(types, ShouldContain, AlertRankDrop)
			})
		})
	})

	Convey("Given a baseline with unusable previous values", t, func() {
		ctx := context.Background()
		m, _, done := newTestMonitor(t)
		defer done()

		baseline := competitorAt(0, 0, 0, 0)
		baseline.StockStatus = model.StockUnknown
		So(m.CheckCompetitor(ctx, baseline), ShouldBeEmpty)

		Convey("When the current observation has real values", func() {
			alerts := m.CheckCompetitor(ctx, competitorAt(9999, 4.8, 500, 3))

			Convey("Then every comparison is skipped instead of dividing by zero", func() {
				So(alerts, ShouldBeEmpty)
			})
		})
	})
}

func TestCheckProduct(t *testing.T) {
	Convey("Given a monitor with a product baseline", t, func() {
		ctx := context.Background()
		m, _, done := newTestMonitor(t)
		defer done()

		baseline := model.ProductMetrics{
			ProductID:  "prod-1",
			Sales:      100,
			Revenue:    2000000,
			Margin:     25,
			Views:      5000,
			Conversion: 2.0,
			Inventory:  300,
			Price:      20000,
			ObservedAt: time.Now(),
		}
		So(m.CheckProduct(ctx, baseline), ShouldBeEmpty)

		Convey("When sales fall sharply", func() {
			current := baseline
			current.Sales = 70
			alerts := m.CheckProduct(ctx, current)

			So(len(alerts), ShouldEqual, 1)
			So(alerts[0].Type, ShouldEqual, AlertSalesDecrease)
			So(alerts[0].ChangePercent, ShouldEqual, -30)
		})

		Convey("When inventory drains past the threshold", func() {
			current := baseline
			current.Inventory = 150
			alerts := m.CheckProduct(ctx, current)

			So(len(alerts), ShouldEqual, 1)
			So(alerts[0].Type, ShouldEqual, AlertInventoryLow)
		})

		Convey("When nothing moves beyond noise", func() {
			current := baseline
			current.Views = 5010
			So(m.CheckProduct(ctx, current), ShouldBeEmpty)
		})

		Convey("When the price thresholds are asymmetric", func() {
			m.UpdateThresholds(map[string]float64{
				"price_decrease_percent": 10,
				"price_increase_percent": 30,
			})

			Convey("A 15% price drop fires a decrease alert", func() {
				current := baseline
				current.Price = 17000
				alerts := m.CheckProduct(ctx, current)

				So(len(alerts), ShouldEqual, 1)
				So(alerts[0].Type, ShouldEqual, AlertPriceDecrease)
				So(alerts[0].ChangePercent, ShouldEqual, -15)
			})

			Convey("A 15% price rise stays below the increase threshold", func() {
				current := baseline
				current.Price = 23000
				So(m.CheckProduct(ctx, current), ShouldBeEmpty)
			})

			Convey("A 35% price rise fires an increase alert", func() {
				current := baseline
				current.Price = 27000
				alerts := m.CheckProduct(ctx, current)

				So(len(alerts), ShouldEqual, 1)
				So(alerts[0].Type, ShouldEqual, AlertPriceIncrease)
				So(alerts[0].ChangePercent, ShouldEqual, 35)
			})
		})
	})
}

func TestUpdateThresholds(t *testing.T) {
	Convey("Given a monitor with default thresholds", t, func() {
		m, _, done := newTestMonitor(t)
		defer done()

		Convey("When merging known and unknown keys", func() {
			applied := m.UpdateThresholds(map[string]float64{
				"price_decrease_percent": 5,
				"made_up_key":            42,
			})

			Convey("Then known keys merge and unknown keys are ignored", func() {
				So(applied, ShouldBeTrue)
				So(m.Thresholds().PriceDecreasePercent, ShouldEqual, 5)
				So(m.Thresholds().PriceIncreasePercent, ShouldEqual, DefaultThresholds().PriceIncreasePercent)
			})
		})

		Convey("When the partial update has only unknown keys", func() {
			applied := m.UpdateThresholds(map[string]float64{"nope": 1})

			Convey("Then nothing is applied", func() {
				So(applied, ShouldBeFalse)
				So(m.Thresholds(), ShouldResemble, DefaultThresholds())
			})
		})
	})
}

// recordingSink captures published alerts for assertions.
type recordingSink struct {
	alerts []Alert
}

func (s *recordingSink) Publish(ctx context.Context, alerts []Alert) error {
	s.alerts = append(s.alerts, alerts...)
	return nil
}

func TestMonitorAll(t *testing.T) {
	Convey("Given a monitor over a seeded provider", t, func() {
		ctx := context.Background()
		sink := &recordingSink{}
		m, provider, done := newTestMonitor(t, WithSink(sink))
		defer done()

		provider.SeedProduct(competitorAt(10000, 4.5, 100, 20), "electronics")
		provider.SeedMetrics(model.ProductMetrics{
			ProductID: "prod-1",
			Sales:     100,
			Inventory: 300,
			Price:     20000,
		})

		entities := []Entity{
			{ID: "comp-1", Kind: KindCompetitor},
			{ID: "prod-1", Kind: KindProduct},
			{ID: "ghost", Kind: KindCompetitor},
		}

		Convey("When the batch runs with a missing entity", func() {
			summary := m.MonitorAll(ctx, entities)

			Convey("Then the failure is counted but the batch completes", func() {
				So(summary.ProcessedCount, ShouldEqual, 2)
				So(summary.FailedCount, ShouldEqual, 1)
				So(summary.Duration, ShouldBeGreaterThan, 0)
				So(summary.Alerts, ShouldBeEmpty)
			})

			Convey("And a later cycle after a price cut produces alerts", func() {
				provider.SeedProduct(competitorAt(8000, 4.5, 100, 20), "")
				second := m.MonitorAll(ctx, entities)

				So(second.ProcessedCount, ShouldEqual, 2)
				So(len(second.Alerts), ShouldEqual, 1)
				So(second.Alerts[0].Type, ShouldEqual, AlertPriceDecrease)

				Convey("And the sink received the alert", func() {
					So(len(sink.alerts), ShouldEqual, 1)
				})
			})
		})

		Convey("When the context is already canceled", func() {
			canceled, cancel := context.WithCancel(ctx)
			cancel()
			summary := m.MonitorAll(canceled, entities)

			Convey("Then the batch stops without processing", func() {
				So(summary.ProcessedCount, ShouldEqual, 0)
			})
		})

		Convey("When an unknown entity kind slips in", func() {
			summary := m.MonitorAll(ctx, []Entity{{ID: "x", Kind: "mystery"}})

			So(summary.FailedCount, ShouldEqual, 1)
			So(summary.ProcessedCount, ShouldEqual, 0)
		})
	})
}
