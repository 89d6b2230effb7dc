package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/hsh723/rocket-sourcer-sub001/internal/adapters/http/api"
	"github.com/hsh723/rocket-sourcer-sub001/internal/adapters/repository"
	"github.com/hsh723/rocket-sourcer-sub001/internal/cache"
	"github.com/hsh723/rocket-sourcer-sub001/internal/domain/competition"
	"github.com/hsh723/rocket-sourcer-sub001/internal/domain/model"
	"github.com/hsh723/rocket-sourcer-sub001/internal/domain/monitor"
	"github.com/hsh723/rocket-sourcer-sub001/internal/domain/scoring"
)

// mockDependencies implements the Dependencies interface with canned data.
type mockDependencies struct {
	scoreErr   error
	watched    []monitor.Entity
	thresholds monitor.ThresholdConfig
	applied    bool
	flushTags  []string
	statsReset bool
}

func newMockDependencies() *mockDependencies {
	return &mockDependencies{thresholds: monitor.DefaultThresholds()}
}

func (m *mockDependencies) ScoreKeyword(ctx context.Context, signal model.KeywordSignal) (model.KeywordScore, error) {
	if m.scoreErr != nil {
		return model.KeywordScore{}, m.scoreErr
	}
	return model.KeywordScore{Keyword: signal.Keyword, TotalScore: 73.2, Tier: model.TierModerate}, nil
}

func (m *mockDependencies) ScoreKeywords(ctx context.Context, signals []model.KeywordSignal) ([]model.KeywordScore, error) {
	scores := make([]model.KeywordScore, 0, len(signals))
	for _, signal := range signals {
		score, err := m.ScoreKeyword(ctx, signal)
		if err != nil {
			return nil, err
		}
		scores = append(scores, score)
	}
	return scores, nil
}

func (m *mockDependencies) CalculateProfitability(input model.ProfitabilityInput) (model.ProfitabilityReport, error) {
	if input.SellingPrice <= 0 {
		return model.ProfitabilityReport{}, scoring.ErrInvalidSellingPrice
	}
	return model.ProfitabilityReport{Revenue: input.SellingPrice, NetProfit: 5400}, nil
}

func (m *mockDependencies) AnalyzeCompetitors(records []model.CompetitorSnapshot) competition.Report {
	return competition.Report{ProductCount: len(records), IntensityLevel: competition.IntensityLow}
}

func (m *mockDependencies) AnalyzeCategory(ctx context.Context, category string) competition.Report {
	if category == "electronics" {
		return competition.Report{ProductCount: 4, IntensityLevel: competition.IntensityMedium}
	}
	return competition.Report{IntensityLevel: competition.IntensityLow}
}

func (m *mockDependencies) TopOpportunities(ctx context.Context, n int) ([]repository.Entry, error) {
	entries := []repository.Entry{
		{Rank: 1, Keyword: "earbuds", Score: 85, Tier: model.TierStrong},
		{Rank: 2, Keyword: "charger", Score: 62, Tier: model.TierModerate},
	}
	if n < len(entries) {
		entries = entries[:n]
	}
	return entries, nil
}

func (m *mockDependencies) OpportunityRank(ctx context.Context, keyword string) (repository.Entry, error) {
	if keyword != "earbuds" {
		return repository.Entry{}, repository.ErrNotFound
	}
	return repository.Entry{Rank: 1, Keyword: "earbuds", Score: 85, Tier: model.TierStrong}, nil
}

func (m *mockDependencies) Watch(entity monitor.Entity) {
	m.watched = append(m.watched, entity)
}

func (m *mockDependencies) Unwatch(entity monitor.Entity) {
	kept := m.watched[:0]
	for _, e := range m.watched {
		if e != entity {
			kept = append(kept, e)
		}
	}
	m.watched = kept
}

func (m *mockDependencies) Watched() []monitor.Entity {
	return m.watched
}

func (m *mockDependencies) RunMonitor(ctx context.Context) monitor.Summary {
	return monitor.Summary{ProcessedCount: len(m.watched)}
}

func (m *mockDependencies) Thresholds() monitor.ThresholdConfig {
	return m.thresholds
}

func (m *mockDependencies) UpdateThresholds(partial map[string]float64) bool {
	_, ok := partial["price_decrease_percent"]
	if ok {
		m.thresholds.PriceDecreasePercent = partial["price_decrease_percent"]
	}
	m.applied = ok
	return ok
}

func (m *mockDependencies) CacheStats() cache.StatsSnapshot {
	return cache.StatsSnapshot{Hits: 7, Misses: 3}
}

func (m *mockDependencies) ResetCacheStats() {
	m.statsReset = true
}

func (m *mockDependencies) FlushCache(ctx context.Context, tags ...string) bool {
	m.flushTags = tags
	return true
}

func newTestMux(deps api.Dependencies) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps).Register(context.Background(), mux)
	return mux
}

func TestServerRegister(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newTestMux(newMockDependencies())

		Convey("Then the health endpoint responds", func() {
			req := httptest.NewRequest("GET", "/healthz", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "ok")
		})

		Convey("And the metrics endpoint responds", func() {
			req := httptest.NewRequest("GET", "/metrics", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("And unknown paths fall through to not found", func() {
			req := httptest.NewRequest("GET", "/nope", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestScoreEndpoints(t *testing.T) {
	Convey("Given the scoring routes", t, func() {
		mux := newTestMux(newMockDependencies())

		Convey("When posting a keyword signal", func() {
			body := `{"keyword":"earbuds","monthly_volume":10000}`
			req := httptest.NewRequest("POST", "/score", strings.NewReader(body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then a score comes back", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var score model.KeywordScore
				So(json.NewDecoder(w.Body).Decode(&score), ShouldBeNil)
				So(score.Keyword, ShouldEqual, "earbuds")
				So(score.TotalScore, ShouldEqual, 73.2)
			})
		})

		Convey("When posting malformed JSON", func() {
			req := httptest.NewRequest("POST", "/score", strings.NewReader(`{broken`))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When using the wrong method", func() {
			req := httptest.NewRequest("GET", "/score", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When posting a batch of signals", func() {
			body := `[{"keyword":"a"},{"keyword":"b"}]`
			req := httptest.NewRequest("POST", "/score/batch", strings.NewReader(body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then scores preserve input order", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var scores []model.KeywordScore
				So(json.NewDecoder(w.Body).Decode(&scores), ShouldBeNil)
				So(len(scores), ShouldEqual, 2)
				So(scores[0].Keyword, ShouldEqual, "a")
				So(scores[1].Keyword, ShouldEqual, "b")
			})
		})

		Convey("When posting a profitability request", func() {
			body := `{"selling_price":20000,"product_cost":8000}`
			req := httptest.NewRequest("POST", "/profitability", strings.NewReader(body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			var report model.ProfitabilityReport
			So(json.NewDecoder(w.Body).Decode(&report), ShouldBeNil)
			So(report.NetProfit, ShouldEqual, 5400)
		})

		Convey("When posting an invalid profitability request", func() {
			body := `{"selling_price":0}`
			req := httptest.NewRequest("POST", "/profitability", strings.NewReader(body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestCompetitionEndpoints(t *testing.T) {
	Convey("Given the competition routes", t, func() {
		mux := newTestMux(newMockDependencies())

		Convey("When posting competitor snapshots", func() {
			body := `[{"product_id":"p1","seller_name":"alpha","price":10000}]`
			req := httptest.NewRequest("POST", "/competition/analyze", strings.NewReader(body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			var report competition.Report
			So(json.NewDecoder(w.Body).Decode(&report), ShouldBeNil)
			So(report.ProductCount, ShouldEqual, 1)
		})

		Convey("When fetching a category report", func() {
			req := httptest.NewRequest("GET", "/competition/category/electronics", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			var report competition.Report
			So(json.NewDecoder(w.Body).Decode(&report), ShouldBeNil)
			So(report.ProductCount, ShouldEqual, 4)
		})

		Convey("When the category segment is empty", func() {
			req := httptest.NewRequest("GET", "/competition/category/", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestRankingEndpoints(t *testing.T) {
	Convey("Given the opportunity ranking routes", t, func() {
		mux := newTestMux(newMockDependencies())

		Convey("When requesting the top keywords", func() {
			req := httptest.NewRequest("GET", "/keywords/top?limit=1", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			var entries []repository.Entry
			So(json.NewDecoder(w.Body).Decode(&entries), ShouldBeNil)
			So(len(entries), ShouldEqual, 1)
			So(entries[0].Keyword, ShouldEqual, "earbuds")
		})

		Convey("When the limit is missing", func() {
			req := httptest.NewRequest("GET", "/keywords/top", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the limit is too large", func() {
			req := httptest.NewRequest("GET", "/keywords/top?limit=10000", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When looking up a ranked keyword", func() {
			req := httptest.NewRequest("GET", "/keywords/rank/earbuds", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			var entry repository.Entry
			So(json.NewDecoder(w.Body).Decode(&entry), ShouldBeNil)
			So(entry.Rank, ShouldEqual, 1)
		})

		Convey("When looking up an unranked keyword", func() {
			req := httptest.NewRequest("GET", "/keywords/rank/unknown", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the keyword segment is empty", func() {
			req := httptest.NewRequest("GET", "/keywords/rank/", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestMonitorEndpoints(t *testing.T) {
	Convey("Given the monitoring routes", t, func() {
		deps := newMockDependencies()
		mux := newTestMux(deps)

		Convey("When adding an entity to the watch list", func() {
			body := `{"id":"comp-1","kind":"competitor"}`
			req := httptest.NewRequest("POST", "/monitor/watch", strings.NewReader(body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			So(len(deps.watched), ShouldEqual, 1)

			Convey("And a GET lists it", func() {
				req := httptest.NewRequest("GET", "/monitor/watch", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				var entities []monitor.Entity
				So(json.NewDecoder(w.Body).Decode(&entities), ShouldBeNil)
				So(len(entities), ShouldEqual, 1)
				So(entities[0].ID, ShouldEqual, "comp-1")
			})

			Convey("And a DELETE removes it", func() {
				req := httptest.NewRequest("DELETE", "/monitor/watch", strings.NewReader(body))
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.watched, ShouldBeEmpty)
			})
		})

		Convey("When watching without an id", func() {
			req := httptest.NewRequest("POST", "/monitor/watch", strings.NewReader(`{"kind":"product"}`))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When watching with an unknown kind", func() {
			req := httptest.NewRequest("POST", "/monitor/watch", strings.NewReader(`{"id":"x","kind":"warehouse"}`))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When triggering a monitoring pass", func() {
			deps.watched = []monitor.Entity{{ID: "p1", Kind: monitor.KindProduct}}
			req := httptest.NewRequest("POST", "/monitor/run", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			var summary monitor.Summary
			So(json.NewDecoder(w.Body).Decode(&summary), ShouldBeNil)
			So(summary.ProcessedCount, ShouldEqual, 1)
		})

		Convey("When reading thresholds", func() {
			req := httptest.NewRequest("GET", "/monitor/thresholds", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			var thresholds monitor.ThresholdConfig
			So(json.NewDecoder(w.Body).Decode(&thresholds), ShouldBeNil)
			So(thresholds.PriceIncreasePercent, ShouldEqual, 10)
		})

		Convey("When patching thresholds", func() {
			body := `{"price_decrease_percent":5}`
			req := httptest.NewRequest("PATCH", "/monitor/thresholds", strings.NewReader(body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.applied, ShouldBeTrue)
			So(deps.thresholds.PriceDecreasePercent, ShouldEqual, 5)
		})
	})
}

func TestCacheEndpoints(t *testing.T) {
	Convey("Given the cache routes", t, func() {
		deps := newMockDependencies()
		mux := newTestMux(deps)

		Convey("When fetching cache stats", func() {
			req := httptest.NewRequest("GET", "/cache/stats", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			var stats cache.StatsSnapshot
			So(json.NewDecoder(w.Body).Decode(&stats), ShouldBeNil)
			So(stats.Hits, ShouldEqual, 7)
		})

		Convey("When resetting cache stats", func() {
			req := httptest.NewRequest("DELETE", "/cache/stats", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.statsReset, ShouldBeTrue)
		})

		Convey("When flushing tagged entries", func() {
			req := httptest.NewRequest("POST", "/cache/flush", strings.NewReader(`{"tags":["keyword"]}`))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.flushTags, ShouldResemble, []string{"keyword"})
		})

		Convey("When flushing without a body", func() {
			req := httptest.NewRequest("POST", "/cache/flush", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.flushTags, ShouldBeEmpty)
		})
	})
}
