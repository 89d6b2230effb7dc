package loadtest

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/hsh723/rocket-sourcer-sub001/internal/domain/model"
)

func TestGenerateSignals(t *testing.T) {
	Convey("Given a load test configuration", t, func() {
		config := &Config{NumKeywords: 200}
		stats := &Stats{}

		Convey("When signals are generated", func() {
			signals := generateSignals(context.Background(), config, stats)

			Convey("Then the requested number is produced", func() {
				So(signals, ShouldHaveLength, 200)
				So(stats.SignalsGenerated, ShouldEqual, 200)
			})

			Convey("Then keywords are unique", func() {
				seen := make(map[string]bool, len(signals))
				for _, signal := range signals {
					So(seen[signal.Keyword], ShouldBeFalse)
					seen[signal.Keyword] = true
				}
			})

			Convey("Then every signal is well formed", func() {
				for _, signal := range signals {
					So(signal.MonthlyVolume, ShouldBeGreaterThanOrEqualTo, 0)
					So(signal.MonthlyVolume, ShouldBeLessThan, 1000000)
					So(signal.TrendSeries, ShouldHaveLength, trendPoints)
					So(signal.Competition.SellerCount, ShouldBeBetweenOrEqual, 0, 100)
					So(signal.Competition.BrandPresence, ShouldBeBetweenOrEqual, 0, 100)
					for _, point := range signal.TrendSeries {
						So(point, ShouldBeGreaterThanOrEqualTo, 0)
					}
				}
			})
		})
	})
}

func TestVerifyScore(t *testing.T) {
	Convey("Given a submitted signal", t, func() {
		signal := model.KeywordSignal{Keyword: "kw-test"}

		Convey("A consistent score passes", func() {
			score := model.KeywordScore{Keyword: "kw-test", TotalScore: 85, Tier: model.TierStrong}
			So(verifyScore(signal, score), ShouldBeNil)
		})

		Convey("A tier that disagrees with the total fails", func() {
			score := model.KeywordScore{Keyword: "kw-test", TotalScore: 30, Tier: model.TierStrong}
			So(verifyScore(signal, score), ShouldNotBeNil)
		})

		Convey("A mismatched keyword fails", func() {
			score := model.KeywordScore{Keyword: "kw-other", TotalScore: 50, Tier: model.TierCautious}
			So(verifyScore(signal, score), ShouldNotBeNil)
		})

		Convey("An out-of-range total fails", func() {
			score := model.KeywordScore{Keyword: "kw-test", TotalScore: 120, Tier: model.TierStrong}
			So(verifyScore(signal, score), ShouldNotBeNil)
		})
	})
}

func TestVerifyTopOrdering(t *testing.T) {
	Convey("Given ranking listings", t, func() {
		Convey("A sorted listing with dense tie ranks passes", func() {
			top := []Entry{
				{Rank: 1, Keyword: "a", Score: 90},
				{Rank: 2, Keyword: "b", Score: 70},
				{Rank: 2, Keyword: "c", Score: 70},
				{Rank: 3, Keyword: "d", Score: 50},
			}
			So(verifyTopOrdering(context.Background(), top), ShouldBeNil)
		})

		Convey("An unsorted listing fails", func() {
			top := []Entry{
				{Rank: 1, Keyword: "a", Score: 50},
				{Rank: 2, Keyword: "b", Score: 90},
			}
			So(verifyTopOrdering(context.Background(), top), ShouldNotBeNil)
		})

		Convey("Tied scores with different ranks fail", func() {
			top := []Entry{
				{Rank: 1, Keyword: "a", Score: 70},
				{Rank: 2, Keyword: "b", Score: 70},
			}
			So(verifyTopOrdering(context.Background(), top), ShouldNotBeNil)
		})

		Convey("An empty listing fails", func() {
			So(verifyTopOrdering(context.Background(), nil), ShouldNotBeNil)
		})
	})
}
