package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics recording", t, func() {
		Convey("When recording cache metrics", func() {
			Convey("Then it should record hits and misses", func() {
				So(func() {
					RecordCacheHit()
					RecordCacheHit()
					RecordCacheMiss()
				}, ShouldNotPanic)
			})

			Convey("And it should record writes and invalidations", func() {
				So(func() {
					RecordCacheSet()
					RecordCacheDelete()
					RecordCacheFlush()
				}, ShouldNotPanic)
			})

			Convey("And it should record store errors and latency", func() {
				So(func() {
					RecordCacheError("get")
					RecordCacheOpLatency(1.5)
					UpdateCacheEntryCount(42)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording scoring metrics", func() {
			Convey("Then it should record keyword scores", func() {
				So(func() {
					RecordKeywordScore()
					RecordKeywordScoreLatency(12.0)
					RecordMemoizedScoreServe()
				}, ShouldNotPanic)
			})

			Convey("And it should record profitability reports and errors", func() {
				So(func() {
					RecordProfitabilityReport()
					RecordScoringError()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording competition metrics", func() {
			Convey("Then it should record reports and latency", func() {
				So(func() {
					RecordCompetitionReport()
					RecordCompetitionReportLatency(25.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording monitor metrics", func() {
			Convey("Then it should record cycle metrics", func() {
				So(func() {
					RecordMonitorCycle()
					RecordMonitorEntity()
					RecordMonitorEntityError()
					RecordMonitorCycleDuration(350.0)
					UpdateMonitorLastCycleUnix(1700000000)
					UpdateWatchedEntities(120)
				}, ShouldNotPanic)
			})

			Convey("And it should record alerts by type", func() {
				So(func() {
					RecordMonitorAlert("price_decrease")
					RecordMonitorAlert("rating_change")
					RecordMonitorAlert("stock_status_change")
				}, ShouldNotPanic)
			})
		})

		Convey("When recording HTTP metrics", func() {
			Convey("Then it should record requests and durations", func() {
				So(func() {
					RecordHTTPRequest("score", "POST", "200")
					RecordHTTPRequestDuration("score", "POST", 12.5)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording error metrics", func() {
			Convey("Then it should record errors by component", func() {
				So(func() {
					RecordErrorByComponent("cache", "store_error")
					RecordErrorByComponent("monitor", "provider_error")
				}, ShouldNotPanic)
			})
		})

		Convey("When recording system metrics", func() {
			Convey("Then it should update system gauges", func() {
				So(func() {
					UpdateSystemMemoryUsage(1024 * 1024)
					UpdateSystemGoroutineCount(50)
				}, ShouldNotPanic)
			})
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the metrics package", t, func() {
		Convey("When getting the registry", func() {
			registry := GetRegistry()

			Convey("Then it should return the custom registry", func() {
				So(registry, ShouldNotBeNil)
			})
		})
	})
}
