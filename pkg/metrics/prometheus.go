// Package metrics provides Prometheus metrics for the sourcing engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the sourcing engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Cache Metrics - memoization effectiveness
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	cacheSets       prometheus.Counter
	cacheDeletes    prometheus.Counter
	cacheFlushes    prometheus.Counter
	cacheEntryCount prometheus.Gauge
	cacheOpLatency  prometheus.Histogram
	cacheErrors     *prometheus.CounterVec

	// Scoring Metrics - keyword and profitability computation
	keywordScores        prometheus.Counter
	keywordScoreLatency  prometheus.Histogram
	memoizedScoreServes  prometheus.Counter
	profitabilityReports prometheus.Counter
	scoringErrors        prometheus.Counter

	// Competition Analysis Metrics
	competitionReports       prometheus.Counter
	competitionReportLatency prometheus.Histogram

	// Monitor Metrics - change detection cycles
	monitorCycles        prometheus.Counter
	monitorEntities      prometheus.Counter
	monitorEntityErrors  prometheus.Counter
	monitorAlerts        *prometheus.CounterVec
	monitorCycleDuration prometheus.Histogram
	monitorLastCycleUnix prometheus.Gauge
	watchedEntities      prometheus.Gauge

	// Ranking Metrics - opportunity ranking store
	rankingEntries      prometheus.Gauge
	rankingUpdates      prometheus.Counter
	rankingQueryLatency prometheus.Histogram

	// Alert Pipeline Metrics - async dispatch
	alertQueueSize     prometheus.Gauge
	alertQueueCapacity prometheus.Gauge
	alertsEnqueued     prometheus.Counter
	alertsDelivered    prometheus.Counter
	alertsDropped      prometheus.Counter
	alertsSuppressed   prometheus.Counter

	// HTTP Metrics - API surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Enhanced Error Metrics - detailed error tracking
	errorRateByComponent *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "sourcer",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Cache Metrics - memoization effectiveness
	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_hits_total",
		Help:      "Total number of cache hits",
	})

	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_misses_total",
		Help:      "Total number of cache misses (absent or expired entries)",
	})

	m.cacheSets = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_sets_total",
		Help:      "Total number of cache writes",
	})

	m.cacheDeletes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_deletes_total",
		Help:      "Total number of single-key cache invalidations",
	})

	m.cacheFlushes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_flushes_total",
		Help:      "Total number of bulk cache invalidations (prefix or tags)",
	})

	m.cacheEntryCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_entries",
		Help:      "Current number of live cache entries",
	})

	m.cacheOpLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_op_latency_milliseconds",
		Help:      "Histogram of cache store operation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.cacheErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "cache_errors_total",
			Help:      "Total number of swallowed cache store errors by operation",
		},
		[]string{"op"},
	)

	// Scoring Metrics
	m.keywordScores = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "keyword_scores_total",
		Help:      "Total number of keyword scores computed",
	})

	m.keywordScoreLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "keyword_score_latency_milliseconds",
		Help:      "Histogram of keyword scoring latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.memoizedScoreServes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "memoized_score_serves_total",
		Help:      "Total number of keyword scores served from the cache",
	})

	m.profitabilityReports = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profitability_reports_total",
		Help:      "Total number of profitability reports computed",
	})

	m.scoringErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scoring_errors_total",
		Help:      "Total number of rejected scoring inputs",
	})

	// Competition Analysis Metrics
	m.competitionReports = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "competition_reports_total",
		Help:      "Total number of competition reports produced",
	})

	m.competitionReportLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "competition_report_latency_milliseconds",
		Help:      "Histogram of competition analysis latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// Monitor Metrics
	m.monitorCycles = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "monitor_cycles_total",
		Help:      "Total number of monitoring cycles run",
	})

	m.monitorEntities = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "monitor_entities_total",
		Help:      "Total number of entities examined across all cycles",
	})

	m.monitorEntityErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "monitor_entity_errors_total",
		Help:      "Total number of entities skipped due to per-entity failures",
	})

	m.monitorAlerts = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "monitor_alerts_total",
			Help:      "Total number of alerts emitted by alert type",
		},
		[]string{"alert_type"},
	)

	m.monitorCycleDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "monitor_cycle_duration_milliseconds",
		Help:      "Histogram of monitoring cycle duration in milliseconds",
		Buckets:   []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
	})

	m.monitorLastCycleUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "monitor_last_cycle_unix",
		Help:      "Unix timestamp of the last completed monitoring cycle",
	})

	m.watchedEntities = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "watched_entities",
		Help:      "Number of entities currently being monitored",
	})

	// Ranking Metrics
	m.rankingEntries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ranking_entries",
		Help:      "Current number of keywords on the opportunity ranking",
	})

	m.rankingUpdates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ranking_updates_total",
		Help:      "Total number of accepted ranking improvements",
	})

	m.rankingQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ranking_query_latency_milliseconds",
		Help:      "Histogram of ranking query latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// Alert Pipeline Metrics
	m.alertQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "alert_queue_size",
		Help:      "Current number of alerts waiting for dispatch",
	})

	m.alertQueueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "alert_queue_capacity",
		Help:      "Configured capacity of the alert dispatch queue",
	})

	m.alertsEnqueued = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "alerts_enqueued_total",
		Help:      "Total number of alerts accepted into the dispatch queue",
	})

	m.alertsDelivered = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "alerts_delivered_total",
		Help:      "Total number of alerts delivered to the downstream sink",
	})

	m.alertsDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "alerts_dropped_total",
		Help:      "Total number of alerts dropped due to queue backpressure",
	})

	m.alertsSuppressed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "alerts_suppressed_total",
		Help:      "Total number of alerts suppressed as duplicates",
	})

	// HTTP Metrics
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint, method and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "Histogram of HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method"},
	)

	// Enhanced Error Metrics
	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component and type",
		},
		[]string{"component", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})
}

// Cache Metrics Functions.

// RecordCacheHit increments the cache hits counter.
func RecordCacheHit() {
	globalManager.cacheHits.Inc()
}

// RecordCacheMiss increments the cache misses counter.
func RecordCacheMiss() {
	globalManager.cacheMisses.Inc()
}

// RecordCacheSet increments the cache writes counter.
func RecordCacheSet() {
	globalManager.cacheSets.Inc()
}

// RecordCacheDelete increments the cache deletes counter.
func RecordCacheDelete() {
	globalManager.cacheDeletes.Inc()
}

// RecordCacheFlush increments the bulk invalidation counter.
func RecordCacheFlush() {
	globalManager.cacheFlushes.Inc()
}

// UpdateCacheEntryCount sets the current number of live cache entries.
func UpdateCacheEntryCount(count int) {
	globalManager.cacheEntryCount.Set(float64(count))
}

// RecordCacheOpLatency records a cache store operation latency.
func RecordCacheOpLatency(latencyMs float64) {
	globalManager.cacheOpLatency.Observe(latencyMs)
}

// RecordCacheError records a swallowed cache store error for an operation.
func RecordCacheError(op string) {
	globalManager.cacheErrors.WithLabelValues(op).Inc()
}

// Scoring Metrics Functions.

// RecordKeywordScore increments the keyword scores counter.
func RecordKeywordScore() {
	globalManager.keywordScores.Inc()
}

// RecordKeywordScoreLatency records keyword scoring latency in milliseconds.
func RecordKeywordScoreLatency(latencyMs float64) {
	globalManager.keywordScoreLatency.Observe(latencyMs)
}

// RecordMemoizedScoreServe increments the memoized score serves counter.
func RecordMemoizedScoreServe() {
	globalManager.memoizedScoreServes.Inc()
}

// RecordProfitabilityReport increments the profitability reports counter.
func RecordProfitabilityReport() {
	globalManager.profitabilityReports.Inc()
}

// RecordScoringError increments the scoring errors counter.
func RecordScoringError() {
	globalManager.scoringErrors.Inc()
}

// Competition Analysis Metrics Functions.

// RecordCompetitionReport increments the competition reports counter.
func RecordCompetitionReport() {
	globalManager.competitionReports.Inc()
}

// RecordCompetitionReportLatency records competition analysis latency.
func RecordCompetitionReportLatency(latencyMs float64) {
	globalManager.competitionReportLatency.Observe(latencyMs)
}

// Monitor Metrics Functions.

// RecordMonitorCycle increments the monitoring cycles counter.
func RecordMonitorCycle() {
	globalManager.monitorCycles.Inc()
}

// RecordMonitorEntity increments the examined entities counter.
func RecordMonitorEntity() {
	globalManager.monitorEntities.Inc()
}

// RecordMonitorEntityError increments the per-entity failure counter.
func RecordMonitorEntityError() {
	globalManager.monitorEntityErrors.Inc()
}

// RecordMonitorAlert increments the alert counter for an alert type.
func RecordMonitorAlert(alertType string) {
	globalManager.monitorAlerts.WithLabelValues(alertType).Inc()
}

// RecordMonitorCycleDuration records a monitoring cycle duration.
func RecordMonitorCycleDuration(durationMs float64) {
	globalManager.monitorCycleDuration.Observe(durationMs)
}

// UpdateMonitorLastCycleUnix sets the timestamp of the last completed cycle.
func UpdateMonitorLastCycleUnix(unix float64) {
	globalManager.monitorLastCycleUnix.Set(unix)
}

// UpdateWatchedEntities sets the number of monitored entities.
func UpdateWatchedEntities(count int) {
	globalManager.watchedEntities.Set(float64(count))
}

// Ranking Metrics Functions.

// UpdateRankingEntries sets the number of keywords on the ranking.
func UpdateRankingEntries(count int) {
	globalManager.rankingEntries.Set(float64(count))
}

// RecordRankingUpdate increments the accepted ranking improvements counter.
func RecordRankingUpdate() {
	globalManager.rankingUpdates.Inc()
}

// RecordRankingQueryLatency records a ranking query latency.
func RecordRankingQueryLatency(latencyMs float64) {
	globalManager.rankingQueryLatency.Observe(latencyMs)
}

// Alert Pipeline Metrics Functions.

// UpdateAlertQueueSize sets the current alert queue depth.
func UpdateAlertQueueSize(size int) {
	globalManager.alertQueueSize.Set(float64(size))
}

// UpdateAlertQueueCapacity sets the configured alert queue capacity.
func UpdateAlertQueueCapacity(capacity int) {
	globalManager.alertQueueCapacity.Set(float64(capacity))
}

// RecordAlertEnqueued increments the accepted alerts counter.
func RecordAlertEnqueued() {
	globalManager.alertsEnqueued.Inc()
}

// RecordAlertDelivered increments the delivered alerts counter.
func RecordAlertDelivered() {
	globalManager.alertsDelivered.Inc()
}

// RecordAlertDropped increments the dropped alerts counter.
func RecordAlertDropped() {
	globalManager.alertsDropped.Inc()
}

// RecordAlertSuppressed increments the suppressed duplicate alerts counter.
func RecordAlertSuppressed() {
	globalManager.alertsSuppressed.Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest increments the request counter for an endpoint.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration records a request duration for an endpoint.
func RecordHTTPRequestDuration(endpoint, method string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method).Observe(durationMs)
}

// Enhanced Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
