// Package service wires the sourcing engine together and implements the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hsh723/rocket-sourcer-sub001/internal/adapters/market"
	"github.com/hsh723/rocket-sourcer-sub001/internal/adapters/mq/queue"
	"github.com/hsh723/rocket-sourcer-sub001/internal/adapters/mq/worker"
	"github.com/hsh723/rocket-sourcer-sub001/internal/adapters/repository"
	"github.com/hsh723/rocket-sourcer-sub001/internal/adapters/sink"
	"github.com/hsh723/rocket-sourcer-sub001/internal/cache"
	"github.com/hsh723/rocket-sourcer-sub001/internal/config"
	"github.com/hsh723/rocket-sourcer-sub001/internal/domain/competition"
	"github.com/hsh723/rocket-sourcer-sub001/internal/domain/dedupe"
	"github.com/hsh723/rocket-sourcer-sub001/internal/domain/model"
	"github.com/hsh723/rocket-sourcer-sub001/internal/domain/monitor"
	"github.com/hsh723/rocket-sourcer-sub001/internal/domain/scoring"
	"github.com/hsh723/rocket-sourcer-sub001/pkg/logger"
	"github.com/hsh723/rocket-sourcer-sub001/pkg/metrics"
)

// bestSellerSampleSize bounds how many listings a category analysis pulls
// from the provider.
const bestSellerSampleSize = 100

// Service owns the cache, engines and monitor and exposes the operations
// consumers call.
type Service struct {
	mu sync.RWMutex

	// Core components
	cache    *cache.Cache
	store    cache.Store
	redis    *redis.Client
	engine   *scoring.Engine
	analyzer *competition.Analyzer
	monitor  *monitor.Monitor
	provider market.Provider
	rankings repository.Store

	// Alert delivery pipeline
	alerts     monitor.Sink
	alertQueue *queue.InMemoryQueue
	dispatch   *worker.Pool

	// Configuration
	cfg *config.Config

	// Watch list for the background monitoring loop
	watched []monitor.Entity

	// State
	started bool
	stopCh  chan struct{}
	wg      sync.WaitGroup

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithProvider sets the market-data provider.
func WithProvider(p market.Provider) Option {
	return func(s *Service) {
		if p != nil {
			s.provider = p
		}
	}
}

// WithAlertSink sets the sink receiving monitoring alerts.
func WithAlertSink(alerts monitor.Sink) Option {
	return func(s *Service) {
		if alerts != nil {
			s.alerts = alerts
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// New creates a Service from the configuration. Components are built on
// Start so a constructed Service carries no goroutines yet.
func New(cfg *config.Config, opts ...Option) *Service {
	if cfg == nil {
		cfg = config.New()
	}
	s := &Service{
		cfg:      cfg,
		provider: market.NewMemoryProvider(),
		stopCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the component graph and launches the monitoring loop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting sourcing service...")

	if err := s.buildStore(ctx); err != nil {
		return err
	}
	s.cache = cache.New(s.store,
		cache.WithNamespace(s.cfg.CacheNamespace),
		cache.WithDefaultTTL(time.Duration(s.cfg.CacheTTLMinutes)*time.Minute),
		cache.WithLogger(s.logger.Named("cache")),
	)
	s.engine = scoring.NewEngine(
		scoring.WithCache(s.cache),
		scoring.WithMemoTTL(time.Duration(s.cfg.ScoreMemoMinutes)*time.Minute),
		scoring.WithBatchWorkers(s.cfg.ScoreBatchWorkers),
		scoring.WithLogger(s.logger.Named("scoring")),
	)
	s.analyzer = competition.NewAnalyzer(
		competition.WithCache(s.cache),
		competition.WithLogger(s.logger.Named("competition")),
	)
	s.rankings = repository.NewTreapStore()

	// Alerts flow monitor -> dedupe -> queue -> dispatch workers -> sink.
	if s.alerts == nil {
		s.alerts = sink.NewLoggingSink(s.logger.Named("alerts"))
	}
	s.alertQueue = queue.NewInMemoryQueue(queue.WithCapacity(s.cfg.AlertQueueSize))
	s.dispatch = worker.NewPool(s.cfg.AlertWorkers, s.alertQueue, s.alerts)
	s.dispatch.Start(ctx)
	pipeline := sink.NewDedupingSink(
		sink.NewAsyncSink(s.alertQueue, s.logger.Named("alerts")),
		dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.cfg.AlertDedupeSize)),
	)

	s.monitor = monitor.New(s.provider, s.cache,
		monitor.WithSnapshotTTL(time.Duration(s.cfg.SnapshotTTLHours)*time.Hour),
		monitor.WithSink(pipeline),
		monitor.WithLogger(s.logger.Named("monitor")),
	)
	if len(s.cfg.Thresholds) > 0 {
		s.monitor.UpdateThresholds(s.cfg.Thresholds)
	}

	if interval := time.Duration(s.cfg.MonitorIntervalMinutes) * time.Minute; interval > 0 {
		s.wg.Add(1)
		go s.monitorLoop(interval)
		s.logger.Info(ctx, "monitoring loop started", logger.Duration("interval", interval))
	}

	s.started = true
	s.logger.Info(ctx, "sourcing service started",
		logger.String("cache_backend", s.cfg.CacheBackend),
		logger.Int("batch_workers", s.cfg.ScoreBatchWorkers),
	)
	return nil
}

// Stop gracefully shuts down the service. The lock is released before
// waiting so the monitoring loop can finish its read of the watch list.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	store := s.store
	rdb := s.redis
	dispatch := s.dispatch
	s.mu.Unlock()

	s.logger.Info(context.Background(), "stopping sourcing service...")

	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}
	s.wg.Wait()

	if dispatch != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		_ = dispatch.Shutdown(shutdownCtx)
		cancel()
	}

	if closer, ok := store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	if rdb != nil {
		_ = rdb.Close()
	}

	s.logger.Info(context.Background(), "sourcing service stopped")
}

func (s *Service) buildStore(ctx context.Context) error {
	switch s.cfg.CacheBackend {
	case "redis":
		s.redis = redis.NewClient(&redis.Options{
			Addr:     s.cfg.RedisAddr,
			Password: s.cfg.RedisPassword,
			DB:       s.cfg.RedisDB,
		})
		s.store = cache.NewRedisStore(s.redis)
		s.logger.Info(ctx, "using redis cache store", logger.String("addr", s.cfg.RedisAddr))
	case "memory", "":
		s.store = cache.NewMemoryStore(ctx,
			cache.WithSweepInterval(time.Duration(s.cfg.CacheSweepSeconds)*time.Second))
		s.logger.Info(ctx, "using memory cache store")
	default:
		return fmt.Errorf("unknown cache backend %q", s.cfg.CacheBackend)
	}
	return nil
}

// monitorLoop runs monitoring passes on a fixed cadence until Stop.
func (s *Service) monitorLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			summary := s.RunMonitor(ctx)
			cancel()
			s.logger.Info(context.Background(), "monitoring cycle finished",
				logger.Int("processed", summary.ProcessedCount),
				logger.Int("failed", summary.FailedCount),
				logger.Int("alerts", len(summary.Alerts)),
				logger.Duration("duration", summary.Duration),
			)
		}
	}
}

// ScoreKeyword scores one keyword signal and records the result on the
// opportunity ranking.
func (s *Service) ScoreKeyword(ctx context.Context, signal model.KeywordSignal) (model.KeywordScore, error) {
	score, err := s.engine.ScoreKeyword(ctx, signal)
	if err != nil {
		return score, err
	}
	s.rankings.Record(ctx, score.Keyword, score.TotalScore, score.Tier, signal.MonthlyVolume)
	return score, nil
}

// ScoreKeywords scores a batch of keyword signals.
func (s *Service) ScoreKeywords(ctx context.Context, signals []model.KeywordSignal) ([]model.KeywordScore, error) {
	scores, err := s.engine.ScoreKeywords(ctx, signals)
	if err != nil {
		return nil, err
	}
	for i, score := range scores {
		s.rankings.Record(ctx, score.Keyword, score.TotalScore, score.Tier, signals[i].MonthlyVolume)
	}
	return scores, nil
}

// CalculateProfitability derives a profitability report.
func (s *Service) CalculateProfitability(input model.ProfitabilityInput) (model.ProfitabilityReport, error) {
	return s.engine.CalculateProfitability(input)
}

// AnalyzeCompetitors aggregates caller-supplied competitor records.
func (s *Service) AnalyzeCompetitors(records []model.CompetitorSnapshot) competition.Report {
	return s.analyzer.Analyze(records)
}

// AnalyzeCategory pulls the category's best sellers from the provider and
// aggregates them, serving repeated calls from the cache. A provider
// failure yields a zeroed report for this cycle.
func (s *Service) AnalyzeCategory(ctx context.Context, category string) competition.Report {
	res := s.provider.GetBestSellers(ctx, category, bestSellerSampleSize)
	if !res.Success {
		s.logger.Warn(ctx, "category listing unavailable",
			logger.String("category", category),
			logger.String("reason", res.Message))
		metrics.RecordErrorByComponent("provider", "unavailable")
		return s.analyzer.Analyze(nil)
	}
	return s.analyzer.AnalyzeCategory(ctx, category, res.Data)
}

// TopOpportunities returns the best-scoring keywords seen so far.
func (s *Service) TopOpportunities(ctx context.Context, n int) ([]repository.Entry, error) {
	return s.rankings.TopN(ctx, n)
}

// OpportunityRank returns a keyword's position on the opportunity ranking.
func (s *Service) OpportunityRank(ctx context.Context, keyword string) (repository.Entry, error) {
	return s.rankings.Rank(ctx, keyword)
}

// Watch registers an entity for background monitoring.
func (s *Service) Watch(entity monitor.Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.watched {
		if w.ID == entity.ID && w.Kind == entity.Kind {
			return
		}
	}
	s.watched = append(s.watched, entity)
	metrics.UpdateWatchedEntities(len(s.watched))
}

// Unwatch removes an entity from background monitoring.
func (s *Service) Unwatch(entity monitor.Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, w := range s.watched {
		if w.ID == entity.ID && w.Kind == entity.Kind {
			s.watched = append(s.watched[:i], s.watched[i+1:]...)
			break
		}
	}
	metrics.UpdateWatchedEntities(len(s.watched))
}

// Watched returns the current watch list.
func (s *Service) Watched() []monitor.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]monitor.Entity, len(s.watched))
	copy(out, s.watched)
	return out
}

// RunMonitor executes one monitoring pass over the watch list.
func (s *Service) RunMonitor(ctx context.Context) monitor.Summary {
	return s.monitor.MonitorAll(ctx, s.Watched())
}

// Thresholds returns the monitor's current trigger thresholds.
func (s *Service) Thresholds() monitor.ThresholdConfig {
	return s.monitor.Thresholds()
}

// UpdateThresholds merges a partial threshold update.
func (s *Service) UpdateThresholds(partial map[string]float64) bool {
	return s.monitor.UpdateThresholds(partial)
}

// CacheStats returns cache activity counters.
func (s *Service) CacheStats() cache.StatsSnapshot {
	return s.cache.Stats()
}

// ResetCacheStats zeroes the cache activity counters.
func (s *Service) ResetCacheStats() {
	s.cache.ResetStats()
}

// FlushCache drops cached entries carrying any of the tags, or everything
// under the namespace when no tag is given.
func (s *Service) FlushCache(ctx context.Context, tags ...string) bool {
	if len(tags) == 0 {
		return s.cache.ForgetByPrefix(ctx, s.cache.Prefix())
	}
	return s.cache.FlushByTags(ctx, tags...)
}
