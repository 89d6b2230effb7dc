// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hsh723/rocket-sourcer-sub001/internal/adapters/repository"
	"github.com/hsh723/rocket-sourcer-sub001/internal/cache"
	"github.com/hsh723/rocket-sourcer-sub001/internal/domain/competition"
	"github.com/hsh723/rocket-sourcer-sub001/internal/domain/model"
	"github.com/hsh723/rocket-sourcer-sub001/internal/domain/monitor"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Scoring operations.
	ScoreKeyword(ctx context.Context, signal model.KeywordSignal) (model.KeywordScore, error)
	ScoreKeywords(ctx context.Context, signals []model.KeywordSignal) ([]model.KeywordScore, error)
	CalculateProfitability(input model.ProfitabilityInput) (model.ProfitabilityReport, error)

	// Competition analysis.
	AnalyzeCompetitors(records []model.CompetitorSnapshot) competition.Report
	AnalyzeCategory(ctx context.Context, category string) competition.Report

	// Opportunity ranking.
	TopOpportunities(ctx context.Context, n int) ([]repository.Entry, error)
	OpportunityRank(ctx context.Context, keyword string) (repository.Entry, error)

	// Monitoring.
	Watch(entity monitor.Entity)
	Unwatch(entity monitor.Entity)
	Watched() []monitor.Entity
	RunMonitor(ctx context.Context) monitor.Summary
	Thresholds() monitor.ThresholdConfig
	UpdateThresholds(partial map[string]float64) bool

	// Cache administration.
	CacheStats() cache.StatsSnapshot
	ResetCacheStats()
	FlushCache(ctx context.Context, tags ...string) bool
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	scoreHandler       *ScoreHandler
	competitionHandler *CompetitionHandler
	rankingHandler     *RankingHandler
	monitorHandler     *MonitorHandler
	cacheHandler       *CacheHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		scoreHandler:       NewScoreHandler(deps),
		competitionHandler: NewCompetitionHandler(deps),
		rankingHandler:     NewRankingHandler(deps),
		monitorHandler:     NewMonitorHandler(deps),
		cacheHandler:       NewCacheHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/score", MetricsMiddleware(s.scoreHandler.HandleScore, "score"))
	mux.HandleFunc("/score/batch", MetricsMiddleware(s.scoreHandler.HandleScoreBatch, "score_batch"))
	mux.HandleFunc("/profitability", MetricsMiddleware(s.scoreHandler.HandleProfitability, "profitability"))
	mux.HandleFunc("/competition/analyze", MetricsMiddleware(s.competitionHandler.HandleAnalyze, "competition_analyze"))
	mux.HandleFunc("/competition/category/", MetricsMiddleware(s.competitionHandler.HandleCategory, "competition_category"))
	mux.HandleFunc("/keywords/top", MetricsMiddleware(s.rankingHandler.HandleTop, "keywords_top"))
	mux.HandleFunc("/keywords/rank/", MetricsMiddleware(s.rankingHandler.HandleRank, "keywords_rank"))
	mux.HandleFunc("/monitor/run", MetricsMiddleware(s.monitorHandler.HandleRun, "monitor_run"))
	mux.HandleFunc("/monitor/watch", MetricsMiddleware(s.monitorHandler.HandleWatch, "monitor_watch"))
	mux.HandleFunc("/monitor/thresholds", MetricsMiddleware(s.monitorHandler.HandleThresholds, "monitor_thresholds"))
	mux.HandleFunc("/cache/stats", MetricsMiddleware(s.cacheHandler.HandleStats, "cache_stats"))
	mux.HandleFunc("/cache/flush", MetricsMiddleware(s.cacheHandler.HandleFlush, "cache_flush"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return false
	}
	return true
}
