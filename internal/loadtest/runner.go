package loadtest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hsh723/rocket-sourcer-sub001/pkg/logger"
)

// processingDelay gives the service time to flush scores into the ranking
// before the listing is read back.
const processingDelay = 2 * time.Second

// Run executes the complete sourcing load test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting sourcing load test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("keywords", config.NumKeywords),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Int("topN", config.TopN),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate keyword signals
	signals := generateSignals(ctx, config, stats)

	// Step 3: Submit signals concurrently
	if err := submitSignals(ctx, config, signals, stats); err != nil {
		return fmt.Errorf("signal submission failed: %w", err)
	}

	// Step 4: Wait for the ranking to settle
	logger.Get().Info(ctx, "waiting for scores to settle")
	time.Sleep(processingDelay)

	// Step 5: Fetch the top listing
	top, err := getTopOpportunities(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("top listing retrieval failed: %w", err)
	}

	// Step 6: Verify ordering and spot-check individual ranks
	if err := verifyTopOrdering(ctx, top); err != nil {
		return fmt.Errorf("top listing verification failed: %w", err)
	}
	if err := spotCheckRanks(ctx, config, top, stats); err != nil {
		return fmt.Errorf("rank spot checks failed: %w", err)
	}

	displayTopOpportunities(ctx, top, config.Verbose)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "load test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(stats *Stats) {
	var successRate, signalsPerSecond float64

	if stats.SignalsSubmitted > 0 {
		successRate = float64(stats.SignalsSuccessful) / float64(stats.SignalsSubmitted) * 100
	}
	if stats.Duration > 0 {
		signalsPerSecond = float64(stats.SignalsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("signalsGenerated", stats.SignalsGenerated),
		logger.Int("signalsSubmitted", stats.SignalsSubmitted),
		logger.Int("signalsSuccessful", stats.SignalsSuccessful),
		logger.Int("signalsFailed", stats.SignalsFailed),
		logger.Int("tierMismatches", stats.TierMismatches),
		logger.Int("topEntries", stats.TopEntries),
		logger.Int("rankingsChecked", stats.RankingsChecked),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("signalsPerSecond", signalsPerSecond))
}
