package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hsh723/rocket-sourcer-sub001/internal/domain/model"
	"github.com/hsh723/rocket-sourcer-sub001/pkg/logger"
)

// HTTPClient wraps http.Client with a timeout.
type HTTPClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with a JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body any) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// submitSignals posts all signals to /score using a worker pool and
// verifies each returned score.
func submitSignals(ctx context.Context, config *Config, signals []model.KeywordSignal, stats *Stats) error {
	logger.Get().Info(ctx, "submitting signals",
		logger.Int("count", len(signals)),
		logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/score"

	var (
		successful int64
		failed     int64
		mismatched int64
		submitted  int64
	)

	signalChan := make(chan model.KeywordSignal, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for signal := range signalChan {
				select {
				case <-ctx.Done():
					return
				default:
				}

				atomic.AddInt64(&submitted, 1)
				score, err := submitSingleSignal(ctx, client, url, signal)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					if config.Verbose {
						logger.Get().Warn(ctx, "signal rejected",
							logger.String("keyword", signal.Keyword),
							logger.Error(err))
					}
					continue
				}
				atomic.AddInt64(&successful, 1)
				if err := verifyScore(signal, score); err != nil {
					atomic.AddInt64(&mismatched, 1)
					logger.Get().Warn(ctx, "score verification failed",
						logger.String("keyword", signal.Keyword),
						logger.Error(err))
				}
			}
		}()
	}

	go func() {
		defer close(signalChan)
		for _, signal := range signals {
			select {
			case <-ctx.Done():
				return
			case signalChan <- signal:
			}
		}
	}()

	wg.Wait()

	stats.SignalsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.SignalsSuccessful = int(atomic.LoadInt64(&successful))
	stats.SignalsFailed = int(atomic.LoadInt64(&failed))
	stats.TierMismatches = int(atomic.LoadInt64(&mismatched))

	logger.Get().Info(ctx, "signal submission completed",
		logger.Int("successful", stats.SignalsSuccessful),
		logger.Int("failed", stats.SignalsFailed),
		logger.Int("tierMismatches", stats.TierMismatches))
	return nil
}

// submitSingleSignal posts one signal and decodes the score.
func submitSingleSignal(ctx context.Context, client *HTTPClient, url string, signal model.KeywordSignal) (model.KeywordScore, error) {
	resp, err := client.Post(ctx, url, signal)
	if err != nil {
		return model.KeywordScore{}, err
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return model.KeywordScore{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return model.KeywordScore{}, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var score model.KeywordScore
	if err := json.Unmarshal(body, &score); err != nil {
		return model.KeywordScore{}, fmt.Errorf("failed to decode score: %w", err)
	}
	return score, nil
}
