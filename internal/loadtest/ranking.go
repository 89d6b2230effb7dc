package loadtest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/hsh723/rocket-sourcer-sub001/internal/domain/model"
	"github.com/hsh723/rocket-sourcer-sub001/pkg/logger"
)

// Entry mirrors the ranking entries returned by the service.
type Entry struct {
	Rank    int                      `json:"rank"`
	Keyword string                   `json:"keyword"`
	Score   float64                  `json:"score"`
	Tier    model.RecommendationTier `json:"tier"`
	Volume  int                      `json:"volume"`
}

// getTopOpportunities fetches the top N ranking entries.
func getTopOpportunities(ctx context.Context, config *Config, stats *Stats) ([]Entry, error) {
	logger.Get().Info(ctx, "fetching top opportunities", logger.Int("topN", config.TopN))

	client := newHTTPClient(config.Timeout)
	reqURL := fmt.Sprintf("%s/keywords/top?limit=%d", config.BaseURL, config.TopN)

	resp, err := client.Get(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top opportunities: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var entries []Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode entries: %w", err)
	}

	stats.TopEntries = len(entries)
	logger.Get().Info(ctx, "fetched top opportunities", logger.Int("entries", len(entries)))
	return entries, nil
}

// spotCheckRanks re-reads individual rank entries for the listed keywords
// and checks them against the top listing.
func spotCheckRanks(ctx context.Context, config *Config, top []Entry, stats *Stats) error {
	client := newHTTPClient(config.Timeout)

	checked := 0
	for _, expected := range top {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		got, err := getRank(ctx, client, config.BaseURL, expected.Keyword)
		if err != nil {
			return fmt.Errorf("rank lookup for %q failed: %w", expected.Keyword, err)
		}
		if got.Rank != expected.Rank {
			return fmt.Errorf("rank mismatch for %q: listing says %d, lookup says %d",
				expected.Keyword, expected.Rank, got.Rank)
		}
		if got.Score != expected.Score {
			return fmt.Errorf("score mismatch for %q: listing says %.3f, lookup says %.3f",
				expected.Keyword, expected.Score, got.Score)
		}
		checked++
	}

	stats.RankingsChecked = checked
	logger.Get().Info(ctx, "rank spot checks passed", logger.Int("checked", checked))
	return nil
}

// getRank fetches a single keyword's ranking entry.
func getRank(ctx context.Context, client *HTTPClient, baseURL, keyword string) (Entry, error) {
	reqURL := baseURL + "/keywords/rank/" + url.PathEscape(keyword)

	resp, err := client.Get(ctx, reqURL)
	if err != nil {
		return Entry{}, err
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return Entry{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return Entry{}, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var entry Entry
	if err := json.Unmarshal(body, &entry); err != nil {
		return Entry{}, fmt.Errorf("failed to decode entry: %w", err)
	}
	return entry, nil
}
