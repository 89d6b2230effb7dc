package loadtest

import "time"

// Config holds configuration for a load-test run.
type Config struct {
	BaseURL     string        // Base URL of the service
	NumKeywords int           // Number of keyword signals to generate
	TopN        int           // Number of top ranking entries to fetch
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	LogFile     string        // Log file for output
	Verbose     bool          // Enable verbose logging
}

// Stats holds run statistics.
type Stats struct {
	SignalsGenerated  int
	SignalsSubmitted  int
	SignalsSuccessful int
	SignalsFailed     int
	TierMismatches    int
	RankingsChecked   int
	TopEntries        int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
