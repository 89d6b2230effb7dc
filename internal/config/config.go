// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() defaults and Load(ctx) for layered loading.
// - Runtime-tunable knobs (thresholds) live with their owning component;
//   only their startup values pass through here.
package config

import "runtime"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9090".
	Addr string `koanf:"addr"`

	// CacheBackend selects the cache store: memory or redis.
	CacheBackend string `koanf:"cache_backend"`

	// RedisAddr, RedisPassword and RedisDB configure the redis backend.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// CacheNamespace prefixes every cache key.
	CacheNamespace string `koanf:"cache_namespace"`

	// CacheTTLMinutes is the default cache entry lifetime.
	CacheTTLMinutes int `koanf:"cache_ttl_minutes"`

	// CacheSweepSeconds sets how often the memory store purges expired
	// entries.
	CacheSweepSeconds int `koanf:"cache_sweep_seconds"`

	// ScoreMemoMinutes bounds how long a memoized keyword score is served.
	ScoreMemoMinutes int `koanf:"score_memo_minutes"`

	// ScoreBatchWorkers bounds batch scoring parallelism.
	ScoreBatchWorkers int `koanf:"score_batch_workers"`

	// MonitorIntervalMinutes sets the background monitoring cadence.
	// Zero disables the loop.
	MonitorIntervalMinutes int `koanf:"monitor_interval_minutes"`

	// SnapshotTTLHours sets how long monitoring baselines stay valid.
	SnapshotTTLHours int `koanf:"snapshot_ttl_hours"`

	// AlertQueueSize bounds the async alert dispatch queue.
	AlertQueueSize int `koanf:"alert_queue_size"`

	// AlertWorkers sets how many dispatch workers drain the alert queue.
	AlertWorkers int `koanf:"alert_workers"`

	// AlertDedupeSize bounds the alert fingerprint suppression window.
	AlertDedupeSize int `koanf:"alert_dedupe_size"`

	// Thresholds are startup overrides for the monitor's trigger table,
	// keyed the same way as runtime threshold updates.
	Thresholds map[string]float64 `koanf:"thresholds"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":9090",
		CacheBackend:           "memory",
		RedisAddr:              "127.0.0.1:6379",
		CacheNamespace:         "sourcer",
		CacheTTLMinutes:        60,
		CacheSweepSeconds:      60,
		ScoreMemoMinutes:       60,
		ScoreBatchWorkers:      runtime.NumCPU(),
		MonitorIntervalMinutes: 30,
		SnapshotTTLHours:       168,
		AlertQueueSize:         1024,
		AlertWorkers:           2,
		AlertDedupeSize:        10000,
	}
}
