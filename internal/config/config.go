// Package config defines service configuration structures and loading hooks.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// IndexPath points at the season game index CSV.
	IndexPath string `koanf:"index_path"`

	// FeedBaseURL overrides the live-data CDN root. Empty keeps the default.
	FeedBaseURL string `koanf:"feed_base_url"`

	// FeedRateLimit and FeedBurst bound requests against the CDN.
	FeedRateLimit float64 `koanf:"feed_rate_limit"`
	FeedBurst     int     `koanf:"feed_burst"`

	// DirectoryBaseURL and DirectoryAPIKey configure the team directory.
	// Empty values keep the client defaults.
	DirectoryBaseURL string `koanf:"directory_base_url"`
	DirectoryAPIKey  string `koanf:"directory_api_key"`

	// WorkerCount sets the per-game computation pool width. Zero sizes the
	// pool from the host CPU count.
	WorkerCount int `koanf:"worker_count"`

	// TaskTimeoutMS bounds a single per-game computation. Zero keeps the
	// pipeline default.
	TaskTimeoutMS int `koanf:"task_timeout_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		Addr:          ":8080",
		IndexPath:     "data/games.csv",
		FeedRateLimit: 8,
		FeedBurst:     4,
	}
}
