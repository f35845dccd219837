// Package config defines service configuration structures and loading hooks.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// LockWindowMinutes bounds the grace window after first selection.
	LockWindowMinutes int `koanf:"lock_window_minutes"`

	// PaymentGate requires a confirmed payment before problem selection.
	PaymentGate bool `koanf:"payment_gate"`

	// PollIntervalSeconds is the cadence of the background repo poller.
	// Zero disables background polling.
	PollIntervalSeconds int `koanf:"poll_interval_seconds"`

	// PollTimeoutSeconds bounds a single upstream commit fetch.
	PollTimeoutSeconds int `koanf:"poll_timeout_seconds"`

	// CommitAPIBaseURL points at the code-hosting REST API.
	CommitAPIBaseURL string `koanf:"commit_api_base_url"`

	// StoragePath is the SQLite file path; empty runs in-memory only.
	StoragePath string `koanf:"storage_path"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`
}

// New returns the configuration defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		LockWindowMinutes:   10,
		PaymentGate:         true,
		PollIntervalSeconds: 300,
		PollTimeoutSeconds:  15,
		CommitAPIBaseURL:    "https://api.github.com",
		StoragePath:         "",
		MaxLeaderboardLimit: 100,
	}
}
