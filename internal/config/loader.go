package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if ARENA_CONFIG is set
//  3. env (prefix ARENA_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("ARENA_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrLoadConfig, err)
		}
	}

	// Environment variables: ARENA_ADDR, ARENA_LOCK_WINDOW_MINUTES, ...
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("ARENA_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "arena_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLoadConfig, err)
	}

	switch {
	case cfg.Addr == "":
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.LockWindowMinutes < 1:
		return nil, fmt.Errorf("%w: lock_window_minutes must be positive", ErrInvalidConfig)
	case cfg.PollTimeoutSeconds < 1:
		return nil, fmt.Errorf("%w: poll_timeout_seconds must be positive", ErrInvalidConfig)
	case cfg.MaxLeaderboardLimit < 1:
		return nil, fmt.Errorf("%w: max_leaderboard_limit must be positive", ErrInvalidConfig)
	}
	return &cfg, nil
}
