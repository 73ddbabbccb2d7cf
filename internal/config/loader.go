package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variables controlling where configuration comes from.
const (
	EnvPrefix     = "MATCHDAY_"
	EnvConfigFile = "MATCHDAY_CONFIG"
	EnvDotenvFile = "MATCHDAY_ENV_FILE"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if MATCHDAY_CONFIG is set
//  3. env (prefix MATCHDAY_), after merging a .env file that never overrides
//     variables already present in the process environment
func Load() (*Config, error) {
	base := New()

	if err := loadDotenv(); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// MATCHDAY_SCORES_TTL -> scores_ttl (flat keys, underscores preserved).
	envProvider := env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, any) {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(EnvPrefix))
		if _, ok := listKeys[key]; ok {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// listKeys are comma-separated when set through the environment.
var listKeys = map[string]struct{}{ //nolint:gochecknoglobals // fixed key set
	"cors_allowed_origins": {},
}

func splitList(v string) []string {
	out := []string{}
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func loadDotenv() error {
	path := os.Getenv(EnvDotenvFile)
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
	}
	return nil
}

// Validate checks invariants the rest of the service relies on.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.ScoresTTL <= 0 || c.MatchTTL <= 0:
		return fmt.Errorf("%w: cache ttls must be positive", ErrInvalidConfig)
	case c.UpstreamTimeout <= 0 || c.AITimeout <= 0:
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidConfig)
	case c.AIMaxCalls <= 0 || c.AIRateWindow <= 0:
		return fmt.Errorf("%w: ai rate limit must be positive", ErrInvalidConfig)
	case c.SlugRegistrySize < 0:
		return fmt.Errorf("%w: slug_registry_size must not be negative", ErrInvalidConfig)
	case c.EnrichmentWorkers < 0 || c.EnrichmentQueueSize < 0:
		return fmt.Errorf("%w: enrichment pool sizes must not be negative", ErrInvalidConfig)
	}
	return nil
}
