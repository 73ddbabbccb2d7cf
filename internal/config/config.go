// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - Provide New() to build a Config with defaults.
//   - Durations are koanf-decoded from strings such as "30s".
//   - Provider keys left empty or set to a "your_..._here" placeholder count as absent.
package config

import (
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects text or json output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`
	// CORSAllowedOrigins lists browser origins allowed to call the API.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// Cricket provider (CricAPI).
	CricketAPIKey     string `koanf:"cricket_api_key"`
	CricketBaseURL    string `koanf:"cricket_base_url"`
	CricketDailyQuota int    `koanf:"cricket_daily_quota"`

	// Football provider (API-Football over RapidAPI).
	FootballAPIKey     string `koanf:"football_api_key"`
	FootballBaseURL    string `koanf:"football_base_url"`
	FootballHost       string `koanf:"football_host"`
	FootballTimezone   string `koanf:"football_timezone"`
	FootballDailyQuota int    `koanf:"football_daily_quota"`

	// UpstreamTimeout bounds every provider request.
	UpstreamTimeout time.Duration `koanf:"upstream_timeout"`

	// AI provider (OpenAI-compatible chat completions).
	AIAPIKey          string        `koanf:"ai_api_key"`
	AIBaseURL         string        `koanf:"ai_base_url"`
	AIModel           string        `koanf:"ai_model"`
	AITimeout         time.Duration `koanf:"ai_timeout"`
	AIMaxCalls        int           `koanf:"ai_max_calls"`
	AIRateWindow      time.Duration `koanf:"ai_rate_window"`
	WinProbabilityTTL time.Duration `koanf:"win_probability_ttl"`

	// Cache lifetimes per key class.
	ScoresTTL time.Duration `koanf:"scores_ttl"`
	MatchTTL  time.Duration `koanf:"match_ttl"`

	// SlugRegistrySize bounds the slug registry; 0 keeps every entry.
	SlugRegistrySize int `koanf:"slug_registry_size"`

	// Enrichment worker pool.
	EnrichmentWorkers   int `koanf:"enrichment_workers"`
	EnrichmentQueueSize int `koanf:"enrichment_queue_size"`

	// RefreshSchedule is a cron spec for warming the listing cache; empty disables it.
	RefreshSchedule string `koanf:"refresh_schedule"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Addr:      ":4000",
		CORSAllowedOrigins: []string{
			"http://localhost:3001",
			"http://localhost:3000",
			"https://matchday.vercel.app",
			"https://matchday.live",
		},

		CricketBaseURL:    "https://api.cricapi.com/v1",
		CricketDailyQuota: 100,

		FootballBaseURL:    "https://api-football-v1.p.rapidapi.com/v3",
		FootballHost:       "api-football-v1.p.rapidapi.com",
		FootballTimezone:   "Asia/Kolkata",
		FootballDailyQuota: 100,

		UpstreamTimeout: 10 * time.Second,

		AIBaseURL:         "https://api.groq.com/openai/v1",
		AIModel:           "llama-3.3-70b-versatile",
		AITimeout:         10 * time.Second,
		AIMaxCalls:        25,
		AIRateWindow:      time.Minute,
		WinProbabilityTTL: time.Minute,

		ScoresTTL: 30 * time.Second,
		MatchTTL:  15 * time.Second,

		SlugRegistrySize: 10_000,

		EnrichmentWorkers:   4,
		EnrichmentQueueSize: 256,

		RefreshSchedule: "@every 30s",
	}
}

// KeyConfigured reports whether an API key is usable. Empty keys and the
// "your_..._here" placeholders shipped in sample env files are not.
func KeyConfigured(key string) bool {
	k := strings.TrimSpace(key)
	if k == "" {
		return false
	}
	return !(strings.HasPrefix(k, "your_") && strings.HasSuffix(k, "_here"))
}
