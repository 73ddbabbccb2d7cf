package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/matchday/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		clearConfigEnvVars()
		// Point the dotenv loader at a file that does not exist unless a case overrides it.
		_ = os.Setenv(config.EnvDotenvFile, filepath.Join(t.TempDir(), "missing.env"))
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load()

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":4000")
				convey.So(cfg.ScoresTTL, convey.ShouldEqual, 30*time.Second)
				convey.So(cfg.SlugRegistrySize, convey.ShouldEqual, 10_000)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("MATCHDAY_ADDR", ":8080")
			_ = os.Setenv("MATCHDAY_SCORES_TTL", "45s")
			_ = os.Setenv("MATCHDAY_AI_MAX_CALLS", "10")
			_ = os.Setenv("MATCHDAY_CRICKET_API_KEY", "live-key")
			_ = os.Setenv("MATCHDAY_CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

			cfg, err := config.Load()

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.ScoresTTL, convey.ShouldEqual, 45*time.Second)
				convey.So(cfg.AIMaxCalls, convey.ShouldEqual, 10)
				convey.So(cfg.CricketAPIKey, convey.ShouldEqual, "live-key")
				convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"https://a.example", "https://b.example"})
			})
		})

		convey.Convey("When origins carry spaces and empty entries", func() {
			_ = os.Setenv("MATCHDAY_CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example,")

			cfg, err := config.Load()

			convey.Convey("Then each origin is trimmed and blanks are dropped", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"https://a.example", "https://b.example"})
			})
		})

		convey.Convey("When origins come from a YAML list", func() {
			_ = os.Setenv(config.EnvConfigFile, createTempConfigFile(t, `
cors_allowed_origins:
  - https://c.example
  - https://d.example
`))

			cfg, err := config.Load()

			convey.Convey("Then the list is kept as is", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"https://c.example", "https://d.example"})
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(t, `
addr: ":9090"
match_ttl: 5s
enrichment_workers: 2
`)
			_ = os.Setenv(config.EnvConfigFile, tmpFile)
			_ = os.Setenv("MATCHDAY_ENRICHMENT_WORKERS", "8")

			cfg, err := config.Load()

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.MatchTTL, convey.ShouldEqual, 5*time.Second)
				convey.So(cfg.EnrichmentWorkers, convey.ShouldEqual, 8)
				convey.So(cfg.ScoresTTL, convey.ShouldEqual, 30*time.Second)
			})
		})

		convey.Convey("When a dotenv file is present", func() {
			dir := t.TempDir()
			envFile := filepath.Join(dir, ".env")
			convey.So(os.WriteFile(envFile, []byte("MATCHDAY_FOOTBALL_API_KEY=from-dotenv\nMATCHDAY_ADDR=:7000\n"), 0o600), convey.ShouldBeNil)
			_ = os.Setenv(config.EnvDotenvFile, envFile)
			_ = os.Setenv("MATCHDAY_ADDR", ":6000")

			cfg, err := config.Load()

			convey.Convey("Then it fills unset variables without overriding real ones", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.FootballAPIKey, convey.ShouldEqual, "from-dotenv")
				convey.So(cfg.Addr, convey.ShouldEqual, ":6000")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			_ = os.Setenv(config.EnvConfigFile, createTempConfigFile(t, `invalid: yaml: content: [`))

			cfg, err := config.Load()

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv(config.EnvConfigFile, "/non/existent/file.yaml")

			cfg, err := config.Load()

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("MATCHDAY_ADDR", "")

			cfg, err := config.Load()

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When a ttl is zero", func() {
			_ = os.Setenv("MATCHDAY_SCORES_TTL", "0s")

			_, err := config.Load()

			convey.Convey("Then validation rejects it", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func clearConfigEnvVars() {
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, config.EnvPrefix) {
			_ = os.Unsetenv(key)
		}
	}
}
