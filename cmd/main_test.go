package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/matchday/internal/config"
	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

func offlineConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("MATCHDAY_ADDR", ":9090")
	t.Setenv("MATCHDAY_CRICKET_API_KEY", "your_cricket_api_key_here")
	t.Setenv("MATCHDAY_FOOTBALL_API_KEY", "")
	t.Setenv("MATCHDAY_AI_API_KEY", "")
	t.Setenv("MATCHDAY_ENRICHMENT_WORKERS", "2")
	t.Setenv("MATCHDAY_SCORES_TTL", "45s")
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return cfg
}

func TestConfigFromEnv(t *testing.T) {
	convey.Convey("Given MATCHDAY_ environment variables", t, func() {
		cfg := offlineConfig(t)

		convey.Convey("Then they override defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
			convey.So(cfg.EnrichmentWorkers, convey.ShouldEqual, 2)
			convey.So(cfg.ScoresTTL, convey.ShouldEqual, 45*time.Second)
			convey.So(config.KeyConfigured(cfg.CricketAPIKey), convey.ShouldBeFalse)
		})
	})

	convey.Convey("Given an empty listen address", t, func() {
		t.Setenv("MATCHDAY_ADDR", "")
		_, err := config.Load()
		convey.So(err, convey.ShouldNotBeNil)
	})
}

func TestWiring(t *testing.T) {
	convey.Convey("Given a service built without provider keys", t, func() {
		cfg := offlineConfig(t)
		ctx := context.Background()

		svc := newService(cfg, logger.Get())
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()

		h := newHandler(ctx, cfg, svc)

		convey.Convey("Then listings fall back to mock data", func() {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/scores", nil))

			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			var res model.ScoresResult
			convey.So(json.Unmarshal(w.Body.Bytes(), &res), convey.ShouldBeNil)
			convey.So(res.Count, convey.ShouldBeGreaterThan, 0)
			convey.So(res.Count, convey.ShouldEqual, len(res.Matches))
			for _, m := range res.Matches {
				convey.So(m.Slug, convey.ShouldNotBeEmpty)
			}

			convey.Convey("And every listed match resolves by slug", func() {
				m := res.Matches[0]
				w := httptest.NewRecorder()
				h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/matches/"+string(m.Sport)+"/"+m.Slug, nil))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			})
		})

		convey.Convey("Then search apologizes while AI is unconfigured", func() {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{"query":"india"}`))
			h.ServeHTTP(w, req)
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, `"matchIds":[]`)
		})

		convey.Convey("Then docs are served", func() {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("Then allowed origins pass CORS preflight", func() {
			req := httptest.NewRequest(http.MethodOptions, "/scores", nil)
			req.Header.Set("Origin", "http://localhost:3000")
			req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			convey.So(w.Header().Get("Access-Control-Allow-Origin"), convey.ShouldEqual, "http://localhost:3000")
		})

		convey.Convey("Then other origins are not granted", func() {
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			req.Header.Set("Origin", "https://evil.example")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Header().Get("Access-Control-Allow-Origin"), convey.ShouldBeEmpty)
		})
	})
}

func TestServiceMetricsUpdater(t *testing.T) {
	convey.Convey("Given the metrics updater", t, func() {
		cfg := offlineConfig(t)
		svc := newService(cfg, logger.Get())
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		convey.Convey("Then it returns once the context ends", func() {
			done := make(chan struct{})
			go func() {
				startServiceMetricsUpdater(ctx, svc)
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("updater did not stop")
			}
		})
	})
}
