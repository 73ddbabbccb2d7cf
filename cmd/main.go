package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/okian/matchday/internal/adapters/ai"
	"github.com/okian/matchday/internal/adapters/http/api"
	"github.com/okian/matchday/internal/adapters/http/swagger"
	"github.com/okian/matchday/internal/adapters/sources/cricket"
	"github.com/okian/matchday/internal/adapters/sources/football"
	"github.com/okian/matchday/internal/adapters/sources/upstream"
	app "github.com/okian/matchday/internal/app"
	"github.com/okian/matchday/internal/config"
	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/internal/domain/ratelimit"
	"github.com/okian/matchday/internal/domain/slug"
	"github.com/okian/matchday/internal/scheduler"
	"github.com/okian/matchday/pkg/logger"

	_ "time/tzdata"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 30 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load()
	if err != nil {
		// logger isn't configured yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := newService(cfg, loggerInstance)
	if err := svc.Start(ctx); err != nil {
		loggerInstance.Error(ctx, "failed to start service", logger.Error(err))
		return
	}

	sched, err := scheduler.New(cfg.RefreshSchedule, svc, scheduler.WithLogger(loggerInstance.Named("scheduler")))
	if err != nil {
		loggerInstance.Error(ctx, "invalid refresh schedule", logger.Error(err))
		_ = svc.Stop(context.Background())
		return
	}
	if err := sched.Start(ctx); err != nil {
		loggerInstance.Error(ctx, "failed to start scheduler", logger.Error(err))
	}

	go startServiceMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.Bool("ai_enabled", config.KeyConfigured(cfg.AIAPIKey)),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	if err := sched.Stop(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "scheduler shutdown failed", logger.Error(err))
	}
	if err := svc.Stop(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "service shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// newService wires providers, the AI generator and the slug registry.
func newService(cfg *config.Config, l logger.Logger) *app.Service {
	cricketSrc := cricket.New(
		cricket.WithAPIKey(cfg.CricketAPIKey),
		cricket.WithBaseURL(cfg.CricketBaseURL),
		cricket.WithClient(upstream.NewClient(string(model.Cricket),
			upstream.WithTimeout(cfg.UpstreamTimeout),
			upstream.WithDailyQuota(cfg.CricketDailyQuota),
		)),
		cricket.WithLogger(l.Named("cricket")),
	)
	footballSrc := football.New(
		football.WithAPIKey(cfg.FootballAPIKey),
		football.WithBaseURL(cfg.FootballBaseURL),
		football.WithHost(cfg.FootballHost),
		football.WithTimezone(cfg.FootballTimezone),
		football.WithClient(upstream.NewClient(string(model.Football),
			upstream.WithTimeout(cfg.UpstreamTimeout),
			upstream.WithDailyQuota(cfg.FootballDailyQuota),
		)),
		football.WithLogger(l.Named("football")),
	)

	gen := ai.NewGenerator(
		ai.WithCompleter(ai.NewCompleter(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel)),
		ai.WithLimiter(ratelimit.New(
			ratelimit.WithWindow(cfg.AIRateWindow),
			ratelimit.WithMaxCalls(cfg.AIMaxCalls),
		)),
		ai.WithTimeout(cfg.AITimeout),
		ai.WithWinProbabilityTTL(cfg.WinProbabilityTTL),
		ai.WithLogger(l.Named("ai")),
	)

	return app.New(
		app.WithLogger(l),
		app.WithSources(cricketSrc, footballSrc),
		app.WithGenerator(gen),
		app.WithRegistry(slug.NewRegistry(slug.WithMaxSize(cfg.SlugRegistrySize))),
		app.WithScoresTTL(cfg.ScoresTTL),
		app.WithMatchTTL(cfg.MatchTTL),
		app.WithWorkerCount(cfg.EnrichmentWorkers),
		app.WithQueueSize(cfg.EnrichmentQueueSize),
	)
}

// newHandler registers docs and API routes and applies CORS, request ids
// and panic recovery.
func newHandler(ctx context.Context, cfg *config.Config, svc *app.Service) http.Handler {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)

	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", api.RequestIDHeader},
		ExposedHeaders: []string{api.RequestIDHeader},
	})
	return c.Handler(apiServer.Handler(mux))
}

// startServiceMetricsUpdater refreshes gauges derived from service stats.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = svc.Stats(ctx)
		}
	}
}
