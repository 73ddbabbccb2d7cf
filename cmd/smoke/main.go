package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/matchday/internal/smoke"
	"github.com/okian/matchday/pkg/logger"
)

// Default configuration constants.
const (
	defaultTimeout    = 15 * time.Second
	defaultRunTimeout = 2 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:4000", "Base URL of the service")
		workers = flag.Int("workers", runtime.NumCPU(), "Concurrent match lookups")
		rounds  = flag.Int("rounds", 2, "Listing passes")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		query   = flag.String("query", "", "Search query to try (empty skips search)")
		format  = flag.String("log-format", "text", "Log format: text or json")
		verbose = flag.Bool("verbose", false, "Log every verified match")
	)
	flag.Parse()

	if err := logger.Init(logger.WithFormat(*format)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &smoke.Config{
		BaseURL: *baseURL,
		Workers: *workers,
		Rounds:  *rounds,
		Timeout: *timeout,
		Query:   *query,
		Verbose: *verbose,
	}

	if _, err := smoke.Run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "smoke run failed", logger.Error(err))
		cancel()
		os.Exit(1)
	}
}
