package smoke

import (
	"context"
	"fmt"
	"net/url"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/matchday/internal/adapters/ai"
	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/pkg/logger"
)

// Run executes a complete smoke pass against cfg.BaseURL.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Rounds <= 0 {
		cfg.Rounds = 1
	}
	l := logger.Get().Named("smoke")
	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)

	l.Info(ctx, "starting smoke run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("workers", cfg.Workers),
		logger.Int("rounds", cfg.Rounds))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, err
	}

	// Step 2: Listings, all sports first, then each sport
	var all model.ScoresResult
	for round := range cfg.Rounds {
		for _, sport := range append([]model.Sport{""}, model.Sports...) {
			res, err := fetchListing(ctx, client, sport)
			if err != nil {
				return stats, err
			}
			stats.Listings++
			if sport == "" && round == 0 {
				all = res
			}
		}
	}
	stats.Matches = len(all.Matches)

	// Step 3: Look every match up by id and by slug
	if err := lookupMatches(ctx, cfg, client, all.Matches, stats, l); err != nil {
		return stats, err
	}

	// Step 4: Search
	if cfg.Query != "" {
		n, err := search(ctx, client, cfg.Query, all.Matches)
		if err != nil {
			return stats, err
		}
		stats.SearchMatches = n
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, l, stats)
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	var health struct {
		Status string `json:"status"`
	}
	if err := client.getJSON(ctx, "/healthz", &health); err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if health.Status != "ok" {
		return fmt.Errorf("%w: status %q", ErrUnhealthy, health.Status)
	}
	return nil
}

func fetchListing(ctx context.Context, client *HTTPClient, sport model.Sport) (model.ScoresResult, error) {
	path := "/scores"
	if sport != "" {
		path += "?sport=" + url.QueryEscape(string(sport))
	}
	var res model.ScoresResult
	if err := client.getJSON(ctx, path, &res); err != nil {
		return res, err
	}
	if err := verifyListing(res, sport); err != nil {
		return res, fmt.Errorf("listing %s: %w", path, err)
	}
	return res, nil
}

// lookupMatches fans lookups out over cfg.Workers goroutines. Every failure
// is counted; the first one is returned.
func lookupMatches(ctx context.Context, cfg *Config, client *HTTPClient, matches []model.Match, stats *Stats, l logger.Logger) error {
	var byID, bySlug, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for _, m := range matches {
		g.Go(func() error {
			var got model.Match
			if err := client.getJSON(gctx, "/scores/"+url.PathEscape(m.ID), &got); err != nil {
				failed.Add(1)
				return err
			}
			byID.Add(1)
			if err := verifyLookup(m, got, false); err != nil {
				failed.Add(1)
				return err
			}

			path := "/matches/" + string(m.Sport) + "/" + url.PathEscape(m.Slug)
			if err := client.getJSON(gctx, path, &got); err != nil {
				failed.Add(1)
				return err
			}
			bySlug.Add(1)
			if err := verifyLookup(m, got, true); err != nil {
				failed.Add(1)
				return err
			}
			if cfg.Verbose {
				l.Info(gctx, "match verified", logger.String("id", m.ID), logger.String("slug", m.Slug))
			}
			return nil
		})
	}
	err := g.Wait()
	stats.IDLookups = int(byID.Load())
	stats.SlugLookups = int(bySlug.Load())
	stats.Failures = int(failed.Load())
	return err
}

// search checks that every id in the answer was listed.
func search(ctx context.Context, client *HTTPClient, query string, listed []model.Match) (int, error) {
	var answer ai.SearchAnswer
	if err := client.postJSON(ctx, "/search", map[string]string{"query": query}, &answer); err != nil {
		return 0, err
	}
	if answer.Response == "" {
		return 0, fmt.Errorf("%w: empty search response", ErrVerification)
	}
	known := make(map[string]struct{}, len(listed))
	for _, m := range listed {
		known[m.ID] = struct{}{}
	}
	for _, id := range answer.MatchIDs {
		if _, ok := known[id]; !ok {
			return 0, fmt.Errorf("%w: search returned unlisted id %s", ErrVerification, id)
		}
	}
	return len(answer.MatchIDs), nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, l logger.Logger, stats *Stats) {
	var lookupsPerSecond float64
	if stats.Duration > 0 {
		lookupsPerSecond = float64(stats.IDLookups+stats.SlugLookups) / stats.Duration.Seconds()
	}
	l.Info(ctx, "final statistics",
		logger.Int("listings", stats.Listings),
		logger.Int("matches", stats.Matches),
		logger.Int("idLookups", stats.IDLookups),
		logger.Int("slugLookups", stats.SlugLookups),
		logger.Int("failures", stats.Failures),
		logger.Int("searchMatches", stats.SearchMatches),
		logger.Duration("duration", stats.Duration),
		logger.Float64("lookupsPerSecond", lookupsPerSecond))
}
