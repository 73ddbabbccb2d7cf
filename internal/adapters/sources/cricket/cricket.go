// Package cricket adapts CricAPI into canonical matches.
package cricket

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/okian/matchday/internal/adapters/sources/upstream"
	"github.com/okian/matchday/internal/config"
	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/pkg/logger"
	"github.com/okian/matchday/pkg/metrics"
)

const (
	defaultBaseURL = "https://api.cricapi.com/v1"
	sourceName     = "cricket"
	statusSuccess  = "success"
)

// Source fetches cricket matches from CricAPI.
type Source struct {
	apiKey  string
	baseURL string
	client  *upstream.Client
	now     func() time.Time
	logger  logger.Logger
}

// Option configures a Source.
type Option func(*Source)

// WithAPIKey sets the CricAPI key. Empty or placeholder keys select mock data.
func WithAPIKey(key string) Option {
	return func(s *Source) { s.apiKey = strings.TrimSpace(key) }
}

// WithBaseURL overrides the API root.
func WithBaseURL(u string) Option {
	return func(s *Source) {
		if u != "" {
			s.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithClient sets the upstream HTTP client.
func WithClient(c *upstream.Client) Option {
	return func(s *Source) {
		if c != nil {
			s.client = c
		}
	}
}

// WithClock injects the time source used for timestamps and mock start times.
func WithClock(now func() time.Time) Option {
	return func(s *Source) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a cricket Source.
func New(opts ...Option) *Source {
	s := &Source{
		baseURL: defaultBaseURL,
		now:     time.Now,
		logger:  logger.Get().Named(sourceName),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		s.client = upstream.NewClient(sourceName)
	}
	return s
}

// Sport implements sources.Source.
func (s *Source) Sport() model.Sport { return model.Cricket }

// FetchMatches returns current matches that have started or ended.
func (s *Source) FetchMatches(ctx context.Context) []model.Match {
	now := s.now()
	if !config.KeyConfigured(s.apiKey) {
		s.logger.Warn(ctx, "no api key configured, returning mock data")
		metrics.RecordUpstreamFallback(sourceName, "no_key")
		return Mocks(now)
	}

	q := url.Values{"apikey": {s.apiKey}, "offset": {"0"}}
	var env envelope[[]rawMatch]
	if err := s.client.GetJSON(ctx, s.baseURL+"/currentMatches?"+q.Encode(), nil, &env); err != nil {
		s.logger.Error(ctx, "fetch failed, returning mock data", logger.Error(err))
		metrics.RecordUpstreamFallback(sourceName, upstream.Outcome(err))
		return Mocks(now)
	}
	if env.Status != statusSuccess || env.Data == nil {
		s.logger.Warn(ctx, "api returned non-success, returning mock data",
			logger.String("status", env.Status), logger.Any("info", env.Info))
		metrics.RecordUpstreamFallback(sourceName, "non_success")
		return Mocks(now)
	}

	out := make([]model.Match, 0, len(env.Data))
	for _, raw := range env.Data {
		if raw.MatchStarted || raw.MatchEnded {
			out = append(out, normalize(raw, now))
		}
	}
	return out
}

// FetchMatch returns one match by provider id, or nil.
func (s *Source) FetchMatch(ctx context.Context, id string) *model.Match {
	now := s.now()
	if !config.KeyConfigured(s.apiKey) {
		for _, m := range Mocks(now) {
			if m.ID == id {
				return &m
			}
		}
		return nil
	}

	q := url.Values{"apikey": {s.apiKey}, "id": {id}}
	var env envelope[*rawMatch]
	if err := s.client.GetJSON(ctx, s.baseURL+"/match_info?"+q.Encode(), nil, &env); err != nil {
		s.logger.Error(ctx, "match fetch failed", logger.String("id", id), logger.Error(err))
		return nil
	}
	if env.Status != statusSuccess || env.Data == nil {
		return nil
	}
	m := normalize(*env.Data, now)
	return &m
}
