// Package football adapts API-Football (via RapidAPI) into canonical matches.
package football

import (
	"context"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata" // listing date depends on the fixture timezone

	"github.com/okian/matchday/internal/adapters/sources/upstream"
	"github.com/okian/matchday/internal/config"
	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/pkg/logger"
	"github.com/okian/matchday/pkg/metrics"
)

const (
	defaultBaseURL  = "https://api-football-v1.p.rapidapi.com/v3"
	defaultHost     = "api-football-v1.p.rapidapi.com"
	defaultTimezone = "Asia/Kolkata"
	sourceName      = "football"
)

// Source fetches football fixtures.
type Source struct {
	apiKey   string
	baseURL  string
	host     string
	timezone string
	client   *upstream.Client
	now      func() time.Time
	logger   logger.Logger
}

// Option configures a Source.
type Option func(*Source)

// WithAPIKey sets the RapidAPI key. Empty or placeholder keys select mock data.
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

// WithHost sets the x-rapidapi-host header value.
func WithHost(h string) Option {
	return func(s *Source) {
		if h != "" {
			s.host = h
		}
	}
}

// WithTimezone sets the IANA zone used for the "today" listing.
func WithTimezone(tz string) Option {
	return func(s *Source) {
		if tz != "" {
			s.timezone = tz
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

// WithClock injects the time source.
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

// New creates a football Source.
func New(opts ...Option) *Source {
	s := &Source{
		baseURL:  defaultBaseURL,
		host:     defaultHost,
		timezone: defaultTimezone,
		now:      time.Now,
		logger:   logger.Get().Named(sourceName),
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
func (s *Source) Sport() model.Sport { return model.Football }

func (s *Source) headers() map[string]string {
	return map[string]string{
		"x-rapidapi-key":  s.apiKey,
		"x-rapidapi-host": s.host,
	}
}

// today is the listing date in the configured timezone; UTC if the zone is unknown.
func (s *Source) today(now time.Time) string {
	if loc, err := time.LoadLocation(s.timezone); err == nil {
		now = now.In(loc)
	} else {
		now = now.UTC()
	}
	return now.Format(time.DateOnly)
}

// FetchMatches returns today's fixtures. An empty listing is treated as unavailable.
func (s *Source) FetchMatches(ctx context.Context) []model.Match {
	now := s.now()
	if !config.KeyConfigured(s.apiKey) {
		s.logger.Warn(ctx, "no api key configured, returning mock data")
		metrics.RecordUpstreamFallback(sourceName, "no_key")
		return Mocks(now)
	}

	q := url.Values{"date": {s.today(now)}, "timezone": {s.timezone}}
	var env envelope
	if err := s.client.GetJSON(ctx, s.baseURL+"/fixtures?"+q.Encode(), s.headers(), &env); err != nil {
		s.logger.Error(ctx, "fetch failed, returning mock data", logger.Error(err))
		metrics.RecordUpstreamFallback(sourceName, upstream.Outcome(err))
		return Mocks(now)
	}
	if len(env.Response) == 0 {
		s.logger.Warn(ctx, "empty fixture list, returning mock data", logger.Any("errors", env.Errors))
		metrics.RecordUpstreamFallback(sourceName, "empty")
		return Mocks(now)
	}

	out := make([]model.Match, len(env.Response))
	for i, raw := range env.Response {
		out[i] = normalize(raw, now)
	}
	return out
}

// FetchMatch returns one fixture by numeric provider id (without IDPrefix), or nil.
func (s *Source) FetchMatch(ctx context.Context, fixtureID string) *model.Match {
	now := s.now()
	if !config.KeyConfigured(s.apiKey) {
		for _, m := range Mocks(now) {
			if m.ID == IDPrefix+fixtureID {
				return &m
			}
		}
		return nil
	}

	q := url.Values{"id": {fixtureID}}
	var env envelope
	if err := s.client.GetJSON(ctx, s.baseURL+"/fixtures?"+q.Encode(), s.headers(), &env); err != nil {
		s.logger.Error(ctx, "match fetch failed", logger.String("id", fixtureID), logger.Error(err))
		return nil
	}
	if len(env.Response) == 0 {
		return nil
	}
	m := normalize(env.Response[0], now)
	return &m
}
