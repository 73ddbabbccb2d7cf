package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/okian/matchday/internal/domain/enrich"
	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/internal/domain/ratelimit"
	"github.com/okian/matchday/pkg/logger"
	"github.com/okian/matchday/pkg/metrics"
)

// Enrichment kinds, used as metric and log labels.
const (
	KindHeadline       = "headline"
	KindSummary        = "summary"
	KindWinProbability = "win_probability"
	KindCatchUp        = "catchup"
	KindSearch         = "search"
)

const (
	defaultTimeout        = 10 * time.Second
	defaultWinProbTTL     = time.Minute
	minCatchUpGap         = time.Minute
	defaultConfidence     = "low"
	defaultWinProbability = 50.0
)

// SearchAnswer is the structured reply to a free-text match search.
type SearchAnswer struct {
	MatchIDs   []string `json:"matchIds"`
	Response   string   `json:"response"`
	ResponseHi string   `json:"responseHi"`
}

type cachedWinProb struct {
	value  model.WinProbability
	expiry time.Time
}

// Generator runs every enrichment kind against one completer and one shared limiter.
type Generator struct {
	completer  Completer
	limiter    *ratelimit.Window
	timeout    time.Duration
	winProbTTL time.Duration
	now        func() time.Time
	logger     logger.Logger

	mu        sync.Mutex
	summaries map[string]model.Text    // "<id>_<phase>", never expires
	winProbs  map[string]cachedWinProb // id
}

// Option configures a Generator.
type Option func(*Generator)

// WithCompleter sets the provider client. A nil completer disables enrichment.
func WithCompleter(c Completer) Option {
	return func(g *Generator) { g.completer = c }
}

// WithLimiter sets the shared sliding-window limiter.
func WithLimiter(l *ratelimit.Window) Option {
	return func(g *Generator) {
		if l != nil {
			g.limiter = l
		}
	}
}

// WithTimeout bounds each provider call.
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithWinProbabilityTTL sets how long a win probability is reused per match.
func WithWinProbabilityTTL(d time.Duration) Option {
	return func(g *Generator) {
		if d > 0 {
			g.winProbTTL = d
		}
	}
}

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGenerator creates a Generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		timeout:    defaultTimeout,
		winProbTTL: defaultWinProbTTL,
		now:        time.Now,
		logger:     logger.Get().Named("ai"),
		summaries:  make(map[string]model.Text),
		winProbs:   make(map[string]cachedWinProb),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.limiter == nil {
		g.limiter = ratelimit.New(ratelimit.WithClock(g.now))
	}
	return g
}

// Enabled reports whether a provider client is configured.
func (g *Generator) Enabled() bool { return g.completer != nil }

// RemainingCalls reports how many provider calls the shared window still allows.
func (g *Generator) RemainingCalls() int { return g.limiter.Remaining() }

// complete gates one call on the client and the limiter, bounds it by the
// timeout and parses the JSON reply. It never returns an error.
func complete[T any](ctx context.Context, g *Generator, kind string, req Request, parse func(string) (T, error)) (res enrich.Result[T]) {
	start := time.Now()
	defer func() {
		metrics.RecordEnrichment(kind, res.Outcome(), time.Since(start).Seconds())
		if err := res.Reason(); err != nil {
			g.logger.Debug(ctx, "enrichment unavailable", logger.String("kind", kind), logger.Error(err))
		}
	}()

	if g.completer == nil {
		return enrich.Unavailable[T](enrich.ErrNoClient)
	}
	if !g.limiter.Acquire() {
		metrics.RecordAIRateLimited()
		return enrich.Unavailable[T](enrich.ErrRateLimited)
	}

	cctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.completer.Complete(cctx, req)
	if err != nil {
		g.logger.Warn(ctx, "enrichment call failed", logger.String("kind", kind), logger.Error(err))
		return enrich.Unavailable[T](fmt.Errorf("%w: %w", enrich.ErrUpstream, err))
	}
	if strings.TrimSpace(text) == "" {
		return enrich.Unavailable[T](fmt.Errorf("%w: empty content", enrich.ErrMalformed))
	}
	v, err := parse(text)
	if err != nil {
		g.logger.Warn(ctx, "enrichment reply unusable", logger.String("kind", kind), logger.Error(err))
		return enrich.Unavailable[T](fmt.Errorf("%w: %w", enrich.ErrMalformed, err))
	}
	return enrich.Available(v)
}

func with(settings Request, prompt string) Request {
	settings.Prompt = prompt
	return settings
}

func parseText(s string) (model.Text, error) {
	var t model.Text
	if err := json.Unmarshal([]byte(s), &t); err != nil {
		return t, err
	}
	if strings.TrimSpace(t.EN) == "" {
		return t, errors.New("missing en text")
	}
	return t, nil
}

// Headline writes a one-line bilingual headline.
func (g *Generator) Headline(ctx context.Context, m model.Match) enrich.Result[model.Text] {
	return complete(ctx, g, KindHeadline, with(headlineSettings, headlinePrompt(m)), parseText)
}

// Summary writes a short bilingual summary, reused for the same match and phase.
func (g *Generator) Summary(ctx context.Context, m model.Match) enrich.Result[model.Text] {
	key := m.ID + "_" + string(m.MatchPhase)
	g.mu.Lock()
	cached, ok := g.summaries[key]
	g.mu.Unlock()
	if ok {
		return enrich.Available(cached)
	}

	res := complete(ctx, g, KindSummary, with(summarySettings, summaryPrompt(m)), parseText)
	if v, ok := res.Get(); ok {
		g.mu.Lock()
		g.summaries[key] = v
		g.mu.Unlock()
	}
	return res
}

type rawWinProb struct {
	TeamA      *float64 `json:"teamA"`
	TeamB      *float64 `json:"teamB"`
	Draw       *float64 `json:"draw"`
	Confidence string   `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
}

func parseWinProb(s string) (model.WinProbability, error) {
	var raw rawWinProb
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return model.WinProbability{}, err
	}
	wp := model.WinProbability{
		TeamA:      defaultWinProbability,
		TeamB:      defaultWinProbability,
		Draw:       raw.Draw,
		Confidence: defaultConfidence,
		Reasoning:  raw.Reasoning,
	}
	if raw.TeamA != nil {
		wp.TeamA = *raw.TeamA
	}
	if raw.TeamB != nil {
		wp.TeamB = *raw.TeamB
	}
	switch c := strings.ToLower(raw.Confidence); c {
	case "low", "medium", "high":
		wp.Confidence = c
	}
	for _, p := range []float64{wp.TeamA, wp.TeamB} {
		if math.IsNaN(p) || p < 0 || p > 100 {
			return model.WinProbability{}, fmt.Errorf("probability out of range: %v", p)
		}
	}
	return wp, nil
}

// WinProbability estimates outcome percentages, reused per match id for the TTL.
func (g *Generator) WinProbability(ctx context.Context, m model.Match) enrich.Result[model.WinProbability] {
	now := g.now()
	g.mu.Lock()
	cached, ok := g.winProbs[m.ID]
	g.mu.Unlock()
	if ok && now.Before(cached.expiry) {
		return enrich.Available(cached.value)
	}

	res := complete(ctx, g, KindWinProbability, with(winProbSettings, winProbabilityPrompt(m)), parseWinProb)
	if v, ok := res.Get(); ok {
		g.mu.Lock()
		g.winProbs[m.ID] = cachedWinProb{value: v, expiry: now.Add(g.winProbTTL)}
		g.mu.Unlock()
	}
	return res
}

// CatchUp tells a returning visitor what changed since lastVisit. It is not
// applicable unless the match is live and at least a minute has passed.
func (g *Generator) CatchUp(ctx context.Context, m model.Match, lastVisit time.Time) enrich.Result[model.Text] {
	elapsed := g.now().Sub(lastVisit)
	if m.Status != model.Live || elapsed < minCatchUpGap {
		return enrich.Unavailable[model.Text](enrich.ErrNotApplicable)
	}
	minutes := int(math.Round(elapsed.Minutes()))
	return complete(ctx, g, KindCatchUp, with(catchUpSettings, catchUpPrompt(m, minutes)), parseText)
}

// Search asks the provider which of matches answer query. Returned ids are
// restricted to the candidates.
func (g *Generator) Search(ctx context.Context, query string, matches []model.Match) enrich.Result[SearchAnswer] {
	known := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		known[m.ID] = struct{}{}
	}
	parse := func(s string) (SearchAnswer, error) {
		var a SearchAnswer
		if err := json.Unmarshal([]byte(s), &a); err != nil {
			return a, err
		}
		if strings.TrimSpace(a.Response) == "" {
			return a, errors.New("missing response text")
		}
		ids := make([]string, 0, len(a.MatchIDs))
		for _, id := range a.MatchIDs {
			if _, ok := known[id]; ok {
				ids = append(ids, id)
			}
		}
		a.MatchIDs = ids
		return a, nil
	}
	return complete(ctx, g, KindSearch, with(searchSettings, searchPrompt(query, matches)), parse)
}
