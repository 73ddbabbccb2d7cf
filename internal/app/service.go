// Package service aggregates both sports into one cached, enriched listing
// and implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/okian/matchday/internal/adapters/ai"
	eventqueue "github.com/okian/matchday/internal/adapters/mq/queue"
	workerpool "github.com/okian/matchday/internal/adapters/mq/worker"
	"github.com/okian/matchday/internal/adapters/repository"
	"github.com/okian/matchday/internal/adapters/sources"
	"github.com/okian/matchday/internal/adapters/sources/cricket"
	"github.com/okian/matchday/internal/adapters/sources/football"
	"github.com/okian/matchday/internal/domain/enrich"
	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/internal/domain/phase"
	"github.com/okian/matchday/internal/domain/slug"
	"github.com/okian/matchday/pkg/logger"
	"github.com/okian/matchday/pkg/metrics"
)

const (
	defaultScoresTTL   = 30 * time.Second
	defaultMatchTTL    = 15 * time.Second
	defaultWorkers     = 4
	defaultQueueSize   = 256
	cacheSweepInterval = time.Minute

	scoresKeyPrefix = "scores_"
	matchKeyPrefix  = "match_"
	allSports       = "all"
)

// Fallback texts returned by Search when no usable answer is produced.
const (
	SearchUnavailableText = "AI search is temporarily unavailable. Please try again."
	SearchFailedText      = "Could not process your search. Please try again."
)

// Stats is a point-in-time view of the service for monitoring.
type Stats struct {
	Started          bool      `json:"started"`
	Workers          int       `json:"workers"`
	QueueLength      int       `json:"queueLength"`
	QueueCapacity    int       `json:"queueCapacity"`
	CachedListings   int       `json:"cachedListings"`
	CachedMatches    int       `json:"cachedMatches"`
	SlugsRegistered  int       `json:"slugsRegistered"`
	AIEnabled        bool      `json:"aiEnabled"`
	AICallsRemaining int       `json:"aiCallsRemaining"`
	LastRefresh      time.Time `json:"lastRefresh,omitzero"`
}

// Service is the score aggregator. It is the only entry point handlers use.
type Service struct {
	mu sync.RWMutex

	// Core components
	sources   map[model.Sport]sources.Source
	generator *ai.Generator
	registry  slug.Registry
	scores    *repository.MemoryStore[model.ScoresResult]
	matches   *repository.MemoryStore[model.Match]
	queue     *eventqueue.InMemoryQueue
	pool      *workerpool.Pool
	flight    singleflight.Group

	// Configuration
	scoresTTL   time.Duration
	matchTTL    time.Duration
	workerCount int
	queueSize   int
	now         func() time.Time

	// State
	started     bool
	stopCh      chan struct{}
	wg          sync.WaitGroup
	lastRefresh time.Time

	logger logger.Logger
}

// New constructs a Service. Without WithSources it uses unconfigured
// cricket and football adapters, which serve mock data.
func New(opts ...Option) *Service {
	s := &Service{
		sources:     make(map[model.Sport]sources.Source, len(model.Sports)),
		scoresTTL:   defaultScoresTTL,
		matchTTL:    defaultMatchTTL,
		workerCount: defaultWorkers,
		queueSize:   defaultQueueSize,
		now:         time.Now,
		logger:      logger.Get().Named("service"),
	}
	for _, opt := range opts {
		opt(s)
	}

	if len(s.sources) == 0 {
		s.sources[model.Cricket] = cricket.New()
		s.sources[model.Football] = football.New()
	}
	if s.generator == nil {
		s.generator = ai.NewGenerator()
	}
	if s.registry == nil {
		s.registry = slug.NewRegistry()
	}

	storeOpts := []repository.Option{repository.WithClock(s.now), repository.WithSweepInterval(0)}
	s.scores = repository.NewMemoryStore[model.ScoresResult](context.Background(), storeOpts...)
	s.matches = repository.NewMemoryStore[model.Match](context.Background(), storeOpts...)
	s.newPipeline()
	return s
}

// newPipeline builds a fresh enrichment queue and worker pool. Stop closes
// the queue, so a restart needs new ones.
func (s *Service) newPipeline() {
	s.queue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	s.pool = nil
	if s.workerCount > 0 {
		s.pool = workerpool.NewPool(s.workerCount, s.queue, enricher{gen: s.generator})
	}
}

// pipeline returns the current queue and pool.
func (s *Service) pipeline() (*eventqueue.InMemoryQueue, *workerpool.Pool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queue, s.pool
}

// Start launches the enrichment workers and the cache sweeper. Until Start
// is called enrichment runs inline on the request goroutine.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.queue.IsClosed() {
		s.newPipeline()
	}

	// Workers outlive the start context; Stop ends them.
	if s.pool != nil {
		s.pool.Start(context.WithoutCancel(ctx))
	}

	s.stopCh = make(chan struct{})
	s.wg.Add(1)
	go s.sweepLoop()

	s.started = true
	s.logger.Info(ctx, "score service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Duration("scoresTTL", s.scoresTTL),
		logger.Duration("matchTTL", s.matchTTL),
		logger.Bool("aiEnabled", s.generator.Enabled()),
	)
	return nil
}

// Stop drains the enrichment queue and stops background loops.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping score service...")

	var err error
	if s.pool != nil {
		err = s.pool.Shutdown(ctx)
	}
	close(s.stopCh)
	s.wg.Wait()
	_ = s.scores.Close()
	_ = s.matches.Close()

	s.started = false
	s.logger.Info(ctx, "score service stopped")
	return err
}

func (s *Service) sweepLoop() {
	defer s.wg.Done()
	ticker := time.NewTicker(cacheSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.scores.Sweep()
			s.matches.Sweep()
		}
	}
}

func scoresKey(sport model.Sport) string {
	if sport == "" {
		return scoresKeyPrefix + allSports
	}
	return scoresKeyPrefix + string(sport)
}

// GetScores returns the sorted, enriched listing for sport, or for every
// sport when sport is empty. Concurrent misses for the same key share one
// aggregation pass.
func (s *Service) GetScores(ctx context.Context, sport model.Sport) (model.ScoresResult, error) {
	if sport != "" {
		if _, err := model.ParseSport(string(sport)); err != nil {
			return model.ScoresResult{}, err
		}
	}
	key := scoresKey(sport)

	if cached, err := s.scores.Get(ctx, key); err == nil {
		return cached, nil
	}

	// The pass is shared between callers, so one caller's cancellation must
	// not cut it short. Its deadline still bounds the pass.
	v, err, _ := s.flight.Do(key, func() (any, error) {
		pctx, cancel := passContext(ctx)
		defer cancel()
		return s.aggregate(pctx, sport, key), nil
	})
	if err != nil {
		return model.ScoresResult{}, err
	}
	return v.(model.ScoresResult), nil
}

func passContext(ctx context.Context) (context.Context, context.CancelFunc) {
	pctx := context.WithoutCancel(ctx)
	if deadline, ok := ctx.Deadline(); ok {
		return context.WithDeadline(pctx, deadline)
	}
	return pctx, func() {}
}

func (s *Service) aggregate(ctx context.Context, sport model.Sport, key string) model.ScoresResult {
	start := time.Now()
	matches := s.fetch(ctx, sport)
	sortMatches(matches)

	for i := range matches {
		matches[i].Slug = slug.Generate(matches[i])
		s.registry.Register(matches[i].Slug, matches[i].ID, matches[i].Sport)
	}
	metrics.UpdateSlugRegistrySize(s.registry.Size())

	s.enrichAll(ctx, matches)

	result := model.ScoresResult{
		Matches:     matches,
		LastUpdated: s.now(),
		Count:       len(matches),
	}
	if ctx.Err() != nil {
		s.logger.Warn(ctx, "listing pass ran past its deadline, not caching",
			logger.String("key", key), logger.Error(ctx.Err()))
	} else if err := s.scores.Set(ctx, key, result, s.scoresTTL); err != nil {
		s.logger.Error(ctx, "failed to cache listing", logger.String("key", key), logger.Error(err))
	}
	recordServed(sport, matches)

	s.logger.Debug(ctx, "aggregated listing",
		logger.String("key", key),
		logger.Int("count", len(matches)),
		logger.Duration("took", time.Since(start)),
	)
	return result
}

// fetch queries the relevant adapters concurrently and concatenates their
// results in model.Sports order.
func (s *Service) fetch(ctx context.Context, sport model.Sport) []model.Match {
	wanted := model.Sports
	if sport != "" {
		wanted = []model.Sport{sport}
	}

	parts := make([][]model.Match, len(wanted))
	var g errgroup.Group
	for i, sp := range wanted {
		src, ok := s.sources[sp]
		if !ok {
			continue
		}
		g.Go(func() error {
			parts[i] = src.FetchMatches(ctx)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]model.Match, 0)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// sortMatches orders live before upcoming before completed, newest start first within a class.
func sortMatches(matches []model.Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		ri, rj := matches[i].Status.Rank(), matches[j].Status.Rank()
		if ri != rj {
			return ri < rj
		}
		return matches[i].StartTime.After(matches[j].StartTime)
	})
}

func recordServed(sport model.Sport, matches []model.Match) {
	counts := make(map[model.Sport]map[model.Status]int)
	for _, m := range matches {
		if counts[m.Sport] == nil {
			counts[m.Sport] = make(map[model.Status]int)
		}
		counts[m.Sport][m.Status]++
	}
	for _, sp := range model.Sports {
		if sport != "" && sp != sport {
			continue
		}
		for _, st := range []model.Status{model.Live, model.Upcoming, model.Completed} {
			metrics.UpdateMatchesServed(string(sp), string(st), counts[sp][st])
		}
	}
}

// enrichAll enriches every match in place. Jobs go to the worker pool when it
// is running; a job the queue refuses is enriched inline.
func (s *Service) enrichAll(ctx context.Context, matches []model.Match) {
	e := enricher{gen: s.generator}
	q, pool := s.pipeline()
	if pool == nil || !pool.Running() || !s.generator.Enabled() {
		for i := range matches {
			matches[i] = e.Enrich(ctx, matches[i])
		}
		return
	}

	reply := make(chan eventqueue.Job, len(matches))
	pending := 0
	for i := range matches {
		job := eventqueue.Job{Seq: i, Match: matches[i], Reply: reply}
		if err := q.Enqueue(ctx, job); err != nil {
			s.logger.Debug(ctx, "enrichment job not queued, running inline",
				logger.String("match_id", matches[i].ID), logger.Error(err))
			matches[i] = e.Enrich(ctx, matches[i])
			continue
		}
		pending++
	}

	for ; pending > 0; pending-- {
		select {
		case j := <-reply:
			matches[j.Seq] = j.Match
		case <-ctx.Done():
			s.logger.Warn(ctx, "enrichment wait cancelled", logger.Int("pending", pending))
			return
		}
	}
}

// enricher runs the per-match enrichment sequence: headline first, then for
// live matches the phase, summary and win probability.
type enricher struct {
	gen *ai.Generator
}

// Enrich implements worker.Enricher.
func (e enricher) Enrich(ctx context.Context, m model.Match) model.Match {
	if m.Headline == "" {
		if t, ok := e.gen.Headline(ctx, m).Get(); ok {
			m.Headline, m.HeadlineHi = t.EN, t.HI
		}
	}
	if m.Status != model.Live {
		return m
	}

	m.MatchPhase = phase.Detect(m)
	if m.Summary == "" {
		if t, ok := e.gen.Summary(ctx, m).Get(); ok {
			m.Summary, m.SummaryHi = t.EN, t.HI
		}
	}
	if m.WinProbability == nil {
		if wp, ok := e.gen.WinProbability(ctx, m).Get(); ok {
			m.WinProbability = &wp
		}
	}
	return m
}

// GetMatch returns one match by id. Warm listings are consulted before the
// adapters. A match fetched cold gets its slug and phase but no enrichment.
func (s *Service) GetMatch(ctx context.Context, id string) (model.Match, error) {
	if id == "" {
		return model.Match{}, ErrMatchNotFound
	}
	key := matchKeyPrefix + id

	if cached, err := s.matches.Get(ctx, key); err == nil {
		return cached, nil
	}
	if m, ok := s.findWarm(ctx, id); ok {
		return m, nil
	}

	v, err, _ := s.flight.Do(key, func() (any, error) {
		return s.fetchOne(context.WithoutCancel(ctx), id, key)
	})
	if err != nil {
		return model.Match{}, err
	}
	return v.(model.Match), nil
}

func (s *Service) findWarm(ctx context.Context, id string) (model.Match, bool) {
	for _, key := range []string{scoresKey(""), scoresKey(model.Cricket), scoresKey(model.Football)} {
		listing, err := s.scores.Get(ctx, key)
		if err != nil {
			continue
		}
		for _, m := range listing.Matches {
			if m.ID == id {
				return m, true
			}
		}
	}
	return model.Match{}, false
}

func (s *Service) fetchOne(ctx context.Context, id, key string) (model.Match, error) {
	var found *model.Match
	if fid, ok := strings.CutPrefix(id, football.IDPrefix); ok {
		if src, ok := s.sources[model.Football]; ok {
			found = src.FetchMatch(ctx, fid)
		}
	} else if src, ok := s.sources[model.Cricket]; ok {
		found = src.FetchMatch(ctx, id)
	}
	if found == nil {
		return model.Match{}, fmt.Errorf("%w: %s", ErrMatchNotFound, id)
	}

	m := *found
	m.Slug = slug.Generate(m)
	s.registry.Register(m.Slug, m.ID, m.Sport)
	metrics.UpdateSlugRegistrySize(s.registry.Size())
	if m.Status == model.Live {
		m.MatchPhase = phase.Detect(m)
	}

	if err := s.matches.Set(ctx, key, m, s.matchTTL); err != nil {
		s.logger.Error(ctx, "failed to cache match", logger.String("key", key), logger.Error(err))
	}
	return m, nil
}

// ResolveSlug maps a slug page back to its match. On a registry miss the
// sport's listing is built once and the lookup retried.
func (s *Service) ResolveSlug(ctx context.Context, sport model.Sport, matchSlug string) (model.Match, error) {
	if _, err := model.ParseSport(string(sport)); err != nil {
		return model.Match{}, err
	}
	id, ok := s.registry.Resolve(sport, matchSlug)
	if !ok {
		if _, err := s.GetScores(ctx, sport); err != nil {
			return model.Match{}, err
		}
		if id, ok = s.registry.Resolve(sport, matchSlug); !ok {
			return model.Match{}, fmt.Errorf("%w: %s", ErrMatchNotFound, slug.Path(sport, matchSlug))
		}
	}
	return s.GetMatch(ctx, id)
}

// Search answers a free-text query over the full listing. It never fails
// once the query is valid: without a usable answer it returns empty ids and
// a fixed apology.
func (s *Service) Search(ctx context.Context, query string) (ai.SearchAnswer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return ai.SearchAnswer{}, ErrEmptyQuery
	}
	if !s.generator.Enabled() || s.generator.RemainingCalls() <= 0 {
		return apology(SearchUnavailableText), nil
	}

	listing, err := s.GetScores(ctx, "")
	if err != nil {
		return ai.SearchAnswer{}, err
	}

	res := s.generator.Search(ctx, query, listing.Matches)
	if answer, ok := res.Get(); ok {
		return answer, nil
	}
	if errors.Is(res.Reason(), enrich.ErrNoClient) || errors.Is(res.Reason(), enrich.ErrRateLimited) {
		return apology(SearchUnavailableText), nil
	}
	return apology(SearchFailedText), nil
}

func apology(text string) ai.SearchAnswer {
	return ai.SearchAnswer{MatchIDs: []string{}, Response: text}
}

// CatchUp summarizes what changed in a live match since lastVisit. The text
// is nil when there is nothing to tell or enrichment is unavailable.
func (s *Service) CatchUp(ctx context.Context, id string, lastVisit time.Time) (*model.Text, error) {
	m, err := s.GetMatch(ctx, id)
	if err != nil {
		return nil, err
	}
	if t, ok := s.generator.CatchUp(ctx, m, lastVisit).Get(); ok {
		return &t, nil
	}
	return nil, nil
}

// Refresh drops cached listings and rebuilds the combined one.
func (s *Service) Refresh(ctx context.Context) error {
	for _, key := range []string{scoresKey(""), scoresKey(model.Cricket), scoresKey(model.Football)} {
		s.scores.Delete(ctx, key)
	}
	if _, err := s.GetScores(ctx, ""); err != nil {
		metrics.RecordRefreshRun("error")
		return err
	}

	s.mu.Lock()
	s.lastRefresh = s.now()
	s.mu.Unlock()
	metrics.RecordRefreshRun("success")
	return nil
}

// Stats returns service statistics for monitoring.
func (s *Service) Stats(ctx context.Context) Stats {
	s.mu.RLock()
	started, lastRefresh := s.started, s.lastRefresh
	q, pool := s.queue, s.pool
	s.mu.RUnlock()

	workers := 0
	if pool != nil {
		workers = pool.Size()
	}
	st := Stats{
		Started:          started,
		Workers:          workers,
		QueueLength:      q.Len(ctx),
		QueueCapacity:    s.queueSize,
		CachedListings:   s.scores.Len(ctx),
		CachedMatches:    s.matches.Len(ctx),
		SlugsRegistered:  s.registry.Size(),
		AIEnabled:        s.generator.Enabled(),
		AICallsRemaining: s.generator.RemainingCalls(),
		LastRefresh:      lastRefresh,
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	metrics.UpdateSystemMemoryUsage(mem.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
	return st
}
