// Package scheduler warms the listing cache on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/okian/matchday/pkg/logger"
	"github.com/okian/matchday/pkg/metrics"
)

// Refresher rebuilds cached listings.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler runs Refresh on a cron spec. Overlapping runs are skipped.
type Scheduler struct {
	spec      string
	refresher Refresher
	logger    logger.Logger
	timeout   time.Duration

	mu      sync.Mutex
	cron    *cron.Cron
	ctx     context.Context
	running bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTimeout bounds each refresh run. Zero leaves runs unbounded.
func WithTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		if d >= 0 {
			s.timeout = d
		}
	}
}

// New validates spec and returns a stopped scheduler. An empty spec yields
// a scheduler whose Start is a no-op.
func New(spec string, r Refresher, opts ...Option) (*Scheduler, error) {
	if r == nil {
		return nil, ErrNilRefresher
	}
	if spec != "" {
		if _, err := cron.ParseStandard(spec); err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidSchedule, spec, err)
		}
	}
	s := &Scheduler{
		spec:      spec,
		refresher: r,
		logger:    logger.Get().Named("scheduler"),
		timeout:   time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Enabled reports whether a schedule is configured.
func (s *Scheduler) Enabled() bool { return s.spec != "" }

// Start registers the refresh job and starts the cron loop. Runs use ctx
// for values only; cancellation comes from Stop.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.Enabled() {
		s.logger.Info(ctx, "refresh schedule disabled")
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	c := cron.New(cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger)))
	s.ctx = context.WithoutCancel(ctx)
	if _, err := c.AddFunc(s.spec, func() { _ = s.RunNow(s.ctx) }); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidSchedule, s.spec, err)
	}
	c.Start()
	s.cron = c
	s.running = true
	s.logger.Info(ctx, "refresh scheduled", logger.String("schedule", s.spec))
	return nil
}

// RunNow performs one refresh immediately.
func (s *Scheduler) RunNow(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	start := time.Now()
	if err := s.refresher.Refresh(ctx); err != nil {
		metrics.RecordErrorByComponent("scheduler", "refresh")
		s.logger.Error(ctx, "scheduled refresh failed", logger.Error(err), logger.Duration("took", time.Since(start)))
		return err
	}
	s.logger.Debug(ctx, "scheduled refresh done", logger.Duration("took", time.Since(start)))
	return nil
}

// Stop halts the cron loop and waits for an in-flight run or ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	done := s.cron.Stop()
	s.running = false
	s.mu.Unlock()

	select {
	case <-done.Done():
		s.logger.Info(ctx, "scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}
}
