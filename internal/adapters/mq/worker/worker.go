// Package worker runs match enrichment jobs off the queue.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/okian/matchday/internal/adapters/mq/queue"
	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/pkg/logger"
	"github.com/okian/matchday/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// Enricher attaches best-effort enrichment to a match and returns the result.
type Enricher interface {
	Enrich(ctx context.Context, m model.Match) model.Match
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes jobs until its queue closes or ctx is canceled.
type Worker interface {
	Run(ctx context.Context)
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue    Queue
	enricher Enricher
	name     string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, enricher Enricher, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		enricher: enricher,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop. It returns when the queue is closed and
// drained, when ctx is canceled, or after Shutdown.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			w.process(ctx, j)
		}
	}
}

// Shutdown stops the worker without draining and waits for the current job.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process enriches one job and always replies, with the original match when
// the enricher panics.
func (w *InMemoryWorker) process(ctx context.Context, j queue.Job) { //nolint:gocritic // hugeParam: Job is passed by value for channel semantics
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordWorkerError()
			metrics.RecordErrorByComponent("worker", "panic")
			metrics.RecordErrorByType("panic", "high")
			w.logger.Error(ctx, "enrichment job panicked",
				logger.String("match_id", j.Match.ID),
				logger.Any("panic", r),
			)
		}
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
		if j.Reply != nil {
			j.Reply <- j
		}
	}()

	j.Match = w.enricher.Enrich(ctx, j.Match)
}

// Pool manages multiple workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	started atomic.Bool

	logger logger.Logger
}

// NewPool creates a pool. A non-positive workerCount uses runtime.NumCPU().
func NewPool(workerCount int, q Queue, enricher Enricher) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range workerCount {
		p.workers[i] = NewInMemoryWorker(q, enricher, WithName("worker-"+strconv.Itoa(i)))
	}
	return p
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	if !p.started.CompareAndSwap(false, true) {
		return
	}
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	metrics.UpdateWorkerActiveCount(len(p.workers))
	p.logger.Info(ctx, "worker pool started", logger.Int("workers", len(p.workers)))
}

// Running reports whether Start has been called and Shutdown has not.
func (p *Pool) Running() bool { return p.started.Load() }

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Shutdown closes the queue so workers drain pending jobs, then waits for
// them to exit or for the shutdown timeout.
func (p *Pool) Shutdown(ctx context.Context) error {
	if !p.started.CompareAndSwap(true, false) {
		return nil
	}
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut bool
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			timedOut = true
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	metrics.UpdateWorkerActiveCount(0)
	if timedOut {
		return fmt.Errorf("worker pool shutdown: %w", shutdownCtx.Err())
	}
	return nil
}
