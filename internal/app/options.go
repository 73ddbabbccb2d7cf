package service

import (
	"time"

	"github.com/okian/matchday/internal/adapters/ai"
	"github.com/okian/matchday/internal/adapters/sources"
	"github.com/okian/matchday/internal/domain/slug"
	"github.com/okian/matchday/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSources sets the upstream adapters, one per sport. Later sources
// replace earlier ones for the same sport.
func WithSources(srcs ...sources.Source) Option {
	return func(s *Service) {
		for _, src := range srcs {
			if src != nil {
				s.sources[src.Sport()] = src
			}
		}
	}
}

// WithGenerator sets the enrichment generator.
func WithGenerator(g *ai.Generator) Option {
	return func(s *Service) {
		if g != nil {
			s.generator = g
		}
	}
}

// WithRegistry sets the slug registry.
func WithRegistry(r slug.Registry) Option {
	return func(s *Service) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithScoresTTL sets how long a listing stays cached.
func WithScoresTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.scoresTTL = d
		}
	}
}

// WithMatchTTL sets how long a single-match lookup stays cached.
func WithMatchTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.matchTTL = d
		}
	}
}

// WithWorkerCount sets the number of enrichment workers. Zero enriches inline.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count >= 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the enrichment queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithClock injects the time source for cache expiry and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
