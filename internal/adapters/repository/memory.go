package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/okian/matchday/pkg/metrics"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// MemoryStore is a mutex-guarded map with lazy expiry on read and an
// optional periodic sweep.
type MemoryStore[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	now     func() time.Time

	sweepInterval time.Duration
	wg            sync.WaitGroup
	stopChan      chan struct{}
	stopOnce      sync.Once
}

var _ Store[int] = (*MemoryStore[int])(nil)

// NewMemoryStore constructs a store. The sweeper runs until ctx is done or Close is called.
func NewMemoryStore[V any](ctx context.Context, opts ...Option) *MemoryStore[V] {
	cfg := settings{now: time.Now, sweepInterval: 30 * time.Second}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &MemoryStore[V]{
		entries:       make(map[string]entry[V]),
		now:           cfg.now,
		sweepInterval: cfg.sweepInterval,
		stopChan:      make(chan struct{}),
	}
	if s.sweepInterval > 0 {
		s.startSweeper(ctx)
	}
	return s
}

// keyClass labels metrics by the key prefix, e.g. "scores" for "scores_all".
func keyClass(key string) string {
	class, _, _ := strings.Cut(key, "_")
	return class
}

// Get implements Store.
func (s *MemoryStore[V]) Get(_ context.Context, key string) (V, error) {
	now := s.now()

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if ok && now.Before(e.expiresAt) {
		metrics.RecordCacheLookup(keyClass(key), true)
		return e.value, nil
	}
	if ok {
		s.mu.Lock()
		// Re-check: a concurrent Set may have refreshed the entry.
		if cur, still := s.entries[key]; still && !now.Before(cur.expiresAt) {
			delete(s.entries, key)
			metrics.RecordCacheEvictions(1)
		}
		s.mu.Unlock()
	}

	metrics.RecordCacheLookup(keyClass(key), false)
	var zero V
	return zero, fmt.Errorf("%w: %s", ErrNotFound, key)
}

// Set implements Store.
func (s *MemoryStore[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}
	if ttl <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTTL, ttl)
	}

	s.mu.Lock()
	s.entries[key] = entry[V]{value: value, expiresAt: s.now().Add(ttl)}
	n := len(s.entries)
	s.mu.Unlock()

	metrics.UpdateCacheEntries(n)
	return nil
}

// Delete implements Store.
func (s *MemoryStore[V]) Delete(_ context.Context, key string) {
	s.mu.Lock()
	delete(s.entries, key)
	n := len(s.entries)
	s.mu.Unlock()

	metrics.UpdateCacheEntries(n)
}

// Len implements Store.
func (s *MemoryStore[V]) Len(_ context.Context) int {
	now := s.now()
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, e := range s.entries {
		if now.Before(e.expiresAt) {
			n++
		}
	}
	return n
}

// Sweep removes every expired entry and returns how many were dropped.
func (s *MemoryStore[V]) Sweep() int {
	now := s.now()

	s.mu.Lock()
	removed := 0
	for k, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, k)
			removed++
		}
	}
	n := len(s.entries)
	s.mu.Unlock()

	if removed > 0 {
		metrics.RecordCacheEvictions(removed)
	}
	metrics.UpdateCacheEntries(n)
	return removed
}

func (s *MemoryStore[V]) startSweeper(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}

// Close stops the sweeper and waits for it to exit.
func (s *MemoryStore[V]) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}
