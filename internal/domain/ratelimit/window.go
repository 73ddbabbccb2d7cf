// Package ratelimit implements the sliding-window limiter shared by every AI call.
package ratelimit

import (
	"sync"
	"time"
)

// Defaults for the AI provider's per-minute allowance.
const (
	DefaultWindow   = time.Minute
	DefaultMaxCalls = 25
)

// Window allows at most max calls within any trailing window.
// It is safe for concurrent use.
type Window struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	now    func() time.Time
	calls  []time.Time // ascending
}

// Option configures a Window.
type Option func(*Window)

// WithWindow sets the trailing window length.
func WithWindow(d time.Duration) Option {
	return func(w *Window) {
		if d > 0 {
			w.window = d
		}
	}
}

// WithMaxCalls sets the allowance per window.
func WithMaxCalls(n int) Option {
	return func(w *Window) {
		if n > 0 {
			w.max = n
		}
	}
}

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(w *Window) {
		if now != nil {
			w.now = now
		}
	}
}

// New creates a Window with the given options.
func New(opts ...Option) *Window {
	w := &Window{window: DefaultWindow, max: DefaultMaxCalls, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	w.calls = make([]time.Time, 0, w.max)
	return w
}

// CanCall prunes expired calls and reports whether another call fits.
func (w *Window) CanCall() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.prune(w.now())
	return len(w.calls) < w.max
}

// RecordCall appends the current time as a call.
func (w *Window) RecordCall() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, w.now())
}

// Acquire prunes, checks and records in one critical section. Call sites use
// it instead of CanCall followed by RecordCall so concurrent callers cannot
// both claim the last slot.
func (w *Window) Acquire() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	now := w.now()
	w.prune(now)
	if len(w.calls) >= w.max {
		return false
	}
	w.calls = append(w.calls, now)
	return true
}

// Remaining returns how many calls fit in the current window.
func (w *Window) Remaining() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.prune(w.now())
	return w.max - len(w.calls)
}

// Timestamps at least one window old are dropped. Must be called with w.mu held.
func (w *Window) prune(now time.Time) {
	cutoff := now.Add(-w.window)
	i := 0
	for i < len(w.calls) && !w.calls[i].After(cutoff) {
		i++
	}
	if i > 0 {
		w.calls = append(w.calls[:0], w.calls[i:]...)
	}
}
