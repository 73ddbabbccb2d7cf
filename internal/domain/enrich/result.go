// Package enrich holds the value-or-unavailable result every enrichment call returns.
package enrich

import "errors"

// Reasons an enrichment value is unavailable.
var (
	ErrNoClient      = errors.New("enrichment client not configured")
	ErrRateLimited   = errors.New("enrichment rate limited")
	ErrUpstream      = errors.New("enrichment provider failed")
	ErrMalformed     = errors.New("enrichment response malformed")
	ErrNotApplicable = errors.New("enrichment not applicable")
)

// Result is either a value or the reason it is unavailable. It is never
// used to propagate failures: callers omit the field when !OK().
type Result[T any] struct {
	value  T
	reason error
}

// Available wraps a produced value.
func Available[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Unavailable records why no value was produced. A nil reason becomes ErrUpstream.
func Unavailable[T any](reason error) Result[T] {
	if reason == nil {
		reason = ErrUpstream
	}
	return Result[T]{reason: reason}
}

// OK reports whether a value is present.
func (r Result[T]) OK() bool { return r.reason == nil }

// Get returns the value and whether it is present.
func (r Result[T]) Get() (T, bool) { return r.value, r.reason == nil }

// Reason returns nil when the value is present.
func (r Result[T]) Reason() error { return r.reason }

// Outcome labels the result for metrics.
func (r Result[T]) Outcome() string {
	switch {
	case r.reason == nil:
		return "ok"
	case errors.Is(r.reason, ErrNoClient):
		return "no_client"
	case errors.Is(r.reason, ErrRateLimited):
		return "rate_limited"
	case errors.Is(r.reason, ErrMalformed):
		return "malformed"
	case errors.Is(r.reason, ErrNotApplicable):
		return "not_applicable"
	}
	return "upstream_error"
}
