package repository

import "time"

type settings struct {
	now           func() time.Time
	sweepInterval time.Duration
}

// Option applies a configuration option to the MemoryStore.
type Option func(*settings)

// WithClock injects the time source used for expiry.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSweepInterval sets how often expired entries are purged in the background.
// Zero or negative disables the sweeper; expired entries are still never served.
func WithSweepInterval(interval time.Duration) Option {
	return func(s *settings) {
		s.sweepInterval = interval
	}
}
