// Package smoke drives a running scores service over HTTP and checks that
// listings, id lookups and slug lookups agree with each other.
package smoke

import "time"

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL string        // Base URL of the service
	Workers int           // Concurrent lookups
	Rounds  int           // Listing passes; later passes should hit the cache
	Timeout time.Duration // HTTP request timeout
	Query   string        // Search query; empty skips search
	Verbose bool          // Log every lookup
}

// Stats holds run statistics.
type Stats struct {
	Listings      int
	Matches       int
	IDLookups     int
	SlugLookups   int
	Failures      int
	SearchMatches int
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
}
