package repository

import "errors"

// Sentinel kinds for cache errors.
var (
	ErrNotFound   = errors.New("cache entry not found")
	ErrEmptyKey   = errors.New("cache key must not be empty")
	ErrInvalidTTL = errors.New("cache ttl must be positive")
)
