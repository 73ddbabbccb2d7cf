// Package repository holds the in-memory TTL cache behind score aggregation.
package repository

import (
	"context"
	"time"
)

// Store is a key/value cache whose entries expire after a per-entry TTL.
type Store[V any] interface {
	// Get returns the value for key. Returns ErrNotFound when the key is
	// unknown or its entry has expired.
	Get(ctx context.Context, key string) (V, error)

	// Set stores value under key until ttl elapses, replacing any previous entry.
	Set(ctx context.Context, key string, value V, ttl time.Duration) error

	// Delete removes key. Deleting an unknown key is a no-op.
	Delete(ctx context.Context, key string)

	// Len returns the number of entries that have not expired.
	Len(ctx context.Context) int
}
