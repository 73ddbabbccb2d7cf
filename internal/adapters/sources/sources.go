// Package sources defines the contract every upstream score provider implements.
package sources

import (
	"context"

	"github.com/okian/matchday/internal/domain/model"
)

// Source fetches and normalizes matches for one sport.
//
// Implementations never return errors: when the provider is unavailable the
// listing falls back to deterministic mock data and a single lookup returns nil.
type Source interface {
	Sport() model.Sport
	FetchMatches(ctx context.Context) []model.Match
	FetchMatch(ctx context.Context, id string) *model.Match
}
