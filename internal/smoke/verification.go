package smoke

import (
	"fmt"

	"github.com/okian/matchday/internal/domain/model"
)

// verifyListing checks ordering and bookkeeping of a scores listing.
func verifyListing(res model.ScoresResult, sport model.Sport) error {
	if res.Count != len(res.Matches) {
		return fmt.Errorf("%w: count %d but %d matches", ErrVerification, res.Count, len(res.Matches))
	}
	if res.LastUpdated.IsZero() {
		return fmt.Errorf("%w: lastUpdated missing", ErrVerification)
	}

	seen := make(map[string]struct{}, len(res.Matches))
	for i, m := range res.Matches {
		if _, dup := seen[m.ID]; dup {
			return fmt.Errorf("%w: duplicate id %s", ErrVerification, m.ID)
		}
		seen[m.ID] = struct{}{}

		if sport != "" && m.Sport != sport {
			return fmt.Errorf("%w: %s listed under %s", ErrVerification, m.ID, sport)
		}
		if m.Slug == "" {
			return fmt.Errorf("%w: %s has no slug", ErrVerification, m.ID)
		}
		if m.Status == model.Live && m.MatchPhase == "" {
			return fmt.Errorf("%w: live match %s has no phase", ErrVerification, m.ID)
		}
		if i == 0 {
			continue
		}
		prev := res.Matches[i-1]
		pr, cr := prev.Status.Rank(), m.Status.Rank()
		if pr > cr || (pr == cr && prev.StartTime.Before(m.StartTime)) {
			return fmt.Errorf("%w: %s listed before %s", ErrVerification, prev.ID, m.ID)
		}
	}
	return nil
}

// verifyLookup checks that a lookup returned the listed match.
func verifyLookup(listed, got model.Match, bySlug bool) error {
	if bySlug {
		// Colliding slugs resolve to the last registered match.
		if got.Slug != listed.Slug || got.Sport != listed.Sport {
			return fmt.Errorf("%w: slug %s/%s resolved to %s", ErrVerification, listed.Sport, listed.Slug, got.ID)
		}
		return nil
	}
	if got.ID != listed.ID {
		return fmt.Errorf("%w: lookup %s returned %s", ErrVerification, listed.ID, got.ID)
	}
	return nil
}
