// Package slug builds human-readable match slugs and keeps the bidirectional
// slug <-> id mapping used to resolve match pages.
package slug

import (
	"regexp"
	"strings"

	"github.com/okian/matchday/internal/domain/model"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Generate returns "<teamA>-vs-<teamB>-<YYYY-MM-DD>". Team parts use the
// short name when present, else the full name. The date is taken from the
// start time in its own offset.
func Generate(m model.Match) string {
	return part(m.TeamA) + "-vs-" + part(m.TeamB) + "-" + m.StartTime.Format("2006-01-02")
}

func part(t model.Team) string {
	name := t.ShortName
	if name == "" {
		name = t.Name
	}
	return strings.Trim(nonAlnum.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

// Path is the registry key for a slug within a sport.
func Path(sport model.Sport, slug string) string {
	return string(sport) + "/" + slug
}
