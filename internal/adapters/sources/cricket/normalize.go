package cricket

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/matchday/internal/adapters/sources"
	"github.com/okian/matchday/internal/domain/model"
)

var abbreviations = map[string]string{
	"India":                    "IND",
	"Australia":                "AUS",
	"England":                  "ENG",
	"Pakistan":                 "PAK",
	"South Africa":             "SA",
	"New Zealand":              "NZ",
	"Sri Lanka":                "SL",
	"Bangladesh":               "BAN",
	"West Indies":              "WI",
	"Afghanistan":              "AFG",
	"Zimbabwe":                 "ZIM",
	"Ireland":                  "IRE",
	"Nepal":                    "NEP",
	"United States of America": "USA",
}

// Abbreviate returns the short code for a cricket team name.
func Abbreviate(name string) string {
	return sources.Abbreviate(name, abbreviations)
}

// MapStatus derives the lifecycle state from the started/ended flags.
func MapStatus(started, ended bool) model.Status {
	switch {
	case ended:
		return model.Completed
	case started:
		return model.Live
	}
	return model.Upcoming
}

// inningsFor returns every record whose label starts with team, ignoring case.
// Records matching neither team are dropped by the caller.
func inningsFor(team string, score []rawInning) []rawInning {
	prefix := strings.ToLower(team)
	var out []rawInning
	for _, s := range score {
		if s.Inning != "" && strings.HasPrefix(strings.ToLower(s.Inning), prefix) {
			out = append(out, s)
		}
	}
	return out
}

// formatInnings renders "<r>/<w> (<o> ov)" per innings joined by " & ", or "-".
func formatInnings(innings []rawInning) string {
	if len(innings) == 0 {
		return "-"
	}
	parts := make([]string, len(innings))
	for i, inn := range innings {
		parts[i] = fmt.Sprintf("%s/%s (%s ov)", inn.R, inn.W, inn.O)
	}
	return strings.Join(parts, " & ")
}

func logoFor(team string, info []rawTeam) string {
	for _, t := range info {
		if t.Name != "" && strings.EqualFold(t.Name, team) {
			return t.Img
		}
	}
	return ""
}

// parseStart reads CricAPI's zone-less GMT timestamp, also accepting RFC 3339.
func parseStart(s string, now time.Time) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.UTC); err == nil {
		return t
	}
	return now
}

// normalize maps a raw record to the canonical match.
// Team slots are positional: teams[0] is team A, teams[1] is team B.
func normalize(raw rawMatch, now time.Time) model.Match {
	teamA, teamB := "Team A", "Team B"
	if len(raw.Teams) > 0 && raw.Teams[0] != "" {
		teamA = raw.Teams[0]
	}
	if len(raw.Teams) > 1 && raw.Teams[1] != "" {
		teamB = raw.Teams[1]
	}

	inningsA := inningsFor(teamA, raw.Score)
	inningsB := inningsFor(teamB, raw.Score)

	var overs string
	if n := len(inningsA); n > 0 {
		overs = inningsA[n-1].O.String()
	}

	tournament := raw.Series
	if tournament == "" {
		tournament = raw.Name
	}
	if tournament == "" {
		tournament = "Cricket Match"
	}

	return model.Match{
		ID:         raw.ID,
		Sport:      model.Cricket,
		Status:     MapStatus(raw.MatchStarted, raw.MatchEnded),
		Tournament: tournament,
		TeamA: model.Team{
			Name:      teamA,
			ShortName: Abbreviate(teamA),
			Logo:      logoFor(teamA, raw.TeamInfo),
			Score:     formatInnings(inningsA),
		},
		TeamB: model.Team{
			Name:      teamB,
			ShortName: Abbreviate(teamB),
			Logo:      logoFor(teamB, raw.TeamInfo),
			Score:     formatInnings(inningsB),
		},
		Headline:    raw.Status,
		StartTime:   parseStart(raw.DateTimeGMT, now),
		Venue:       raw.Venue,
		Extras:      &model.CricketExtras{Overs: overs},
		LastUpdated: now,
	}
}
