package football

import (
	"strconv"
	"time"

	"github.com/okian/matchday/internal/adapters/sources"
	"github.com/okian/matchday/internal/domain/model"
)

// IDPrefix namespaces football ids apart from cricket provider ids.
const IDPrefix = "football-"

var abbreviations = map[string]string{
	"Manchester United":   "MUN",
	"Manchester City":     "MCI",
	"Liverpool":           "LIV",
	"Chelsea":             "CHE",
	"Arsenal":             "ARS",
	"Tottenham Hotspur":   "TOT",
	"Barcelona":           "BAR",
	"Real Madrid":         "RMA",
	"Bayern Munich":       "BAY",
	"Paris Saint Germain": "PSG",
	"Juventus":            "JUV",
	"AC Milan":            "ACM",
	"Inter Milan":         "INT",
	"Atletico Madrid":     "ATM",
	"Borussia Dortmund":   "BVB",
}

var (
	liveCodes      = set("1H", "2H", "HT", "ET", "BT", "P", "SUSP", "INT", "LIVE")
	completedCodes = set("FT", "AET", "PEN", "AWD", "WO")
)

func set(codes ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		m[c] = struct{}{}
	}
	return m
}

// Abbreviate returns the short code for a club name.
func Abbreviate(name string) string {
	return sources.Abbreviate(name, abbreviations)
}

// MapStatus maps a fixture status short code to the lifecycle state.
func MapStatus(short string) model.Status {
	if _, ok := liveCodes[short]; ok {
		return model.Live
	}
	if _, ok := completedCodes[short]; ok {
		return model.Completed
	}
	return model.Upcoming
}

func goals(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func halfTime(p *rawPair) string {
	if p == nil {
		return ""
	}
	return goals(p.Home) + " - " + goals(p.Away)
}

// elapsedMinute treats a zero clock like a missing one, so a kicked-off
// fixture still reads as pre-match.
func elapsedMinute(v *int) *int {
	if v == nil || *v <= 0 {
		return nil
	}
	m := *v
	return &m
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func normalize(raw rawFixture, now time.Time) model.Match {
	start, err := time.Parse(time.RFC3339, raw.Fixture.Date)
	if err != nil {
		start = now
	}
	home, away := raw.Teams.Home, raw.Teams.Away

	return model.Match{
		ID:         IDPrefix + strconv.FormatInt(raw.Fixture.ID, 10),
		Sport:      model.Football,
		Status:     MapStatus(raw.Fixture.Status.Short),
		Tournament: orDefault(raw.League.Name, "Football Match"),
		TeamA: model.Team{
			Name:      orDefault(home.Name, "Home"),
			ShortName: Abbreviate(home.Name),
			Logo:      home.Logo,
			Score:     goals(raw.Goals.Home),
		},
		TeamB: model.Team{
			Name:      orDefault(away.Name, "Away"),
			ShortName: Abbreviate(away.Name),
			Logo:      away.Logo,
			Score:     goals(raw.Goals.Away),
		},
		StartTime: start,
		Venue:     raw.Fixture.Venue.Name,
		Extras: &model.FootballExtras{
			Minute:   elapsedMinute(raw.Fixture.Status.Elapsed),
			HalfTime: halfTime(raw.Score.Halftime),
		},
		LastUpdated: now,
	}
}
