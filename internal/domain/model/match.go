// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Sport identifies the upstream family a match came from.
type Sport string

// Supported sports.
const (
	Cricket  Sport = "cricket"
	Football Sport = "football"
)

// Sports lists every supported sport in aggregation order.
var Sports = []Sport{Cricket, Football}

// ParseSport validates a sport filter value.
func ParseSport(s string) (Sport, error) {
	switch Sport(s) {
	case Cricket, Football:
		return Sport(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSport, s)
}

// Status is the lifecycle state of a match, re-derived on every fetch.
type Status string

// Match statuses.
const (
	Upcoming  Status = "upcoming"
	Live      Status = "live"
	Completed Status = "completed"
)

// Rank orders statuses for listings: live first, then upcoming, then completed.
func (s Status) Rank() int {
	switch s {
	case Live:
		return 0
	case Upcoming:
		return 1
	}
	return 2
}

// Phase is a finer-grained label for a live match.
type Phase string

// Match phases.
const (
	PhasePreMatch     Phase = "pre_match"
	PhaseFirstHalf    Phase = "first_half"
	PhaseHalftime     Phase = "halftime"
	PhaseSecondHalf   Phase = "second_half"
	PhaseFullTime     Phase = "full_time"
	PhaseInPlay       Phase = "in_play"
	PhaseInningsBreak Phase = "innings_break"
	PhaseSessionBreak Phase = "session_break"
)

// Team is one side of a match.
type Team struct {
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	Logo      string `json:"logo"`
	// Score is display text, e.g. "186/4 (18.2 ov)" or "2"; "-" when absent.
	Score string `json:"score"`
}

// Text is a bilingual value produced by enrichment.
type Text struct {
	EN string `json:"en"`
	HI string `json:"hi"`
}

// WinProbability holds percentages for each outcome. Draw is set for football only.
type WinProbability struct {
	TeamA      float64  `json:"teamA"`
	TeamB      float64  `json:"teamB"`
	Draw       *float64 `json:"draw,omitempty"`
	Confidence string   `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
}

// Match is the canonical record both sources normalize into.
type Match struct {
	ID             string          `json:"id"`
	Sport          Sport           `json:"sport"`
	Status         Status          `json:"status"`
	Tournament     string          `json:"tournament"`
	TeamA          Team            `json:"teamA"`
	TeamB          Team            `json:"teamB"`
	Headline       string          `json:"headline"`
	HeadlineHi     string          `json:"headlineHi"`
	StartTime      time.Time       `json:"startTime"`
	Venue          string          `json:"venue"`
	Extras         Extras          `json:"extras"`
	Slug           string          `json:"slug"`
	MatchPhase     Phase           `json:"matchPhase,omitempty"`
	Summary        string          `json:"summary,omitempty"`
	SummaryHi      string          `json:"summaryHi,omitempty"`
	WinProbability *WinProbability `json:"winProbability,omitempty"`
	LastUpdated    time.Time       `json:"lastUpdated"`
}

// UnmarshalJSON decodes extras into the concrete type selected by sport.
func (m *Match) UnmarshalJSON(b []byte) error {
	type alias Match
	aux := struct {
		*alias
		Extras json.RawMessage `json:"extras"`
	}{alias: (*alias)(m)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if len(aux.Extras) == 0 || string(aux.Extras) == "null" {
		m.Extras = nil
		return nil
	}
	switch m.Sport {
	case Cricket:
		var e CricketExtras
		if err := json.Unmarshal(aux.Extras, &e); err != nil {
			return err
		}
		m.Extras = &e
	case Football:
		var e FootballExtras
		if err := json.Unmarshal(aux.Extras, &e); err != nil {
			return err
		}
		m.Extras = &e
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSport, m.Sport)
	}
	return nil
}

// ScoresResult is the listing returned by the aggregator.
type ScoresResult struct {
	Matches     []Match   `json:"matches"`
	LastUpdated time.Time `json:"lastUpdated"`
	Count       int       `json:"count"`
}
