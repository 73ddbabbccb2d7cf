package cricket

import "encoding/json"

// envelope is the CricAPI response wrapper.
type envelope[T any] struct {
	Status string `json:"status"`
	Info   any    `json:"info,omitempty"`
	Data   T      `json:"data"`
}

// rawMatch is a CricAPI match record.
type rawMatch struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Series       string      `json:"series"`
	Status       string      `json:"status"`
	Venue        string      `json:"venue"`
	DateTimeGMT  string      `json:"dateTimeGMT"`
	Teams        []string    `json:"teams"`
	TeamInfo     []rawTeam   `json:"teamInfo"`
	Score        []rawInning `json:"score"`
	MatchStarted bool        `json:"matchStarted"`
	MatchEnded   bool        `json:"matchEnded"`
}

type rawTeam struct {
	Name      string `json:"name"`
	ShortName string `json:"shortname"`
	Img       string `json:"img"`
}

// rawInning is one per-innings score record. The inning label is free text
// such as "India Inning 1" and is the only link back to a team.
type rawInning struct {
	R      json.Number `json:"r"`
	W      json.Number `json:"w"`
	O      json.Number `json:"o"`
	Inning string      `json:"inning"`
}
