package model

// Extras carries sport-specific detail. The concrete type is always
// *CricketExtras or *FootballExtras, matching the match's Sport.
type Extras interface {
	Sport() Sport
}

// CricketExtras holds over-level detail for a cricket match.
type CricketExtras struct {
	Overs       string `json:"overs,omitempty"`
	RunRate     string `json:"runRate,omitempty"`
	Partnership string `json:"partnership,omitempty"`
}

// Sport implements Extras.
func (*CricketExtras) Sport() Sport { return Cricket }

// FootballExtras holds clock and possession detail for a football match.
type FootballExtras struct {
	Minute     *int   `json:"minute,omitempty"`
	Possession *int   `json:"possession,omitempty"`
	HalfTime   string `json:"halfTime,omitempty"`
}

// Sport implements Extras.
func (*FootballExtras) Sport() Sport { return Football }

// CricketDetail returns the cricket extras of m, or nil.
func (m *Match) CricketDetail() *CricketExtras {
	e, _ := m.Extras.(*CricketExtras)
	return e
}

// FootballDetail returns the football extras of m, or nil.
func (m *Match) FootballDetail() *FootballExtras {
	e, _ := m.Extras.(*FootballExtras)
	return e
}
