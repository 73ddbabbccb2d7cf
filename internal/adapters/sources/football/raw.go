package football

// envelope is the API-Football response wrapper.
type envelope struct {
	Errors   any          `json:"errors,omitempty"`
	Response []rawFixture `json:"response"`
}

type rawFixture struct {
	Fixture struct {
		ID     int64  `json:"id"`
		Date   string `json:"date"`
		Status struct {
			Short   string `json:"short"`
			Elapsed *int   `json:"elapsed"`
		} `json:"status"`
		Venue struct {
			Name string `json:"name"`
		} `json:"venue"`
	} `json:"fixture"`
	League struct {
		Name string `json:"name"`
	} `json:"league"`
	Teams struct {
		Home rawTeam `json:"home"`
		Away rawTeam `json:"away"`
	} `json:"teams"`
	Goals rawPair `json:"goals"`
	Score struct {
		Halftime *rawPair `json:"halftime"`
	} `json:"score"`
}

type rawTeam struct {
	Name string `json:"name"`
	Logo string `json:"logo"`
}

type rawPair struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}
