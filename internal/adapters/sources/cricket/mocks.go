package cricket

import (
	"time"

	"github.com/okian/matchday/internal/domain/model"
)

// Mocks returns the fixed fallback dataset with start times relative to now.
func Mocks(now time.Time) []model.Match {
	ms := []model.Match{
		{
			ID:         "cricket-mock-1",
			Sport:      model.Cricket,
			Status:     model.Live,
			Tournament: "T20 World Cup 2026",
			TeamA:      model.Team{Name: "India", ShortName: "IND", Score: "186/4 (18.2 ov)"},
			TeamB:      model.Team{Name: "Australia", ShortName: "AUS", Score: "172/10 (19.4 ov)"},
			Headline:   "Kohli smashes 89* as India chase down 173 target",
			HeadlineHi: "कोहली की तूफानी 89* के साथ भारत ने 173 का लक्ष्य हासिल किया",
			StartTime:  now,
			Venue:      "Eden Gardens, Kolkata",
			Extras:     &model.CricketExtras{Overs: "18.2", RunRate: "10.14", Partnership: "78 (42)"},
		},
		{
			ID:         "cricket-mock-2",
			Sport:      model.Cricket,
			Status:     model.Live,
			Tournament: "IPL 2026",
			TeamA:      model.Team{Name: "Mumbai Indians", ShortName: "MI", Score: "145/6 (16.0 ov)"},
			TeamB:      model.Team{Name: "Chennai Super Kings", ShortName: "CSK", Score: "152/3 (15.2 ov)"},
			Headline:   "CSK cruising towards target with Dhoni at the crease",
			HeadlineHi: "धोनी की बदौलत CSK लक्ष्य की ओर बढ़ रहा है",
			StartTime:  now,
			Venue:      "Wankhede Stadium, Mumbai",
			Extras:     &model.CricketExtras{Overs: "15.2", RunRate: "9.91", Partnership: "45 (28)"},
		},
		{
			ID:         "cricket-mock-3",
			Sport:      model.Cricket,
			Status:     model.Completed,
			Tournament: "T20 World Cup 2026",
			TeamA:      model.Team{Name: "England", ShortName: "ENG", Score: "156/8 (20 ov)"},
			TeamB:      model.Team{Name: "South Africa", ShortName: "SA", Score: "160/4 (18.4 ov)"},
			Headline:   "South Africa win by 6 wickets to top Group B",
			HeadlineHi: "दक्षिण अफ्रीका ने 6 विकेट से जीतकर ग्रुप B में शीर्ष पर",
			StartTime:  now.Add(-time.Hour),
			Venue:      "Newlands, Cape Town",
			Extras:     &model.CricketExtras{Overs: "20", RunRate: "8.56"},
		},
	}
	for i := range ms {
		ms[i].LastUpdated = now
	}
	return ms
}
