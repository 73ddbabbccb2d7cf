package football

import (
	"time"

	"github.com/okian/matchday/internal/domain/model"
)

func intp(v int) *int { return &v }

// Mocks returns the fixed fallback dataset with start times relative to now.
func Mocks(now time.Time) []model.Match {
	ms := []model.Match{
		{
			ID:         "football-mock-1",
			Sport:      model.Football,
			Status:     model.Live,
			Tournament: "Premier League",
			TeamA:      model.Team{Name: "Arsenal", ShortName: "ARS", Score: "2"},
			TeamB:      model.Team{Name: "Manchester City", ShortName: "MCI", Score: "1"},
			Headline:   "Saka scores a screamer to put Arsenal ahead!",
			HeadlineHi: "साका के शानदार गोल से आर्सनल आगे!",
			StartTime:  now,
			Venue:      "Emirates Stadium, London",
			Extras:     &model.FootballExtras{Minute: intp(67), Possession: intp(45)},
		},
		{
			ID:         "football-mock-2",
			Sport:      model.Football,
			Status:     model.Live,
			Tournament: "La Liga",
			TeamA:      model.Team{Name: "Real Madrid", ShortName: "RMA", Score: "3"},
			TeamB:      model.Team{Name: "Barcelona", ShortName: "BAR", Score: "3"},
			Headline:   "El Clásico thriller! Six goals and counting",
			HeadlineHi: "एल क्लासिको में गोलों की बरसात! 6 गोल हो चुके",
			StartTime:  now,
			Venue:      "Santiago Bernabéu, Madrid",
			Extras:     &model.FootballExtras{Minute: intp(78), Possession: intp(52)},
		},
		{
			ID:         "football-mock-3",
			Sport:      model.Football,
			Status:     model.Completed,
			Tournament: "Champions League",
			TeamA:      model.Team{Name: "Liverpool", ShortName: "LIV", Score: "4"},
			TeamB:      model.Team{Name: "Bayern Munich", ShortName: "BAY", Score: "2"},
			Headline:   "Liverpool dominate Bayern to reach semi-finals",
			HeadlineHi: "लिवरपूल ने बायर्न को हराकर सेमीफाइनल में प्रवेश किया",
			StartTime:  now.Add(-2 * time.Hour),
			Venue:      "Anfield, Liverpool",
			Extras:     &model.FootballExtras{Minute: intp(90), Possession: intp(58)},
		},
	}
	for i := range ms {
		ms[i].LastUpdated = now
	}
	return ms
}
