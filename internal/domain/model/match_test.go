package model_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	model "github.com/okian/matchday/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestParseSport(t *testing.T) {
	convey.Convey("Given sport filter values", t, func() {
		s, err := model.ParseSport("cricket")
		convey.So(err, convey.ShouldBeNil)
		convey.So(s, convey.ShouldEqual, model.Cricket)

		_, err = model.ParseSport("Football")
		convey.So(errors.Is(err, model.ErrUnknownSport), convey.ShouldBeTrue)

		_, err = model.ParseSport("tennis")
		convey.So(errors.Is(err, model.ErrUnknownSport), convey.ShouldBeTrue)
	})
}

func TestStatusRank(t *testing.T) {
	convey.Convey("Given the three statuses", t, func() {
		convey.So(model.Live.Rank(), convey.ShouldBeLessThan, model.Upcoming.Rank())
		convey.So(model.Upcoming.Rank(), convey.ShouldBeLessThan, model.Completed.Rank())
	})
}

func TestMatchJSON(t *testing.T) {
	convey.Convey("Given a football match with extras", t, func() {
		minute := 67
		start := time.Date(2026, 3, 1, 19, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))
		m := model.Match{
			ID:        "football-42",
			Sport:     model.Football,
			Status:    model.Live,
			TeamA:     model.Team{Name: "Arsenal", ShortName: "ARS", Score: "2"},
			TeamB:     model.Team{Name: "Chelsea", ShortName: "CHE", Score: "1"},
			StartTime: start,
			Extras:    &model.FootballExtras{Minute: &minute, HalfTime: "1 - 0"},
		}

		convey.Convey("When encoded", func() {
			b, err := json.Marshal(m)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then optional enrichment fields are omitted and extras are flat", func() {
				var raw map[string]any
				convey.So(json.Unmarshal(b, &raw), convey.ShouldBeNil)
				convey.So(raw, convey.ShouldNotContainKey, "summary")
				convey.So(raw, convey.ShouldNotContainKey, "winProbability")
				convey.So(raw, convey.ShouldNotContainKey, "matchPhase")
				convey.So(raw["extras"], convey.ShouldResemble, map[string]any{"minute": float64(67), "halfTime": "1 - 0"})
				convey.So(raw["startTime"], convey.ShouldEqual, "2026-03-01T19:30:00+05:30")
			})

			convey.Convey("Then decoding restores the concrete extras type", func() {
				var back model.Match
				convey.So(json.Unmarshal(b, &back), convey.ShouldBeNil)
				fe := back.FootballDetail()
				convey.So(fe, convey.ShouldNotBeNil)
				convey.So(*fe.Minute, convey.ShouldEqual, 67)
				convey.So(back.CricketDetail(), convey.ShouldBeNil)
				convey.So(back.Extras.Sport(), convey.ShouldEqual, model.Football)
			})
		})
	})

	convey.Convey("Given a cricket payload", t, func() {
		payload := `{"id":"c1","sport":"cricket","status":"live","extras":{"overs":"18.2","runRate":"10.14"}}`
		var m model.Match
		convey.So(json.Unmarshal([]byte(payload), &m), convey.ShouldBeNil)
		convey.So(m.CricketDetail().Overs, convey.ShouldEqual, "18.2")
		convey.So(m.Extras.Sport(), convey.ShouldEqual, model.Cricket)
	})

	convey.Convey("Given extras with an unknown sport", t, func() {
		var m model.Match
		err := json.Unmarshal([]byte(`{"id":"x","sport":"golf","extras":{}}`), &m)
		convey.So(errors.Is(err, model.ErrUnknownSport), convey.ShouldBeTrue)
	})
}
