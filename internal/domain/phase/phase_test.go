package phase_test

import (
	"testing"

	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/internal/domain/phase"
	. "github.com/smartystreets/goconvey/convey"
)

func footballAt(minute *int) model.Match {
	return model.Match{Sport: model.Football, Extras: &model.FootballExtras{Minute: minute}}
}

func intp(v int) *int { return &v }

func TestDetectFootball(t *testing.T) {
	Convey("Given football matches at various minutes", t, func() {
		cases := []struct {
			minute *int
			want   model.Phase
		}{
			{nil, model.PhasePreMatch},
			{intp(0), model.PhaseFirstHalf},
			{intp(45), model.PhaseFirstHalf},
			{intp(46), model.PhaseHalftime},
			{intp(50), model.PhaseHalftime},
			{intp(51), model.PhaseSecondHalf},
			{intp(90), model.PhaseSecondHalf},
			{intp(91), model.PhaseFullTime},
			{intp(120), model.PhaseFullTime},
		}
		for _, c := range cases {
			So(phase.Detect(footballAt(c.minute)), ShouldEqual, c.want)
		}

		Convey("When extras are missing entirely", func() {
			So(phase.Detect(model.Match{Sport: model.Football}), ShouldEqual, model.PhasePreMatch)
		})
	})
}

func TestDetectCricket(t *testing.T) {
	Convey("Given cricket headlines", t, func() {
		detect := func(h string) model.Phase {
			return phase.Detect(model.Match{Sport: model.Cricket, Headline: h})
		}
		So(detect("Innings Break: India need 187"), ShouldEqual, model.PhaseInningsBreak)
		So(detect("INN BREAK"), ShouldEqual, model.PhaseInningsBreak)
		So(detect("Stumps - Day 2"), ShouldEqual, model.PhaseSessionBreak)
		So(detect("Lunch on day 1"), ShouldEqual, model.PhaseSessionBreak)
		So(detect("Tea"), ShouldEqual, model.PhaseSessionBreak)
		So(detect("India need 14 runs in 10 balls"), ShouldEqual, model.PhaseInPlay)
		So(detect(""), ShouldEqual, model.PhaseInPlay)

		Convey("When both markers appear, innings break wins", func() {
			So(detect("innings break after tea"), ShouldEqual, model.PhaseInningsBreak)
		})
	})
}
