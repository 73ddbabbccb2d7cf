package football

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/internal/domain/phase"
	"github.com/okian/matchday/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

// 20:00 UTC is already the next day in Asia/Kolkata.
var fixedNow = time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

const fixturesPayload = `{
  "response": [
    {
      "fixture": {"id": 1035037, "date": "2026-03-02T01:00:00+05:30",
        "status": {"short": "2H", "elapsed": 67}, "venue": {"name": "Emirates Stadium"}},
      "league": {"name": "Premier League"},
      "teams": {"home": {"name": "Arsenal", "logo": "https://img/ars.png"}, "away": {"name": "Brentford", "logo": ""}},
      "goals": {"home": 2, "away": 0},
      "score": {"halftime": {"home": 1, "away": null}}
    },
    {
      "fixture": {"id": 77, "date": "bad-date", "status": {"short": "NS", "elapsed": null}, "venue": {"name": ""}},
      "league": {"name": ""},
      "teams": {"home": {"name": ""}, "away": {"name": "Wolves"}},
      "goals": {"home": null, "away": null},
      "score": {"halftime": null}
    }
  ]
}`

func TestNormalize(t *testing.T) {
	Convey("Given fixture status codes", t, func() {
		for _, c := range []string{"1H", "2H", "HT", "ET", "BT", "P", "SUSP", "INT", "LIVE"} {
			So(MapStatus(c), ShouldEqual, model.Live)
		}
		for _, c := range []string{"FT", "AET", "PEN", "AWD", "WO"} {
			So(MapStatus(c), ShouldEqual, model.Completed)
		}
		for _, c := range []string{"NS", "TBD", "PST", "CANC", ""} {
			So(MapStatus(c), ShouldEqual, model.Upcoming)
		}
	})

	Convey("Given a fixture that has kicked off with a zero clock", t, func() {
		var raw rawFixture
		raw.Fixture.Status.Short = "1H"
		raw.Fixture.Status.Elapsed = intp(0)
		m := normalize(raw, fixedNow)

		Convey("Then it is live with no minute and reads as pre-match", func() {
			So(m.Status, ShouldEqual, model.Live)
			So(m.FootballDetail().Minute, ShouldBeNil)
			So(phase.Detect(m), ShouldEqual, model.PhasePreMatch)
		})
	})

	Convey("Given club names", t, func() {
		So(Abbreviate("Paris Saint Germain"), ShouldEqual, "PSG")
		So(Abbreviate("Borussia Dortmund"), ShouldEqual, "BVB")
		So(Abbreviate("Roma"), ShouldEqual, "ROMA")
		So(Abbreviate("Everton"), ShouldEqual, "EVE")
		So(Abbreviate(""), ShouldEqual, "???")
	})
}

func TestSource(t *testing.T) {
	Convey("Given an API-Football server", t, func() {
		var lastQuery, lastKey, lastHost atomic.Value
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lastQuery.Store(r.URL.Query().Encode())
			lastKey.Store(r.Header.Get("x-rapidapi-key"))
			lastHost.Store(r.Header.Get("x-rapidapi-host"))
			switch r.URL.Query().Get("id") {
			case "":
				_, _ = w.Write([]byte(fixturesPayload))
			case "404":
				_, _ = w.Write([]byte(`{"response": []}`))
			default:
				_, _ = w.Write([]byte(fixturesPayload))
			}
		}))
		defer srv.Close()

		src := New(WithAPIKey("rk"), WithBaseURL(srv.URL), WithClock(clock))
		ctx := context.Background()

		Convey("When listing fixtures", func() {
			ms := src.FetchMatches(ctx)

			Convey("Then today's date is taken in the configured timezone", func() {
				So(lastQuery.Load(), ShouldEqual, "date=2026-03-02&timezone=Asia%2FKolkata")
				So(lastKey.Load(), ShouldEqual, "rk")
				So(lastHost.Load(), ShouldEqual, "api-football-v1.p.rapidapi.com")
			})

			Convey("Then fixtures are normalized", func() {
				So(len(ms), ShouldEqual, 2)
				m := ms[0]
				So(m.ID, ShouldEqual, "football-1035037")
				So(m.Status, ShouldEqual, model.Live)
				So(m.TeamA.Score, ShouldEqual, "2")
				So(m.TeamB.Score, ShouldEqual, "0")
				So(m.TeamA.ShortName, ShouldEqual, "ARS")
				So(m.TeamB.ShortName, ShouldEqual, "BRE")
				So(m.Venue, ShouldEqual, "Emirates Stadium")
				So(*m.FootballDetail().Minute, ShouldEqual, 67)
				So(m.FootballDetail().HalfTime, ShouldEqual, "1 - -")
				_, offset := m.StartTime.Zone()
				So(offset, ShouldEqual, 5*3600+1800)
			})

			Convey("Then missing data gets defaults", func() {
				m := ms[1]
				So(m.Status, ShouldEqual, model.Upcoming)
				So(m.Tournament, ShouldEqual, "Football Match")
				So(m.TeamA.Name, ShouldEqual, "Home")
				So(m.TeamA.ShortName, ShouldEqual, "???")
				So(m.TeamA.Score, ShouldEqual, "-")
				So(m.FootballDetail().Minute, ShouldBeNil)
				So(m.FootballDetail().HalfTime, ShouldEqual, "")
				So(m.StartTime, ShouldEqual, fixedNow)
			})
		})

		Convey("When fetching one fixture", func() {
			m := src.FetchMatch(ctx, "1035037")
			So(m, ShouldNotBeNil)
			So(lastQuery.Load(), ShouldEqual, "id=1035037")
			So(src.FetchMatch(ctx, "404"), ShouldBeNil)
		})
	})

	Convey("Given an API that returns no fixtures", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"response": [], "errors": {"token": "invalid"}}`))
		}))
		defer srv.Close()

		src := New(WithAPIKey("rk"), WithBaseURL(srv.URL), WithClock(clock))
		ms := src.FetchMatches(context.Background())
		So(len(ms), ShouldEqual, 3)
		So(ms[0].ID, ShouldEqual, "football-mock-1")
	})

	Convey("Given a placeholder key", t, func() {
		src := New(WithAPIKey("your_rapidapi_key_here"), WithBaseURL("http://127.0.0.1:1"), WithClock(clock))
		ctx := context.Background()

		ms := src.FetchMatches(ctx)
		So(len(ms), ShouldEqual, 3)
		So(ms[2].Status, ShouldEqual, model.Completed)
		So(ms[2].StartTime, ShouldEqual, fixedNow.Add(-2*time.Hour))

		Convey("Then a single mock is found by its id without the prefix", func() {
			m := src.FetchMatch(ctx, "mock-2")
			So(m, ShouldNotBeNil)
			So(m.ID, ShouldEqual, "football-mock-2")
			So(src.FetchMatch(ctx, "mock-9"), ShouldBeNil)
		})
	})
}
