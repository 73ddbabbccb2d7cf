package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/matchday/internal/adapters/ai"
	"github.com/okian/matchday/internal/adapters/http/api"
	service "github.com/okian/matchday/internal/app"
	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

type mockDependencies struct {
	scores    model.ScoresResult
	scoresErr error
	lastSport model.Sport

	matches map[string]model.Match
	slugs   map[string]string

	answer    ai.SearchAnswer
	searchErr error
	lastQuery string

	catchup   *model.Text
	lastVisit time.Time

	panicOn string
}

func (m *mockDependencies) GetScores(_ context.Context, sport model.Sport) (model.ScoresResult, error) {
	if m.panicOn == "scores" {
		panic("boom")
	}
	m.lastSport = sport
	return m.scores, m.scoresErr
}

func (m *mockDependencies) GetMatch(_ context.Context, id string) (model.Match, error) {
	if match, ok := m.matches[id]; ok {
		return match, nil
	}
	return model.Match{}, fmt.Errorf("%w: %s", service.ErrMatchNotFound, id)
}

func (m *mockDependencies) ResolveSlug(ctx context.Context, sport model.Sport, slug string) (model.Match, error) {
	id, ok := m.slugs[string(sport)+"/"+slug]
	if !ok {
		return model.Match{}, service.ErrMatchNotFound
	}
	return m.GetMatch(ctx, id)
}

func (m *mockDependencies) Search(_ context.Context, query string) (ai.SearchAnswer, error) {
	m.lastQuery = query
	return m.answer, m.searchErr
}

func (m *mockDependencies) CatchUp(ctx context.Context, id string, lastVisit time.Time) (*model.Text, error) {
	if _, err := m.GetMatch(ctx, id); err != nil {
		return nil, err
	}
	m.lastVisit = lastVisit
	return m.catchup, nil
}

type mockStatsProvider struct{}

func (mockStatsProvider) Stats(context.Context) service.Stats {
	return service.Stats{Started: true, Workers: 3, SlugsRegistered: 2}
}

func newTestServer(deps *mockDependencies) http.Handler {
	server := api.NewServer(deps, mockStatsProvider{})
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return server.Handler(mux)
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return out
}

func fixtureDeps() *mockDependencies {
	live := model.Match{ID: "football-1", Sport: model.Football, Status: model.Live, Slug: "ars-vs-che-2026-04-12"}
	return &mockDependencies{
		scores:  model.ScoresResult{Matches: []model.Match{live}, Count: 1, LastUpdated: time.Date(2026, 4, 12, 14, 0, 0, 0, time.UTC)},
		matches: map[string]model.Match{"football-1": live},
		slugs:   map[string]string{"football/ars-vs-che-2026-04-12": "football-1"},
	}
}

func TestScoresRoutes(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := fixtureDeps()
		h := newTestServer(deps)

		Convey("When listing scores without a filter", func() {
			w := do(h, http.MethodGet, "/scores", "")

			Convey("Then the listing is returned for every sport", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldStartWith, "application/json")
				So(deps.lastSport, ShouldEqual, model.Sport(""))
				body := decode(w)
				So(body["count"], ShouldEqual, float64(1))
				So(body["lastUpdated"], ShouldEqual, "2026-04-12T14:00:00Z")
			})
		})

		Convey("When listing one sport", func() {
			w := do(h, http.MethodGet, "/scores?sport=cricket", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastSport, ShouldEqual, model.Cricket)
		})

		Convey("When the sport is unknown", func() {
			w := do(h, http.MethodGet, "/scores?sport=hockey", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decode(w)["error"], ShouldEqual, "invalid sport")
		})

		Convey("When the aggregator fails unexpectedly", func() {
			deps.scoresErr = errors.New("disk on fire")
			w := do(h, http.MethodGet, "/scores", "")

			Convey("Then a generic 500 is returned", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(decode(w)["error"], ShouldEqual, "internal server error")
			})
		})

		Convey("When fetching a known match", func() {
			w := do(h, http.MethodGet, "/scores/football-1", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode(w)["slug"], ShouldEqual, "ars-vs-che-2026-04-12")
		})

		Convey("When fetching an unknown match", func() {
			w := do(h, http.MethodGet, "/scores/nope", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decode(w)["error"], ShouldEqual, "Match not found")
		})

		Convey("When resolving a slug", func() {
			So(do(h, http.MethodGet, "/matches/football/ars-vs-che-2026-04-12", "").Code, ShouldEqual, http.StatusOK)
			So(do(h, http.MethodGet, "/matches/football/unknown", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(h, http.MethodGet, "/matches/hockey/ars-vs-che-2026-04-12", "").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When using the wrong method", func() {
			w := do(h, http.MethodPost, "/scores", "{}")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestSearchRoute(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := fixtureDeps()
		deps.answer = ai.SearchAnswer{MatchIDs: []string{"football-1"}, Response: "Arsenal lead", ResponseHi: "आर्सनल"}
		h := newTestServer(deps)

		Convey("When searching", func() {
			w := do(h, http.MethodPost, "/search", `{"query":"arsenal"}`)

			Convey("Then the answer is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastQuery, ShouldEqual, "arsenal")
				body := decode(w)
				So(body["matchIds"], ShouldResemble, []any{"football-1"})
				So(body["response"], ShouldEqual, "Arsenal lead")
			})
		})

		Convey("When the query is missing or not a string", func() {
			for _, body := range []string{`{}`, `{"query":""}`, `{"query":42}`, `not json`} {
				w := do(h, http.MethodPost, "/search", body)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w)["error"], ShouldEqual, "query required")
			}
		})

		Convey("When the answer carries no ids", func() {
			deps.answer = ai.SearchAnswer{Response: service.SearchUnavailableText}
			w := do(h, http.MethodPost, "/search", `{"query":"x"}`)

			Convey("Then ids serialize as an empty list", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"matchIds":[]`)
			})
		})
	})
}

func TestCatchUpRoute(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := fixtureDeps()
		h := newTestServer(deps)

		Convey("When lastVisit is valid and there is news", func() {
			deps.catchup = &model.Text{EN: "Goal", HI: "गोल"}
			w := do(h, http.MethodPost, "/catchup/football-1", `{"lastVisit":"2026-04-12T13:50:00.000Z"}`)

			Convey("Then the catch-up is wrapped", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastVisit.Equal(time.Date(2026, 4, 12, 13, 50, 0, 0, time.UTC)), ShouldBeTrue)
				So(decode(w)["catchup"], ShouldResemble, map[string]any{"en": "Goal", "hi": "गोल"})
			})
		})

		Convey("When there is nothing to tell", func() {
			w := do(h, http.MethodPost, "/catchup/football-1", `{"lastVisit":"2026-04-12T13:59:30Z"}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"catchup":null`)
		})

		Convey("When lastVisit is missing", func() {
			w := do(h, http.MethodPost, "/catchup/football-1", `{}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decode(w)["error"], ShouldEqual, "lastVisit required")
		})

		Convey("When lastVisit is malformed", func() {
			w := do(h, http.MethodPost, "/catchup/football-1", `{"lastVisit":"yesterday"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the match is unknown", func() {
			w := do(h, http.MethodPost, "/catchup/nope", `{"lastVisit":"2026-04-12T13:00:00Z"}`)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestAmbientRoutes(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := fixtureDeps()
		h := newTestServer(deps)

		Convey("When checking health", func() {
			for _, path := range []string{"/healthz", "/health"} {
				w := do(h, http.MethodGet, path, "")
				So(w.Code, ShouldEqual, http.StatusOK)
				body := decode(w)
				So(body["status"], ShouldEqual, "ok")
				_, err := time.Parse(time.RFC3339Nano, body["timestamp"].(string))
				So(err, ShouldBeNil)
			}
		})

		Convey("When scraping metrics after a request", func() {
			_ = do(h, http.MethodGet, "/scores", "")
			w := do(h, http.MethodGet, "/metrics", "")

			Convey("Then the custom registry is exposed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "matchday_scores_http_requests_total")
			})
		})

		Convey("When reading stats", func() {
			w := do(h, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode(w)["workers"], ShouldEqual, float64(3))
		})

		Convey("When a request carries an id", func() {
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			req.Header.Set(api.RequestIDHeader, "abc-123")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "abc-123")
		})

		Convey("When a request has no id", func() {
			w := do(h, http.MethodGet, "/healthz", "")
			So(len(w.Header().Get(api.RequestIDHeader)), ShouldEqual, 36)
		})

		Convey("When a handler panics", func() {
			deps.panicOn = "scores"
			w := do(h, http.MethodGet, "/scores", "")

			Convey("Then the panic becomes a 500", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(decode(w)["error"], ShouldEqual, "internal server error")
			})
		})

		Convey("When the path is unknown", func() {
			So(do(h, http.MethodGet, "/unknown", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}
