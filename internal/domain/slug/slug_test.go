package slug_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/internal/domain/slug"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerate(t *testing.T) {
	Convey("Given matches to slug", t, func() {
		start := time.Date(2026, 2, 14, 19, 0, 0, 0, time.UTC)

		Convey("When both teams have short names", func() {
			m := model.Match{
				TeamA:     model.Team{Name: "India", ShortName: "IND"},
				TeamB:     model.Team{Name: "Australia", ShortName: "AUS"},
				StartTime: start,
			}
			So(slug.Generate(m), ShouldEqual, "ind-vs-aus-2026-02-14")
		})

		Convey("When short names are missing and names carry punctuation", func() {
			m := model.Match{
				TeamA:     model.Team{Name: "St. Kitts & Nevis Patriots"},
				TeamB:     model.Team{Name: "  Barbados Royals!"},
				StartTime: start,
			}
			So(slug.Generate(m), ShouldEqual, "st-kitts-nevis-patriots-vs-barbados-royals-2026-02-14")
		})

		Convey("When the start time carries an offset", func() {
			ist := time.FixedZone("IST", 5*3600+1800)
			m := model.Match{
				TeamA:     model.Team{ShortName: "MI"},
				TeamB:     model.Team{ShortName: "CSK"},
				StartTime: time.Date(2026, 4, 2, 0, 30, 0, 0, ist),
			}
			Convey("Then the date comes from the match's own offset", func() {
				So(slug.Generate(m), ShouldEqual, "mi-vs-csk-2026-04-02")
			})
		})

		Convey("Then generation is deterministic", func() {
			m := model.Match{TeamA: model.Team{ShortName: "ARS"}, TeamB: model.Team{ShortName: "MCI"}, StartTime: start}
			So(slug.Generate(m), ShouldEqual, slug.Generate(m))
		})
	})
}

func TestRegistry(t *testing.T) {
	Convey("Given an unbounded registry", t, func() {
		r := slug.NewRegistry(slug.WithMaxSize(0))

		Convey("When registering and resolving", func() {
			r.Register("ind-vs-aus-2026-02-14", "abc123", model.Cricket)

			id, ok := r.Resolve(model.Cricket, "ind-vs-aus-2026-02-14")
			So(ok, ShouldBeTrue)
			So(id, ShouldEqual, "abc123")

			path, ok := r.ResolveReverse("abc123")
			So(ok, ShouldBeTrue)
			So(path, ShouldEqual, "cricket/ind-vs-aus-2026-02-14")

			Convey("Then the sport is part of the key", func() {
				_, ok := r.Resolve(model.Football, "ind-vs-aus-2026-02-14")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When two ids register the same slug", func() {
			r.Register("a-vs-b-2026-01-01", "first", model.Football)
			r.Register("a-vs-b-2026-01-01", "second", model.Football)

			Convey("Then the last registration wins", func() {
				id, _ := r.Resolve(model.Football, "a-vs-b-2026-01-01")
				So(id, ShouldEqual, "second")
				_, ok := r.ResolveReverse("first")
				So(ok, ShouldBeFalse)
				So(r.Size(), ShouldEqual, 1)
			})
		})

		Convey("When an id is re-registered under a new slug", func() {
			r.Register("old", "m1", model.Cricket)
			r.Register("new", "m1", model.Cricket)

			Convey("Then the old slug no longer resolves", func() {
				_, ok := r.Resolve(model.Cricket, "old")
				So(ok, ShouldBeFalse)
				id, _ := r.Resolve(model.Cricket, "new")
				So(id, ShouldEqual, "m1")
				So(r.Size(), ShouldEqual, 1)
			})
		})

		Convey("When inputs are empty", func() {
			r.Register("", "m1", model.Cricket)
			r.Register("s", "", model.Cricket)
			So(r.Size(), ShouldEqual, 0)
		})

		Convey("When registering concurrently", func() {
			var wg sync.WaitGroup
			for i := 0; i < 50; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					r.Register(fmt.Sprintf("slug-%d", i), fmt.Sprintf("id-%d", i), model.Cricket)
					_, _ = r.Resolve(model.Cricket, fmt.Sprintf("slug-%d", i))
				}(i)
			}
			wg.Wait()
			So(r.Size(), ShouldEqual, 50)
		})
	})

	Convey("Given a bounded registry", t, func() {
		r := slug.NewRegistry(slug.WithMaxSize(2))
		r.Register("s1", "id1", model.Cricket)
		r.Register("s2", "id2", model.Cricket)

		Convey("When a refreshed id is re-registered before overflow", func() {
			r.Register("s1", "id1", model.Cricket)
			r.Register("s3", "id3", model.Cricket)

			Convey("Then the least recently registered id is evicted", func() {
				_, ok := r.Resolve(model.Cricket, "s2")
				So(ok, ShouldBeFalse)
				_, ok = r.Resolve(model.Cricket, "s1")
				So(ok, ShouldBeTrue)
				So(r.Size(), ShouldEqual, 2)
			})
		})

		Convey("When a third id arrives", func() {
			r.Register("s3", "id3", model.Cricket)

			Convey("Then the oldest is evicted from both directions", func() {
				_, ok := r.Resolve(model.Cricket, "s1")
				So(ok, ShouldBeFalse)
				_, ok = r.ResolveReverse("id1")
				So(ok, ShouldBeFalse)
				So(r.Size(), ShouldEqual, 2)
			})
		})
	})
}
