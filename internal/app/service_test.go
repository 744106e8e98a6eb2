package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/asad/clutchboard/internal/adapters/cache"
	"github.com/asad/clutchboard/internal/app"
	"github.com/asad/clutchboard/internal/domain/aggregate"
	"github.com/asad/clutchboard/internal/domain/model"
	"github.com/asad/clutchboard/internal/domain/oncourt"
	"github.com/asad/clutchboard/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	m.Run()
}

type fakeIndex struct {
	refs []model.GameRef
	days []int
}

func (f *fakeIndex) Candidates(lookbackDays int) []model.GameRef {
	f.days = append(f.days, lookbackDays)
	return f.refs
}

type fakeFeed struct {
	mu      sync.Mutex
	fetches map[string]int

	events  map[string][]model.Event
	lineups map[string]map[string][]string
	markers map[string][]oncourt.Marker
	errs    map[string]error
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{
		fetches: make(map[string]int),
		events:  make(map[string][]model.Event),
		lineups: make(map[string]map[string][]string),
		markers: make(map[string][]oncourt.Marker),
		errs:    make(map[string]error),
	}
}

func (f *fakeFeed) Events(_ context.Context, gameID string) ([]model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches[gameID]++
	if err := f.errs[gameID]; err != nil {
		return nil, err
	}
	return f.events[gameID], nil
}

func (f *fakeFeed) PlayByPlay(ctx context.Context, gameID string) ([]model.Event, []oncourt.Marker, error) {
	events, err := f.Events(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	return events, f.markers[gameID], nil
}

func (f *fakeFeed) Lineups(_ context.Context, gameID string) (map[string][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l, ok := f.lineups[gameID]; ok {
		return l, nil
	}
	return nil, errors.New("no boxscore")
}

func (f *fakeFeed) fetchCount(gameID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches[gameID]
}

// homeScoring builds n made two-point shots by the home team inside the
// clutch window, which yields a clutchiness score of 0.5*2n.
func homeScoring(gameID, home string, n int) []model.Event {
	events := make([]model.Event, 0, n)
	for i := 0; i < n; i++ {
		events = append(events, model.Event{
			GameID:       gameID,
			Team:         home,
			Period:       4,
			ClockSeconds: 280 - i*10,
			Kind:         model.ShotMade2,
			Points:       2,
		})
	}
	return events
}

func TestTopGames(t *testing.T) {
	Convey("Given a service over three candidate games", t, func() {
		refs := []model.GameRef{
			{GameID: "0022500001", Date: "2026-01-09", Away: "LAL", Home: "GSW"},
			{GameID: "0022500002", Date: "2026-01-09", Away: "BOS", Home: "NYK"},
			{GameID: "0022500003", Date: "2026-01-08", Away: "DEN", Home: "PHX"},
		}
		feed := newFakeFeed()
		feed.events["0022500001"] = homeScoring("0022500001", "GSW", 3) // score 3.0
		feed.events["0022500002"] = homeScoring("0022500002", "NYK", 5) // score 5.0
		feed.errs["0022500003"] = errors.New("feed down")

		idx := &fakeIndex{refs: refs}
		svc := app.New(feed, idx, app.WithWorkers(2))

		Convey("rows come back ranked by clutchiness", func() {
			rows, err := svc.TopGames(context.Background(), app.Query{TopN: 10})
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 2)
			So(rows[0].GameID, ShouldEqual, "0022500002")
			So(rows[0].ClutchinessScore, ShouldEqual, 5.0)
			So(rows[1].GameID, ShouldEqual, "0022500001")
			So(rows[0].FinalScore, ShouldEqual, "BOS 0 - 10 NYK")
		})

		Convey("a zero lookback scans the whole index", func() {
			_, err := svc.TopGames(context.Background(), app.Query{LookbackDays: 0, TopN: 10})
			So(err, ShouldBeNil)
			So(idx.days, ShouldResemble, []int{0})
		})

		Convey("a negative lookback clamps to the whole index", func() {
			_, err := svc.TopGames(context.Background(), app.Query{LookbackDays: -2, TopN: 10})
			So(err, ShouldBeNil)
			So(idx.days, ShouldResemble, []int{0})
		})

		Convey("an explicit lookback passes through to the index", func() {
			_, err := svc.TopGames(context.Background(), app.Query{LookbackDays: 3, TopN: 10})
			So(err, ShouldBeNil)
			So(idx.days, ShouldResemble, []int{3})
		})

		Convey("TopN bounds the result", func() {
			rows, err := svc.TopGames(context.Background(), app.Query{TopN: 1})
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 1)
			So(rows[0].GameID, ShouldEqual, "0022500002")
		})

		Convey("a second query reuses per-game results", func() {
			_, err := svc.TopGames(context.Background(), app.Query{TopN: 10})
			So(err, ShouldBeNil)
			So(feed.fetchCount("0022500001"), ShouldEqual, 1)

			// Different parameters miss the request cache but hit the
			// per-game cache, including the cached failure.
			_, err = svc.TopGames(context.Background(), app.Query{TopN: 5})
			So(err, ShouldBeNil)
			So(feed.fetchCount("0022500001"), ShouldEqual, 1)
			So(feed.fetchCount("0022500003"), ShouldEqual, 1)
		})

		Convey("identical parameters hit the request cache", func() {
			first, err := svc.TopGames(context.Background(), app.Query{TopN: 10})
			So(err, ShouldBeNil)
			second, err := svc.TopGames(context.Background(), app.Query{TopN: 10})
			So(err, ShouldBeNil)
			So(second, ShouldResemble, first)
		})

		Convey("a tight closeness gate filters out wide games", func() {
			// Game 2 runs away to a 10-point lead; its smallest clutch
			// margin is 2 after the opening basket, so a gate of 1 drops it.
			rows, err := svc.TopGames(context.Background(), app.Query{TopN: 10, ClosePoints: 1})
			So(err, ShouldBeNil)
			So(rows, ShouldBeEmpty)
		})

		Convey("a cancelled context aborts the query", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := svc.TopGames(ctx, app.Query{TopN: 10})
			So(err, ShouldWrap, context.Canceled)
		})

		Convey("expired per-game failures are recomputed", func() {
			now := time.Now()
			svc := app.New(feed, &fakeIndex{refs: refs},
				app.WithWorkers(2),
				app.WithGameCache(cache.New[model.GameRow](cache.WithClock(func() time.Time { return now }))),
			)

			_, err := svc.TopGames(context.Background(), app.Query{TopN: 10})
			So(err, ShouldBeNil)
			So(feed.fetchCount("0022500003"), ShouldEqual, 1)

			// Advance past the failure TTL; the failed game is retried while
			// the successes stay cached.
			now = now.Add(6 * time.Minute)
			_, err = svc.TopGames(context.Background(), app.Query{TopN: 5})
			So(err, ShouldBeNil)
			So(feed.fetchCount("0022500003"), ShouldEqual, 2)
			So(feed.fetchCount("0022500001"), ShouldEqual, 1)
		})
	})
}

func TestTopPlayerGames(t *testing.T) {
	Convey("Given a service with one player-heavy game", t, func() {
		refs := []model.GameRef{{GameID: "0022500001", Date: "2026-01-09", Away: "LAL", Home: "GSW"}}
		feed := newFakeFeed()
		feed.events["0022500001"] = []model.Event{
			{Team: "GSW", Player: "S. Curry", Period: 4, ClockSeconds: 100, Kind: model.ShotMade3, Points: 3},
			{Team: "LAL", Player: "L. James", Period: 4, ClockSeconds: 90, Kind: model.Turnover},
			{Team: "GSW", Player: "S. Curry", Period: 4, ClockSeconds: 80, Kind: model.ShotMade2, Points: 2},
			{Team: "LAL", Player: "A. Davis", Period: 4, ClockSeconds: 70, Kind: model.Block},
		}
		feed.lineups["0022500001"] = map[string][]string{
			"GSW": {"S. Curry", "J. Poole", "D. Green", "A. Wiggins", "K. Looney"},
			"LAL": {"L. James", "A. Davis", "D. Russell", "A. Reaves", "J. Vanderbilt"},
		}
		feed.markers["0022500001"] = []oncourt.Marker{
			{Period: 4, ClockSeconds: 0, ActionType: "period", Description: "End of 4th Period"},
		}

		svc := app.New(feed, &fakeIndex{refs: refs}, app.WithWorkers(2))

		Convey("rating mode ranks by the composite rating", func() {
			rows, err := svc.TopPlayerGames(context.Background(), app.Query{TopN: 10}, app.ModeRating)
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 3)
			So(rows[0].Player, ShouldEqual, "S. Curry")
			So(rows[0].Rating(), ShouldEqual, 5)
			So(rows[1].Player, ShouldEqual, "A. Davis") // 2 for the block
			So(rows[2].Player, ShouldEqual, "L. James") // -2 for the turnover
		})

		Convey("starters carry full-window court time", func() {
			rows, err := svc.TopPlayerGames(context.Background(), app.Query{TopN: 10}, app.ModeRating)
			So(err, ShouldBeNil)
			So(rows[0].ClutchSeconds, ShouldNotBeNil)
			So(*rows[0].ClutchSeconds, ShouldEqual, 300)
			So(rows[0].ClutchMinutes(), ShouldEqual, "5:00")
		})

		Convey("mutating a returned row cannot corrupt the cached snapshot", func() {
			rows, err := svc.TopPlayerGames(context.Background(), app.Query{TopN: 10}, app.ModeRating)
			So(err, ShouldBeNil)
			*rows[0].ClutchSeconds = 1

			again, err := svc.TopPlayerGames(context.Background(), app.Query{TopN: 10}, app.ModeRating)
			So(err, ShouldBeNil)
			So(*again[0].ClutchSeconds, ShouldEqual, 300)
		})

		Convey("points mode ranks by raw points", func() {
			rows, err := svc.TopPlayerGames(context.Background(), app.Query{TopN: 2}, app.ModePoints)
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 2)
			So(rows[0].Player, ShouldEqual, "S. Curry")
			So(rows[0].Points, ShouldEqual, 5)
		})

		Convey("an unknown mode falls back to rating", func() {
			rows, err := svc.TopPlayerGames(context.Background(), app.Query{TopN: 1}, "bogus")
			So(err, ShouldBeNil)
			So(rows[0].Player, ShouldEqual, "S. Curry")
		})

		Convey("a computed game with no clutch rows stays cached as final", func() {
			quiet := newFakeFeed()
			// One finalized game whose plays all land before the window, and
			// one whose feed has published nothing at all.
			quiet.events["0022500008"] = []model.Event{
				{Team: "GSW", Player: "S. Curry", Period: 1, ClockSeconds: 500, Kind: model.ShotMade3, Points: 3},
			}
			quiet.events["0022500009"] = nil

			now := time.Now()
			svc := app.New(quiet, &fakeIndex{refs: []model.GameRef{
				{GameID: "0022500008", Date: "2026-01-09", Away: "LAL", Home: "GSW"},
				{GameID: "0022500009", Date: "2026-01-09", Away: "BOS", Home: "NYK"},
			}},
				app.WithWorkers(2),
				app.WithPlayerCache(cache.New[aggregate.PlayerBatch](cache.WithClock(func() time.Time { return now }))),
			)

			_, err := svc.TopPlayerGames(context.Background(), app.Query{TopN: 10}, app.ModeRating)
			So(err, ShouldBeNil)
			So(quiet.fetchCount("0022500008"), ShouldEqual, 1)
			So(quiet.fetchCount("0022500009"), ShouldEqual, 1)

			// Past the failure TTL only the empty feed is retried.
			now = now.Add(6 * time.Minute)
			_, err = svc.TopPlayerGames(context.Background(), app.Query{TopN: 5}, app.ModeRating)
			So(err, ShouldBeNil)
			So(quiet.fetchCount("0022500008"), ShouldEqual, 1)
			So(quiet.fetchCount("0022500009"), ShouldEqual, 2)
		})
	})
}

func TestSearchTeam(t *testing.T) {
	Convey("Given a service without a directory", t, func() {
		svc := app.New(newFakeFeed(), &fakeIndex{})
		_, err := svc.SearchTeam(context.Background(), "Warriors")
		So(err, ShouldWrap, app.ErrNoDirectory)
	})
}
