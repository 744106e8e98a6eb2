package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/asad/clutchboard/internal/domain/model"
)

func TestParseClock(t *testing.T) {
	Convey("Given game clock strings", t, func() {
		Convey("ISO duration form parses to seconds", func() {
			So(ParseClock("PT11M22.00S"), ShouldEqual, 682)
			So(ParseClock("PT0M59.90S"), ShouldEqual, 59)
			So(ParseClock("PT12M0S"), ShouldEqual, 720)
		})

		Convey("colon form parses to seconds", func() {
			So(ParseClock("4:58"), ShouldEqual, 298)
			So(ParseClock("0:03.2"), ShouldEqual, 3)
		})

		Convey("garbage and empty clocks yield zero", func() {
			So(ParseClock(""), ShouldEqual, 0)
			So(ParseClock("end of period"), ShouldEqual, 0)
		})
	})
}

func TestConvertEvents(t *testing.T) {
	Convey("Given play-by-play actions", t, func() {
		Convey("a made three with an assist yields two events", func() {
			acts := []pbpAction{{
				Period:      4,
				Clock:       "PT4M58.00S",
				TeamTricode: "GSW",
				ActionType:  "3pt",
				ShotResult:  "Made",
				PlayerNameI: "S. Curry",
				Description: "S. Curry 28' 3PT (J. Poole 4 AST)",
			}}

			events := convertEvents("0022500001", acts)
			So(events, ShouldHaveLength, 2)
			So(events[0].Kind, ShouldEqual, model.ShotMade3)
			So(events[0].Points, ShouldEqual, 3)
			So(events[0].Player, ShouldEqual, "S. Curry")
			So(events[1].Kind, ShouldEqual, model.Assist)
			So(events[1].Player, ShouldEqual, "J. Poole")
			So(events[1].Team, ShouldEqual, "GSW")
		})

		Convey("a self-assist credit is dropped", func() {
			acts := []pbpAction{{
				Period:           4,
				Clock:            "PT1M00.00S",
				ActionType:       "2pt",
				ShotResult:       "Made",
				PlayerNameI:      "L. James",
				AssistPlayerName: "LeBron James",
			}}

			events := convertEvents("0022500001", acts)
			So(events, ShouldHaveLength, 1)
			So(events[0].Kind, ShouldEqual, model.ShotMade2)
		})

		Convey("a blocked miss credits the blocker without a team", func() {
			acts := []pbpAction{{
				Period:           4,
				Clock:            "PT2M10.00S",
				TeamTricode:      "BOS",
				ActionType:       "2pt",
				ShotResult:       "Missed",
				PlayerNameI:      "J. Tatum",
				BlockPlayerNameI: "V. Wembanyama",
			}}

			events := convertEvents("0022500001", acts)
			So(events, ShouldHaveLength, 2)
			So(events[0].Kind, ShouldEqual, model.ShotMissed2)
			So(events[1].Kind, ShouldEqual, model.Block)
			So(events[1].Player, ShouldEqual, "V. Wembanyama")
			So(events[1].Team, ShouldBeBlank)
		})

		Convey("a turnover with a steal credit yields both events", func() {
			acts := []pbpAction{{
				Period:           4,
				Clock:            "PT3M30.00S",
				TeamTricode:      "DEN",
				ActionType:       "turnover",
				PlayerNameI:      "N. Jokic",
				StealPlayerNameI: "A. Caruso",
			}}

			events := convertEvents("0022500001", acts)
			So(events, ShouldHaveLength, 2)
			So(events[0].Kind, ShouldEqual, model.Turnover)
			So(events[1].Kind, ShouldEqual, model.Steal)
			So(events[1].Player, ShouldEqual, "A. Caruso")
		})

		Convey("free throws classify by result", func() {
			acts := []pbpAction{
				{Period: 4, Clock: "PT0M30.00S", ActionType: "freethrow", ShotResult: "Made", PlayerNameI: "D. Booker"},
				{Period: 4, Clock: "PT0M30.00S", ActionType: "freethrow", Description: "Booker Free Throw 2 of 2 Missed"},
			}

			events := convertEvents("0022500001", acts)
			So(events, ShouldHaveLength, 2)
			So(events[0].Kind, ShouldEqual, model.FTMade)
			So(events[0].Points, ShouldEqual, 1)
			So(events[1].Kind, ShouldEqual, model.FTMissed)
		})

		Convey("untracked actions are skipped", func() {
			acts := []pbpAction{
				{Period: 4, ActionType: "substitution", Description: "SUB: Hield enters the game for Curry"},
				{Period: 4, ActionType: "timeout"},
			}
			So(convertEvents("0022500001", acts), ShouldBeEmpty)
		})

		Convey("running score attaches from structured fields", func() {
			three := true
			acts := []pbpAction{{
				Period:      4,
				Clock:       "PT4M00.00S",
				ActionType:  "3pt",
				ShotResult:  "Made",
				IsFieldGoal: &three,
				ScoreHome:   mustLooseNumber("101"),
				ScoreAway:   mustLooseNumber("99"),
			}}

			events := convertEvents("0022500001", acts)
			So(events, ShouldHaveLength, 1)
			So(events[0].HasScore(), ShouldBeTrue)
			So(*events[0].HomeScore, ShouldEqual, 101)
			So(*events[0].AwayScore, ShouldEqual, 99)
			So(events[0].Margin(), ShouldEqual, 2)
		})

		Convey("running score falls back to the description pair", func() {
			acts := []pbpAction{{
				Period:      4,
				Clock:       "PT4M00.00S",
				ActionType:  "2pt",
				ShotResult:  "Made",
				Description: "Murray Driving Layup 99 - 101",
			}}

			events := convertEvents("0022500001", acts)
			So(events, ShouldHaveLength, 1)
			So(*events[0].AwayScore, ShouldEqual, 99)
			So(*events[0].HomeScore, ShouldEqual, 101)
		})
	})
}

func TestClientFetch(t *testing.T) {
	Convey("Given a fake CDN", t, func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/playbyplay/playbyplay_0022500001.json", func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"game":{"gameId":"0022500001","actions":[
				{"period":4,"clock":"PT4M58.00S","teamTricode":"GSW","actionType":"3pt","shotResult":"Made","playerNameI":"S. Curry","scoreHome":"101","scoreAway":99}
			]}}`))
		})
		mux.HandleFunc("/boxscore/boxscore_0022500001.json", func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"game":{"homeTeam":{"teamTricode":"GSW","players":[
				{"starter":"1","nameI":"S. Curry"},{"starter":1,"nameI":"J. Poole"},{"starter":true,"nameI":"D. Green"},
				{"starter":"1","nameI":"A. Wiggins"},{"starter":"1","nameI":"K. Looney"},{"starter":"0","nameI":"G. Payton II"}
			]},"awayTeam":{"teamTricode":"LAL","players":[
				{"starter":"1","nameI":"L. James"},{"starter":"1","nameI":"A. Davis"},{"starter":"1","nameI":"D. Russell"},
				{"starter":"1","nameI":"A. Reaves"},{"starter":"1","nameI":"J. Vanderbilt"},{"starter":"false","nameI":"R. Hachimura"}
			]}}}`))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		client := NewClient(WithBaseURL(srv.URL))

		Convey("Events converts the short game id and its plays", func() {
			events, err := client.Events(context.Background(), "22500001")
			So(err, ShouldBeNil)
			So(events, ShouldHaveLength, 1)
			So(events[0].GameID, ShouldEqual, "0022500001")
			So(events[0].Kind, ShouldEqual, model.ShotMade3)
			So(*events[0].HomeScore, ShouldEqual, 101)
			So(*events[0].AwayScore, ShouldEqual, 99)
		})

		Convey("Lineups keeps only starters, keyed by tricode", func() {
			lineups, err := client.Lineups(context.Background(), "22500001")
			So(err, ShouldBeNil)
			So(lineups, ShouldHaveLength, 2)
			So(lineups["GSW"], ShouldHaveLength, 5)
			So(lineups["LAL"], ShouldHaveLength, 5)
			So(lineups["GSW"], ShouldContain, "S. Curry")
			So(lineups["GSW"], ShouldNotContain, "G. Payton II")
		})

		Convey("PlayByPlay carries every play as a marker with a parsed clock", func() {
			events, markers, err := client.PlayByPlay(context.Background(), "22500001")
			So(err, ShouldBeNil)
			So(events, ShouldHaveLength, 1)
			So(markers, ShouldHaveLength, 1)
			So(markers[0].ClockSeconds, ShouldEqual, 298)
		})

		Convey("a non-200 answer surfaces ErrUpstreamStatus", func() {
			_, err := client.Events(context.Background(), "404")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "unexpected upstream status")
		})
	})
}

func mustLooseNumber(raw string) looseNumber {
	var n looseNumber
	if err := n.UnmarshalJSON([]byte(raw)); err != nil {
		panic(err)
	}
	return n
}
