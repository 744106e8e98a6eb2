// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"math"
	"time"
)

// Kind identifies a play-by-play event kind.
type Kind string

// Event kinds recognized by the aggregator.
const (
	ShotMade2   Kind = "SHOT_MADE_2"
	ShotMade3   Kind = "SHOT_MADE_3"
	ShotMissed2 Kind = "SHOT_MISSED_2"
	ShotMissed3 Kind = "SHOT_MISSED_3"
	FTMade      Kind = "FT_MADE"
	FTMissed    Kind = "FT_MISSED"
	Assist      Kind = "ASSIST"
	Steal       Kind = "STEAL"
	Block       Kind = "BLOCK"
	Turnover    Kind = "TURNOVER"
)

// Event is a single play-by-play event. ClockSeconds is time remaining in the
// period. Team and Player may be empty when the feed does not attribute the
// play. HomeScore/AwayScore carry the running score at the time of the play
// when the feed provides one.
type Event struct {
	GameID       string
	Team         string
	Player       string
	Period       int
	ClockSeconds int
	Kind         Kind
	Points       int
	HomeScore    *int
	AwayScore    *int
}

// HasScore reports whether the event carries a full running score.
func (e Event) HasScore() bool {
	return e.HomeScore != nil && e.AwayScore != nil
}

// Margin returns the absolute score margin at this event, or math.MaxInt
// when the running score is unknown.
func (e Event) Margin() int {
	if !e.HasScore() {
		return math.MaxInt
	}
	m := *e.HomeScore - *e.AwayScore
	if m < 0 {
		return -m
	}
	return m
}

// GameRef identifies a candidate game from the season index.
type GameRef struct {
	GameID   string
	Date     string // raw date text from the index
	Away     string // away tricode
	Home     string // home tricode
	PlayedOn time.Time
}

// Exclusion explains why a computed game is not rankable.
type Exclusion string

// Exclusion reasons.
const (
	ExcludeNone     Exclusion = ""
	ExcludeNoData   Exclusion = "no data"
	ExcludeNotClose Exclusion = "not close"
)

// GameRow holds per-game clutch metrics.
type GameRow struct {
	GameID string `json:"game_id"`
	Date   string `json:"date"`
	Away   string `json:"away"`
	Home   string `json:"home"`

	LeadChanges  int `json:"lead_changes"`
	Ties         int `json:"ties"`
	ClutchPoints int `json:"clutch_points"`

	// ClutchinessScore = 10*leadChanges + 6*ties + 0.5*clutchPoints.
	ClutchinessScore float64 `json:"clutchiness_score"`

	// MinMargin is the smallest absolute margin observed during any clutch
	// event, math.MaxInt when the clutch window never produced an event.
	MinMargin int `json:"-"`

	FinalScore string    `json:"final_score,omitempty"`
	Exclusion  Exclusion `json:"exclusion,omitempty"`
}

// Qualifies reports whether the game clears the closeness gate for the given
// threshold. A negative threshold means "no filter".
func (g GameRow) Qualifies(threshold int) bool {
	if g.Exclusion == ExcludeNoData {
		return false
	}
	if threshold < 0 {
		// Still require at least one clutch event.
		return g.MinMargin != math.MaxInt
	}
	return g.MinMargin <= threshold
}

// PlayerRow holds one player's stat line for the clutch window of one game.
type PlayerRow struct {
	GameID string `json:"game_id"`
	Date   string `json:"date"`
	Away   string `json:"away"`
	Home   string `json:"home"`

	Player string `json:"player"`
	Team   string `json:"team,omitempty"`

	Points    int `json:"points"`
	Assists   int `json:"assists"`
	Steals    int `json:"steals"`
	Blocks    int `json:"blocks"`
	Turnovers int `json:"turnovers"`
	MissedFG  int `json:"missed_fg"`
	MissedFT  int `json:"missed_ft"`

	// ClutchSeconds is time on court inside the clutch window; nil when
	// lineup data was unavailable for the game.
	ClutchSeconds *int `json:"clutch_seconds,omitempty"`

	FinalScore string `json:"final_score,omitempty"`
	OT         bool   `json:"ot"`
}

// Rating is the player-game clutch rating:
// points + assists + 2*steals + 2*blocks - 2*turnovers - missedFG - missedFT.
func (p PlayerRow) Rating() int {
	return p.Points + p.Assists + 2*p.Steals + 2*p.Blocks - 2*p.Turnovers - p.MissedFG - p.MissedFT
}

// ClutchMinutes renders ClutchSeconds as "m:ss", or "" when unknown or zero.
func (p PlayerRow) ClutchMinutes() string {
	if p.ClutchSeconds == nil || *p.ClutchSeconds <= 0 {
		return ""
	}
	return fmt.Sprintf("%d:%02d", *p.ClutchSeconds/60, *p.ClutchSeconds%60)
}

// DisplayName renders "K. Durant (HOU)" for UI consumers.
func (p PlayerRow) DisplayName() string {
	if p.Team == "" {
		return p.Player
	}
	return p.Player + " (" + p.Team + ")"
}
