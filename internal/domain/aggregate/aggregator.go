// Package aggregate turns an ordered play-by-play stream into game-level
// clutch metrics and per-player clutch stat lines.
package aggregate

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/asad/clutchboard/internal/domain/clutch"
	"github.com/asad/clutchboard/internal/domain/model"
	"github.com/asad/clutchboard/internal/domain/oncourt"
)

// Scoring weights for the game clutchiness score.
const (
	leadChangeWeight   = 10.0
	tieWeight          = 6.0
	clutchPointsWeight = 0.5
)

// Input is one game's worth of events plus its index identity.
type Input struct {
	GameID string
	Date   string
	Away   string
	Home   string
	Events []model.Event
}

// sortedEvents returns a copy of the events in canonical order:
// period ascending, clock descending.
func sortedEvents(events []model.Event) []model.Event {
	out := make([]model.Event, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Period != out[j].Period {
			return out[i].Period < out[j].Period
		}
		return out[i].ClockSeconds > out[j].ClockSeconds
	})
	return out
}

// Game computes lead-change/tie/score metrics for one game.
//
// The running score is rebuilt from scoring events matched to the home/away
// tricodes (case-insensitive). Only clutch-window events count toward the
// metrics. A lead change that passes through a tie is still counted against
// the last known non-zero leader.
func Game(in Input) model.GameRow {
	row := model.GameRow{
		GameID:    in.GameID,
		Date:      in.Date,
		Away:      in.Away,
		Home:      in.Home,
		MinMargin: math.MaxInt,
	}
	if len(in.Events) == 0 {
		row.Exclusion = model.ExcludeNoData
		return row
	}

	var homeScore, awayScore int
	var lastLeader, lastNonZeroLeader int
	seenClutch := false
	seenNonZero := false

	for _, e := range sortedEvents(in.Events) {
		if e.Points > 0 {
			switch {
			case strings.EqualFold(in.Home, e.Team):
				homeScore += e.Points
			case strings.EqualFold(in.Away, e.Team):
				awayScore += e.Points
			}
		}

		if !clutch.IsClutch(e.Period, e.ClockSeconds) {
			continue
		}

		margin := homeScore - awayScore
		if abs(margin) < row.MinMargin {
			row.MinMargin = abs(margin)
		}
		row.ClutchPoints += e.Points

		leader := sign(margin)

		if !seenClutch {
			seenClutch = true
			lastLeader = leader
			if leader != 0 {
				seenNonZero = true
				lastNonZeroLeader = leader
			}
			continue
		}

		if leader == 0 && lastLeader != 0 {
			row.Ties++
		}
		if leader != 0 && lastLeader != 0 && leader != lastLeader {
			row.LeadChanges++
		}
		if leader != 0 && lastLeader == 0 && seenNonZero && leader != lastNonZeroLeader {
			row.LeadChanges++
		}

		lastLeader = leader
		if leader != 0 {
			seenNonZero = true
			lastNonZeroLeader = leader
		}
	}

	row.ClutchinessScore = leadChangeWeight*float64(row.LeadChanges) +
		tieWeight*float64(row.Ties) +
		clutchPointsWeight*float64(row.ClutchPoints)
	row.FinalScore = finalScore(in.Away, awayScore, in.Home, homeScore, false)

	if !row.Qualifies(clutch.DefaultCloseThreshold) {
		row.Exclusion = model.ExcludeNotClose
	}
	return row
}

// PlayerBatch is the per-game result of the player-level walk.
type PlayerBatch struct {
	GameID string
	Rows   []model.PlayerRow

	// MinMargin mirrors GameRow.MinMargin and gates the whole batch.
	MinMargin int

	// NoData marks a feed that published no recognizable plays, the
	// player-level counterpart of a game's "no data" exclusion.
	NoData bool
}

// Qualifies reports whether the batch clears the closeness gate for the
// given threshold. A negative threshold means "no filter".
func (b PlayerBatch) Qualifies(threshold int) bool {
	if threshold < 0 {
		return b.MinMargin != math.MaxInt
	}
	return b.MinMargin <= threshold
}

// statLine accumulates one player's counting stats.
type statLine struct {
	team      string
	points    int
	assists   int
	steals    int
	blocks    int
	turnovers int
	missedFG  int
	missedFT  int
}

func (s *statLine) active() bool {
	return s.points+s.assists+s.steals+s.blocks+s.turnovers+s.missedFG+s.missedFT > 0
}

// Players computes per-player clutch stat lines for one game. clutchSeconds
// is the on-court tracker output keyed by normalized name; when empty, rows
// carry no court time.
func Players(in Input, clutchSeconds map[string]int) PlayerBatch {
	batch := PlayerBatch{GameID: in.GameID, MinMargin: math.MaxInt}
	if len(in.Events) == 0 {
		batch.NoData = true
		return batch
	}

	var homeScore, awayScore int
	overtime := false
	byPlayer := make(map[string]*statLine)
	order := make([]string, 0, 16) // deterministic row emission

	for _, e := range sortedEvents(in.Events) {
		if e.Period > 4 {
			overtime = true
		}

		if e.Points > 0 {
			switch {
			case strings.EqualFold(in.Home, e.Team):
				homeScore += e.Points
			case strings.EqualFold(in.Away, e.Team):
				awayScore += e.Points
			}
		}

		if !clutch.IsClutch(e.Period, e.ClockSeconds) {
			continue
		}

		margin := abs(homeScore - awayScore)
		if margin < batch.MinMargin {
			batch.MinMargin = margin
		}

		player := strings.TrimSpace(e.Player)
		if player == "" {
			continue
		}

		s, ok := byPlayer[player]
		if !ok {
			s = &statLine{}
			byPlayer[player] = s
			order = append(order, player)
		}
		if s.team == "" && strings.TrimSpace(e.Team) != "" {
			s.team = e.Team
		}

		switch e.Kind {
		case model.ShotMade2, model.ShotMade3, model.FTMade:
			s.points += e.Points
		case model.Assist:
			s.assists++
		case model.Steal:
			s.steals++
		case model.Block:
			s.blocks++
		case model.Turnover:
			s.turnovers++
		case model.ShotMissed2, model.ShotMissed3:
			s.missedFG++
		case model.FTMissed:
			s.missedFT++
		}
	}

	score := finalScore(in.Away, awayScore, in.Home, homeScore, overtime)

	for _, player := range order {
		s := byPlayer[player]
		if !s.active() {
			continue
		}
		row := model.PlayerRow{
			GameID:     in.GameID,
			Date:       in.Date,
			Away:       in.Away,
			Home:       in.Home,
			Player:     player,
			Team:       s.team,
			Points:     s.points,
			Assists:    s.assists,
			Steals:     s.steals,
			Blocks:     s.blocks,
			Turnovers:  s.turnovers,
			MissedFG:   s.missedFG,
			MissedFT:   s.missedFT,
			FinalScore: score,
			OT:         overtime,
		}
		if len(clutchSeconds) > 0 {
			if sec, ok := clutchSeconds[oncourt.NormalizeName(player)]; ok {
				row.ClutchSeconds = &sec
			}
		}
		batch.Rows = append(batch.Rows, row)
	}

	sort.SliceStable(batch.Rows, func(i, j int) bool {
		ri, rj := batch.Rows[i].Rating(), batch.Rows[j].Rating()
		if ri != rj {
			return ri > rj
		}
		return batch.Rows[i].Player < batch.Rows[j].Player
	})
	return batch
}

func finalScore(away string, awayScore int, home string, homeScore int, overtime bool) string {
	s := away + " " + strconv.Itoa(awayScore) + " - " + strconv.Itoa(homeScore) + " " + home
	if overtime {
		s += " (OT)"
	}
	return s
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
