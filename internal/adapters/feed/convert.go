package feed

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/asad/clutchboard/internal/domain/model"
	"github.com/asad/clutchboard/internal/domain/oncourt"
)

var (
	// "S. Curry 28' 3PT (J. Poole 4 AST)" style assist credit.
	assistParenPattern = regexp.MustCompile(`\(([^()]+?)\s+\d+\s+AST\)`)
	// Running score embedded in the description, away first.
	scorePairPattern = regexp.MustCompile(`\b(\d{1,3})\s*-\s*(\d{1,3})\b`)
)

// convertEvents turns raw play-by-play actions into typed events. One action
// can yield several events: a made shot with an assist credit produces both a
// shot event and an assist event, and a turnover with a steal credit produces
// a turnover and a steal.
func convertEvents(gameID string, actions []pbpAction) []model.Event {
	events := make([]model.Event, 0, len(actions))
	for _, a := range actions {
		base := model.Event{
			GameID:       gameID,
			Team:         strings.TrimSpace(a.TeamTricode),
			Player:       a.player(),
			Period:       a.Period,
			ClockSeconds: ParseClock(a.Clock),
		}
		attachScore(&base, a)

		kind, points, ok := classify(a)
		if ok {
			ev := base
			ev.Kind = kind
			ev.Points = points
			events = append(events, ev)
		}

		switch kind {
		case model.ShotMade2, model.ShotMade3:
			if assister := assistCredit(a); assister != "" &&
				oncourt.NormalizeName(assister) != oncourt.NormalizeName(base.Player) {
				ast := base
				ast.Player = assister
				ast.Kind = model.Assist
				ast.Points = 0
				events = append(events, ast)
			}
		case model.ShotMissed2, model.ShotMissed3:
			if blocker := a.blockPlayer(); blocker != "" {
				blk := base
				blk.Player = blocker
				blk.Team = "" // blocker plays for the other side
				blk.Kind = model.Block
				blk.Points = 0
				events = append(events, blk)
			}
		case model.Turnover:
			if stealer := a.stealPlayer(); stealer != "" {
				stl := base
				stl.Player = stealer
				stl.Team = ""
				stl.Kind = model.Steal
				stl.Points = 0
				events = append(events, stl)
			}
		}
	}
	return events
}

// classify maps an action onto an event kind and its point value. The second
// return is the points scored; ok is false when the action is not one the
// aggregator tracks (timeouts, fouls, substitutions and so on).
func classify(a pbpAction) (kind model.Kind, points int, ok bool) {
	actionType := strings.ToLower(strings.TrimSpace(a.ActionType))
	desc := strings.ToLower(a.Description)

	switch {
	case actionType == "freethrow" || strings.Contains(desc, "free throw"):
		if missed(a, desc) {
			return model.FTMissed, 0, true
		}
		return model.FTMade, 1, true

	case isFieldGoal(a, actionType):
		three := isThreePointer(a, actionType, desc)
		if missed(a, desc) {
			if three {
				return model.ShotMissed3, 0, true
			}
			return model.ShotMissed2, 0, true
		}
		if three {
			return model.ShotMade3, 3, true
		}
		return model.ShotMade2, 2, true

	case strings.Contains(actionType, "turnover"):
		return model.Turnover, 0, true

	case strings.Contains(actionType, "steal"):
		return model.Steal, 0, true

	case strings.Contains(actionType, "block"):
		return model.Block, 0, true
	}
	return "", 0, false
}

func isFieldGoal(a pbpAction, actionType string) bool {
	if a.IsFieldGoal != nil {
		return *a.IsFieldGoal
	}
	return actionType == "2pt" || actionType == "3pt" || strings.TrimSpace(a.ShotResult) != ""
}

func isThreePointer(a pbpAction, actionType, desc string) bool {
	if actionType == "3pt" {
		return true
	}
	if actionType == "2pt" {
		return false
	}
	if strings.Contains(strings.ToLower(a.ShotType), "3") {
		return true
	}
	return strings.Contains(desc, "3pt") || strings.Contains(desc, "3-pt") || strings.Contains(desc, "three point")
}

func missed(a pbpAction, desc string) bool {
	switch strings.ToLower(strings.TrimSpace(a.ShotResult)) {
	case "made":
		return false
	case "missed":
		return true
	}
	return strings.Contains(desc, "miss")
}

// assistCredit prefers the structured assist fields and falls back to the
// "(name N AST)" suffix older exports carry in the description.
func assistCredit(a pbpAction) string {
	if s := a.assistPlayer(); s != "" {
		return s
	}
	if m := assistParenPattern.FindStringSubmatch(a.Description); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// attachScore fills the running score from the structured fields when both
// are present, otherwise from an "away - home" pair in the description.
func attachScore(ev *model.Event, a pbpAction) {
	if home, okH := a.ScoreHome.Int(); okH {
		if away, okA := a.ScoreAway.Int(); okA {
			ev.HomeScore, ev.AwayScore = &home, &away
			return
		}
	}
	if m := scorePairPattern.FindStringSubmatch(a.Description); m != nil {
		away, _ := strconv.Atoi(m[1])
		home, _ := strconv.Atoi(m[2])
		ev.HomeScore, ev.AwayScore = &home, &away
	}
}
