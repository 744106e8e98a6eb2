package feed

import (
	"bytes"
	"strconv"
	"strings"
)

// Wire shapes for the live-data CDN. Field types are deliberately loose:
// the feed has shipped scores as both strings and numbers, and starter
// flags as "1", 1, and true across revisions.

type playByPlayResponse struct {
	Game struct {
		GameID  string      `json:"gameId"`
		Actions []pbpAction `json:"actions"`
	} `json:"game"`
}

type pbpAction struct {
	Period      int    `json:"period"`
	Clock       string `json:"clock"`
	TeamTricode string `json:"teamTricode"`
	Description string `json:"description"`
	ActionType  string `json:"actionType"`

	ShotResult  string `json:"shotResult"`
	ShotType    string `json:"shotType"`
	IsFieldGoal *bool  `json:"isFieldGoal"`

	PlayerNameI string `json:"playerNameI"`
	PlayerName  string `json:"playerName"`

	AssistPlayerNameInitial string `json:"assistPlayerNameInitial"`
	AssistPlayerName        string `json:"assistPlayerName"`

	StealPlayerNameI string `json:"stealPlayerNameI"`
	StealPlayerName  string `json:"stealPlayerName"`
	BlockPlayerNameI string `json:"blockPlayerNameI"`
	BlockPlayerName  string `json:"blockPlayerName"`

	ScoreHome looseNumber `json:"scoreHome"`
	ScoreAway looseNumber `json:"scoreAway"`
}

func (a pbpAction) player() string {
	if s := strings.TrimSpace(a.PlayerNameI); s != "" {
		return s
	}
	return strings.TrimSpace(a.PlayerName)
}

func (a pbpAction) assistPlayer() string {
	if s := strings.TrimSpace(a.AssistPlayerNameInitial); s != "" {
		return s
	}
	return strings.TrimSpace(a.AssistPlayerName)
}

func (a pbpAction) stealPlayer() string {
	if s := strings.TrimSpace(a.StealPlayerNameI); s != "" {
		return s
	}
	return strings.TrimSpace(a.StealPlayerName)
}

func (a pbpAction) blockPlayer() string {
	if s := strings.TrimSpace(a.BlockPlayerNameI); s != "" {
		return s
	}
	return strings.TrimSpace(a.BlockPlayerName)
}

type boxscoreResponse struct {
	Game struct {
		HomeTeam boxscoreTeam `json:"homeTeam"`
		AwayTeam boxscoreTeam `json:"awayTeam"`
		Period   int          `json:"period"`
	} `json:"game"`
}

type boxscoreTeam struct {
	TeamTricode string           `json:"teamTricode"`
	Tri         string           `json:"tricode"`
	Players     []boxscorePlayer `json:"players"`
}

func (t boxscoreTeam) Tricode() string {
	if s := strings.TrimSpace(t.TeamTricode); s != "" {
		return s
	}
	return strings.TrimSpace(t.Tri)
}

type boxscorePlayer struct {
	Starter looseFlag `json:"starter"`
	NameI   string    `json:"nameI"`
	Name    string    `json:"name"`
}

func (p boxscorePlayer) isStarter() bool {
	return bool(p.Starter)
}

func (p boxscorePlayer) displayName() string {
	if s := strings.TrimSpace(p.NameI); s != "" {
		return s
	}
	return strings.TrimSpace(p.Name)
}

// looseNumber accepts an integer encoded as a JSON number or string.
type looseNumber struct {
	val int
	set bool
}

func (n *looseNumber) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		// Tolerate junk values; the play simply carries no score.
		return nil
	}
	n.val, n.set = v, true
	return nil
}

// Int returns the value and whether it was present on the wire.
func (n looseNumber) Int() (int, bool) { return n.val, n.set }

// looseFlag accepts true, 1, "1", and "true" as set.
type looseFlag bool

func (f *looseFlag) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	switch strings.ToLower(s) {
	case "1", "true":
		*f = true
	default:
		*f = false
	}
	return nil
}
