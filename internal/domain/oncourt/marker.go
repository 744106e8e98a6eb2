package oncourt

import (
	"regexp"
	"strings"
)

// Marker is a timestamped play-by-play entry. Every play acts as a clock
// marker for time attribution; plays recognized as substitutions additionally
// mutate the on-court sets.
type Marker struct {
	Period       int
	ClockSeconds int
	Team         string // tricode, may be empty
	ActionType   string
	Description  string
}

// Substitution descriptions vary by feed revision but follow the shape
// "SUB: A. Edwards enters the game for M. Conley".
var subPattern = regexp.MustCompile(`(?i)(?:SUB:\s*)?(.+?)\s+enters the game for\s+(.+)`)

// IsSubstitution reports whether the marker looks like a substitution.
func (m Marker) IsSubstitution() bool {
	if m.Description == "" {
		return false
	}
	if strings.Contains(strings.ToLower(m.ActionType), "sub") {
		return true
	}
	return strings.Contains(strings.ToLower(m.Description), "enters the game for")
}

// parseSubstitution extracts the incoming and outgoing player names from a
// substitution description. ok is false when the text does not match; callers
// treat that as a no-op rather than an error.
func parseSubstitution(description string) (in, out string, ok bool) {
	match := subPattern.FindStringSubmatch(description)
	if match == nil {
		return "", "", false
	}
	in = strings.TrimSpace(match[1])
	out = strings.TrimSpace(match[2])
	if in == "" || out == "" {
		return "", "", false
	}
	return in, out, true
}
