package model

import "strings"

const gameIDLength = 10

// NormalizeGameID pads a numeric game id to the canonical 10-digit CDN form
// (22501186 -> 0022501186). Non-numeric ids pass through trimmed.
func NormalizeGameID(gameID string) string {
	id := strings.TrimSpace(gameID)
	if len(id) >= gameIDLength {
		return id
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return id
		}
	}
	if id == "" {
		return id
	}
	return strings.Repeat("0", gameIDLength-len(id)) + id
}
