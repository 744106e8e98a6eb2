// Package oncourt attributes clutch-window court time to the players on the
// floor, driven by starting lineups and substitution markers.
package oncourt

import (
	"sort"

	"github.com/asad/clutchboard/internal/domain/clutch"
)

// lineupSize is the number of players a team fields at any moment.
const lineupSize = 5

// Lineups maps a normalized team key to the set of normalized player names
// currently on court for that team.
type Lineups map[string]map[string]bool

// NewLineups builds the starting on-court sets from per-team starter names.
// Team keys and player names are normalized here so callers can pass raw
// feed values.
func NewLineups(startersByTeam map[string][]string) Lineups {
	l := make(Lineups, len(startersByTeam))
	for team, players := range startersByTeam {
		set := make(map[string]bool, len(players))
		for _, p := range players {
			if key := NormalizeName(p); key != "" {
				set[key] = true
			}
		}
		l[NormalizeTeam(team)] = set
	}
	return l
}

// valid requires exactly two teams with exactly five players each. Anything
// else means court occupancy cannot be established and time must not be
// guessed.
func (l Lineups) valid() bool {
	if len(l) != 2 {
		return false
	}
	for _, set := range l {
		if len(set) != lineupSize {
			return false
		}
	}
	return true
}

// substitute swaps out for in on the team's on-court set. Unknown teams get
// a fresh set so later markers still apply; roster drift from unparseable
// feeds is tolerated.
func (l Lineups) substitute(team, in, out string) {
	key := NormalizeTeam(team)
	if key == "" {
		return
	}
	set, ok := l[key]
	if !ok {
		set = make(map[string]bool, lineupSize)
		l[key] = set
	}
	if outKey := NormalizeName(out); outKey != "" {
		delete(set, outKey)
	}
	if inKey := NormalizeName(in); inKey != "" {
		set[inKey] = true
	}
}

// ClutchSeconds walks markers chronologically and returns cumulative
// clutch-window seconds on court per normalized player name.
//
// Markers are processed ordered by (period asc, clock desc). Between
// consecutive markers the elapsed segment is intersected with the clutch
// sub-range of the current period and, when positive, credited to every
// player on court on both teams. Period boundaries flush the remainder of
// the outgoing period down to zero before the clock resets.
//
// If lineups cannot be established for both teams the result is empty:
// court time is never guessed.
func ClutchSeconds(lineups Lineups, markers []Marker) map[string]int {
	seconds := make(map[string]int)
	if !lineups.valid() {
		return seconds
	}

	sorted := make([]Marker, len(markers))
	copy(sorted, markers)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Period != sorted[j].Period {
			return sorted[i].Period < sorted[j].Period
		}
		return sorted[i].ClockSeconds > sorted[j].ClockSeconds
	})

	period := 1
	lastClock := clutch.PeriodSeconds(period)

	for _, m := range sorted {
		if m.Period < 1 {
			continue
		}
		for period < m.Period {
			creditOverlap(seconds, lineups, period, 0, lastClock)
			period++
			lastClock = clutch.PeriodSeconds(period)
		}

		clock := m.ClockSeconds
		if clock < 0 {
			clock = 0
		}
		if clock > lastClock {
			clock = lastClock
		}
		creditOverlap(seconds, lineups, period, clock, lastClock)

		if m.IsSubstitution() {
			if in, out, ok := parseSubstitution(m.Description); ok {
				lineups.substitute(m.Team, in, out)
			}
		}

		lastClock = clock
	}

	// Remainder of the final period.
	creditOverlap(seconds, lineups, period, 0, lastClock)

	return seconds
}

// creditOverlap intersects the segment (fromClock, toClock] with the clutch
// sub-range of period and credits the overlap to every on-court player.
func creditOverlap(seconds map[string]int, lineups Lineups, period, fromClock, toClock int) {
	if period < 4 {
		return
	}
	hi := clutch.ClutchMaxClock(period)
	lo := fromClock
	if lo < 0 {
		lo = 0
	}
	if toClock < hi {
		hi = toClock
	}
	overlap := hi - lo
	if overlap <= 0 {
		return
	}
	for _, set := range lineups {
		for player := range set {
			seconds[player] += overlap
		}
	}
}
