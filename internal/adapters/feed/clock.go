package feed

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	isoClockPattern   = regexp.MustCompile(`^PT(\d+)M(\d+(?:\.\d+)?)S$`)
	colonClockPattern = regexp.MustCompile(`^(\d+):(\d{1,2})(?:\.\d+)?$`)
)

// ParseClock converts a game clock string to whole seconds remaining in the
// period. The feed uses the ISO-duration form "PT11M22.00S"; older exports
// use "11:22". Unparseable clocks yield 0.
func ParseClock(clock string) int {
	s := strings.TrimSpace(clock)
	if s == "" {
		return 0
	}
	if m := isoClockPattern.FindStringSubmatch(s); m != nil {
		minutes, _ := strconv.Atoi(m[1])
		seconds, _ := strconv.ParseFloat(m[2], 64)
		return minutes*60 + int(seconds)
	}
	if m := colonClockPattern.FindStringSubmatch(s); m != nil {
		minutes, _ := strconv.Atoi(m[1])
		seconds, _ := strconv.Atoi(m[2])
		return minutes*60 + seconds
	}
	return 0
}
