// Package clutch defines the clutch-window policy shared by the aggregator
// and the on-court tracker.
package clutch

// Window policy constants.
const (
	// WindowSeconds is the tail of the 4th period that counts as clutch.
	WindowSeconds = 300

	// DefaultCloseThreshold is the margin a game must reach at least once
	// inside the clutch window to qualify as close.
	DefaultCloseThreshold = 7

	// MaxCloseThreshold caps caller-supplied thresholds.
	MaxCloseThreshold = 25

	// RegulationPeriodSeconds is the length of periods 1-4.
	RegulationPeriodSeconds = 720

	// OvertimePeriodSeconds is the length of any period after the 4th.
	OvertimePeriodSeconds = 300
)

// IsClutch reports whether a moment belongs to the clutch window: the last
// WindowSeconds of the 4th period, or any point of an overtime period.
// Negative clocks are treated as not-clutch.
func IsClutch(period, clockRemaining int) bool {
	if period < 4 || clockRemaining < 0 {
		return false
	}
	if period == 4 {
		return clockRemaining <= WindowSeconds
	}
	return true
}

// IsClose reports whether a known score pair is within threshold points.
// A negative threshold means "no filter" and is always close.
func IsClose(homeScore, awayScore, threshold int) bool {
	if threshold < 0 {
		return true
	}
	m := homeScore - awayScore
	if m < 0 {
		m = -m
	}
	return m <= threshold
}

// NormalizeThreshold maps a caller-supplied closeness threshold onto the
// policy range: non-positive values mean "no filter" (-1), anything above
// MaxCloseThreshold is clamped.
func NormalizeThreshold(threshold int) int {
	if threshold <= 0 {
		return -1
	}
	if threshold > MaxCloseThreshold {
		return MaxCloseThreshold
	}
	return threshold
}

// PeriodSeconds returns the full length of a period in seconds.
func PeriodSeconds(period int) int {
	if period >= 1 && period <= 4 {
		return RegulationPeriodSeconds
	}
	return OvertimePeriodSeconds
}

// ClutchMaxClock returns the highest clock value (seconds remaining) that is
// inside the clutch window for a period.
func ClutchMaxClock(period int) int {
	if period == 4 {
		return WindowSeconds
	}
	return PeriodSeconds(period)
}
