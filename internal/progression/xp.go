package progression

import "math"

// XPToReach returns the total xp needed to reach a level:
// floor(level * log2(level) * 2.5). Level 1 costs nothing (log2(1) = 0).
func XPToReach(level int) int {
	if level <= 1 {
		return 0
	}
	return int(float64(level) * math.Log2(float64(level)) * 2.5)
}

// ApplyXP accrues a session score as xp and levels up as many times as the
// new total allows. XP accumulates and is never reduced on level-up.
func ApplyXP(level, xp, score int) (int, int) {
	if level < 1 {
		level = 1
	}
	newXP := xp + score
	for newXP >= XPToReach(level+1) {
		level++
	}
	return level, newXP
}

// LevelProgressPercent computes the progress-bar percentage within the
// current level. Values at or above 100 wrap down by 100 repeatedly; that
// wrap-around reproduces the app's established display behavior rather
// than clamping.
func LevelProgressPercent(level, xp int) int {
	lower := XPToReach(level)
	upper := XPToReach(level + 1)
	span := upper - lower
	if span <= 0 {
		return 0
	}
	percent := int(float64(xp-lower) / float64(span) * 100)
	for percent >= 100 {
		percent -= 100
	}
	if percent < 0 {
		return 0
	}
	return percent
}
