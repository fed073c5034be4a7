package progression

import "time"

// daysBetween counts calendar-day boundaries between two instants in UTC.
func daysBetween(earlier, later time.Time) int {
	earlierDay := earlier.UTC().Truncate(24 * time.Hour)
	laterDay := later.UTC().Truncate(24 * time.Hour)
	return int(laterDay.Sub(earlierDay).Hours() / 24)
}

// AdvanceDailyStreak applies a finished session to the calendar-day streak:
// last answered yesterday extends it, already answered today leaves it
// unchanged, anything older restarts at 1. A zero lastAnswered (first ever
// session) also starts at 1.
func AdvanceDailyStreak(streak int, lastAnswered, now time.Time) int {
	if lastAnswered.IsZero() {
		return 1
	}
	switch daysBetween(lastAnswered, now) {
	case 0:
		if streak < 1 {
			return 1
		}
		return streak
	case 1:
		return streak + 1
	default:
		return 1
	}
}

// NormalizeDailyStreak is the read-side check: a streak whose last answer is
// older than yesterday has lapsed and reads as 1. Used when displaying
// stats so a lapsed streak never shows stale.
func NormalizeDailyStreak(streak int, lastAnswered, now time.Time) int {
	if lastAnswered.IsZero() {
		return streak
	}
	if daysBetween(lastAnswered, now) > 1 {
		return 1
	}
	return streak
}
