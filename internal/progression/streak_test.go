package progression

import (
	"testing"
	"time"
)

var noon = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func TestAdvanceDailyStreakFirstSession(t *testing.T) {
	if got := AdvanceDailyStreak(0, time.Time{}, noon); got != 1 {
		t.Fatalf("expected 1 for first session, got %d", got)
	}
}

func TestAdvanceDailyStreakYesterdayExtends(t *testing.T) {
	yesterday := noon.AddDate(0, 0, -1)
	if got := AdvanceDailyStreak(3, yesterday, noon); got != 4 {
		t.Fatalf("expected 4, got %d", got)
	}
}

func TestAdvanceDailyStreakSameDayUnchanged(t *testing.T) {
	earlier := noon.Add(-3 * time.Hour)
	if got := AdvanceDailyStreak(3, earlier, noon); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	// A zero streak on the same day still reads as at least 1.
	if got := AdvanceDailyStreak(0, earlier, noon); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
}

func TestAdvanceDailyStreakLapseRestarts(t *testing.T) {
	threeDaysAgo := noon.AddDate(0, 0, -3)
	if got := AdvanceDailyStreak(9, threeDaysAgo, noon); got != 1 {
		t.Fatalf("expected restart at 1, got %d", got)
	}
}

func TestNormalizeDailyStreak(t *testing.T) {
	if got := NormalizeDailyStreak(5, noon.AddDate(0, 0, -1), noon); got != 5 {
		t.Fatalf("yesterday should keep the streak, got %d", got)
	}
	if got := NormalizeDailyStreak(5, noon.AddDate(0, 0, -2), noon); got != 1 {
		t.Fatalf("lapsed streak should read 1, got %d", got)
	}
	if got := NormalizeDailyStreak(5, time.Time{}, noon); got != 5 {
		t.Fatalf("zero lastAnswered should pass through, got %d", got)
	}
}
