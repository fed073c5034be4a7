package progression

import (
	"testing"
	"time"

	"trivia-quiz-service/internal/domain"
)

func TestEngineApplyRankedSession(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	engine := NewEngineWithClock(func() time.Time { return now })

	prior := domain.UserProgress{
		UserID:       "u1",
		Level:        1,
		Rank:         domain.RankBronze,
		DailyStreak:  3,
		LastAnswered: now.AddDate(0, 0, -1),
	}
	result := domain.SessionResult{
		Topic:          "Ranked",
		Score:          10,
		TotalQuestions: 10,
		Mode:           domain.Mode{Ranked: true},
		CurrentStreak:  10,
		LongestStreak:  10,
	}

	next := engine.Apply(prior, result)
	if next.Level != 2 || next.XP != 10 {
		t.Fatalf("expected level 2 xp 10, got level %d xp %d", next.Level, next.XP)
	}
	if next.Rank != domain.RankBronze || next.Points != 500 {
		t.Fatalf("expected Bronze/500, got %s/%d", next.Rank, next.Points)
	}
	if next.DailyStreak != 4 {
		t.Fatalf("expected daily streak 4, got %d", next.DailyStreak)
	}
	if !next.LastAnswered.Equal(now) {
		t.Fatalf("expected lastAnswered updated to now")
	}
	if next.NumberOfQuestions != 10 || next.NumberOfCorrectAnswers != 10 {
		t.Fatalf("expected lifetime totals 10/10, got %d/%d", next.NumberOfQuestions, next.NumberOfCorrectAnswers)
	}
	if next.CurrentStreak != 10 || next.LongestStreak != 10 {
		t.Fatalf("expected run streaks copied from result, got %d/%d", next.CurrentStreak, next.LongestStreak)
	}
}

func TestEngineApplyCasualSessionLeavesRankAlone(t *testing.T) {
	engine := NewEngineWithClock(func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) })

	prior := domain.UserProgress{Level: 1, Rank: domain.RankSilver, Points: 1200}
	result := domain.SessionResult{Topic: "History", Score: 4, TotalQuestions: 5}

	next := engine.Apply(prior, result)
	if next.Rank != domain.RankSilver || next.Points != 1200 {
		t.Fatalf("casual sessions must not touch rank or points, got %s/%d", next.Rank, next.Points)
	}
	if next.XP != 4 {
		t.Fatalf("expected xp 4, got %d", next.XP)
	}
}
