package progression

import (
	"testing"

	"trivia-quiz-service/internal/domain"
)

func TestApplyTopicStatsFloorsPercentage(t *testing.T) {
	stats := ApplyTopicStats(domain.TopicStats{Topic: "History"}, 5, 3)
	if stats.AmountAnswered != 5 || stats.CorrectAnswers != 3 || stats.PercentageCorrect != 60 {
		t.Fatalf("expected 5/3/60, got %+v", stats)
	}

	stats = ApplyTopicStats(stats, 5, 1)
	if stats.AmountAnswered != 10 || stats.CorrectAnswers != 4 || stats.PercentageCorrect != 40 {
		t.Fatalf("expected 10/4/40, got %+v", stats)
	}

	// 2 of 3 floors to 66, never rounds up.
	stats = ApplyTopicStats(domain.TopicStats{}, 3, 2)
	if stats.PercentageCorrect != 66 {
		t.Fatalf("expected floored 66, got %d", stats.PercentageCorrect)
	}
}

func TestOverallAccuracyPercent(t *testing.T) {
	if got := OverallAccuracyPercent(0, 0); got != 0 {
		t.Fatalf("expected 0 with no questions, got %d", got)
	}
	if got := OverallAccuracyPercent(7, 10); got != 70 {
		t.Fatalf("expected 70, got %d", got)
	}
}
