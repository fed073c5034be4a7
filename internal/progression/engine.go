package progression

import (
	"time"

	"trivia-quiz-service/internal/domain"
)

// Engine applies a finished session to stored user progress. All of its
// arithmetic is deterministic; the only ambient input is the clock, which is
// injectable for tests.
type Engine struct {
	now func() time.Time
}

func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// NewEngineWithClock is test-only for deterministic daily-streak decisions.
func NewEngineWithClock(now func() time.Time) *Engine {
	return &Engine{now: now}
}

// Apply folds a session result into prior progress and returns the updated
// document. It never faults: zero-division cases degrade to neutral values.
func (e *Engine) Apply(prior domain.UserProgress, result domain.SessionResult) domain.UserProgress {
	now := e.now()
	next := prior

	next.Level, next.XP = ApplyXP(prior.Level, prior.XP, result.Score)

	if result.Mode.Ranked {
		next.Rank, next.Points = ApplyRank(prior.Rank, prior.Points, result.Score)
	}

	next.CurrentStreak = result.CurrentStreak
	next.LongestStreak = result.LongestStreak
	next.DailyStreak = AdvanceDailyStreak(prior.DailyStreak, prior.LastAnswered, now)
	next.LastAnswered = now

	next.NumberOfQuestions += result.TotalQuestions
	next.NumberOfCorrectAnswers += result.Score

	return next
}
