package quiz

import (
	"errors"
	"testing"
	"time"

	"trivia-quiz-service/internal/domain"
)

func testQuestions() []domain.Question {
	return []domain.Question{
		{
			Text:          "Which planet is closest to the sun?",
			Choices:       []string{"Venus", "Mercury", "Mars"},
			CorrectChoice: "Mercury",
		},
		{
			Text:          "The Great Wall is visible from the moon.",
			Choices:       []string{"True", "False"},
			CorrectChoice: "False",
		},
	}
}

func TestNewRejectsEmptyQuestionSet(t *testing.T) {
	_, err := New("History", nil, domain.Mode{}, 0, 0)
	if !errors.Is(err, domain.ErrEmptyQuestionSet) {
		t.Fatalf("expected ErrEmptyQuestionSet, got %v", err)
	}
}

func TestSelectReplacesPendingAnswer(t *testing.T) {
	session, err := New("History", testQuestions(), domain.Mode{}, 0, 0)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	if correct, _ := session.SelectAnswer("Venus"); correct {
		t.Fatalf("Venus should be incorrect")
	}
	if correct, _ := session.SelectAnswer("Mercury"); !correct {
		t.Fatalf("Mercury should be correct")
	}
	if err := session.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if _, err := session.SelectAnswer("False"); err != nil {
		t.Fatalf("select: %v", err)
	}

	result, err := session.Finish()
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if result.Score != 2 {
		t.Fatalf("expected score 2, got %d", result.Score)
	}
	if len(result.Responses) != 2 {
		t.Fatalf("expected exactly one response per question, got %d", len(result.Responses))
	}
	// The second selection replaced the first; only it was committed.
	if result.Responses[0].SelectedAnswer != "Mercury" {
		t.Fatalf("expected replaced answer Mercury, got %q", result.Responses[0].SelectedAnswer)
	}
}

func TestUnansweredQuestionCountsIncorrect(t *testing.T) {
	session, err := New("History", testQuestions(), domain.Mode{}, 0, 0)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := session.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	result, err := session.Finish()
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if result.Score != 0 {
		t.Fatalf("expected score 0, got %d", result.Score)
	}
	if len(result.Responses) != 0 {
		t.Fatalf("unanswered questions record no response, got %d", len(result.Responses))
	}
}

func TestLifecycleStateErrors(t *testing.T) {
	session, _ := New("History", testQuestions(), domain.Mode{}, 0, 0)

	// Finish is only valid on the last question.
	if _, err := session.Finish(); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	_ = session.Advance()
	// Advance is not valid on the last question.
	if err := session.Advance(); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if _, err := session.Finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}
	// Everything errors after completion.
	if _, err := session.SelectAnswer("x"); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState after completion, got %v", err)
	}
	if _, _, err := session.CurrentQuestion(); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState after completion, got %v", err)
	}
}

func TestRunStreaksSpanSessions(t *testing.T) {
	// Seeded from the stored profile: a running streak of 2.
	session, _ := New("History", testQuestions(), domain.Mode{}, 2, 2)

	_, _ = session.SelectAnswer("Venus") // incorrect: streak breaks
	_ = session.Advance()
	_, _ = session.SelectAnswer("False") // correct: new streak starts

	result, err := session.Finish()
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if result.CurrentStreak != 1 {
		t.Fatalf("expected current streak 1, got %d", result.CurrentStreak)
	}
	if result.LongestStreak != 2 {
		t.Fatalf("expected longest streak 2, got %d", result.LongestStreak)
	}
}

func TestTimedSessionBudgetAndRemaining(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	session, err := newWithClock("History", testQuestions(), domain.Mode{Timed: true}, 0, 0, func() time.Time { return now })
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	session.ArmTimer(nil)
	defer session.Quit()

	// 10 seconds per question.
	if got := session.TimeRemaining(); got != 20*time.Second {
		t.Fatalf("expected 20s budget, got %s", got)
	}
}

func TestTimeoutCommitsInFlightAnswer(t *testing.T) {
	session, _ := New("History", testQuestions(), domain.Mode{Timed: true}, 0, 0)

	var got domain.SessionResult
	fired := false
	session.ArmTimer(func(result domain.SessionResult) {
		fired = true
		got = result
	})

	_, _ = session.SelectAnswer("Mercury")
	session.timeout()

	if !fired {
		t.Fatalf("expected timeout callback to fire")
	}
	if !got.OutOfTime {
		t.Fatalf("expected result flagged out of time")
	}
	if got.Score != 1 || len(got.Responses) != 1 {
		t.Fatalf("expected the in-flight answer committed, got score %d responses %d", got.Score, len(got.Responses))
	}
	// The session is terminal; a late finish must fail.
	if _, err := session.Finish(); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState after timeout, got %v", err)
	}
}

func TestFinishCancelsTimer(t *testing.T) {
	session, _ := New("History", testQuestions()[:1], domain.Mode{Timed: true}, 0, 0)

	fired := false
	session.ArmTimer(func(domain.SessionResult) { fired = true })

	if _, err := session.Finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}
	// A stale timer firing after completion is a no-op.
	session.timeout()
	if fired {
		t.Fatalf("timeout must not fire into a finished session")
	}
}

func TestQuitDiscardsProgress(t *testing.T) {
	session, _ := New("History", testQuestions(), domain.Mode{}, 0, 0)
	_, _ = session.SelectAnswer("Mercury")
	session.Quit()
	if _, err := session.SelectAnswer("Mercury"); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState after quit, got %v", err)
	}
}
