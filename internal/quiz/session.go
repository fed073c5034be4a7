package quiz

import (
	"sync"
	"time"

	"trivia-quiz-service/internal/domain"
)

// perQuestionTime is the countdown budget per question in timed mode.
const perQuestionTime = 10 * time.Second

// State tracks the session lifecycle: NotStarted -> InProgress -> Completed.
// Timed sessions can also reach Completed through the timeout path.
type State int

const (
	StateNotStarted State = iota
	StateInProgress
	StateCompleted
)

// Session is the in-memory state of one quiz attempt. It owns its question
// and response lists for the session's lifetime; ownership of the result
// passes to the progression engine on the terminal transition.
//
// One response at most is recorded per question: selecting again before
// advancing replaces the pending response, it never appends.
type Session struct {
	Topic string
	Mode  domain.Mode

	mu          sync.Mutex
	state       State
	questions   []domain.Question
	index       int
	score       int
	responses   []domain.Response
	pending     *domain.Response
	lastCorrect bool

	// Account-level run-streak counters, seeded from the stored profile.
	currentStreak int
	longestStreak int

	now       func() time.Time
	timer     *time.Timer
	deadline  time.Time
	onTimeout func(domain.SessionResult)
}

// New starts a session over a non-empty question set. The run-streak seeds
// come from the user's stored profile so streaks span sessions.
func New(topic string, questions []domain.Question, mode domain.Mode, currentStreak, longestStreak int) (*Session, error) {
	return newWithClock(topic, questions, mode, currentStreak, longestStreak, time.Now)
}

// newWithClock allows deterministic timestamps in tests.
func newWithClock(topic string, questions []domain.Question, mode domain.Mode, currentStreak, longestStreak int, now func() time.Time) (*Session, error) {
	if len(questions) == 0 {
		return nil, domain.ErrEmptyQuestionSet
	}
	return &Session{
		Topic:         topic,
		Mode:          mode,
		state:         StateInProgress,
		questions:     questions,
		responses:     make([]domain.Response, 0, len(questions)),
		currentStreak: currentStreak,
		longestStreak: longestStreak,
		now:           now,
	}, nil
}

// ArmTimer starts the countdown for a timed session: 10 seconds per question.
// When it fires the session force-completes through the timeout path and
// onTimeout receives the terminal result. The timer is cancelled
// deterministically on every other terminal transition, so a stale timeout
// can never fire into a finished session.
func (s *Session) ArmTimer(onTimeout func(domain.SessionResult)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.Mode.Timed || s.state != StateInProgress || s.timer != nil {
		return
	}
	total := perQuestionTime * time.Duration(len(s.questions))
	s.deadline = s.now().Add(total)
	s.onTimeout = onTimeout
	s.timer = time.AfterFunc(total, s.timeout)
}

// TimeRemaining reports the countdown left in a timed session.
func (s *Session) TimeRemaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.Mode.Timed || s.state != StateInProgress || s.deadline.IsZero() {
		return 0
	}
	remaining := s.deadline.Sub(s.now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CurrentQuestion returns the question awaiting an answer and its index.
func (s *Session) CurrentQuestion() (domain.Question, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInProgress {
		return domain.Question{}, 0, domain.ErrInvalidState
	}
	return s.questions[s.index], s.index, nil
}

// TotalQuestions returns the question count for the session.
func (s *Session) TotalQuestions() int {
	return len(s.questions)
}

// SelectAnswer records the user's pick for the current question. Correctness
// compares decoded text, so two-choice questions presented as True/False
// still check against the real choice string. No score mutation happens
// here; scoring commits at Advance or Finish.
func (s *Session) SelectAnswer(choice string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInProgress {
		return false, domain.ErrInvalidState
	}

	question := s.questions[s.index]
	s.lastCorrect = choice == question.CorrectChoice
	s.pending = &domain.Response{
		Question:       question.Text,
		Choices:        question.Choices,
		SelectedAnswer: choice,
		CorrectAnswer:  question.CorrectChoice,
		AnsweredAt:     s.now(),
	}
	return s.lastCorrect, nil
}

// Advance commits the pending response and moves to the next question.
// Valid only while in progress and not on the last question.
func (s *Session) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInProgress || s.index >= len(s.questions)-1 {
		return domain.ErrInvalidState
	}
	s.commitLocked()
	s.index++
	return nil
}

// Finish commits the final pending response and completes the session,
// producing its one terminal result. Valid only on the last question.
func (s *Session) Finish() (domain.SessionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInProgress || s.index != len(s.questions)-1 {
		return domain.SessionResult{}, domain.ErrInvalidState
	}
	s.commitLocked()
	return s.completeLocked(false), nil
}

// Quit tears the session down without a result. Progress is discarded, the
// countdown is cancelled, and the session becomes unusable.
func (s *Session) Quit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInProgress {
		return
	}
	s.state = StateCompleted
	s.stopTimerLocked()
}

// timeout is the countdown callback. It commits the in-flight question
// exactly as Finish does and flags the result as out of time.
func (s *Session) timeout() {
	s.mu.Lock()
	if s.state != StateInProgress {
		s.mu.Unlock()
		return
	}
	s.commitLocked()
	result := s.completeLocked(true)
	onTimeout := s.onTimeout
	s.mu.Unlock()

	if onTimeout != nil {
		onTimeout(result)
	}
}

// commitLocked commits the pending response for the current question and
// applies its score and run-streak effects. An unanswered question counts
// as incorrect and records no response.
func (s *Session) commitLocked() {
	if s.pending != nil {
		s.responses = append(s.responses, *s.pending)
		s.pending = nil
	}
	if s.lastCorrect {
		s.score++
		s.currentStreak++
	} else {
		if s.currentStreak > s.longestStreak {
			s.longestStreak = s.currentStreak
		}
		s.currentStreak = 0
	}
	s.lastCorrect = false
}

func (s *Session) completeLocked(outOfTime bool) domain.SessionResult {
	s.state = StateCompleted
	s.stopTimerLocked()
	return domain.SessionResult{
		Topic:          s.Topic,
		Score:          s.score,
		TotalQuestions: len(s.questions),
		Responses:      s.responses,
		Mode:           s.Mode,
		OutOfTime:      outOfTime,
		CurrentStreak:  s.currentStreak,
		LongestStreak:  s.longestStreak,
	}
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
