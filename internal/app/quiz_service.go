package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/progression"
	"trivia-quiz-service/internal/quiz"
	"trivia-quiz-service/internal/trivia"
)

// rankedQuestionCount is fixed for ranked sessions: any category, 10 questions.
const rankedQuestionCount = 10

// QuestionProvider fetches raw questions from the trivia feed.
type QuestionProvider interface {
	FetchQuestions(ctx context.Context, topic string, qtype trivia.QuestionType, amount int) ([]domain.RawQuestion, error)
}

// ProfileStore persists the per-user progress document.
type ProfileStore interface {
	GetProgress(ctx context.Context, userID string) (domain.UserProgress, error)
	SaveProgress(ctx context.Context, progress domain.UserProgress) error
	UpdatePreferences(ctx context.Context, userID string, prefs domain.Preferences) error
	DeleteProgress(ctx context.Context, userID string) error
}

// TopicStatsStore persists per-topic accuracy documents under a user.
type TopicStatsStore interface {
	GetTopicStats(ctx context.Context, userID, topic string) (domain.TopicStats, error)
	SaveTopicStats(ctx context.Context, userID string, stats domain.TopicStats) error
	ListTopicStats(ctx context.Context, userID string) ([]domain.TopicStats, error)
	DeleteTopicStats(ctx context.Context, userID string) error
}

// ResponseArchive stores one record per answered question, newest-first reads.
type ResponseArchive interface {
	Append(ctx context.Context, userID string, responses []domain.Response) error
	ListRecent(ctx context.Context, userID string, limit int) ([]domain.Response, error)
	DeleteResponses(ctx context.Context, userID string) error
}

// Leaderboard serves eventually-consistent ranked snapshots. A just-finished
// session's own write is not guaranteed to be visible in the next read.
type Leaderboard interface {
	List(ctx context.Context) ([]domain.LeaderboardRow, error)
	Search(ctx context.Context, prefix string) ([]domain.LeaderboardRow, error)
	Upsert(ctx context.Context, row domain.LeaderboardRow) error
	Remove(ctx context.Context, userID string) error
}

// SessionStore tracks the single active session per user.
type SessionStore interface {
	Put(userID string, session *quiz.Session) bool
	Get(userID string) (*quiz.Session, bool)
	Delete(userID string)
}

// StartParams selects what kind of quiz to start.
type StartParams struct {
	Topic        string
	QuestionType trivia.QuestionType
	Amount       int
	Mode         domain.Mode
}

// FinishSummary is handed back when a session reaches a terminal state.
type FinishSummary struct {
	Result        domain.SessionResult `json:"result"`
	Progress      domain.UserProgress  `json:"progress"`
	LevelProgress int                  `json:"levelProgress"`
	LeveledUp     bool                 `json:"leveledUp"`
	RankedUp      bool                 `json:"rankedUp"`
	NextRank      domain.Rank          `json:"nextRank,omitempty"`
}

// QuestionView is the presentation shape of the current question. Two-choice
// questions get fixed True/False labels while answer checking still runs
// against the decoded choice text.
type QuestionView struct {
	Index   int      `json:"index"`
	Total   int      `json:"total"`
	Text    string   `json:"text"`
	Choices []string `json:"choices"`
	Boolean bool     `json:"boolean"`
}

// StatsSummary aggregates the profile stats screen data.
type StatsSummary struct {
	Progress        domain.UserProgress `json:"progress"`
	AccuracyPercent int                 `json:"accuracyPercent"`
	LevelProgress   int                 `json:"levelProgress"`
	BestTopic       string              `json:"bestTopic"`
	Topics          []domain.TopicStats `json:"topics"`
}

// QuizService contains the quiz, progression, and profile use cases.
type QuizService struct {
	provider QuestionProvider
	builder  *trivia.Builder
	engine   *progression.Engine
	sessions SessionStore

	profiles    ProfileStore
	topics      TopicStatsStore
	archive     ResponseArchive
	leaderboard Leaderboard

	now func() time.Time
}

func NewQuizService(
	provider QuestionProvider,
	builder *trivia.Builder,
	engine *progression.Engine,
	sessions SessionStore,
	profiles ProfileStore,
	topics TopicStatsStore,
	archive ResponseArchive,
	leaderboard Leaderboard,
) *QuizService {
	return NewQuizServiceWithClock(provider, builder, engine, sessions, profiles, topics, archive, leaderboard, time.Now)
}

// NewQuizServiceWithClock is test-only for deterministic streak reads.
func NewQuizServiceWithClock(
	provider QuestionProvider,
	builder *trivia.Builder,
	engine *progression.Engine,
	sessions SessionStore,
	profiles ProfileStore,
	topics TopicStatsStore,
	archive ResponseArchive,
	leaderboard Leaderboard,
	now func() time.Time,
) *QuizService {
	return &QuizService{
		provider:    provider,
		builder:     builder,
		engine:      engine,
		sessions:    sessions,
		profiles:    profiles,
		topics:      topics,
		archive:     archive,
		leaderboard: leaderboard,
		now:         now,
	}
}

// StartQuiz fetches and normalizes questions, then opens the user's session.
// Timed sessions arm a countdown; when it fires, the session finalizes
// through the timeout path and onTimeout receives the summary, or the
// finalize error when a store write failed. Each user has at most one
// active session.
func (s *QuizService) StartQuiz(ctx context.Context, userID string, params StartParams, onTimeout func(FinishSummary, error)) (QuestionView, error) {
	if _, active := s.sessions.Get(userID); active {
		return QuestionView{}, domain.ErrSessionActive
	}

	progress, err := s.profiles.GetProgress(ctx, userID)
	if err != nil {
		return QuestionView{}, err
	}

	topic := params.Topic
	fetchTopic := params.Topic
	amount := params.Amount
	qtype := params.QuestionType
	if params.Mode.Ranked {
		// Ranked sessions draw from any category with a fixed amount.
		topic = "Ranked"
		fetchTopic = ""
		amount = rankedQuestionCount
		qtype = trivia.TypeAny
	}

	raw, err := s.provider.FetchQuestions(ctx, fetchTopic, qtype, amount)
	if err != nil {
		return QuestionView{}, fmt.Errorf("fetch questions: %w", err)
	}
	questions, err := s.builder.Build(raw)
	if err != nil {
		return QuestionView{}, err
	}
	if len(questions) == 0 {
		return QuestionView{}, domain.ErrEmptyQuestionSet
	}

	session, err := quiz.New(topic, questions, params.Mode, progress.CurrentStreak, progress.LongestStreak)
	if err != nil {
		return QuestionView{}, err
	}
	if !s.sessions.Put(userID, session) {
		return QuestionView{}, domain.ErrSessionActive
	}

	if params.Mode.Daily {
		// Daily quiz setup remembers the user's selections for next time.
		prefs := domain.Preferences{
			SelectedTopic:  topicIndex(params.Topic),
			SelectedType:   typeIndex(params.QuestionType),
			QuestionAmount: amount,
		}
		if err := s.profiles.UpdatePreferences(ctx, userID, prefs); err != nil {
			log.Printf("save preferences for %s: %v", userID, err)
		}
	}

	if params.Mode.Timed {
		session.ArmTimer(func(result domain.SessionResult) {
			summary, err := s.finalize(context.Background(), userID, result)
			if err != nil {
				log.Printf("finalize timed-out session for %s: %v", userID, err)
			}
			if onTimeout != nil {
				onTimeout(summary, err)
			}
		})
	}

	return s.currentView(session)
}

// CurrentQuestion returns the question the active session is waiting on.
func (s *QuizService) CurrentQuestion(_ context.Context, userID string) (QuestionView, error) {
	session, ok := s.sessions.Get(userID)
	if !ok {
		return QuestionView{}, domain.ErrSessionNotFound
	}
	return s.currentView(session)
}

// SelectAnswer records (or replaces) the pending answer for the current
// question and reports whether it is correct. Scoring commits on advance.
func (s *QuizService) SelectAnswer(_ context.Context, userID, choice string) (bool, error) {
	session, ok := s.sessions.Get(userID)
	if !ok {
		return false, domain.ErrSessionNotFound
	}
	return session.SelectAnswer(choice)
}

// Advance commits the current question and returns the next one.
func (s *QuizService) Advance(_ context.Context, userID string) (QuestionView, error) {
	session, ok := s.sessions.Get(userID)
	if !ok {
		return QuestionView{}, domain.ErrSessionNotFound
	}
	if err := session.Advance(); err != nil {
		return QuestionView{}, err
	}
	return s.currentView(session)
}

// Finish completes the session on its last question and applies progression.
func (s *QuizService) Finish(ctx context.Context, userID string) (FinishSummary, error) {
	session, ok := s.sessions.Get(userID)
	if !ok {
		return FinishSummary{}, domain.ErrSessionNotFound
	}
	result, err := session.Finish()
	if err != nil {
		return FinishSummary{}, err
	}
	return s.finalize(ctx, userID, result)
}

// Quit discards the active session. All in-session progress is lost.
func (s *QuizService) Quit(_ context.Context, userID string) {
	session, ok := s.sessions.Get(userID)
	if !ok {
		return
	}
	session.Quit()
	s.sessions.Delete(userID)
}

// TimeRemaining reports the countdown left on a timed session.
func (s *QuizService) TimeRemaining(_ context.Context, userID string) (time.Duration, error) {
	session, ok := s.sessions.Get(userID)
	if !ok {
		return 0, domain.ErrSessionNotFound
	}
	return session.TimeRemaining(), nil
}

// finalize applies progression to stored progress, archives responses, and
// refreshes topic stats and the leaderboard. It runs exactly once per
// session, on whichever terminal path the session took.
func (s *QuizService) finalize(ctx context.Context, userID string, result domain.SessionResult) (FinishSummary, error) {
	s.sessions.Delete(userID)

	prior, err := s.profiles.GetProgress(ctx, userID)
	if err != nil {
		return FinishSummary{}, err
	}

	updated := s.engine.Apply(prior, result)
	if err := s.profiles.SaveProgress(ctx, updated); err != nil {
		return FinishSummary{}, fmt.Errorf("save progress: %w", err)
	}

	if err := s.archive.Append(ctx, userID, result.Responses); err != nil {
		return FinishSummary{}, fmt.Errorf("archive responses: %w", err)
	}

	if !result.Mode.Ranked {
		if err := s.updateTopicStats(ctx, userID, result); err != nil {
			return FinishSummary{}, err
		}
	}

	if err := s.leaderboard.Upsert(ctx, leaderboardRow(updated)); err != nil {
		// Leaderboard reads are eventually consistent anyway; log and move on.
		log.Printf("leaderboard upsert for %s: %v", userID, err)
	}

	summary := FinishSummary{
		Result:        result,
		Progress:      updated,
		LevelProgress: progression.LevelProgressPercent(updated.Level, updated.XP),
		LeveledUp:     updated.Level > prior.Level,
		RankedUp:      updated.Rank != prior.Rank,
	}
	if summary.RankedUp {
		summary.NextRank = updated.Rank
	}
	return summary, nil
}

func (s *QuizService) updateTopicStats(ctx context.Context, userID string, result domain.SessionResult) error {
	stats, err := s.topics.GetTopicStats(ctx, userID, result.Topic)
	if err != nil {
		return fmt.Errorf("load topic stats: %w", err)
	}
	stats = progression.ApplyTopicStats(stats, result.TotalQuestions, result.Score)
	if err := s.topics.SaveTopicStats(ctx, userID, stats); err != nil {
		return fmt.Errorf("save topic stats: %w", err)
	}
	return nil
}

// Leaderboard returns the ranked snapshot ordered by points descending.
func (s *QuizService) Leaderboard(ctx context.Context) ([]domain.LeaderboardRow, error) {
	return s.leaderboard.List(ctx)
}

// SearchLeaderboard filters the board by username prefix.
func (s *QuizService) SearchLeaderboard(ctx context.Context, prefix string) ([]domain.LeaderboardRow, error) {
	return s.leaderboard.Search(ctx, prefix)
}

// PastResponses lists archived responses, most recent first.
func (s *QuizService) PastResponses(ctx context.Context, userID string, limit int) ([]domain.Response, error) {
	return s.archive.ListRecent(ctx, userID, limit)
}

// Stats assembles the stats screen: lifetime accuracy, best topic, streaks.
// A daily streak whose last answer is older than yesterday has lapsed; the
// read normalizes it to 1 and writes the correction back.
func (s *QuizService) Stats(ctx context.Context, userID string) (StatsSummary, error) {
	progress, err := s.profiles.GetProgress(ctx, userID)
	if err != nil {
		return StatsSummary{}, err
	}

	normalized := progression.NormalizeDailyStreak(progress.DailyStreak, progress.LastAnswered, s.now())
	if normalized != progress.DailyStreak {
		progress.DailyStreak = normalized
		if err := s.profiles.SaveProgress(ctx, progress); err != nil {
			log.Printf("normalize streak for %s: %v", userID, err)
		}
	}

	topicStats, err := s.topics.ListTopicStats(ctx, userID)
	if err != nil {
		return StatsSummary{}, err
	}

	best := "None"
	bestPercent := -1
	for _, ts := range topicStats {
		if ts.AmountAnswered > 0 && ts.PercentageCorrect > bestPercent {
			bestPercent = ts.PercentageCorrect
			best = ts.Topic
		}
	}

	return StatsSummary{
		Progress:        progress,
		AccuracyPercent: progression.OverallAccuracyPercent(progress.NumberOfCorrectAnswers, progress.NumberOfQuestions),
		LevelProgress:   progression.LevelProgressPercent(progress.Level, progress.XP),
		BestTopic:       best,
		Topics:          topicStats,
	}, nil
}

// Preferences returns the user's remembered quiz setup.
func (s *QuizService) Preferences(ctx context.Context, userID string) (domain.Preferences, error) {
	progress, err := s.profiles.GetProgress(ctx, userID)
	if err != nil {
		return domain.Preferences{}, err
	}
	return progress.Preferences, nil
}

// SavePreferences stores the user's quiz setup explicitly.
func (s *QuizService) SavePreferences(ctx context.Context, userID string, prefs domain.Preferences) error {
	return s.profiles.UpdatePreferences(ctx, userID, prefs)
}

// DeleteAccount removes the user's responses, topic stats, and profile.
// Deletions are batched per collection and are not atomic across
// collections; every step is idempotent so a partial failure is safe to
// retry.
func (s *QuizService) DeleteAccount(ctx context.Context, userID string) error {
	if session, ok := s.sessions.Get(userID); ok {
		session.Quit()
		s.sessions.Delete(userID)
	}
	if err := s.archive.DeleteResponses(ctx, userID); err != nil {
		return fmt.Errorf("delete responses: %w", err)
	}
	if err := s.topics.DeleteTopicStats(ctx, userID); err != nil {
		return fmt.Errorf("delete topic stats: %w", err)
	}
	if err := s.leaderboard.Remove(ctx, userID); err != nil {
		log.Printf("leaderboard remove for %s: %v", userID, err)
	}
	if err := s.profiles.DeleteProgress(ctx, userID); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

func (s *QuizService) currentView(session *quiz.Session) (QuestionView, error) {
	question, index, err := session.CurrentQuestion()
	if err != nil {
		return QuestionView{}, err
	}
	view := QuestionView{
		Index:   index,
		Total:   session.TotalQuestions(),
		Text:    question.Text,
		Choices: question.Choices,
		Boolean: question.Boolean(),
	}
	if view.Boolean {
		view.Choices = []string{"True", "False"}
	}
	return view, nil
}

func leaderboardRow(progress domain.UserProgress) domain.LeaderboardRow {
	return domain.LeaderboardRow{
		UserID:     progress.UserID,
		PictureRef: progress.PictureRef,
		Username:   progress.Username,
		Points:     progress.Points,
		Rank:       progress.Rank,
	}
}

func topicIndex(topic string) int {
	for i, t := range trivia.Topics {
		if t == topic {
			return i
		}
	}
	return 0
}

func typeIndex(qtype trivia.QuestionType) int {
	switch qtype {
	case trivia.TypeMultiple:
		return 1
	case trivia.TypeBoolean:
		return 2
	default:
		return 0
	}
}
