package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"trivia-quiz-service/internal/domain"
)

// Store persists profiles, credentials, topic stats, and archived responses
// in Postgres. It satisfies the app and auth store interfaces plus the redis
// leaderboard's RowSource.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) GetProgress(ctx context.Context, userID string) (domain.UserProgress, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT user_id, username, picture_ref, level, xp, points, rank,
		       current_streak, longest_streak, daily_streak, last_answered,
		       number_of_questions, number_of_correct_answers,
		       selected_topic, selected_type, question_amount
		FROM profiles WHERE user_id = $1`, userID)

	var p domain.UserProgress
	var rank string
	var lastAnswered *time.Time
	err := row.Scan(
		&p.UserID, &p.Username, &p.PictureRef, &p.Level, &p.XP, &p.Points, &rank,
		&p.CurrentStreak, &p.LongestStreak, &p.DailyStreak, &lastAnswered,
		&p.NumberOfQuestions, &p.NumberOfCorrectAnswers,
		&p.Preferences.SelectedTopic, &p.Preferences.SelectedType, &p.Preferences.QuestionAmount,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.UserProgress{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.UserProgress{}, fmt.Errorf("load progress: %w", err)
	}
	p.Rank = domain.Rank(rank)
	if lastAnswered != nil {
		p.LastAnswered = *lastAnswered
	}
	return p, nil
}

func (s *Store) SaveProgress(ctx context.Context, p domain.UserProgress) error {
	var lastAnswered *time.Time
	if !p.LastAnswered.IsZero() {
		lastAnswered = &p.LastAnswered
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO profiles (
			user_id, username, picture_ref, level, xp, points, rank,
			current_streak, longest_streak, daily_streak, last_answered,
			number_of_questions, number_of_correct_answers,
			selected_topic, selected_type, question_amount
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		ON CONFLICT (user_id) DO UPDATE SET
			username = EXCLUDED.username,
			picture_ref = EXCLUDED.picture_ref,
			level = EXCLUDED.level,
			xp = EXCLUDED.xp,
			points = EXCLUDED.points,
			rank = EXCLUDED.rank,
			current_streak = EXCLUDED.current_streak,
			longest_streak = EXCLUDED.longest_streak,
			daily_streak = EXCLUDED.daily_streak,
			last_answered = EXCLUDED.last_answered,
			number_of_questions = EXCLUDED.number_of_questions,
			number_of_correct_answers = EXCLUDED.number_of_correct_answers,
			selected_topic = EXCLUDED.selected_topic,
			selected_type = EXCLUDED.selected_type,
			question_amount = EXCLUDED.question_amount`,
		p.UserID, p.Username, p.PictureRef, p.Level, p.XP, p.Points, string(p.Rank),
		p.CurrentStreak, p.LongestStreak, p.DailyStreak, lastAnswered,
		p.NumberOfQuestions, p.NumberOfCorrectAnswers,
		p.Preferences.SelectedTopic, p.Preferences.SelectedType, p.Preferences.QuestionAmount,
	)
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

func (s *Store) UpdatePreferences(ctx context.Context, userID string, prefs domain.Preferences) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE profiles SET selected_topic=$2, selected_type=$3, question_amount=$4
		WHERE user_id=$1`,
		userID, prefs.SelectedTopic, prefs.SelectedType, prefs.QuestionAmount)
	if err != nil {
		return fmt.Errorf("update preferences: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (s *Store) DeleteProgress(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM profiles WHERE user_id=$1`, userID)
	if err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	return nil
}

// LoadRows feeds the leaderboard cache: all profiles by points descending.
func (s *Store) LoadRows(ctx context.Context) ([]domain.LeaderboardRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT user_id, picture_ref, username, points, rank
		FROM profiles ORDER BY points DESC, username ASC`)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard rows: %w", err)
	}
	defer rows.Close()

	var out []domain.LeaderboardRow
	for rows.Next() {
		var row domain.LeaderboardRow
		var rank string
		if err := rows.Scan(&row.UserID, &row.PictureRef, &row.Username, &row.Points, &rank); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		row.Rank = domain.Rank(rank)
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *Store) GetTopicStats(ctx context.Context, userID, topic string) (domain.TopicStats, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT topic, amount_answered, correct_answers, percentage_correct
		FROM topic_stats WHERE user_id=$1 AND topic=$2`, userID, topic)

	var ts domain.TopicStats
	err := row.Scan(&ts.Topic, &ts.AmountAnswered, &ts.CorrectAnswers, &ts.PercentageCorrect)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.TopicStats{}, domain.ErrMissingData
	}
	if err != nil {
		return domain.TopicStats{}, fmt.Errorf("load topic stats: %w", err)
	}
	return ts, nil
}

func (s *Store) SaveTopicStats(ctx context.Context, userID string, ts domain.TopicStats) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO topic_stats (user_id, topic, amount_answered, correct_answers, percentage_correct)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (user_id, topic) DO UPDATE SET
			amount_answered = EXCLUDED.amount_answered,
			correct_answers = EXCLUDED.correct_answers,
			percentage_correct = EXCLUDED.percentage_correct`,
		userID, ts.Topic, ts.AmountAnswered, ts.CorrectAnswers, ts.PercentageCorrect)
	if err != nil {
		return fmt.Errorf("save topic stats: %w", err)
	}
	return nil
}

func (s *Store) ListTopicStats(ctx context.Context, userID string) ([]domain.TopicStats, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT topic, amount_answered, correct_answers, percentage_correct
		FROM topic_stats WHERE user_id=$1 ORDER BY topic`, userID)
	if err != nil {
		return nil, fmt.Errorf("list topic stats: %w", err)
	}
	defer rows.Close()

	var out []domain.TopicStats
	for rows.Next() {
		var ts domain.TopicStats
		if err := rows.Scan(&ts.Topic, &ts.AmountAnswered, &ts.CorrectAnswers, &ts.PercentageCorrect); err != nil {
			return nil, fmt.Errorf("scan topic stats: %w", err)
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}

func (s *Store) DeleteTopicStats(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM topic_stats WHERE user_id=$1`, userID)
	if err != nil {
		return fmt.Errorf("delete topic stats: %w", err)
	}
	return nil
}

// Append archives one record per answered question in a single batch. The
// answered_at timestamp is assigned server-side by the database.
func (s *Store) Append(ctx context.Context, userID string, responses []domain.Response) error {
	if len(responses) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, r := range responses {
		choices, err := json.Marshal(r.Choices)
		if err != nil {
			return fmt.Errorf("marshal choices: %w", err)
		}
		batch.Queue(`
			INSERT INTO responses (id, user_id, question, choices, selected_answer, correct_answer)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			uuid.NewString(), userID, r.Question, choices, r.SelectedAnswer, r.CorrectAnswer)
	}
	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range responses {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("archive response: %w", err)
		}
	}
	return nil
}

func (s *Store) ListRecent(ctx context.Context, userID string, limit int) ([]domain.Response, error) {
	query := `
		SELECT question, choices, selected_answer, correct_answer, answered_at
		FROM responses WHERE user_id=$1 ORDER BY answered_at DESC`
	args := []interface{}{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	var out []domain.Response
	for rows.Next() {
		var r domain.Response
		var choices []byte
		if err := rows.Scan(&r.Question, &choices, &r.SelectedAnswer, &r.CorrectAnswer, &r.AnsweredAt); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		if err := json.Unmarshal(choices, &r.Choices); err != nil {
			return nil, fmt.Errorf("unmarshal choices: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeleteResponses removes the user's whole archive. Idempotent, so a retry
// after partial account deletion is safe.
func (s *Store) DeleteResponses(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM responses WHERE user_id=$1`, userID)
	if err != nil {
		return fmt.Errorf("delete responses: %w", err)
	}
	return nil
}

func (s *Store) CreateCredentials(ctx context.Context, creds domain.Credentials) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO credentials (user_id, email, password_hash, created_at)
		VALUES ($1,$2,$3,$4)`,
		creds.UserID, creds.Email, creds.PasswordHash, creds.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrUserExists
		}
		return fmt.Errorf("create credentials: %w", err)
	}
	return nil
}

func (s *Store) GetCredentialsByEmail(ctx context.Context, email string) (domain.Credentials, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT user_id, email, password_hash, created_at
		FROM credentials WHERE email=$1`, email)

	var creds domain.Credentials
	err := row.Scan(&creds.UserID, &creds.Email, &creds.PasswordHash, &creds.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Credentials{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("load credentials: %w", err)
	}
	return creds, nil
}

func (s *Store) DeleteCredentials(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM credentials WHERE user_id=$1`, userID)
	if err != nil {
		return fmt.Errorf("delete credentials: %w", err)
	}
	return nil
}
