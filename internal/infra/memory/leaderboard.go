package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"trivia-quiz-service/internal/domain"
)

// Leaderboard is an in-memory implementation of app.Leaderboard.
type Leaderboard struct {
	mu   sync.RWMutex
	rows map[string]domain.LeaderboardRow
}

func NewLeaderboard() *Leaderboard {
	return &Leaderboard{rows: make(map[string]domain.LeaderboardRow)}
}

func (l *Leaderboard) List(_ context.Context) ([]domain.LeaderboardRow, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return sortRows(l.rows, ""), nil
}

func (l *Leaderboard) Search(_ context.Context, prefix string) ([]domain.LeaderboardRow, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return sortRows(l.rows, strings.TrimSpace(prefix)), nil
}

func (l *Leaderboard) Upsert(_ context.Context, row domain.LeaderboardRow) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rows[row.UserID] = row
	return nil
}

func (l *Leaderboard) Remove(_ context.Context, userID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.rows, userID)
	return nil
}

func sortRows(rows map[string]domain.LeaderboardRow, prefix string) []domain.LeaderboardRow {
	out := make([]domain.LeaderboardRow, 0, len(rows))
	for _, row := range rows {
		if prefix != "" && !strings.HasPrefix(row.Username, prefix) {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].Username < out[j].Username
	})
	return out
}
