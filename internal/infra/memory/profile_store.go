package memory

import (
	"context"
	"sync"

	"trivia-quiz-service/internal/domain"
)

// ProfileStore keeps progress documents and credentials in process memory.
// It backs tests and redis/postgres-less runs.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]domain.UserProgress
	creds    map[string]domain.Credentials // keyed by email
}

func NewProfileStore() *ProfileStore {
	return &ProfileStore{
		profiles: make(map[string]domain.UserProgress),
		creds:    make(map[string]domain.Credentials),
	}
}

func (s *ProfileStore) GetProgress(_ context.Context, userID string) (domain.UserProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	progress, ok := s.profiles[userID]
	if !ok {
		return domain.UserProgress{}, domain.ErrUserNotFound
	}
	return progress, nil
}

func (s *ProfileStore) SaveProgress(_ context.Context, progress domain.UserProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[progress.UserID] = progress
	return nil
}

func (s *ProfileStore) UpdatePreferences(_ context.Context, userID string, prefs domain.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	progress, ok := s.profiles[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	progress.Preferences = prefs
	s.profiles[userID] = progress
	return nil
}

func (s *ProfileStore) DeleteProgress(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, userID)
	return nil
}

// LoadRows exposes all profiles as leaderboard rows for cache backfills.
func (s *ProfileStore) LoadRows(_ context.Context) ([]domain.LeaderboardRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := make([]domain.LeaderboardRow, 0, len(s.profiles))
	for _, p := range s.profiles {
		rows = append(rows, domain.LeaderboardRow{
			UserID:     p.UserID,
			PictureRef: p.PictureRef,
			Username:   p.Username,
			Points:     p.Points,
			Rank:       p.Rank,
		})
	}
	return rows, nil
}

func (s *ProfileStore) CreateCredentials(_ context.Context, creds domain.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.creds[creds.Email]; ok {
		return domain.ErrUserExists
	}
	s.creds[creds.Email] = creds
	return nil
}

func (s *ProfileStore) GetCredentialsByEmail(_ context.Context, email string) (domain.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	creds, ok := s.creds[email]
	if !ok {
		return domain.Credentials{}, domain.ErrUserNotFound
	}
	return creds, nil
}

func (s *ProfileStore) DeleteCredentials(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for email, creds := range s.creds {
		if creds.UserID == userID {
			delete(s.creds, email)
		}
	}
	return nil
}
