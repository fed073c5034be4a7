package memory

import (
	"sync"

	"trivia-quiz-service/internal/quiz"
)

// SessionStore is an in-memory implementation of app.SessionStore holding
// the single active session per user.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*quiz.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*quiz.Session),
	}
}

// Put registers a session for the user. It refuses to replace a live one.
func (s *SessionStore) Put(userID string, session *quiz.Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[userID]; ok {
		return false
	}
	s.sessions[userID] = session
	return true
}

func (s *SessionStore) Get(userID string) (*quiz.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[userID]
	return session, ok
}

func (s *SessionStore) Delete(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}
