package memory

import (
	"context"
	"sync"

	"trivia-quiz-service/internal/domain"
)

// ResponseArchive stores archived responses per user, most recent first.
type ResponseArchive struct {
	mu        sync.RWMutex
	responses map[string][]domain.Response
}

func NewResponseArchive() *ResponseArchive {
	return &ResponseArchive{responses: make(map[string][]domain.Response)}
}

func (a *ResponseArchive) Append(_ context.Context, userID string, responses []domain.Response) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	// Prepend so reads come back newest-first without sorting.
	a.responses[userID] = append(append([]domain.Response{}, reversed(responses)...), a.responses[userID]...)
	return nil
}

func (a *ResponseArchive) ListRecent(_ context.Context, userID string, limit int) ([]domain.Response, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	stored := a.responses[userID]
	if limit <= 0 || limit > len(stored) {
		limit = len(stored)
	}
	out := make([]domain.Response, limit)
	copy(out, stored[:limit])
	return out, nil
}

func (a *ResponseArchive) DeleteResponses(_ context.Context, userID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.responses, userID)
	return nil
}

func reversed(responses []domain.Response) []domain.Response {
	out := make([]domain.Response, len(responses))
	for i, r := range responses {
		out[len(responses)-1-i] = r
	}
	return out
}

// TopicStatsStore keeps per-topic stats documents under each user.
type TopicStatsStore struct {
	mu     sync.RWMutex
	topics map[string]map[string]domain.TopicStats
}

func NewTopicStatsStore() *TopicStatsStore {
	return &TopicStatsStore{topics: make(map[string]map[string]domain.TopicStats)}
}

func (s *TopicStatsStore) GetTopicStats(_ context.Context, userID, topic string) (domain.TopicStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats, ok := s.topics[userID][topic]
	if !ok {
		return domain.TopicStats{}, domain.ErrMissingData
	}
	return stats, nil
}

func (s *TopicStatsStore) SaveTopicStats(_ context.Context, userID string, stats domain.TopicStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.topics[userID] == nil {
		s.topics[userID] = make(map[string]domain.TopicStats)
	}
	s.topics[userID][stats.Topic] = stats
	return nil
}

func (s *TopicStatsStore) ListTopicStats(_ context.Context, userID string) ([]domain.TopicStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.topics[userID]
	out := make([]domain.TopicStats, 0, len(stored))
	for _, stats := range stored {
		out = append(out, stats)
	}
	return out, nil
}

func (s *TopicStatsStore) DeleteTopicStats(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.topics, userID)
	return nil
}
