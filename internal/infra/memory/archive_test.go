package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"trivia-quiz-service/internal/domain"
)

func TestResponseArchiveNewestFirst(t *testing.T) {
	ctx := context.Background()
	archive := NewResponseArchive()

	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	first := []domain.Response{
		{Question: "q1", AnsweredAt: base},
		{Question: "q2", AnsweredAt: base.Add(time.Second)},
	}
	second := []domain.Response{
		{Question: "q3", AnsweredAt: base.Add(time.Minute)},
	}

	if err := archive.Append(ctx, "u1", first); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := archive.Append(ctx, "u1", second); err != nil {
		t.Fatalf("append: %v", err)
	}

	stored, err := archive.ListRecent(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stored) != 3 {
		t.Fatalf("expected 3 responses, got %d", len(stored))
	}
	if stored[0].Question != "q3" || stored[1].Question != "q2" || stored[2].Question != "q1" {
		t.Fatalf("expected newest-first order, got %+v", stored)
	}

	limited, _ := archive.ListRecent(ctx, "u1", 2)
	if len(limited) != 2 || limited[0].Question != "q3" {
		t.Fatalf("expected 2 newest responses, got %+v", limited)
	}
}

func TestResponseArchiveDelete(t *testing.T) {
	ctx := context.Background()
	archive := NewResponseArchive()
	_ = archive.Append(ctx, "u1", []domain.Response{{Question: "q1"}})

	if err := archive.DeleteResponses(ctx, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	stored, _ := archive.ListRecent(ctx, "u1", 0)
	if len(stored) != 0 {
		t.Fatalf("expected empty archive, got %d", len(stored))
	}
	// Deleting again is a no-op.
	if err := archive.DeleteResponses(ctx, "u1"); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}
}

func TestTopicStatsStoreMissingDoc(t *testing.T) {
	ctx := context.Background()
	store := NewTopicStatsStore()

	if _, err := store.GetTopicStats(ctx, "u1", "History"); !errors.Is(err, domain.ErrMissingData) {
		t.Fatalf("expected ErrMissingData, got %v", err)
	}

	if err := store.SaveTopicStats(ctx, "u1", domain.TopicStats{Topic: "History", AmountAnswered: 5}); err != nil {
		t.Fatalf("save: %v", err)
	}
	stats, err := store.GetTopicStats(ctx, "u1", "History")
	if err != nil || stats.AmountAnswered != 5 {
		t.Fatalf("expected stored stats back, got %+v (%v)", stats, err)
	}
}
