package trivia

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trivia-quiz-service/internal/domain"
)

func TestFetchQuestionsBuildsRequest(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"response_code": 0,
			"results": []domain.RawQuestion{{
				Question:         "Q",
				CorrectAnswer:    "A",
				IncorrectAnswers: []string{"B"},
			}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	results, err := client.FetchQuestions(context.Background(), "Sports", TypeBoolean, 5)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(results) != 1 || results[0].CorrectAnswer != "A" {
		t.Fatalf("unexpected results: %+v", results)
	}
	if got := gotQuery["amount"]; len(got) != 1 || got[0] != "5" {
		t.Fatalf("expected amount=5, got %v", got)
	}
	if got := gotQuery["category"]; len(got) != 1 || got[0] != "21" {
		t.Fatalf("expected Sports category 21, got %v", got)
	}
	if got := gotQuery["type"]; len(got) != 1 || got[0] != "boolean" {
		t.Fatalf("expected type=boolean, got %v", got)
	}
}

func TestFetchQuestionsOmitsOptionalParams(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"response_code": 0, "results": []domain.RawQuestion{}})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	// Empty topic means any category: the parameter is left off entirely.
	if _, err := client.FetchQuestions(context.Background(), "", TypeAny, 10); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if _, ok := gotQuery["category"]; ok {
		t.Fatalf("expected no category parameter, got %v", gotQuery["category"])
	}
	if _, ok := gotQuery["type"]; ok {
		t.Fatalf("expected no type parameter, got %v", gotQuery["type"])
	}
}

func TestFetchQuestionsUnknownTopic(t *testing.T) {
	client := NewClient("http://unused", time.Second)
	_, err := client.FetchQuestions(context.Background(), "Astrology", TypeAny, 5)
	if !errors.Is(err, domain.ErrUnknownTopic) {
		t.Fatalf("expected ErrUnknownTopic, got %v", err)
	}
}

func TestCategoryIDMapping(t *testing.T) {
	cases := map[string]int{
		"Sports":             21,
		"Science and Nature": 17,
		"History":            23,
		"Geography":          22,
		"Politics":           24,
		"General Knowledge":  9,
		"Films":              11,
	}
	for topic, want := range cases {
		got, err := CategoryID(topic)
		if err != nil || got != want {
			t.Fatalf("topic %s: expected %d, got %d (%v)", topic, want, got, err)
		}
	}
}
