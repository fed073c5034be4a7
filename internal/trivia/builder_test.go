package trivia

import (
	"errors"
	"math/rand"
	"testing"

	"trivia-quiz-service/internal/domain"
)

func newTestBuilder() *Builder {
	return NewBuilderWithRand(rand.New(rand.NewSource(1)))
}

func TestBuildDecodesEntities(t *testing.T) {
	raw := []domain.RawQuestion{{
		Question:         "Who wrote &quot;Hamlet&quot;?",
		CorrectAnswer:    "Shakespeare &amp; co",
		IncorrectAnswers: []string{"Marlowe", "Bacon &amp; friends"},
	}}

	questions, err := newTestBuilder().Build(raw)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	q := questions[0]
	if q.Text != `Who wrote "Hamlet"?` {
		t.Fatalf("expected decoded text, got %q", q.Text)
	}
	if q.CorrectChoice != "Shakespeare & co" {
		t.Fatalf("expected decoded correct answer, got %q", q.CorrectChoice)
	}
	for _, choice := range q.Choices {
		if choice == "Bacon &amp; friends" {
			t.Fatalf("incorrect answers must be decoded too")
		}
	}
}

func TestBuildChoicesContainCorrectExactlyOnce(t *testing.T) {
	raw := []domain.RawQuestion{{
		Question:      "Pick one",
		CorrectAnswer: "A",
		// Duplicate of the correct answer plus feed artifacts.
		IncorrectAnswers: []string{"A", "B", "", ",", "C"},
	}}

	questions, err := newTestBuilder().Build(raw)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	choices := questions[0].Choices
	if len(choices) != 3 {
		t.Fatalf("expected 3 clean choices, got %v", choices)
	}
	count := 0
	for _, choice := range choices {
		if choice == "A" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("correct answer must appear exactly once, got %d", count)
	}
}

func TestBuildRejectsMalformedQuestion(t *testing.T) {
	raw := []domain.RawQuestion{
		{Question: "fine", CorrectAnswer: "yes", IncorrectAnswers: []string{"no"}},
		{Question: "", CorrectAnswer: "yes"},
	}
	if _, err := newTestBuilder().Build(raw); !errors.Is(err, domain.ErrMalformedQuestion) {
		t.Fatalf("expected ErrMalformedQuestion, got %v", err)
	}

	raw = []domain.RawQuestion{{Question: "no answer", CorrectAnswer: ""}}
	if _, err := newTestBuilder().Build(raw); !errors.Is(err, domain.ErrMalformedQuestion) {
		t.Fatalf("expected ErrMalformedQuestion, got %v", err)
	}
}

func TestBuildEmptyInput(t *testing.T) {
	questions, err := newTestBuilder().Build(nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(questions) != 0 {
		t.Fatalf("expected empty output, got %d", len(questions))
	}
}
