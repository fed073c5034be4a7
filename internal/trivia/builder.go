package trivia

import (
	"html"
	"math/rand"
	"time"

	"trivia-quiz-service/internal/domain"
)

// Builder normalizes raw provider questions into session-ready questions.
// Entity decoding happens here, once, so later equality checks between a
// selected choice and the correct answer never depend on encoding.
type Builder struct {
	rnd *rand.Rand
}

func NewBuilder() *Builder {
	return &Builder{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewBuilderWithRand is test-only for deterministic shuffles.
func NewBuilderWithRand(rnd *rand.Rand) *Builder {
	return &Builder{rnd: rnd}
}

// Build decodes, cleans, and shuffles every raw question. A question missing
// its text or correct answer aborts the whole build: a malformed set must
// never reach a live session. Zero raw questions yields an empty slice.
func (b *Builder) Build(raw []domain.RawQuestion) ([]domain.Question, error) {
	questions := make([]domain.Question, 0, len(raw))
	for _, rq := range raw {
		if rq.Question == "" || rq.CorrectAnswer == "" {
			return nil, domain.ErrMalformedQuestion
		}

		correct := html.UnescapeString(rq.CorrectAnswer)
		incorrect := make([]string, 0, len(rq.IncorrectAnswers))
		for _, ans := range rq.IncorrectAnswers {
			incorrect = append(incorrect, html.UnescapeString(ans))
		}

		choices := cleanChoices(correct, incorrect)
		// Shuffle order is drawn once per question and stable thereafter.
		b.rnd.Shuffle(len(choices), func(i, j int) {
			choices[i], choices[j] = choices[j], choices[i]
		})

		questions = append(questions, domain.Question{
			Text:             html.UnescapeString(rq.Question),
			Choices:          choices,
			CorrectChoice:    correct,
			IncorrectChoices: incorrect,
		})
	}
	return questions, nil
}

// cleanChoices assembles {correct} plus the incorrect answers, dropping empty
// strings and stray comma artifacts the feed sometimes produces, and
// de-duplicating while keeping the correct answer exactly once.
func cleanChoices(correct string, incorrect []string) []string {
	seen := make(map[string]struct{}, len(incorrect)+1)
	choices := make([]string, 0, len(incorrect)+1)
	for _, choice := range append([]string{correct}, incorrect...) {
		if choice == "" || choice == "," {
			continue
		}
		if _, dup := seen[choice]; dup {
			continue
		}
		seen[choice] = struct{}{}
		choices = append(choices, choice)
	}
	return choices
}
