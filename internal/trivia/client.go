package trivia

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"trivia-quiz-service/internal/domain"
)

// QuestionType narrows the provider feed to one answer format.
type QuestionType string

const (
	// TypeAny leaves the type parameter off the request entirely.
	TypeAny      QuestionType = ""
	TypeMultiple QuestionType = "multiple"
	TypeBoolean  QuestionType = "boolean"
)

// Topics lists the quiz topics in the order the client presents them.
var Topics = []string{
	"Sports",
	"Science and Nature",
	"History",
	"Geography",
	"Politics",
	"General Knowledge",
	"Films",
}

// categoryIDs maps topic names to Open Trivia DB category ids.
var categoryIDs = map[string]int{
	"Sports":             21,
	"Science and Nature": 17,
	"History":            23,
	"Geography":          22,
	"Politics":           24,
	"General Knowledge":  9,
	"Films":              11,
}

// CategoryID resolves a topic name to its provider category id.
func CategoryID(topic string) (int, error) {
	id, ok := categoryIDs[topic]
	if !ok {
		return 0, domain.ErrUnknownTopic
	}
	return id, nil
}

// Client fetches raw questions from an Open Trivia DB compatible endpoint.
// All fetches take a context so callers can cancel on navigation-away.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type apiResponse struct {
	ResponseCode int                  `json:"response_code"`
	Results      []domain.RawQuestion `json:"results"`
}

// FetchQuestions requests amount questions for a topic. Ranked sessions pass
// an empty topic, which omits the category parameter (any category).
func (c *Client) FetchQuestions(ctx context.Context, topic string, qtype QuestionType, amount int) ([]domain.RawQuestion, error) {
	if amount <= 0 {
		amount = 1
	}

	params := url.Values{}
	params.Set("amount", strconv.Itoa(amount))
	if topic != "" {
		id, err := CategoryID(topic)
		if err != nil {
			return nil, err
		}
		params.Set("category", strconv.Itoa(id))
	}
	if qtype != TypeAny {
		params.Set("type", string(qtype))
	}

	endpoint := c.baseURL + "/api.php?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build question request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch questions: unexpected status %d", resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode question payload: %w", err)
	}
	return payload.Results, nil
}
