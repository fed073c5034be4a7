package domain

import "time"

// RawQuestion is the wire shape returned by the trivia question provider.
type RawQuestion struct {
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// Question is a session-ready question: entities decoded, choices shuffled.
type Question struct {
	Text             string   `json:"text"`
	Choices          []string `json:"choices"`
	CorrectChoice    string   `json:"correctChoice"`
	IncorrectChoices []string `json:"incorrectChoices"`
}

// Boolean reports whether the question is a two-choice (true/false) question.
// Presentation substitutes fixed True/False labels for these, but answer
// checking still compares the decoded choice text.
func (q Question) Boolean() bool {
	return len(q.Choices) == 2
}

// Response records what the user picked for one question. Immutable once the
// session advances past that question.
type Response struct {
	Question       string    `json:"question"`
	Choices        []string  `json:"choices"`
	SelectedAnswer string    `json:"selectedAnswer"`
	CorrectAnswer  string    `json:"correctAnswer"`
	AnsweredAt     time.Time `json:"answeredAt"`
}

// Mode flags how a session scores and terminates.
type Mode struct {
	Ranked bool `json:"ranked"`
	Timed  bool `json:"timed"`
	Daily  bool `json:"daily"`
}

// SessionResult is the single terminal artifact of a quiz session.
type SessionResult struct {
	Topic          string     `json:"topic"`
	Score          int        `json:"score"`
	TotalQuestions int        `json:"totalQuestions"`
	Responses      []Response `json:"responses"`
	Mode           Mode       `json:"mode"`
	OutOfTime      bool       `json:"outOfTime"`
	// Run-streak counters as they stand after the final commit. These are
	// account-level values seeded from the profile at session start.
	CurrentStreak int `json:"currentStreak"`
	LongestStreak int `json:"longestStreak"`
}

// Rank is the ranked-ladder tier, distinct from per-question correctness.
type Rank string

const (
	RankBronze   Rank = "Bronze"
	RankSilver   Rank = "Silver"
	RankGold     Rank = "Gold"
	RankPlatinum Rank = "Platinum"
	RankDiamond  Rank = "Diamond"
)

// TopicStats tracks per-topic accuracy independently of overall stats.
type TopicStats struct {
	Topic             string `json:"topic"`
	AmountAnswered    int    `json:"amountAnswered"`
	CorrectAnswers    int    `json:"correctAnswers"`
	PercentageCorrect int    `json:"percentageCorrect"`
}

// Preferences remembers the user's last quiz setup choices.
type Preferences struct {
	SelectedTopic  int `json:"selectedTopic"`
	SelectedType   int `json:"selectedQuestionType"`
	QuestionAmount int `json:"numberOfQuestionsSelected"`
}

// UserProgress is the persisted per-user progression document. It is mutated
// exclusively by the progression engine after a finished session.
type UserProgress struct {
	UserID                 string      `json:"userId"`
	Username               string      `json:"username"`
	PictureRef             string      `json:"pictureRef"`
	Level                  int         `json:"level"`
	XP                     int         `json:"xp"`
	Points                 int         `json:"points"`
	Rank                   Rank        `json:"rank"`
	CurrentStreak          int         `json:"currentStreak"`
	LongestStreak          int         `json:"longestStreak"`
	DailyStreak            int         `json:"streak"`
	LastAnswered           time.Time   `json:"lastDateAnswered"`
	NumberOfQuestions      int         `json:"numberOfQuestions"`
	NumberOfCorrectAnswers int         `json:"numberOfCorrectAnswers"`
	Preferences            Preferences `json:"preferences"`
}

// NewUserProgress returns the signup defaults.
func NewUserProgress(userID, username string) UserProgress {
	return UserProgress{
		UserID:   userID,
		Username: username,
		Level:    1,
		XP:       0,
		Points:   0,
		Rank:     RankBronze,
		Preferences: Preferences{
			QuestionAmount: 1,
		},
	}
}

// LeaderboardRow is the display shape consumed by the leaderboard screen.
type LeaderboardRow struct {
	UserID     string `json:"userId"`
	PictureRef string `json:"pictureRef"`
	Username   string `json:"username"`
	Points     int    `json:"points"`
	Rank       Rank   `json:"rank"`
}

// Credentials is the stored auth record for a user.
type Credentials struct {
	UserID       string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
