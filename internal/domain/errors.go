package domain

import "errors"

var (
	// ErrInvalidState is returned when a session operation is called outside
	// its valid state (answering a finished session, finishing mid-quiz, etc).
	ErrInvalidState = errors.New("quiz session in invalid state for operation")
	// ErrSessionNotFound is returned when the user has no active session.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrSessionActive is returned when starting a quiz while one is running.
	ErrSessionActive = errors.New("quiz session already active")
	// ErrEmptyQuestionSet indicates zero questions reached session start.
	ErrEmptyQuestionSet = errors.New("question set is empty")
	// ErrMalformedQuestion indicates the provider payload is missing fields.
	ErrMalformedQuestion = errors.New("malformed question payload")
	// ErrMissingData indicates a required stored document or field is absent.
	ErrMissingData = errors.New("required data missing from store")
	// ErrUserNotFound indicates no profile exists for the user id.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists indicates a signup collision on email or username.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnknownTopic indicates a topic with no provider category mapping.
	ErrUnknownTopic = errors.New("unknown quiz topic")
)
