package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/trivia"
)

// CredentialStore persists login credentials separately from progress data.
type CredentialStore interface {
	CreateCredentials(ctx context.Context, creds domain.Credentials) error
	GetCredentialsByEmail(ctx context.Context, email string) (domain.Credentials, error)
	DeleteCredentials(ctx context.Context, userID string) error
}

// ProfileSeeder creates the progress and topic documents a fresh account needs.
type ProfileSeeder interface {
	SaveProgress(ctx context.Context, progress domain.UserProgress) error
	SaveTopicStats(ctx context.Context, userID string, stats domain.TopicStats) error
}

// Service handles signup, login, and token verification.
type Service struct {
	creds    CredentialStore
	profiles ProfileSeeder
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewService(creds CredentialStore, profiles ProfileSeeder, secret []byte, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Service{
		creds:    creds,
		profiles: profiles,
		secret:   secret,
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

// SignUp registers a new account and seeds its progress document with the
// defaults (level 1, no xp, Bronze, no points) plus a zeroed stats document
// for every topic.
func (s *Service) SignUp(ctx context.Context, email, username, password string) (domain.UserProgress, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	username = strings.TrimSpace(username)
	if email == "" || username == "" || password == "" {
		return domain.UserProgress{}, fmt.Errorf("%w: email, username, and password are required", domain.ErrInvalidCredentials)
	}
	if len(password) < 8 {
		return domain.UserProgress{}, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrInvalidCredentials)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.UserProgress{}, fmt.Errorf("hash password: %w", err)
	}

	userID := uuid.NewString()
	err = s.creds.CreateCredentials(ctx, domain.Credentials{
		UserID:       userID,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	})
	if err != nil {
		return domain.UserProgress{}, err
	}

	progress := domain.NewUserProgress(userID, username)
	if err := s.profiles.SaveProgress(ctx, progress); err != nil {
		return domain.UserProgress{}, fmt.Errorf("seed progress: %w", err)
	}
	for _, topic := range trivia.Topics {
		stats := domain.TopicStats{Topic: topic}
		if err := s.profiles.SaveTopicStats(ctx, userID, stats); err != nil {
			return domain.UserProgress{}, fmt.Errorf("seed topic stats: %w", err)
		}
	}
	return progress, nil
}

// Login verifies credentials and mints a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (string, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	creds, err := s.creds.GetCredentialsByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", "", domain.ErrInvalidCredentials
		}
		return "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(password)); err != nil {
		return "", "", domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(creds.UserID)
	if err != nil {
		return "", "", fmt.Errorf("generate token: %w", err)
	}
	return token, creds.UserID, nil
}

// DeleteCredentials removes the stored login record for an account.
func (s *Service) DeleteCredentials(ctx context.Context, userID string) error {
	return s.creds.DeleteCredentials(ctx, userID)
}

// VerifyToken parses a bearer token and returns the user id it carries.
func (s *Service) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", domain.ErrInvalidCredentials
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.ErrInvalidCredentials
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", domain.ErrInvalidCredentials
	}
	return sub, nil
}

func (s *Service) generateToken(userID string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
	})
	return token.SignedString(s.secret)
}
