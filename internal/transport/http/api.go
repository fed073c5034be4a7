package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/auth"
	"trivia-quiz-service/internal/domain"
)

// APIHandler serves the account and profile endpoints. Quiz play itself runs
// over the websocket handler.
type APIHandler struct {
	auth *auth.Service
	quiz *app.QuizService
}

func NewAPIHandler(authService *auth.Service, quizService *app.QuizService) *APIHandler {
	return &APIHandler{auth: authService, quiz: quizService}
}

// Register wires the REST routes onto mux.
func (h *APIHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/signup", h.handleSignUp)
	mux.HandleFunc("/login", h.handleLogin)
	mux.HandleFunc("/leaderboard", RequireAuth(h.auth, h.handleLeaderboard))
	mux.HandleFunc("/stats", RequireAuth(h.auth, h.handleStats))
	mux.HandleFunc("/responses", RequireAuth(h.auth, h.handleResponses))
	mux.HandleFunc("/preferences", RequireAuth(h.auth, h.handlePreferences))
	mux.HandleFunc("/account", RequireAuth(h.auth, h.handleAccount))
}

type signUpRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *APIHandler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	progress, err := h.auth.SignUp(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, progress)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

func (h *APIHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	token, userID, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, UserID: userID})
}

func (h *APIHandler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var (
		rows []domain.LeaderboardRow
		err  error
	)
	if prefix := r.URL.Query().Get("search"); prefix != "" {
		rows, err = h.quiz.SearchLeaderboard(r.Context(), prefix)
	} else {
		rows, err = h.quiz.Leaderboard(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if rows == nil {
		rows = []domain.LeaderboardRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *APIHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	summary, err := h.quiz.Stats(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *APIHandler) handleResponses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}
	responses, err := h.quiz.PastResponses(r.Context(), UserID(r.Context()), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if responses == nil {
		responses = []domain.Response{}
	}
	writeJSON(w, http.StatusOK, responses)
}

func (h *APIHandler) handlePreferences(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		prefs, err := h.quiz.Preferences(r.Context(), UserID(r.Context()))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, prefs)
	case http.MethodPut:
		var prefs domain.Preferences
		if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if err := h.quiz.SavePreferences(r.Context(), UserID(r.Context()), prefs); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, prefs)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *APIHandler) handleAccount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID := UserID(r.Context())
	if err := h.quiz.DeleteAccount(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}
	if err := h.auth.DeleteCredentials(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, domain.ErrUserExists):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrMissingData):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrSessionActive):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
