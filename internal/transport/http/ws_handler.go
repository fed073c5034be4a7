package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/trivia"
)

// WSHandler runs quiz sessions over a websocket: one connection per user,
// one active session per connection.
type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	Topic        string `json:"topic"`
	QuestionType string `json:"questionType"`
	Amount       int    `json:"amount"`
	Mode         string `json:"mode"`
}

type answerPayload struct {
	Choice string `json:"choice"`
}

type answerResult struct {
	Correct bool `json:"correct"`
}

type timeRemaining struct {
	Seconds int `json:"seconds"`
}

type outboundMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and drives the quiz session protocol until the
// client disconnects. A dropped connection quits any session still running.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage, 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	timeoutDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	// Timed sessions finalize on their own when the countdown fires. The
	// push goes through a producer goroutine that is joined before send is
	// closed, so a countdown expiring while the client disconnects can
	// never write into a closed channel. timeouts itself is never closed;
	// a push arriving after teardown parks in the buffer and is dropped.
	timeouts := make(chan outboundMessage, 1)
	go func() {
		defer close(timeoutDone)
		for {
			select {
			case msg := <-timeouts:
				select {
				case send <- msg:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	onTimeout := func(summary app.FinishSummary, err error) {
		msg := outboundMessage{Type: "timeout", Payload: summary}
		if err != nil {
			msg = errorMessage("finishing timed session: " + err.Error())
		}
		select {
		case timeouts <- msg:
		case <-closeSignals:
		}
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		h.dispatch(r.Context(), userID, inbound, send, onTimeout)
	}

	close(closeSignals)
	<-timeoutDone
	close(send)
	<-writerDone

	// Quit is a no-op when the session already finished or timed out.
	h.service.Quit(context.Background(), userID)
}

func (h *WSHandler) dispatch(ctx context.Context, userID string, inbound inboundMessage, send chan<- outboundMessage, onTimeout func(app.FinishSummary, error)) {
	switch inbound.Type {
	case "start":
		var payload startPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			send <- errorMessage("invalid start payload")
			return
		}
		params, err := startParams(payload)
		if err != nil {
			send <- errorMessage(err.Error())
			return
		}
		view, err := h.service.StartQuiz(ctx, userID, params, onTimeout)
		if err != nil {
			send <- errorMessage(err.Error())
			return
		}
		send <- outboundMessage{Type: "question", Payload: view}
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			send <- errorMessage("invalid answer payload")
			return
		}
		correct, err := h.service.SelectAnswer(ctx, userID, payload.Choice)
		if err != nil {
			send <- errorMessage(err.Error())
			return
		}
		send <- outboundMessage{Type: "answerResult", Payload: answerResult{Correct: correct}}
	case "next":
		view, err := h.service.Advance(ctx, userID)
		if err != nil {
			send <- errorMessage(err.Error())
			return
		}
		send <- outboundMessage{Type: "question", Payload: view}
	case "finish":
		summary, err := h.service.Finish(ctx, userID)
		if err != nil {
			send <- errorMessage(err.Error())
			return
		}
		send <- outboundMessage{Type: "finished", Payload: summary}
	case "time":
		remaining, err := h.service.TimeRemaining(ctx, userID)
		if err != nil {
			send <- errorMessage(err.Error())
			return
		}
		send <- outboundMessage{Type: "time", Payload: timeRemaining{Seconds: int(remaining.Seconds())}}
	case "quit":
		h.service.Quit(ctx, userID)
		send <- outboundMessage{Type: "quit", Payload: struct{}{}}
	default:
		send <- errorMessage("unsupported message type")
	}
}

func startParams(payload startPayload) (app.StartParams, error) {
	params := app.StartParams{
		Topic:  payload.Topic,
		Amount: payload.Amount,
	}
	switch payload.QuestionType {
	case "", "any":
		params.QuestionType = trivia.TypeAny
	case "multiple":
		params.QuestionType = trivia.TypeMultiple
	case "boolean":
		params.QuestionType = trivia.TypeBoolean
	default:
		return app.StartParams{}, fmt.Errorf("unknown question type %q", payload.QuestionType)
	}
	switch payload.Mode {
	case "", "casual":
	case "ranked":
		params.Mode.Ranked = true
	case "timed":
		params.Mode.Timed = true
	case "daily":
		params.Mode.Daily = true
	default:
		return app.StartParams{}, fmt.Errorf("unknown quiz mode %q", payload.Mode)
	}
	return params, nil
}

func errorMessage(message string) outboundMessage {
	return outboundMessage{Type: "error", Payload: errorPayload{Message: message}}
}
