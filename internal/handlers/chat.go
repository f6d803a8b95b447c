package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/alaifari/nususai/internal/answer"
	"github.com/alaifari/nususai/internal/contextutil"
	"github.com/alaifari/nususai/internal/corpus"
)

// Answerer is the pipeline surface the chat handler consumes.
type Answerer interface {
	Answer(ctx context.Context, req answer.Request) (answer.Result, error)
}

// ChatHandler handles question answering requests.
type ChatHandler struct {
	engine Answerer
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(engine Answerer) *ChatHandler {
	return &ChatHandler{engine: engine}
}

// ChatRequest is the HTTP request payload. TopK and MaxOpinions are optional;
// omitted values take the server defaults.
type ChatRequest struct {
	Question    string `json:"question"`
	TopK        *int   `json:"top_k,omitempty"`
	MaxOpinions *int   `json:"max_opinions,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ServeHTTP handles POST /api/chat. Malformed requests get 400; a missing or
// corrupt corpus index gets a generic 500. Every other failure mode is
// absorbed by the pipeline and still yields a citation-safe answer.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		writeError(w, http.StatusBadRequest, "Question is required")
		return
	}
	if utf8.RuneCountInString(question) > answer.MaxQuestionRunes {
		writeError(w, http.StatusBadRequest, "Question is too long")
		return
	}

	var topK, maxOpinions int
	if req.TopK != nil {
		if *req.TopK < answer.MinTopK || *req.TopK > answer.MaxTopK {
			writeError(w, http.StatusBadRequest, "top_k must be between 3 and 30")
			return
		}
		topK = *req.TopK
	}
	if req.MaxOpinions != nil {
		if *req.MaxOpinions < answer.MinMaxOpinions || *req.MaxOpinions > answer.MaxMaxOpinions {
			writeError(w, http.StatusBadRequest, "max_opinions must be between 2 and 8")
			return
		}
		maxOpinions = *req.MaxOpinions
	}

	result, err := h.engine.Answer(ctx, answer.Request{
		Question:    question,
		TopK:        topK,
		MaxOpinions: maxOpinions,
	})
	if err != nil {
		switch {
		case errors.Is(err, answer.ErrInvalidQuestion):
			writeError(w, http.StatusBadRequest, "Question is invalid")
		case errors.Is(err, corpus.ErrStoreUnavailable):
			logger.Error("corpus store unavailable", "error", err)
			writeError(w, http.StatusInternalServerError, "Corpus index is unavailable")
		default:
			logger.Error("answer pipeline failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Server error")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
