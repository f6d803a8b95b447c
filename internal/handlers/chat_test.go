package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alaifari/nususai/internal/answer"
	"github.com/alaifari/nususai/internal/corpus"
)

// stubAnswerer returns a canned result or error and records the last request.
type stubAnswerer struct {
	result  answer.Result
	err     error
	lastReq answer.Request
	calls   int
}

func (s *stubAnswerer) Answer(_ context.Context, req answer.Request) (answer.Result, error) {
	s.calls++
	s.lastReq = req
	return s.result, s.err
}

func postChat(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestChatHandlerSuccess(t *testing.T) {
	stub := &stubAnswerer{
		result: answer.Result{
			Answer:   "خلاصة الجواب",
			Language: "ar",
			Opinions: []answer.Opinion{
				{Title: "المغني - ابن قدامة", Summary: "ملخص", CitationIDs: []string{"mughni-1-45"}},
			},
			Citations: []corpus.Passage{{ID: "mughni-1-45", BookTitle: "المغني", Author: "ابن قدامة"}},
			Notes:     []string{"Model unavailable; using extractive fallback mode."},
		},
	}
	handler := NewChatHandler(stub)

	rec := postChat(t, handler, `{"question":"ما شروط صحة البيع؟","top_k":4}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var got answer.Result
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if got.Language != "ar" || got.Answer != "خلاصة الجواب" {
		t.Errorf("result = %+v", got)
	}

	if stub.lastReq.Question != "ما شروط صحة البيع؟" {
		t.Errorf("question = %q", stub.lastReq.Question)
	}
	if stub.lastReq.TopK != 4 {
		t.Errorf("top_k = %d, want 4", stub.lastReq.TopK)
	}
	if stub.lastReq.MaxOpinions != 0 {
		t.Errorf("max_opinions = %d, want 0 (server default)", stub.lastReq.MaxOpinions)
	}
}

func TestChatHandlerValidation(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"invalid json", `{`, http.StatusBadRequest, "Invalid request body"},
		{"missing question", `{}`, http.StatusBadRequest, "Question is required"},
		{"blank question", `{"question":"   "}`, http.StatusBadRequest, "Question is required"},
		{
			"too long",
			fmt.Sprintf(`{"question":%q}`, strings.Repeat("س", answer.MaxQuestionRunes+1)),
			http.StatusBadRequest,
			"Question is too long",
		},
		{"top_k too small", `{"question":"سؤال","top_k":2}`, http.StatusBadRequest, "top_k must be between 3 and 30"},
		{"top_k too large", `{"question":"سؤال","top_k":31}`, http.StatusBadRequest, "top_k must be between 3 and 30"},
		{"max_opinions too small", `{"question":"سؤال","max_opinions":1}`, http.StatusBadRequest, "max_opinions must be between 2 and 8"},
		{"max_opinions too large", `{"question":"سؤال","max_opinions":9}`, http.StatusBadRequest, "max_opinions must be between 2 and 8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubAnswerer{}
			rec := postChat(t, NewChatHandler(stub), tt.body)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var resp ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decoding error response: %v", err)
			}
			if resp.Error != tt.wantError {
				t.Errorf("error = %q, want %q", resp.Error, tt.wantError)
			}
			if stub.calls != 0 {
				t.Error("pipeline must not run for invalid input")
			}
		})
	}
}

func TestChatHandlerMethodNotAllowed(t *testing.T) {
	handler := NewChatHandler(&stubAnswerer{})
	req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestChatHandlerErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			"invalid question",
			fmt.Errorf("%w: question is empty", answer.ErrInvalidQuestion),
			http.StatusBadRequest,
			"Question is invalid",
		},
		{
			"store unavailable",
			fmt.Errorf("retrieving passages: %w", corpus.ErrStoreUnavailable),
			http.StatusInternalServerError,
			"Corpus index is unavailable",
		},
		{
			"unexpected",
			errors.New("boom"),
			http.StatusInternalServerError,
			"Server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postChat(t, NewChatHandler(&stubAnswerer{err: tt.err}), `{"question":"سؤال"}`)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var resp ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decoding error response: %v", err)
			}
			if resp.Error != tt.wantError {
				t.Errorf("error = %q, want %q", resp.Error, tt.wantError)
			}
		})
	}
}
