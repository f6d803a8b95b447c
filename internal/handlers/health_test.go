package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/alaifari/nususai/internal/corpus"
)

func seededStore(t *testing.T) *corpus.Store {
	t.Helper()
	dir := t.TempDir()

	jsonlPath := filepath.Join(dir, "sample.jsonl")
	if err := corpus.WriteSampleJSONL(jsonlPath); err != nil {
		t.Fatalf("WriteSampleJSONL() error = %v", err)
	}
	dbPath := filepath.Join(dir, "corpus.sqlite")
	if _, err := corpus.BuildIndex(context.Background(), jsonlPath, dbPath); err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	store := corpus.NewStore(dbPath)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestHealthHandlerOK(t *testing.T) {
	handler := NewHealthHandler(seededStore(t), true)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
	if resp.PassageCount != len(corpus.SampleRows) {
		t.Errorf("passage_count = %d, want %d", resp.PassageCount, len(corpus.SampleRows))
	}
	if !resp.ModelConfigured {
		t.Error("model_configured = false, want true")
	}
	if resp.DBPath == "" {
		t.Error("db_path is empty")
	}
}

func TestHealthHandlerUnavailable(t *testing.T) {
	store := corpus.NewStore(filepath.Join(t.TempDir(), "missing.sqlite"))
	handler := NewHealthHandler(store, false)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Status != "unavailable" {
		t.Errorf("status = %q, want unavailable", resp.Status)
	}
	if resp.ModelConfigured {
		t.Error("model_configured = true, want false")
	}
}

func TestHealthHandlerMethodNotAllowed(t *testing.T) {
	handler := NewHealthHandler(seededStore(t), false)

	req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
