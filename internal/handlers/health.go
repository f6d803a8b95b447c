package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/alaifari/nususai/internal/contextutil"
	"github.com/alaifari/nususai/internal/corpus"
)

// HealthHandler reports service and corpus index status.
type HealthHandler struct {
	store           *corpus.Store
	modelConfigured bool
	checkTimeout    time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(store *corpus.Store, modelConfigured bool) *HealthHandler {
	return &HealthHandler{
		store:           store,
		modelConfigured: modelConfigured,
		checkTimeout:    5 * time.Second,
	}
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status          string `json:"status"`
	Timestamp       string `json:"timestamp"`
	DBPath          string `json:"db_path"`
	PassageCount    int    `json:"passage_count"`
	ModelConfigured bool   `json:"model_configured"`
}

// ServeHTTP handles GET /api/health. Returns 200 when the corpus index is
// readable, 503 otherwise.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, h.checkTimeout)
	defer cancel()

	status := "ok"
	httpStatus := http.StatusOK
	count, err := h.store.Count(checkCtx)
	if err != nil {
		logger.Warn("corpus health check failed", "error", err)
		status = "unavailable"
		httpStatus = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:          status,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		DBPath:          h.store.Path(),
		PassageCount:    count,
		ModelConfigured: h.modelConfigured,
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(httpStatus)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error("failed to encode health response", "error", err)
	}
}
