package main

import (
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"github.com/alaifari/nususai/internal/answer"
	"github.com/alaifari/nususai/internal/config"
	"github.com/alaifari/nususai/internal/corpus"
	"github.com/alaifari/nususai/internal/http"
	"github.com/alaifari/nususai/internal/llm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	store := corpus.NewStore(cfg.DBPath)
	defer func() {
		_ = store.Close()
	}()
	slog.Info("Corpus store configured", "path", cfg.DBPath)

	// The model is a capability, not a requirement: without a credential the
	// engine runs in extractive fallback mode.
	var model answer.ModelClient
	if cfg.ModelConfigured() {
		model = llm.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.ModelTimeout)
		slog.Info("Model client configured", "model", cfg.OpenAIModel)
	} else {
		slog.Info("No model credential configured; answers use extractive fallback mode")
	}

	engine := answer.NewEngine(store, model, answer.Options{
		DefaultTopK:        cfg.DefaultTopK,
		DefaultMaxOpinions: cfg.DefaultMaxOpinions,
		MaxCandidates:      cfg.MaxRetrievalCandidates,
	})
	slog.Info("Answer engine initialized")

	router := http.NewRouter(&http.Deps{
		Engine:          engine,
		Store:           store,
		ModelConfigured: cfg.ModelConfigured(),
	})

	addr := ":" + cfg.APIPort
	if cfg.LocalOnly {
		addr = "127.0.0.1:" + cfg.APIPort
	}
	slog.Info("Starting API server", "addr", addr, "local_only", cfg.LocalOnly)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
