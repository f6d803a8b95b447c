package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/alaifari/nususai/internal/corpus"
	"github.com/alaifari/nususai/internal/handlers"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Engine          handlers.Answerer
	Store           *corpus.Store
	ModelConfigured bool
}

// NewRouter creates the HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	chatHandler := handlers.NewChatHandler(deps.Engine)
	healthHandler := handlers.NewHealthHandler(deps.Store, deps.ModelConfigured)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/chat", chatHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	return r
}
