package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/murat/gimly/pkg/config"
	"github.com/murat/gimly/pkg/ports"
)

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, service ports.LinkService) http.Handler {
	h := NewHTTPHandler(service)
	mw := NewMiddleware(cfg)

	mux := http.NewServeMux()

	// Public Routes
	mux.HandleFunc("GET /healthz", h.Health)
	mux.HandleFunc("GET /u/{short_id}", h.Redirect)

	// API Routes, token protected when JWT_SECRET is set
	apiMux := http.NewServeMux()
	apiMux.HandleFunc("POST /api/url", h.Create)
	apiMux.HandleFunc("GET /api/url", h.List)
	apiMux.HandleFunc("GET /api/url/{short_id}", h.Get)

	api := chi.Chain(render.SetContentType(render.ContentTypeJSON), mw.AuthMiddleware).Handler(apiMux)
	mux.Handle("/api/", api)

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return chi.Chain(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Timeout(timeout),
	).Handler(mux)
}
