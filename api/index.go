package handler

import (
	"net/http"
	"sync"

	"github.com/murat/gimly/pkg/adapters/handler"
	"github.com/murat/gimly/pkg/adapters/repository"
	"github.com/murat/gimly/pkg/config"
	"github.com/murat/gimly/pkg/core/services"
	"github.com/murat/gimly/pkg/core/shortcode"
)

var (
	once    sync.Once
	mux     http.Handler
	initErr error
)

func setup() {
	cfg := config.Load()

	// Note: On Vercel, db.sqlite is ephemeral unless using a remote SQL/Turso URL in DATABASE_URL
	repo, err := repository.Open(cfg.DatabaseURL)
	if err != nil {
		initErr = err
		return
	}

	codes, err := shortcode.New(cfg.CodeLength)
	if err != nil {
		initErr = err
		return
	}

	// Clicks still queued when the instance is frozen are lost.
	clicks := services.NewClickAccountant(repo, cfg.ClickWorkers, cfg.ClickQueueSize, services.DefaultClickTimeout)
	service := services.NewLinkService(repo, codes, clicks, cfg.MaxCodeAttempts)
	mux = handler.NewRouter(cfg, service)
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(setup)
	if initErr != nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}
	mux.ServeHTTP(w, r)
}
