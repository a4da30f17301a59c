package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/murat/gimly/pkg/adapters/handler"
	"github.com/murat/gimly/pkg/adapters/repository"
	"github.com/murat/gimly/pkg/config"
	"github.com/murat/gimly/pkg/core/services"
	"github.com/murat/gimly/pkg/core/shortcode"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("could not start app: %v", err)
	}
}

func run() error {
	cfg := config.Load()

	// Initialize Repository
	repo, err := repository.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer repo.Close()

	codes, err := shortcode.New(cfg.CodeLength)
	if err != nil {
		return err
	}

	// Initialize Services
	clicks := services.NewClickAccountant(repo, cfg.ClickWorkers, cfg.ClickQueueSize, services.DefaultClickTimeout)
	defer clicks.Close()
	service := services.NewLinkService(repo, codes, clicks, cfg.MaxCodeAttempts)

	// Initialize Router
	mux := handler.NewRouter(cfg, service)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	server.SetKeepAlivesEnabled(false)
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Println("stopped!")
	return nil
}
