// Package server is the HTTP front of the chat orchestrator.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/chatrelay-ai/chatrelay/internal/costs"
	"github.com/chatrelay-ai/chatrelay/internal/logging"
	"github.com/chatrelay-ai/chatrelay/internal/provider"
	"github.com/chatrelay-ai/chatrelay/internal/tools"
)

const shutdownTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	Listen        string
	SystemPrompt  string
	MaxIterations int
	// ProviderName labels usage records; Tracker may be nil to disable them.
	ProviderName string
	Tracker      *costs.Tracker
}

// Server handles chat requests by driving the tool-call loop.
type Server struct {
	provider provider.Provider
	rotator  *provider.Rotator
	registry *tools.Registry
	opts     Options
}

// New wires a chat server from its owned components.
func New(p provider.Provider, rotator *provider.Rotator, registry *tools.Registry, opts Options) *Server {
	return &Server{
		provider: p,
		rotator:  rotator,
		registry: registry,
		opts:     opts,
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestID)
	r.Use(logRequests)

	r.Get("/health", s.handleHealth)
	r.Post("/chat", s.handleChat)
	return r
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.opts.Listen,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logging.Logger().Info("chat server listening", "listen", s.opts.Listen, "models", s.rotator.Models())

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
