// Package server exposes the daemon's HTTP API: the parse endpoints,
// recipe library CRUD, and the derived grocery list. Errors carry
// their HTTP status via apperr, so handlers map failures without
// inspecting message text.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"log/slog"

	"cooked/internal/apperr"
	"cooked/internal/config"
	"cooked/internal/entitlement"
	"cooked/internal/library"
	"cooked/internal/logging"
	"cooked/internal/notifications"
	"cooked/internal/pipeline"
)

// Server serves the recipe API over HTTP.
type Server struct {
	bind      string
	store     *library.Store
	pipeline  *pipeline.Pipeline
	scheduler notifications.Scheduler
	checker   entitlement.Checker
	logger    *slog.Logger

	mu        sync.Mutex
	reminders map[string]string

	mux      *http.ServeMux
	listener net.Listener
	server   *http.Server
}

// New wires the API routes. The scheduler and checker must be non-nil;
// use the noop scheduler and Unlimited checker when those features are
// not configured.
func New(cfg *config.Config, store *library.Store, pipe *pipeline.Pipeline, scheduler notifications.Scheduler, checker entitlement.Checker, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		bind:      strings.TrimSpace(cfg.Paths.APIBind),
		store:     store,
		pipeline:  pipe,
		scheduler: scheduler,
		checker:   checker,
		logger:    logger.With(slog.String(logging.FieldComponent, "api-server")),
		reminders: make(map[string]string),
		mux:       http.NewServeMux(),
	}

	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/parse-video", s.handleParseVideo)
	s.mux.HandleFunc("/api/parse", s.handleParse)
	s.mux.HandleFunc("/api/recipes", s.handleRecipes)
	s.mux.HandleFunc("/api/recipes/", s.handleRecipeItem)
	s.mux.HandleFunc("/api/grocery", s.handleGrocery)

	s.server = &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the route table, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start binds the listener and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", slog.String("error", err.Error()))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", slog.String("address", listener.Addr().String()))
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down and releases the listener.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
	s.scheduler.Close()
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// writeFailure maps an error onto its HTTP status: not-found from the
// store becomes 404, everything else uses the apperr status (500 when
// the error carries none).
func (s *Server) writeFailure(w http.ResponseWriter, err error) {
	if errors.Is(err, library.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.writeError(w, apperr.StatusOf(err), err.Error())
}

func decodeJSON(r *http.Request, target any) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return apperr.BadInput("invalid request body: %v", err)
	}
	return nil
}
