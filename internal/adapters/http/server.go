// Package http exposes the conversation engine over a chat webhook. The
// transport is deliberately thin: decode the inbound message, run one
// turn, and relay the reply (or nothing, for probe turns with no output).
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/calobot/internal/logging"
	"github.com/aretw0/calobot/internal/runtime"
	"github.com/aretw0/calobot/pkg/domain"
)

// Engine defines the turn-processing core the transport relays to.
type Engine interface {
	Process(ctx context.Context, turn runtime.Turn) (string, error)
}

// MessageRequest is one inbound chat message. Probe requests carry no text
// and only trigger the onboarding check (the /start case).
type MessageRequest struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Text        string `json:"text"`
	Probe       bool   `json:"probe"`
}

// MessageResponse is the outbound reply.
type MessageResponse struct {
	Reply string `json:"reply"`
}

// Server handles the webhook routes.
type Server struct {
	engine  Engine
	logger  *slog.Logger
	metrics http.Handler
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger for the server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsHandler mounts a metrics endpoint at /metrics, typically
// promhttp.HandlerFor a registry.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{
		engine:  engine,
		logger:  logging.NewNop(),
		metrics: promhttp.Handler(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.health)
	r.Handle("/metrics", s.metrics)
	r.Post("/v1/messages", s.message)
	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) message(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}
	if req.Text == "" && !req.Probe {
		http.Error(w, "text is required for non-probe messages", http.StatusBadRequest)
		return
	}

	reply, err := s.engine.Process(r.Context(), runtime.Turn{
		UserID:      req.UserID,
		DisplayName: req.DisplayName,
		Text:        req.Text,
		Probe:       req.Probe,
	})
	if err != nil {
		s.logger.Error("turn failed", "user_id", req.UserID, "err", err)
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrUnavailable) || errors.Is(err, domain.ErrConflict) {
			status = http.StatusServiceUnavailable
		}
		http.Error(w, "failed to process message", status)
		return
	}

	if reply == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(MessageResponse{Reply: reply}); err != nil {
		s.logger.Error("failed to encode reply", "err", err)
	}
}
