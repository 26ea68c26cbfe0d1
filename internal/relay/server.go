package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"formrelay/internal/history"
	"formrelay/internal/logger"
	"formrelay/internal/models"
)

const (
	maxEventBytes   = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// Server receives form events over HTTP.
type Server struct {
	handler *Handler
	history history.ResponseHistory
	logger  *logger.Logger
}

// NewServer creates a server. A nil history skips recording.
func NewServer(h *Handler, hist history.ResponseHistory, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}

	return &Server{
		handler: h,
		history: hist,
		logger:  log,
	}
}

// Routes returns the HTTP routes.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.Healthz)
	r.Post("/events", s.ReceiveEvent)

	return r
}

// Healthz answers 200 while the process is up.
func (s *Server) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReceiveEvent decodes one event, records its itemized response and runs the flow.
func (s *Server) ReceiveEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := s.logger.With("request_id", middleware.GetReqID(ctx))

	body, err := io.ReadAll(io.LimitReader(r.Body, maxEventBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read body"})
		return
	}

	var event models.Event
	if err := json.Unmarshal(body, &event); err != nil {
		log.Warn("invalid event", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("invalid event: %v", err)})

		return
	}

	if s.history != nil && event.Response != nil && len(event.Response.ItemResponses) > 0 {
		if err := s.history.Record(ctx, event.Response); err != nil {
			log.Error("failed to record response", "error", err)
		}
	}

	report := s.handler.HandleEvent(context.WithoutCancel(ctx), &event)
	log.Info("event handled", "stage", report.Stage, "strategy", report.Strategy, "delivered", report.Delivered)

	writeJSON(w, http.StatusAccepted, report)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("relay listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}

		return nil
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
