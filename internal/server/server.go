// Package server exposes the invocation surface: one inbound POST of a
// pipeline event is one invocation, and the HTTP status returned to the
// caller is the completion/retry signal.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"pipenotify/internal/event"
)

// EventHandler processes one decoded pipeline event to completion.
type EventHandler interface {
	Handle(ctx context.Context, ev *event.PipelineEvent) error
}

type Server struct {
	Router *chi.Mux
	Port   int

	httpServer *http.Server
	handler    EventHandler
	logger     *slog.Logger
}

// New builds the router with the middleware chain and routes.
func New(port int, requestTimeout time.Duration, handler EventHandler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(logger))
	r.Use(TimeoutMiddleware(requestTimeout))
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, "pipenotify")
	})

	s := &Server{
		Router:  r,
		Port:    port,
		handler: handler,
		logger:  logger,
	}

	r.Post("/v1/events", s.handleEvent)
	r.Get("/healthz", s.handleHealth)

	return s
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.Port),
		Handler: s.Router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", slog.Int("port", s.Port))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}
