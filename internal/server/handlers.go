package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"pipenotify/internal/event"
	"pipenotify/internal/slack"
)

// handleEvent is the invocation entry point. Status mapping follows the retry
// contract: 202 when the invocation completed (delivered, or rejected with a
// 4xx that retrying cannot fix), 502 when the caller should re-drive the
// whole invocation, 500 for configuration and secret-resolution failures.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := event.Decode(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := s.handler.Handle(r.Context(), ev); err != nil {
		var retryable *slack.RetryableError
		status := http.StatusInternalServerError
		if errors.As(err, &retryable) {
			status = http.StatusBadGateway
		}
		s.logger.Error("invocation failed",
			slog.String("request_id", GetRequestID(r.Context())),
			slog.Int("status", status),
			slog.String("error", err.Error()),
		)
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
