// Package notify drives one invocation end to end: obtain the webhook URL,
// render the event, deliver the message, and translate the delivery outcome
// into the caller's retry contract.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"pipenotify/internal/event"
	"pipenotify/internal/render"
	"pipenotify/internal/slack"
)

// Service processes pipeline events. It holds no per-event state; the only
// process-wide state is the URL cache inside the injected URLSource.
type Service struct {
	source  *URLSource
	client  *slack.Client
	channel string
	logger  *slog.Logger
}

// NewService wires the delivery path together.
func NewService(source *URLSource, client *slack.Client, channel string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		source:  source,
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

// Handle processes a single event. A nil return means the invocation is
// complete: the message was accepted, or it was rejected with a 4xx that a
// retry could not fix. A non-nil return means the whole invocation should be
// re-driven (5xx or transport failure) or failed fatally (no webhook source,
// secret resolution).
func (s *Service) Handle(ctx context.Context, ev *event.PipelineEvent) error {
	url, err := s.source.WebhookURL(ctx)
	if err != nil {
		return fmt.Errorf("webhook url: %w", err)
	}

	msg := render.Message(ev, s.channel)

	res, err := s.client.Send(ctx, url, msg)
	if err != nil {
		return err
	}

	switch res.Outcome {
	case slack.OutcomeServerError:
		return &slack.RetryableError{StatusCode: res.StatusCode, Status: res.Status}
	case slack.OutcomeClientError:
		// Terminal from the retry perspective: re-sending the same payload
		// would be rejected again. Record it and complete the invocation.
		s.logger.Warn("webhook rejected delivery",
			slog.Int("status", res.StatusCode),
			slog.String("response", res.Body),
			slog.String("pipeline", ev.Detail.Pipeline),
			slog.String("state", ev.Detail.State),
		)
		return nil
	}

	s.logger.Info("notification delivered",
		slog.Int("status", res.StatusCode),
		slog.String("pipeline", ev.Detail.Pipeline),
		slog.String("state", ev.Detail.State),
	)
	return nil
}
