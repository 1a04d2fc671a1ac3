package notify

import (
	"context"
	"sync"

	"pipenotify/internal/config"
	"pipenotify/internal/secrets"
)

// URLSource supplies the webhook URL to the delivery path. A literal URL is
// returned as-is; a secret-backed URL is resolved at most once per process
// and cached for the process lifetime. The cache is never invalidated and the
// URL is never persisted anywhere.
//
// Construct one per process; tests substitute a fresh instance instead of
// poking at package state.
type URLSource struct {
	literal  string
	secretID string
	resolver secrets.Resolver

	mu       sync.Mutex
	resolved bool
	url      string
}

// NewURLSource builds a source from the configured webhook settings. Either
// literal or secretID may be empty; when both are, every lookup reports
// config.ErrNoWebhookSource.
func NewURLSource(literal, secretID string, resolver secrets.Resolver) *URLSource {
	return &URLSource{
		literal:  literal,
		secretID: secretID,
		resolver: resolver,
	}
}

// WebhookURL returns the delivery endpoint, resolving and caching it on first
// use. A failed resolution is not cached; the next invocation retries from
// the unresolved state.
func (s *URLSource) WebhookURL(ctx context.Context) (string, error) {
	if s.literal != "" {
		return s.literal, nil
	}
	if s.secretID == "" || s.resolver == nil {
		return "", config.ErrNoWebhookSource
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resolved {
		return s.url, nil
	}

	url, err := s.resolver.Resolve(ctx, s.secretID)
	if err != nil {
		return "", err
	}
	s.url = url
	s.resolved = true
	return url, nil
}
