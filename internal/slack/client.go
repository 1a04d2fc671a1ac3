// Package slack delivers rendered messages to an incoming-webhook endpoint
// and classifies the response for the caller's retry decision.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultUserAgent = "pipenotify/1.0"

// Outcome classifies an HTTP delivery response.
type Outcome int

const (
	// OutcomeSuccess is any response below 400: the webhook accepted the message.
	OutcomeSuccess Outcome = iota
	// OutcomeClientError is a 4xx response: the request itself was rejected and
	// repeating it would not change the result.
	OutcomeClientError
	// OutcomeServerError is a 5xx response: the endpoint failed and the whole
	// operation should be re-driven by the caller.
	OutcomeServerError
)

// String returns the outcome label used in logs.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeClientError:
		return "client_error"
	case OutcomeServerError:
		return "server_error"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// RetryableError signals that delivery failed in a way the invoking framework
// should retry: a 5xx response or a transport failure. The message content and
// the webhook URL never appear in the error text.
type RetryableError struct {
	StatusCode int
	Status     string
	Err        error
}

func (e *RetryableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("webhook delivery failed: %v", e.Err)
	}
	return fmt.Sprintf("webhook delivery failed: %s", e.Status)
}

func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable marks the error for the invocation surface.
func (e *RetryableError) Retryable() bool { return true }

// Result is the classified response of a single delivery attempt. Body holds
// the fully drained response body for logging; it is never parsed.
type Result struct {
	Outcome    Outcome
	StatusCode int
	Status     string
	Body       string
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithUserAgent sets the User-Agent header sent with each delivery.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// Client posts messages to a webhook URL. It performs exactly one attempt per
// Send call; retry policy belongs to the caller.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a delivery client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send serializes msg and posts it to webhookURL. The returned error is
// non-nil only for marshal, request-build and transport failures; all of
// those are retryable. Any HTTP response, whatever its status, produces a
// classified Result and a nil error.
func (c *Client) Send(ctx context.Context, webhookURL string, msg *Message) (*Result, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.ContentLength = int64(len(body))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RetryableError{Err: err}
	}
	defer resp.Body.Close()

	// Drain the full body before classifying so the attempt is complete and
	// the response text is available for logging.
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return nil, &RetryableError{StatusCode: resp.StatusCode, Status: resp.Status, Err: err}
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	return &Result{
		Outcome:    classify(resp.StatusCode),
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       strings.TrimSpace(string(respBody)),
	}, nil
}

func classify(statusCode int) Outcome {
	switch {
	case statusCode < http.StatusBadRequest:
		return OutcomeSuccess
	case statusCode < http.StatusInternalServerError:
		return OutcomeClientError
	default:
		return OutcomeServerError
	}
}
