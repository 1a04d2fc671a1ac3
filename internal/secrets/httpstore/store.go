// Package httpstore resolves secrets from a remote secrets service over HTTP.
package httpstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pipenotify/internal/secrets"
)

// Option configures the store.
type Option func(*Store)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(s *Store) {
		s.httpClient = httpClient
	}
}

// WithToken sets a bearer token sent with each lookup.
func WithToken(token string) Option {
	return func(s *Store) {
		s.token = token
	}
}

// Store implements secrets.Resolver against a secrets-service endpoint
// exposing GET {base}/v1/secrets/{id}.
type Store struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a store talking to the service at baseURL.
func New(baseURL string, opts ...Option) (*Store, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("secret http store: base url not set")
	}
	s := &Store{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// secretResponse is the service's success body. Exactly one of the two value
// fields is set; ValueB64 carries binary secrets.
type secretResponse struct {
	Value    string `json:"value"`
	ValueB64 string `json:"value_b64"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Resolve fetches the secret named by secretID. Service failures map onto the
// resolution error kinds; unrecognized service error codes still fail the
// lookup as internal service errors.
func (s *Store) Resolve(ctx context.Context, secretID string) (string, error) {
	if secretID == "" {
		return "", &secrets.ResolveError{Kind: secrets.KindInvalidParameter, SecretID: secretID}
	}

	lookupURL := s.baseURL + "/v1/secrets/" + url.PathEscape(secretID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return "", &secrets.ResolveError{Kind: secrets.KindInvalidRequest, SecretID: secretID, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", &secrets.ResolveError{Kind: secrets.KindInternalService, SecretID: secretID, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &secrets.ResolveError{Kind: secrets.KindInternalService, SecretID: secretID, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &secrets.ResolveError{
			Kind:     kindFor(resp.StatusCode, body),
			SecretID: secretID,
			Err:      fmt.Errorf("secrets service returned %s", resp.Status),
		}
	}

	var sr secretResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return "", &secrets.ResolveError{Kind: secrets.KindInternalService, SecretID: secretID, Err: err}
	}
	if sr.ValueB64 != "" {
		return secrets.DecodeValue(secretID, "base64:"+sr.ValueB64)
	}
	return sr.Value, nil
}

// kindFor maps the service response onto an error kind. The body's error code
// wins when it names a known kind; otherwise the status code decides.
func kindFor(statusCode int, body []byte) secrets.ErrorKind {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil {
		switch secrets.ErrorKind(er.Error.Code) {
		case secrets.KindDecryptionFailure:
			return secrets.KindDecryptionFailure
		case secrets.KindInvalidParameter:
			return secrets.KindInvalidParameter
		case secrets.KindInvalidRequest:
			return secrets.KindInvalidRequest
		case secrets.KindNotFound:
			return secrets.KindNotFound
		case secrets.KindInternalService:
			return secrets.KindInternalService
		}
	}

	switch {
	case statusCode == http.StatusNotFound:
		return secrets.KindNotFound
	case statusCode == http.StatusUnprocessableEntity:
		return secrets.KindInvalidParameter
	case statusCode >= 400 && statusCode < 500:
		return secrets.KindInvalidRequest
	default:
		return secrets.KindInternalService
	}
}
