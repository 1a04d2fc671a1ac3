// Package envstore resolves secrets from process environment variables.
// The secret identifier is the variable name.
package envstore

import (
	"context"
	"os"

	"pipenotify/internal/secrets"
)

// Store implements secrets.Resolver over the environment.
type Store struct{}

// New creates an environment-backed store.
func New() *Store {
	return &Store{}
}

// Resolve returns the value of the environment variable named by secretID.
// An unset variable is a not-found failure; an empty identifier is an
// invalid-parameter failure.
func (s *Store) Resolve(_ context.Context, secretID string) (string, error) {
	if secretID == "" {
		return "", &secrets.ResolveError{Kind: secrets.KindInvalidParameter, SecretID: secretID}
	}
	value, ok := os.LookupEnv(secretID)
	if !ok {
		return "", &secrets.ResolveError{Kind: secrets.KindNotFound, SecretID: secretID}
	}
	return secrets.DecodeValue(secretID, value)
}
