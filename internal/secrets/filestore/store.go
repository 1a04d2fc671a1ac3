// Package filestore resolves secrets from files under a fixed root directory,
// the layout used by container secret mounts. The secret identifier is the
// file name relative to the root.
package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pipenotify/internal/secrets"
)

// Store implements secrets.Resolver over a directory of secret files.
type Store struct {
	root string
}

// New creates a store rooted at dir.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("secret file store: root directory not set")
	}
	return &Store{root: dir}, nil
}

// Resolve reads the file named by secretID. Identifiers must stay inside the
// root; anything that escapes it is an invalid-parameter failure.
func (s *Store) Resolve(_ context.Context, secretID string) (string, error) {
	if secretID == "" || filepath.IsAbs(secretID) {
		return "", &secrets.ResolveError{Kind: secrets.KindInvalidParameter, SecretID: secretID}
	}
	path := filepath.Join(s.root, secretID)
	if rel, err := filepath.Rel(s.root, path); err != nil || strings.HasPrefix(rel, "..") {
		return "", &secrets.ResolveError{Kind: secrets.KindInvalidParameter, SecretID: secretID}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &secrets.ResolveError{Kind: secrets.KindNotFound, SecretID: secretID, Err: err}
		}
		return "", &secrets.ResolveError{Kind: secrets.KindInternalService, SecretID: secretID, Err: err}
	}
	return secrets.DecodeValue(secretID, strings.TrimSpace(string(raw)))
}
