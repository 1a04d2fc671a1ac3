// Package secrets defines the secret-store contract consumed by the delivery
// path. Stores return configuration secrets by identifier; every resolution
// failure is fatal to the invocation that triggered it.
package secrets

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
)

// Resolver looks up a secret value by identifier. Implementations live in the
// store subpackages; callers never learn how the secret is kept.
type Resolver interface {
	Resolve(ctx context.Context, secretID string) (string, error)
}

// ErrorKind categorizes a failed resolution. All kinds are fatal; the
// categories exist for logging and for mapping store-specific failures onto a
// stable vocabulary.
type ErrorKind string

const (
	KindDecryptionFailure ErrorKind = "decryption_failure"
	KindInternalService   ErrorKind = "internal_service_error"
	KindInvalidParameter  ErrorKind = "invalid_parameter"
	KindInvalidRequest    ErrorKind = "invalid_request"
	KindNotFound          ErrorKind = "not_found"
)

// ResolveError is a failed secret lookup. The secret value never appears in
// the error text, only the identifier that was asked for.
type ResolveError struct {
	Kind     ErrorKind
	SecretID string
	Err      error
}

func (e *ResolveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("resolve secret %q: %s: %v", e.SecretID, e.Kind, e.Err)
	}
	return fmt.Sprintf("resolve secret %q: %s", e.SecretID, e.Kind)
}

func (e *ResolveError) Unwrap() error { return e.Err }

// binaryPrefix marks a base64-encoded secret value. Stores that hold binary
// secrets emit them in this form; DecodeValue turns them back into text.
const binaryPrefix = "base64:"

// DecodeValue decodes a possibly binary-encoded secret value. Plain text
// values pass through untouched.
func DecodeValue(secretID, value string) (string, error) {
	encoded, ok := strings.CutPrefix(value, binaryPrefix)
	if !ok {
		return value, nil
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", &ResolveError{Kind: KindDecryptionFailure, SecretID: secretID, Err: err}
	}
	return string(raw), nil
}
