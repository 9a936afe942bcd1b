package tools

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a provider failure. The core never interprets error
// bodies beyond this taxonomy.
type ErrorKind string

const (
	ErrTimeout      ErrorKind = "timeout"
	ErrUnauthorized ErrorKind = "unauthorized"
	ErrRateLimited  ErrorKind = "rate_limited"
	ErrNotFound     ErrorKind = "not_found"
	ErrMalformed    ErrorKind = "malformed"
	ErrUnknown      ErrorKind = "unknown"
)

// ProviderError is a classified external provider failure. It is recovered
// via fallback tiers and never surfaced raw to the user.
type ProviderError struct {
	Kind ErrorKind
	Err  error
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("provider error: %s", e.Kind)
	}
	return fmt.Sprintf("provider error (%s): %v", e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError wraps err with a kind.
func NewProviderError(kind ErrorKind, err error) *ProviderError {
	return &ProviderError{Kind: kind, Err: err}
}

// ClassifyHTTP maps an HTTP status code onto the taxonomy.
func ClassifyHTTP(status int, err error) *ProviderError {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return NewProviderError(ErrUnauthorized, err)
	case http.StatusTooManyRequests:
		return NewProviderError(ErrRateLimited, err)
	case http.StatusNotFound:
		return NewProviderError(ErrNotFound, err)
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return NewProviderError(ErrTimeout, err)
	default:
		return NewProviderError(ErrUnknown, err)
	}
}

// Classify maps an arbitrary call error onto the taxonomy. Context
// cancellation and deadline expiry count as timeouts so fallback tiers apply.
func Classify(err error) *ProviderError {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewProviderError(ErrTimeout, err)
	}
	return NewProviderError(ErrUnknown, err)
}
