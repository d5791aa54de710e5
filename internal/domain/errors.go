package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput signals a client request that cannot be processed.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrUpstreamUnavailable signals a network, timeout or non-2xx failure of an external service.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrMalformedUpstream signals an external response that could not be decoded.
	ErrMalformedUpstream = errors.New("malformed upstream response")
	// ErrLLMQuotaExceeded signals an exhausted LLM token budget.
	ErrLLMQuotaExceeded = errors.New("llm quota exceeded")
)

// UpstreamStatusError wraps ErrUpstreamUnavailable with the HTTP status returned by the service.
type UpstreamStatusError struct {
	Service    string
	StatusCode int
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("%s: %s returned status %d", ErrUpstreamUnavailable.Error(), e.Service, e.StatusCode)
}

func (e *UpstreamStatusError) Unwrap() error { return ErrUpstreamUnavailable }

// NewUpstreamStatus creates an upstream status error.
func NewUpstreamStatus(service string, status int) error {
	return &UpstreamStatusError{Service: service, StatusCode: status}
}
