package artguide

import "github.com/kailas-cloud/artguide/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidInput        = domain.ErrInvalidInput
	ErrUpstreamUnavailable = domain.ErrUpstreamUnavailable
	ErrMalformedUpstream   = domain.ErrMalformedUpstream
	ErrLLMQuotaExceeded    = domain.ErrLLMQuotaExceeded
)
