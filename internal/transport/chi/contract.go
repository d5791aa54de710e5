package chi

import (
	"context"

	"github.com/kailas-cloud/artguide/internal/domain"
	domusage "github.com/kailas-cloud/artguide/internal/domain/usage"
	chatuc "github.com/kailas-cloud/artguide/internal/usecase/chat"
	healthuc "github.com/kailas-cloud/artguide/internal/usecase/health"
)

// ChatService answers natural-language queries.
type ChatService interface {
	Chat(ctx context.Context, req chatuc.Request) (domain.SearchResponse, error)
}

// ArtworkResolver returns the detail view of one artwork.
type ArtworkResolver interface {
	Resolve(ctx context.Context, objectNumber string) domain.ArtworkDetail
}

// UsageReporter reports LLM token usage.
type UsageReporter interface {
	GetReport(ctx context.Context, period domusage.Period) domusage.Report
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
