package extract

import (
	"context"

	"github.com/kailas-cloud/artguide/internal/domain"
)

// Completer produces LLM completions.
type Completer interface {
	Complete(ctx context.Context, p domain.Prompt) (domain.Completion, error)
}
