package narrate

import (
	"context"

	"github.com/kailas-cloud/artguide/internal/domain"
)

// Completer produces LLM completions.
type Completer interface {
	Complete(ctx context.Context, p domain.Prompt) (domain.Completion, error)
}

// FallbackText renders the reply used when narration is unavailable.
type FallbackText interface {
	NarrationFallback(message string) string
}
