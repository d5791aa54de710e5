package artguide

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/artguide/internal/domain"
)

// Prompt is a single-turn LLM request.
type Prompt struct {
	Model     string
	System    string
	User      string
	MaxTokens int
}

// Completion is the text produced by an LLM together with its token usage.
type Completion struct {
	Text         string
	PromptTokens int
	OutputTokens int
	TotalTokens  int
}

// Completer is a pluggable LLM provider.
// Implement this interface to use a model not covered by WithOpenAI or WithGemini.
type Completer interface {
	Complete(ctx context.Context, p Prompt) (Completion, error)
}

// completerAdapter wraps public Completer to satisfy internal domain.Completer.
type completerAdapter struct {
	inner Completer
}

func (a *completerAdapter) Complete(ctx context.Context, p domain.Prompt) (domain.Completion, error) {
	r, err := a.inner.Complete(ctx, Prompt{
		Model:     p.Model,
		System:    p.System,
		User:      p.User,
		MaxTokens: p.MaxTokens,
	})
	if err != nil {
		return domain.Completion{}, fmt.Errorf("complete: %w", err)
	}
	return domain.Completion{
		Text:         r.Text,
		PromptTokens: r.PromptTokens,
		OutputTokens: r.OutputTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}
