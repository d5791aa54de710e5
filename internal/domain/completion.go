package domain

import "context"

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

// Completer produces a completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, p Prompt) (Completion, error)
}

// HealthChecker is implemented by providers that can verify their availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
