// Package narrate asks the LLM to describe the artworks a search returned.
package narrate

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/artguide/internal/domain"
	"github.com/kailas-cloud/artguide/internal/logger"
	"github.com/kailas-cloud/artguide/internal/metrics"
)

// DefaultMaxTokens bounds the narration reply.
const DefaultMaxTokens = 1000

// Config configures the narration call.
type Config struct {
	Model     string
	MaxTokens int
	// Sample caps how many artworks are listed in the prompt.
	Sample int
}

// Service performs narration.
type Service struct {
	llm      Completer
	fallback FallbackText
	cfg      Config
}

// New creates a narration service. llm may be nil; every call then returns the fallback text.
func New(llm Completer, fallback FallbackText, cfg Config) *Service {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Sample <= 0 {
		cfg.Sample = domain.DefaultSearchConfig().NarrationSample
	}
	return &Service{llm: llm, fallback: fallback, cfg: cfg}
}

// Narrate returns a description of the artworks. It never fails.
func (s *Service) Narrate(ctx context.Context, message string, artworks []domain.ArtworkSummary) domain.Narration {
	if s.llm == nil {
		metrics.FallbacksTotal.WithLabelValues("narrate", "disabled").Inc()
		return domain.Narration{Text: s.fallback.NarrationFallback(message), Fallback: true}
	}

	out, err := s.llm.Complete(ctx, domain.Prompt{
		Model:     s.cfg.Model,
		System:    systemPrompt,
		User:      BuildPrompt(message, artworks, s.cfg.Sample),
		MaxTokens: s.cfg.MaxTokens,
	})
	if err == nil && strings.TrimSpace(out.Text) == "" {
		err = errors.New("empty narration")
	}
	if err != nil {
		reason := "llm_error"
		if errors.Is(err, domain.ErrLLMQuotaExceeded) {
			reason = "quota"
		}
		metrics.FallbacksTotal.WithLabelValues("narrate", reason).Inc()
		logger.FromContext(ctx).Warn("narration fell back",
			zap.String("reason", reason),
			zap.Error(err),
		)
		return domain.Narration{Text: s.fallback.NarrationFallback(message), Fallback: true}
	}
	return domain.Narration{Text: out.Text}
}
