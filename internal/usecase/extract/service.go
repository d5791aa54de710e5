// Package extract asks the LLM to turn a user message into search terms,
// degrading to a deterministic local extraction on any failure.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/artguide/internal/domain"
	"github.com/kailas-cloud/artguide/internal/logger"
	"github.com/kailas-cloud/artguide/internal/metrics"
)

// DefaultMaxTokens bounds the extraction reply.
const DefaultMaxTokens = 400

var errEmptyTerms = errors.New("extraction returned no search terms")

// byArtistRe finds a capitalised name after "by" or "from".
var byArtistRe = regexp.MustCompile(`\b(?i:by|from)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`)

// Config configures the extraction call.
type Config struct {
	Model     string
	MaxTokens int
}

// Service performs term extraction.
type Service struct {
	llm Completer
	cfg Config
}

// New creates an extraction service. llm may be nil, in which case every
// extraction uses the local fallback.
func New(llm Completer, cfg Config) *Service {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	return &Service{llm: llm, cfg: cfg}
}

// Extract makes exactly one LLM call for the message. It never fails:
// any error yields Fallback(message).
func (s *Service) Extract(ctx context.Context, message string) domain.Extraction {
	if s.llm == nil {
		return s.fallback(ctx, message, "disabled", nil)
	}

	out, err := s.llm.Complete(ctx, domain.Prompt{
		Model:     s.cfg.Model,
		System:    systemPrompt,
		User:      message,
		MaxTokens: s.cfg.MaxTokens,
	})
	if err != nil {
		reason := "llm_error"
		if errors.Is(err, domain.ErrLLMQuotaExceeded) {
			reason = "quota"
		}
		return s.fallback(ctx, message, reason, err)
	}

	ext, err := Parse(out.Text, message)
	if err != nil {
		return s.fallback(ctx, message, "parse", err)
	}
	return ext
}

func (s *Service) fallback(ctx context.Context, message, reason string, err error) domain.Extraction {
	metrics.FallbacksTotal.WithLabelValues("extract", reason).Inc()
	if err != nil {
		logger.FromContext(ctx).Warn("term extraction fell back",
			zap.String("reason", reason),
			zap.Error(err),
		)
	}
	return Fallback(message)
}

// Parse decodes an LLM reply. Text around the outermost braces is ignored.
// Missing or empty relevance tags default to [message].
func Parse(text, message string) (domain.Extraction, error) {
	text = strings.TrimSpace(text)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	var raw struct {
		SearchTerms   string   `json:"searchTerms"`
		RelevanceTags []string `json:"relevanceTags"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return domain.Extraction{}, fmt.Errorf("decode extraction: %v: %w", err, domain.ErrMalformedUpstream)
	}

	terms := strings.TrimSpace(raw.SearchTerms)
	if terms == "" {
		return domain.Extraction{}, fmt.Errorf("%w: %w", errEmptyTerms, domain.ErrMalformedUpstream)
	}

	tags := make([]string, 0, len(raw.RelevanceTags))
	for _, t := range raw.RelevanceTags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		tags = []string{message}
	}

	return domain.Extraction{SearchTerms: terms, RelevanceTags: tags}, nil
}

// Fallback derives search terms without the LLM. It is pure: the same
// message always produces the same extraction.
//
// "landscapes by Jacob van Ruisdael" has no capitalised "van", so the match
// stops at "Jacob"; the artist is moved to the front of the preceding text.
func Fallback(message string) domain.Extraction {
	terms := message
	if loc := byArtistRe.FindStringSubmatchIndex(message); loc != nil {
		artist := message[loc[2]:loc[3]]
		before := strings.TrimSpace(message[:loc[0]])
		terms = strings.TrimSpace(artist + " " + before)
	}
	return domain.Extraction{
		SearchTerms:   terms,
		RelevanceTags: []string{message},
		Fallback:      true,
	}
}
