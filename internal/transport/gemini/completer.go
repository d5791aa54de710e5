// Package gemini provides a completion provider backed by the Google Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/kailas-cloud/artguide/internal/domain"
	"github.com/kailas-cloud/artguide/internal/metrics"
)

const provider = "gemini"

// Config holds the Gemini provider settings.
type Config struct {
	APIKey string
	// BaseURL overrides the API endpoint (proxies, tests).
	BaseURL string
	Logger  *zap.Logger
}

// Completer implements domain.Completer on top of genai.
type Completer struct {
	client *genai.Client
	logger *zap.Logger
}

// NewCompleter creates a Gemini completion provider.
func NewCompleter(ctx context.Context, cfg *Config) (*Completer, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Completer{client: client, logger: logger}, nil
}

// Complete implements domain.Completer.
func (c *Completer) Complete(ctx context.Context, p domain.Prompt) (domain.Completion, error) {
	config := &genai.GenerateContentConfig{}
	if p.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: p.System}},
		}
	}
	if p.MaxTokens > 0 {
		config.MaxOutputTokens = int32(p.MaxTokens) //nolint:gosec // max tokens is a small config value
	}

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: p.User}},
	}}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, p.Model, contents, config)
	duration := time.Since(start)

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(provider, p.Model, "error").Inc()
		metrics.LLMErrorsTotal.WithLabelValues(provider, p.Model, "api_error").Inc()
		return domain.Completion{}, parseAPIError(err)
	}

	text := responseText(resp)
	if text == "" {
		metrics.LLMRequestsTotal.WithLabelValues(provider, p.Model, "error").Inc()
		metrics.LLMErrorsTotal.WithLabelValues(provider, p.Model, "empty_response").Inc()
		return domain.Completion{}, fmt.Errorf("empty gemini response: %w", domain.ErrMalformedUpstream)
	}

	metrics.LLMRequestsTotal.WithLabelValues(provider, p.Model, "success").Inc()
	metrics.LLMRequestDuration.WithLabelValues(provider, p.Model).Observe(duration.Seconds())

	out := domain.Completion{Text: text}
	if u := resp.UsageMetadata; u != nil {
		out.PromptTokens = int(u.PromptTokenCount)
		out.OutputTokens = int(u.CandidatesTokenCount)
		out.TotalTokens = int(u.TotalTokenCount)
		metrics.LLMTokensTotal.WithLabelValues(provider, p.Model, "prompt").Add(float64(out.PromptTokens))
		metrics.LLMTokensTotal.WithLabelValues(provider, p.Model, "completion").Add(float64(out.OutputTokens))
		metrics.LLMTokensTotal.WithLabelValues(provider, p.Model, "total").Add(float64(out.TotalTokens))
	}

	c.logger.Debug("llm completion",
		zap.String("provider", provider),
		zap.String("model", p.Model),
		zap.Int("total_tokens", out.TotalTokens),
		zap.Duration("duration", duration),
	)
	return out, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.Text != "" {
				sb.WriteString(part.Text)
			}
		}
		// First candidate only.
		break
	}
	return sb.String()
}

func parseAPIError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("gemini API error %d: %s: %w", apiErr.Code, apiErr.Message, domain.ErrUpstreamUnavailable)
	}
	return fmt.Errorf("gemini request failed: %v: %w", err, domain.ErrUpstreamUnavailable)
}
