// Package chat runs the natural-language search pipeline and assembles the reply.
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/artguide/internal/domain"
	"github.com/kailas-cloud/artguide/internal/domain/query"
	"github.com/kailas-cloud/artguide/internal/logger"
)

// DefaultTimeout bounds one chat request end to end.
const DefaultTimeout = 60 * time.Second

// Request is one user query.
type Request struct {
	Message string
	Page    int
}

// Service wires normalizer, extractor, searcher and narrator into one pipeline.
type Service struct {
	normalizer *query.Normalizer
	extractor  Extractor
	searcher   Searcher
	narrator   Narrator
	timeout    time.Duration
}

// New creates a chat service. A zero timeout uses DefaultTimeout.
func New(n *query.Normalizer, e Extractor, s Searcher, nr Narrator, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{normalizer: n, extractor: e, searcher: s, narrator: nr, timeout: timeout}
}

// Chat answers a query. Upstream failures degrade to fallback content;
// the only error is domain.ErrInvalidInput for a blank message.
func (s *Service) Chat(ctx context.Context, req Request) (domain.SearchResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return domain.SearchResponse{}, fmt.Errorf("empty message: %w", domain.ErrInvalidInput)
	}
	page := max(req.Page, 1)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	analysis := s.normalizer.Normalize(message)
	extraction := s.extractor.Extract(ctx, message)
	directive := s.normalizer.Merge(analysis, extraction)
	artworks := s.searcher.Search(ctx, directive, page)

	resp := s.Assemble(ctx, message, directive, artworks, page)
	resp.ExtractionFallback = extraction.Fallback

	logger.FromContext(ctx).Info("chat answered",
		zap.String("search_terms", directive.SearchTerms()),
		zap.String("artist_filter", directive.ArtistFilter()),
		zap.Strings("rules", analysis.Matches.Fired),
		zap.Bool("extraction_fallback", extraction.Fallback),
		zap.String("outcome", string(resp.Outcome)),
		zap.Int("page", page),
		zap.Int("artworks", len(artworks)),
		zap.Bool("has_more", resp.HasMoreResults),
	)
	return resp, nil
}

// Assemble builds the reply for a finished search. Narration is skipped for an
// empty first page, which gets a canned message instead.
func (s *Service) Assemble(
	ctx context.Context, message string, d domain.SearchDirective,
	artworks []domain.ArtworkSummary, page int,
) domain.SearchResponse {
	if artworks == nil {
		artworks = []domain.ArtworkSummary{}
	}
	table := s.normalizer.Table()

	var text string
	var outcome domain.ChatOutcome
	switch {
	case len(artworks) == 0 && page == 1 && table.IsSensitive(d.SearchTerms(), message):
		text, outcome = table.SensitiveMessage(), domain.OutcomeSensitive
	case len(artworks) == 0 && page == 1:
		text, outcome = table.NoResultsMessage(d.SearchTerms()), domain.OutcomeNoResults
	default:
		n := s.narrator.Narrate(ctx, message, artworks)
		text, outcome = n.Text, domain.OutcomeNarrated
		if n.Fallback {
			outcome = domain.OutcomeNarrationFallback
		}
	}

	threshold := s.normalizer.MoreResultsThreshold(d)
	return domain.SearchResponse{
		Artworks:       artworks,
		RelevanceTags:  d.RelevanceTags(),
		Response:       text,
		HasMoreResults: s.searcher.HasMore(len(artworks), page, threshold),
		Outcome:        outcome,
	}
}
