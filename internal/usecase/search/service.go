// Package search runs collection searches for a directive and filters the results.
package search

import (
	"context"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/kailas-cloud/artguide/internal/domain"
	"github.com/kailas-cloud/artguide/internal/domain/query"
	"github.com/kailas-cloud/artguide/internal/logger"
	"github.com/kailas-cloud/artguide/internal/metrics"
)

// Service is the collection search gateway.
type Service struct {
	collection Collection
	cfg        domain.SearchConfig
}

// New creates a search service.
func New(c Collection, cfg domain.SearchConfig) *Service {
	def := domain.DefaultSearchConfig()
	if cfg.PageSize <= 0 {
		cfg.PageSize = def.PageSize
	}
	if cfg.FullPageThreshold <= 0 {
		cfg.FullPageThreshold = def.FullPageThreshold
	}
	if cfg.FirstPageThreshold <= 0 {
		cfg.FirstPageThreshold = def.FirstPageThreshold
	}
	return &Service{collection: c, cfg: cfg}
}

// Search fetches one page for the directive. Upstream failures yield an empty
// list; the caller cannot tell them apart from a genuine empty result.
func (s *Service) Search(ctx context.Context, d domain.SearchDirective, page int) []domain.ArtworkSummary {
	if page < 1 {
		page = 1
	}
	terms, _ := query.Clean(d.SearchTerms())

	artworks, err := s.collection.Search(ctx, domain.CollectionQuery{
		Terms:    terms,
		Page:     page,
		PageSize: s.cfg.PageSize,
	})
	if err != nil {
		metrics.FallbacksTotal.WithLabelValues("search", "upstream_error").Inc()
		logger.FromContext(ctx).Warn("collection search failed",
			zap.String("terms", terms),
			zap.Int("page", page),
			zap.Error(err),
		)
		return []domain.ArtworkSummary{}
	}

	if artworks == nil {
		artworks = []domain.ArtworkSummary{}
	}
	fetched := len(artworks)
	artworks = FilterByArtist(artworks, d.ArtistFilter())
	artworks = FilterExclusions(artworks, d.ExclusionTerms())
	metrics.CollectionResultsTotal.Observe(float64(len(artworks)))

	logger.FromContext(ctx).Debug("collection search",
		zap.String("terms", terms),
		zap.String("artist_filter", d.ArtistFilter()),
		zap.Int("page", page),
		zap.Int("fetched", fetched),
		zap.Int("kept", len(artworks)),
	)
	return artworks
}

// HasMore guesses whether another page exists from the filtered count alone.
// threshold is an artist-specific lower bar (0 = none).
func (s *Service) HasMore(count, page, threshold int) bool {
	if count >= s.cfg.FullPageThreshold {
		return true
	}
	if threshold > 0 && count >= threshold {
		return true
	}
	return page == 1 && count >= s.cfg.FirstPageThreshold
}

// FilterByArtist keeps artworks whose maker contains artist, case-insensitively.
// An empty artist keeps everything.
func FilterByArtist(artworks []domain.ArtworkSummary, artist string) []domain.ArtworkSummary {
	if artist == "" {
		return artworks
	}
	needle := strings.ToLower(artist)
	out := make([]domain.ArtworkSummary, 0, len(artworks))
	for _, a := range artworks {
		if a.PrincipalOrFirstMaker != "" && strings.Contains(strings.ToLower(a.PrincipalOrFirstMaker), needle) {
			out = append(out, a)
		}
	}
	return out
}

// FilterExclusions drops artworks whose title or long title contains an excluded
// word as a whole word: "-man" drops "Portrait of a Man" but keeps "Woman".
func FilterExclusions(artworks []domain.ArtworkSummary, exclusions []string) []domain.ArtworkSummary {
	excluded := make(map[string]struct{}, len(exclusions))
	for _, w := range exclusions {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			excluded[w] = struct{}{}
		}
	}
	if len(excluded) == 0 {
		return artworks
	}
	out := make([]domain.ArtworkSummary, 0, len(artworks))
	for _, a := range artworks {
		if !mentionsAny(a, excluded) {
			out = append(out, a)
		}
	}
	return out
}

func mentionsAny(a domain.ArtworkSummary, words map[string]struct{}) bool {
	for _, w := range titleWords(a.Title + " " + a.LongTitle) {
		if _, ok := words[w]; ok {
			return true
		}
	}
	return false
}

// titleWords splits text into lower-case words on anything that is not a letter or digit.
func titleWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}
