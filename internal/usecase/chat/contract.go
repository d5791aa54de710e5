package chat

import (
	"context"

	"github.com/kailas-cloud/artguide/internal/domain"
)

// Extractor turns a message into LLM search terms. It never fails.
type Extractor interface {
	Extract(ctx context.Context, message string) domain.Extraction
}

// Searcher runs the collection search for a directive.
type Searcher interface {
	Search(ctx context.Context, d domain.SearchDirective, page int) []domain.ArtworkSummary
	HasMore(count, page, threshold int) bool
}

// Narrator describes a result set. It never fails.
type Narrator interface {
	Narrate(ctx context.Context, message string, artworks []domain.ArtworkSummary) domain.Narration
}
