package search

import (
	"context"

	"github.com/kailas-cloud/artguide/internal/domain"
)

// Collection queries the museum collection API.
type Collection interface {
	Search(ctx context.Context, q domain.CollectionQuery) ([]domain.ArtworkSummary, error)
}
