package artwork

import (
	"context"

	"github.com/kailas-cloud/artguide/internal/domain"
)

// Detailer fetches the raw detail record of one artwork.
type Detailer interface {
	Detail(ctx context.Context, objectNumber string) (*domain.ArtworkRecord, error)
}
