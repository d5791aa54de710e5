// Package artwork resolves the detail view of a single artwork.
package artwork

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/artguide/internal/domain"
	dartwork "github.com/kailas-cloud/artguide/internal/domain/artwork"
	"github.com/kailas-cloud/artguide/internal/logger"
	"github.com/kailas-cloud/artguide/internal/metrics"
)

// DefaultAttemptTimeout bounds a single upstream fetch.
const DefaultAttemptTimeout = 30 * time.Second

// Config configures the resolver.
type Config struct {
	AttemptTimeout time.Duration
	// ServeKnownFirst answers artworks present in the known table without an upstream call.
	ServeKnownFirst bool
}

// Service resolves artwork details.
type Service struct {
	detailer Detailer
	known    *dartwork.Known
	cfg      Config
}

// New creates a resolver. known may be nil.
func New(d Detailer, known *dartwork.Known, cfg Config) *Service {
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = DefaultAttemptTimeout
	}
	return &Service{detailer: d, known: known, cfg: cfg}
}

// Resolve returns the detail for objectNumber. It never fails: upstream errors
// are answered from the known table or with a placeholder record.
func (s *Service) Resolve(ctx context.Context, objectNumber string) domain.ArtworkDetail {
	objectNumber = strings.TrimSpace(objectNumber)
	if objectNumber == "" {
		return domain.ArtworkDetail{Dimensions: []string{}}
	}
	ctx = logger.With(ctx, zap.String("object_number", objectNumber))
	log := logger.FromContext(ctx)

	if s.cfg.ServeKnownFirst {
		if d, ok := s.known.Lookup(objectNumber); ok {
			log.Debug("artwork served from known table")
			return d
		}
	}

	rec, err := s.fetch(ctx, objectNumber)
	if err == nil && dartwork.Resolve(rec).Empty() {
		log.Info("artwork detail empty, retrying")
		rec, err = s.fetch(ctx, objectNumber)
	}
	if err != nil {
		return s.fallback(log, objectNumber, err)
	}
	return dartwork.Normalize(rec)
}

func (s *Service) fetch(ctx context.Context, objectNumber string) (*domain.ArtworkRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.AttemptTimeout)
	defer cancel()
	return s.detailer.Detail(ctx, objectNumber)
}

func (s *Service) fallback(log *zap.Logger, objectNumber string, err error) domain.ArtworkDetail {
	if d, ok := s.known.Lookup(objectNumber); ok {
		metrics.FallbacksTotal.WithLabelValues("artwork", "known").Inc()
		log.Warn("artwork detail failed, serving known entry", zap.Error(err))
		return d
	}
	metrics.FallbacksTotal.WithLabelValues("artwork", "unavailable").Inc()
	log.Warn("artwork detail failed", zap.Error(err))
	return dartwork.Unavailable(objectNumber)
}
