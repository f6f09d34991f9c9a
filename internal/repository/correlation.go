package repository

import (
	"context"

	"github.com/jhnmartin/join-gradient/internal/domain"
)

// CorrelationRepository persists source-id to downstream-id mappings. The
// store is optional: when disabled the CMS back-reference field is the only
// correlation mechanism, and services receive a nil repository.
//
// FindBySourceID returns (nil, nil) when no record exists.
type CorrelationRepository interface {
	Save(ctx context.Context, rec *domain.CorrelationRecord) error
	FindBySourceID(ctx context.Context, sourceID string) (*domain.CorrelationRecord, error)
	Delete(ctx context.Context, sourceID string) error
}
