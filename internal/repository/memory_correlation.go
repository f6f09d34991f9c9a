package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jhnmartin/join-gradient/internal/domain"
)

// MemoryCorrelationRepository is an in-memory CorrelationRepository for
// tests and local development
type MemoryCorrelationRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.CorrelationRecord
}

// NewMemoryCorrelationRepository creates an empty in-memory repository
func NewMemoryCorrelationRepository() *MemoryCorrelationRepository {
	return &MemoryCorrelationRepository{
		records: make(map[string]*domain.CorrelationRecord),
	}
}

// Save upserts a record keyed by source id
func (r *MemoryCorrelationRepository) Save(_ context.Context, rec *domain.CorrelationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	copied := *rec
	if copied.ID == "" {
		copied.ID = uuid.NewString()
	}
	if existing, ok := r.records[rec.SourceID]; ok {
		copied.ID = existing.ID
		copied.CreatedAt = existing.CreatedAt
	} else {
		copied.CreatedAt = now
	}
	copied.UpdatedAt = now
	r.records[rec.SourceID] = &copied
	return nil
}

// FindBySourceID retrieves the record for a source event id
func (r *MemoryCorrelationRepository) FindBySourceID(_ context.Context, sourceID string) (*domain.CorrelationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[sourceID]
	if !ok {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

// Delete removes the record for a source event id
func (r *MemoryCorrelationRepository) Delete(_ context.Context, sourceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, sourceID)
	return nil
}
