package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhnmartin/join-gradient/internal/domain"
)

// PostgresCorrelationRepository implements CorrelationRepository using
// PostgreSQL. Writes are not transactional with the external API calls they
// accompany; a failure between a table write and a platform write can leave
// the two inconsistent.
type PostgresCorrelationRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCorrelationRepository creates a new PostgresCorrelationRepository
func NewPostgresCorrelationRepository(pool *pgxpool.Pool) *PostgresCorrelationRepository {
	return &PostgresCorrelationRepository{pool: pool}
}

// EnsureSchema creates the correlation table if it does not exist
func (r *PostgresCorrelationRepository) EnsureSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS event_correlations (
		id UUID PRIMARY KEY,
		source_id TEXT UNIQUE NOT NULL,
		cms_item_id TEXT NOT NULL DEFAULT '',
		coworking_id TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_event_correlations_source_id ON event_correlations(source_id);
	`
	_, err := r.pool.Exec(ctx, schema)
	return err
}

// Save upserts a record keyed by source id
func (r *PostgresCorrelationRepository) Save(ctx context.Context, rec *domain.CorrelationRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := time.Now().UTC()

	query := `
		INSERT INTO event_correlations (id, source_id, cms_item_id, coworking_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (source_id) DO UPDATE
		SET cms_item_id = EXCLUDED.cms_item_id,
		    coworking_id = EXCLUDED.coworking_id,
		    updated_at = EXCLUDED.updated_at
	`
	_, err := r.pool.Exec(ctx, query, rec.ID, rec.SourceID, rec.CmsItemID, rec.CoworkingID, now)
	return err
}

// FindBySourceID retrieves the record for a source event id
func (r *PostgresCorrelationRepository) FindBySourceID(ctx context.Context, sourceID string) (*domain.CorrelationRecord, error) {
	query := `
		SELECT id, source_id, cms_item_id, coworking_id, created_at, updated_at
		FROM event_correlations
		WHERE source_id = $1
	`
	rec := &domain.CorrelationRecord{}
	err := r.pool.QueryRow(ctx, query, sourceID).Scan(
		&rec.ID,
		&rec.SourceID,
		&rec.CmsItemID,
		&rec.CoworkingID,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

// Delete removes the record for a source event id
func (r *PostgresCorrelationRepository) Delete(ctx context.Context, sourceID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM event_correlations WHERE source_id = $1`, sourceID)
	return err
}
