package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emberfell/smite/internal/game/damage"
)

// ResolutionRepository persists damage-resolution audit records. It
// implements damage.Recorder.
type ResolutionRepository struct {
	db *pgxpool.Pool
}

// NewResolutionRepository creates a ResolutionRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewResolutionRepository(db *pgxpool.Pool) *ResolutionRepository {
	return &ResolutionRepository{db: db}
}

// CreateRecord inserts one resolution record.
//
// Precondition: rec.ID and rec.RequestID must be set.
// Postcondition: The record row exists, or a non-nil error is returned.
func (r *ResolutionRepository) CreateRecord(ctx context.Context, rec damage.Record) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO resolutions
			(id, request_id, source_name, target_name, damage_type, tier,
			 message, applied, delta, type_tag, summary, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		rec.ID, rec.RequestID, rec.SourceName, rec.TargetName, rec.DamageType,
		rec.Tier.String(), string(rec.Message), rec.Applied, rec.Delta,
		rec.TypeTag, rec.Summary, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting resolution: %w", err)
	}
	return nil
}

// ListByRequest returns all records for one request, ordered by creation.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *ResolutionRepository) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]damage.Record, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, request_id, source_name, target_name, damage_type, tier,
		       message, applied, delta, type_tag, summary, created_at
		FROM resolutions WHERE request_id = $1 ORDER BY created_at ASC, id ASC`,
		requestID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing resolutions: %w", err)
	}
	defer rows.Close()

	records := make([]damage.Record, 0)
	for rows.Next() {
		var rec damage.Record
		var tierName, message string
		if err := rows.Scan(
			&rec.ID, &rec.RequestID, &rec.SourceName, &rec.TargetName,
			&rec.DamageType, &tierName, &message, &rec.Applied, &rec.Delta,
			&rec.TypeTag, &rec.Summary, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning resolution row: %w", err)
		}
		tier, ok := damage.ParseTier(tierName)
		if !ok {
			return nil, fmt.Errorf("resolution %s has unknown tier %q", rec.ID, tierName)
		}
		rec.Tier = tier
		rec.Message = damage.Message(message)
		records = append(records, rec)
	}
	return records, rows.Err()
}
