package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/correction"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type correctionRepository struct {
	db *database.DB
}

const correctionColumns = `
	id, event_id, user_id, admin_id, source, field, previous_value, new_value,
	reason, status, reviewed_by, reviewed_at, review_note, created_at`

func scanCorrection(row pgx.Row) (correction.Correction, error) {
	var c correction.Correction
	err := row.Scan(
		&c.ID, &c.EventID, &c.UserID, &c.AdminID, &c.Source, &c.Field, &c.PreviousValue, &c.NewValue,
		&c.Reason, &c.Status, &c.ReviewedBy, &c.ReviewedAt, &c.ReviewNote, &c.CreatedAt,
	)
	return c, err
}

func collectCorrections(rows pgx.Rows) ([]correction.Correction, error) {
	defer rows.Close()

	var list []correction.Correction
	for rows.Next() {
		c, err := scanCorrection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan correction: %w", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate corrections: %w", err)
	}
	return list, nil
}

// Create implements correction.CorrectionRepository.
func (r *correctionRepository) Create(ctx context.Context, c correction.Correction) (correction.Correction, error) {
	q := GetQuerier(ctx, r.db)

	if c.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return correction.Correction{}, fmt.Errorf("failed to generate correction id: %w", err)
		}
		c.ID = id.String()
	}

	query := `
		INSERT INTO corrections (
			id, event_id, user_id, admin_id, source, field, previous_value, new_value,
			reason, status, reviewed_by, reviewed_at, review_note
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		) RETURNING ` + correctionColumns

	created, err := scanCorrection(q.QueryRow(ctx, query,
		c.ID,
		c.EventID,
		c.UserID,
		c.AdminID,
		c.Source,
		c.Field,
		c.PreviousValue,
		c.NewValue,
		c.Reason,
		c.Status,
		c.ReviewedBy,
		c.ReviewedAt,
		c.ReviewNote,
	))
	if err != nil {
		return correction.Correction{}, fmt.Errorf("failed to create correction: %w", err)
	}
	return created, nil
}

// GetByID implements correction.CorrectionRepository.
func (r *correctionRepository) GetByID(ctx context.Context, id string) (correction.Correction, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + correctionColumns + ` FROM corrections WHERE id = $1`

	c, err := scanCorrection(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || database.IsInvalidInput(err) {
			return correction.Correction{}, correction.ErrCorrectionNotFound
		}
		return correction.Correction{}, fmt.Errorf("failed to get correction by ID: %w", err)
	}
	return c, nil
}

// ListByEventIDs implements correction.CorrectionRepository.
func (r *correctionRepository) ListByEventIDs(ctx context.Context, eventIDs []string) ([]correction.Correction, error) {
	eventIDs = wellFormedIDs(eventIDs)
	if len(eventIDs) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + correctionColumns + `
		FROM corrections
		WHERE event_id = ANY($1::uuid[])
		ORDER BY COALESCE(reviewed_at, created_at) DESC, created_at DESC, id DESC
	`

	rows, err := q.Query(ctx, query, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list corrections: %w", err)
	}
	return collectCorrections(rows)
}

// ListPending implements correction.CorrectionRepository.
func (r *correctionRepository) ListPending(ctx context.Context) ([]correction.Correction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + correctionColumns + `
		FROM corrections
		WHERE status = 'pending'
		ORDER BY created_at, id
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending corrections: %w", err)
	}
	return collectCorrections(rows)
}

// Review implements correction.CorrectionRepository.
func (r *correctionRepository) Review(ctx context.Context, c correction.Correction) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE corrections
		SET status = $2,
		    admin_id = $3,
		    previous_value = $4,
		    reviewed_by = $5,
		    reviewed_at = $6,
		    review_note = $7
		WHERE id = $1
		  AND status = 'pending'
	`

	tag, err := q.Exec(ctx, query,
		c.ID,
		c.Status,
		c.AdminID,
		c.PreviousValue,
		c.ReviewedBy,
		c.ReviewedAt,
		c.ReviewNote,
	)
	if err != nil {
		return fmt.Errorf("failed to review correction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return correction.ErrCorrectionAlreadyReviewed
	}
	return nil
}

func NewCorrectionRepository(db *database.DB) correction.CorrectionRepository {
	return &correctionRepository{db: db}
}
