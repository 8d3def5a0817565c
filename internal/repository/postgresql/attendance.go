package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type eventRepository struct {
	db *database.DB
}

const eventColumns = `
	id, user_id, occurred_at, kind, simulated, location,
	modified, last_modified_at, modified_by_admin_id, last_correction_id, created_at`

func scanEvent(row pgx.Row) (attendance.TimeEvent, error) {
	var e attendance.TimeEvent
	err := row.Scan(
		&e.ID, &e.UserID, &e.Timestamp, &e.Kind, &e.Simulated, &e.Location,
		&e.Modified, &e.LastModifiedAt, &e.ModifiedByAdminID, &e.LastCorrectionID, &e.CreatedAt,
	)
	return e, err
}

func collectEvents(rows pgx.Rows) ([]attendance.TimeEvent, error) {
	defer rows.Close()

	var events []attendance.TimeEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate time events: %w", err)
	}
	return events, nil
}

// wellFormedIDs drops ids that could never match a uuid column.
func wellFormedIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if uuid.Validate(id) == nil {
			out = append(out, id)
		}
	}
	return out
}

// Create implements attendance.EventRepository.
func (r *eventRepository) Create(ctx context.Context, event attendance.TimeEvent) (attendance.TimeEvent, error) {
	q := GetQuerier(ctx, r.db)

	if event.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return attendance.TimeEvent{}, fmt.Errorf("failed to generate event id: %w", err)
		}
		event.ID = id.String()
	}

	query := `
		INSERT INTO time_events (id, user_id, occurred_at, kind, simulated, location)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + eventColumns

	created, err := scanEvent(q.QueryRow(ctx, query,
		event.ID,
		event.UserID,
		event.Timestamp.UTC(),
		event.Kind,
		event.Simulated,
		event.Location,
	))
	if err != nil {
		return attendance.TimeEvent{}, fmt.Errorf("failed to create time event: %w", err)
	}
	return created, nil
}

// GetByID implements attendance.EventRepository.
func (r *eventRepository) GetByID(ctx context.Context, id string) (attendance.TimeEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + eventColumns + ` FROM time_events WHERE id = $1`

	e, err := scanEvent(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || database.IsInvalidInput(err) {
			return attendance.TimeEvent{}, attendance.ErrEventNotFound
		}
		return attendance.TimeEvent{}, fmt.Errorf("failed to get time event by ID: %w", err)
	}
	return e, nil
}

// GetByIDs implements attendance.EventRepository.
func (r *eventRepository) GetByIDs(ctx context.Context, ids []string) ([]attendance.TimeEvent, error) {
	ids = wellFormedIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + eventColumns + ` FROM time_events WHERE id = ANY($1::uuid[])`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get time events by IDs: %w", err)
	}
	return collectEvents(rows)
}

// ListByUser implements attendance.EventRepository.
func (r *eventRepository) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]attendance.TimeEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + eventColumns + `
		FROM time_events
		WHERE user_id = $1
		  AND occurred_at >= $2
		  AND occurred_at < $3
		ORDER BY occurred_at, kind, id
	`

	rows, err := q.Query(ctx, query, userID, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to list time events: %w", err)
	}
	return collectEvents(rows)
}

// GetAdjacent implements attendance.EventRepository.
func (r *eventRepository) GetAdjacent(ctx context.Context, userID string, at time.Time, exceptID string) (*attendance.TimeEvent, *attendance.TimeEvent, error) {
	q := GetQuerier(ctx, r.db)

	// clock_out sorts after clock_in at the same instant
	prevQuery := `
		SELECT ` + eventColumns + `
		FROM time_events
		WHERE user_id = $1
		  AND occurred_at <= $2
		  AND id::text <> $3
		ORDER BY occurred_at DESC, kind DESC, id DESC
		LIMIT 1
	`
	nextQuery := `
		SELECT ` + eventColumns + `
		FROM time_events
		WHERE user_id = $1
		  AND occurred_at > $2
		  AND id::text <> $3
		ORDER BY occurred_at, kind, id
		LIMIT 1
	`

	prev, err := optionalEvent(q.QueryRow(ctx, prevQuery, userID, at.UTC(), exceptID))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get previous time event: %w", err)
	}
	next, err := optionalEvent(q.QueryRow(ctx, nextQuery, userID, at.UTC(), exceptID))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get next time event: %w", err)
	}
	return prev, next, nil
}

// optionalEvent scans a single-row lookup, mapping no row to nil.
func optionalEvent(row pgx.Row) (*attendance.TimeEvent, error) {
	e, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) || database.IsInvalidInput(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Update implements attendance.EventRepository.
func (r *eventRepository) Update(ctx context.Context, event attendance.TimeEvent) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_events
		SET occurred_at = $2,
		    kind = $3,
		    modified = $4,
		    last_modified_at = $5,
		    modified_by_admin_id = $6,
		    last_correction_id = $7
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		event.ID,
		event.Timestamp.UTC(),
		event.Kind,
		event.Modified,
		event.LastModifiedAt,
		event.ModifiedByAdminID,
		event.LastCorrectionID,
	)
	if err != nil {
		return fmt.Errorf("failed to update time event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrEventNotFound
	}
	return nil
}

// LockUser implements attendance.EventRepository.
func (r *eventRepository) LockUser(ctx context.Context, userID string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, userID); err != nil {
		return fmt.Errorf("failed to lock user events: %w", err)
	}
	return nil
}

func NewEventRepository(db *database.DB) attendance.EventRepository {
	return &eventRepository{db: db}
}
