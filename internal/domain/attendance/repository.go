package attendance

import (
	"context"
	"time"
)

// EventRepository is the append-only event store.
type EventRepository interface {
	Create(ctx context.Context, event TimeEvent) (TimeEvent, error)

	GetByID(ctx context.Context, id string) (TimeEvent, error)

	// GetByIDs returns the events that exist among ids, in no particular order
	GetByIDs(ctx context.Context, ids []string) ([]TimeEvent, error)

	// ListByUser returns events with from <= timestamp < to, ordered by timestamp
	ListByUser(ctx context.Context, userID string, from, to time.Time) ([]TimeEvent, error)

	// GetAdjacent returns the latest event at or before at and the earliest event after it,
	// ignoring exceptID. Either is nil when the user has none on that side.
	GetAdjacent(ctx context.Context, userID string, at time.Time, exceptID string) (prev, next *TimeEvent, err error)

	// Update overwrites the mutable fields of an event. Only the correction ledger calls it.
	Update(ctx context.Context, event TimeEvent) error

	// LockUser serializes writers of one user's events until the surrounding transaction ends
	LockUser(ctx context.Context, userID string) error
}
