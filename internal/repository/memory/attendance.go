package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/attendance"
)

type eventRepository struct {
	store *Store
}

func NewEventRepository(s *Store) attendance.EventRepository {
	return &eventRepository{store: s}
}

// eventLess orders like the SQL store: timestamp, then kind, then id.
func eventLess(a, b attendance.TimeEvent) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.Before(b.Timestamp)
	}
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	return a.ID < b.ID
}

func (r *eventRepository) Create(ctx context.Context, event attendance.TimeEvent) (attendance.TimeEvent, error) {
	defer r.store.write(ctx)()

	if event.ID == "" {
		id, err := newID()
		if err != nil {
			return attendance.TimeEvent{}, fmt.Errorf("failed to generate event id: %w", err)
		}
		event.ID = id
	}
	event.Timestamp = event.Timestamp.UTC()
	event.CreatedAt = r.store.now()
	r.store.events[event.ID] = event
	return event, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (attendance.TimeEvent, error) {
	defer r.store.read(ctx)()

	e, ok := r.store.events[id]
	if !ok {
		return attendance.TimeEvent{}, attendance.ErrEventNotFound
	}
	return e, nil
}

func (r *eventRepository) GetByIDs(ctx context.Context, ids []string) ([]attendance.TimeEvent, error) {
	defer r.store.read(ctx)()

	var out []attendance.TimeEvent
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if e, ok := r.store.events[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *eventRepository) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]attendance.TimeEvent, error) {
	defer r.store.read(ctx)()

	var out []attendance.TimeEvent
	for _, e := range r.store.events {
		if e.UserID == userID && !e.Timestamp.Before(from) && e.Timestamp.Before(to) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return eventLess(out[i], out[j]) })
	return out, nil
}

func (r *eventRepository) GetAdjacent(ctx context.Context, userID string, at time.Time, exceptID string) (*attendance.TimeEvent, *attendance.TimeEvent, error) {
	defer r.store.read(ctx)()

	var prev, next *attendance.TimeEvent
	for _, e := range r.store.events {
		if e.UserID != userID || e.ID == exceptID {
			continue
		}
		e := e
		if e.Timestamp.After(at) {
			if next == nil || eventLess(e, *next) {
				next = &e
			}
		} else if prev == nil || eventLess(*prev, e) {
			prev = &e
		}
	}
	return prev, next, nil
}

func (r *eventRepository) Update(ctx context.Context, event attendance.TimeEvent) error {
	defer r.store.write(ctx)()

	stored, ok := r.store.events[event.ID]
	if !ok {
		return attendance.ErrEventNotFound
	}
	stored.Timestamp = event.Timestamp.UTC()
	stored.Kind = event.Kind
	stored.Modified = event.Modified
	stored.LastModifiedAt = event.LastModifiedAt
	stored.ModifiedByAdminID = event.ModifiedByAdminID
	stored.LastCorrectionID = event.LastCorrectionID
	r.store.events[event.ID] = stored
	return nil
}

// LockUser is a no-op: a transaction on the store already excludes every other writer.
func (r *eventRepository) LockUser(ctx context.Context, userID string) error {
	return nil
}
