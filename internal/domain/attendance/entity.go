package attendance

import (
	"time"
)

type Kind string

const (
	KindClockIn  Kind = "clock_in"
	KindClockOut Kind = "clock_out"
)

func (k Kind) IsValid() bool {
	return k == KindClockIn || k == KindClockOut
}

type Location string

const (
	LocationOffice Location = "office"
	LocationRemote Location = "remote"
)

func (l Location) IsValid() bool {
	return l == LocationOffice || l == LocationRemote
}

// TimeEvent is a single clock action. Events are never deleted; the correction
// ledger is the only writer allowed to change Timestamp or Kind after creation.
type TimeEvent struct {
	ID                string
	UserID            string
	Timestamp         time.Time
	Kind              Kind
	Simulated         bool
	Location          *Location
	Modified          bool
	LastModifiedAt    *time.Time
	ModifiedByAdminID *string
	LastCorrectionID  *string
	CreatedAt         time.Time
}

// SequenceAnomaly reports why event cannot sit between prev and next in the
// user's timeline, or nil when it pairs cleanly. Either neighbour may be nil.
func SequenceAnomaly(prev *TimeEvent, event TimeEvent, next *TimeEvent) error {
	open := prev != nil && prev.Kind == KindClockIn
	switch {
	case event.Kind == KindClockIn && open:
		return ErrSessionAlreadyOpen
	case event.Kind == KindClockOut && !open:
		return ErrNoOpenSession
	case next != nil && next.Kind == event.Kind:
		// A later clock-in would abandon this session, or a later clock-out loses its clock-in
		return ErrBreaksLaterPair
	}
	return nil
}

// ModifiedSince reports whether the event was corrected after t.
func (e *TimeEvent) ModifiedSince(t time.Time) bool {
	return e.LastModifiedAt != nil && e.LastModifiedAt.After(t)
}
