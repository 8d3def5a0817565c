package correction

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/attendance"
)

// Reconstruct returns the event as it was before any approved correction by
// undoing the approved records newest first. Pending and rejected records never
// touched the event and are skipped.
func Reconstruct(current attendance.TimeEvent, history []Correction) attendance.TimeEvent {
	approved := make([]Correction, 0, len(history))
	for _, c := range history {
		if c.EventID == current.ID && c.Status == StatusApproved {
			approved = append(approved, c)
		}
	}
	sort.SliceStable(approved, func(i, j int) bool {
		return approved[i].AppliedAt().After(approved[j].AppliedAt())
	})

	original := current
	for _, c := range approved {
		c.PreviousValue.ApplyTo(&original)
	}
	return original
}

// AppliedAt is when an approved correction mutated its event.
func (c *Correction) AppliedAt() time.Time {
	if c.ReviewedAt != nil {
		return *c.ReviewedAt
	}
	return c.CreatedAt
}
