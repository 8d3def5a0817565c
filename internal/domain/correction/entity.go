package correction

import (
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/attendance"
)

// Source tags how a correction entered the ledger.
type Source string

const (
	SourceAdminApplied  Source = "admin_applied"
	SourceUserRequested Source = "user_requested"
)

type Field string

const (
	FieldTimestamp Field = "timestamp"
	FieldKind      Field = "kind"
	FieldMultiple  Field = "multiple"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// EventValues holds the correctable fields of a time event. A nil field was not part of the change.
type EventValues struct {
	Timestamp *time.Time       `json:"timestamp,omitempty"`
	Kind      *attendance.Kind `json:"kind,omitempty"`
}

// ValuesOf captures the fields of e named by field.
func ValuesOf(e attendance.TimeEvent, field Field) EventValues {
	var v EventValues
	if field == FieldTimestamp || field == FieldMultiple {
		ts := e.Timestamp
		v.Timestamp = &ts
	}
	if field == FieldKind || field == FieldMultiple {
		kind := e.Kind
		v.Kind = &kind
	}
	return v
}

// Matches reports whether every field set in v equals the event's current value.
func (v EventValues) Matches(e attendance.TimeEvent) bool {
	if v.Timestamp != nil && !v.Timestamp.Equal(e.Timestamp) {
		return false
	}
	if v.Kind != nil && *v.Kind != e.Kind {
		return false
	}
	return true
}

// ApplyTo writes the fields set in v onto e.
func (v EventValues) ApplyTo(e *attendance.TimeEvent) {
	if v.Timestamp != nil {
		e.Timestamp = v.Timestamp.UTC()
	}
	if v.Kind != nil {
		e.Kind = *v.Kind
	}
}

// Correction is one audited change to a time event. Records are append-only:
// a pending record moves to approved or rejected once and is never edited after.
type Correction struct {
	ID            string
	EventID       string
	UserID        string
	AdminID       *string
	Source        Source
	Field         Field
	PreviousValue EventValues
	NewValue      EventValues
	Reason        string
	Status        Status
	ReviewedBy    *string
	ReviewedAt    *time.Time
	ReviewNote    *string
	CreatedAt     time.Time
}

func (c *Correction) IsPending() bool {
	return c.Status == StatusPending
}

// Changes is a requested change set. Only fields that differ from the event's
// current value count as changes.
type Changes struct {
	Timestamp *time.Time
	Kind      *attendance.Kind
}

// Against drops the fields of c that already match e.
func (c Changes) Against(e attendance.TimeEvent) Changes {
	var out Changes
	if c.Timestamp != nil && !c.Timestamp.Equal(e.Timestamp) {
		ts := c.Timestamp.UTC()
		out.Timestamp = &ts
	}
	if c.Kind != nil && *c.Kind != e.Kind {
		kind := *c.Kind
		out.Kind = &kind
	}
	return out
}

func (c Changes) IsEmpty() bool {
	return c.Timestamp == nil && c.Kind == nil
}

// Field names the field changed, or FieldMultiple when both are.
func (c Changes) Field() Field {
	switch {
	case c.Timestamp != nil && c.Kind != nil:
		return FieldMultiple
	case c.Kind != nil:
		return FieldKind
	default:
		return FieldTimestamp
	}
}

func (c Changes) Values() EventValues {
	return EventValues{Timestamp: c.Timestamp, Kind: c.Kind}
}
