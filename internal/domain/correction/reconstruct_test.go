package correction

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T {
	return &v
}

func TestReconstruct_UndoesApprovedChainNewestFirst(t *testing.T) {
	original := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	first := time.Date(2024, 3, 4, 8, 30, 0, 0, time.UTC)
	second := time.Date(2024, 3, 4, 8, 45, 0, 0, time.UTC)

	current := attendance.TimeEvent{
		ID:        "e1",
		Timestamp: second,
		Kind:      attendance.KindClockOut,
	}
	history := []Correction{
		{
			ID: "c1", EventID: "e1", Status: StatusApproved, Field: FieldTimestamp,
			PreviousValue: EventValues{Timestamp: ptr(original)},
			NewValue:      EventValues{Timestamp: ptr(first)},
			ReviewedAt:    ptr(time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)),
		},
		{
			ID: "c3", EventID: "e1", Status: StatusRejected, Field: FieldTimestamp,
			PreviousValue: EventValues{Timestamp: ptr(second)},
			NewValue:      EventValues{Timestamp: ptr(original.Add(time.Hour))},
		},
		{
			ID: "c2", EventID: "e1", Status: StatusApproved, Field: FieldMultiple,
			PreviousValue: EventValues{Timestamp: ptr(first), Kind: ptr(attendance.KindClockIn)},
			NewValue:      EventValues{Timestamp: ptr(second), Kind: ptr(attendance.KindClockOut)},
			ReviewedAt:    ptr(time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)),
		},
	}

	got := Reconstruct(current, history)

	assert.Equal(t, original, got.Timestamp)
	assert.Equal(t, attendance.KindClockIn, got.Kind)
	assert.Equal(t, second, current.Timestamp)
}

func TestReconstruct_NoHistory(t *testing.T) {
	current := attendance.TimeEvent{ID: "e1", Timestamp: time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC), Kind: attendance.KindClockIn}

	assert.Equal(t, current, Reconstruct(current, nil))
}

func TestChanges_Against(t *testing.T) {
	ts := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	event := attendance.TimeEvent{ID: "e1", Timestamp: ts, Kind: attendance.KindClockIn}

	t.Run("identical values are no change", func(t *testing.T) {
		c := Changes{Timestamp: ptr(ts), Kind: ptr(attendance.KindClockIn)}.Against(event)
		assert.True(t, c.IsEmpty())
	})

	t.Run("both fields differ", func(t *testing.T) {
		c := Changes{Timestamp: ptr(ts.Add(time.Minute)), Kind: ptr(attendance.KindClockOut)}.Against(event)
		assert.Equal(t, FieldMultiple, c.Field())
	})

	t.Run("only kind differs", func(t *testing.T) {
		c := Changes{Timestamp: ptr(ts), Kind: ptr(attendance.KindClockOut)}.Against(event)
		assert.Nil(t, c.Timestamp)
		assert.Equal(t, FieldKind, c.Field())
	})
}

func TestEventValues_MatchesAndApply(t *testing.T) {
	ts := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	event := attendance.TimeEvent{ID: "e1", Timestamp: ts, Kind: attendance.KindClockIn}

	snapshot := ValuesOf(event, FieldTimestamp)
	assert.True(t, snapshot.Matches(event))
	assert.Nil(t, snapshot.Kind)

	EventValues{Kind: ptr(attendance.KindClockOut)}.ApplyTo(&event)
	assert.True(t, snapshot.Matches(event))
	assert.False(t, ValuesOf(attendance.TimeEvent{Kind: attendance.KindClockIn}, FieldKind).Matches(event))
}
