package attendance

import (
	"context"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/user"
)

// AttendanceService records clock events and exposes the raw event stream
type AttendanceService interface {
	// RecordEvent appends a clock-in or clock-out
	RecordEvent(ctx context.Context, actor user.Actor, req RecordEventRequest) (TimeEventResponse, error)

	// SimulateEvents bulk-creates simulated clock pairs for a user (admin)
	SimulateEvents(ctx context.Context, actor user.Actor, req SimulateEventsRequest) ([]TimeEventResponse, error)

	// ListEvents returns a user's events in a date range
	ListEvents(ctx context.Context, actor user.Actor, userID string, filter RangeFilter) ([]TimeEventResponse, error)
}
