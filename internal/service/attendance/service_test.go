package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/worktime"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/lock"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.March, 6, 10, 30, 0, 0, time.UTC)

type fixture struct {
	svc    attendance.AttendanceService
	events attendance.EventRepository
	worker user.User
	admin  user.User
}

func newFixture(t *testing.T, policy worktime.Policy) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	store.Now = func() time.Time { return testNow }
	users := memory.NewUserRepository(store)
	events := memory.NewEventRepository(store)

	worker, err := users.Create(ctx, user.User{FullName: "Ana Worker", Email: "ana@example.com"})
	require.NoError(t, err)
	admin, err := users.Create(ctx, user.User{FullName: "Bo Admin", Email: "bo@example.com", IsAdmin: true})
	require.NoError(t, err)

	svc := NewAttendanceService(events, users, memory.NewTransactor(store), lock.NewLocalLocker(), Config{
		Policy: policy,
		Now:    func() time.Time { return testNow },
	})
	return &fixture{svc: svc, events: events, worker: worker, admin: admin}
}

func (f *fixture) workerActor() user.Actor { return user.Actor{UserID: f.worker.ID} }
func (f *fixture) adminActor() user.Actor  { return user.Actor{UserID: f.admin.ID, IsAdmin: true} }

func strPtr(s string) *string { return &s }

func TestAttendanceService_RecordEvent_SelfUsesNow(t *testing.T) {
	f := newFixture(t, worktime.PolicyPermissive)
	ctx := context.Background()

	resp, err := f.svc.RecordEvent(ctx, f.workerActor(), attendance.RecordEventRequest{
		UserID:   f.worker.ID,
		Kind:     string(attendance.KindClockIn),
		Location: strPtr("remote"),
	})
	require.NoError(t, err)
	assert.Equal(t, testNow.Format(time.RFC3339), resp.Timestamp)
	assert.Equal(t, "clock_in", resp.Kind)
	require.NotNil(t, resp.Location)
	assert.Equal(t, "remote", *resp.Location)
	assert.False(t, resp.Simulated)
}

func TestAttendanceService_RecordEvent_WorkerCannotBackdate(t *testing.T) {
	f := newFixture(t, worktime.PolicyPermissive)
	ctx := context.Background()

	_, err := f.svc.RecordEvent(ctx, f.workerActor(), attendance.RecordEventRequest{
		UserID:    f.worker.ID,
		Kind:      string(attendance.KindClockIn),
		Timestamp: strPtr("2024-03-01T08:00:00Z"),
	})
	assert.ErrorIs(t, err, user.ErrAdminPrivilegeRequired)

	_, err = f.svc.RecordEvent(ctx, f.workerActor(), attendance.RecordEventRequest{
		UserID:    f.worker.ID,
		Kind:      string(attendance.KindClockIn),
		Simulated: true,
	})
	assert.ErrorIs(t, err, user.ErrAdminPrivilegeRequired)
}

func TestAttendanceService_RecordEvent_WorkerCannotRecordForOthers(t *testing.T) {
	f := newFixture(t, worktime.PolicyPermissive)

	_, err := f.svc.RecordEvent(context.Background(), f.workerActor(), attendance.RecordEventRequest{
		UserID: f.admin.ID,
		Kind:   string(attendance.KindClockIn),
	})
	assert.ErrorIs(t, err, user.ErrForbiddenUser)
}

func TestAttendanceService_RecordEvent_AdminExplicitTimestamp(t *testing.T) {
	f := newFixture(t, worktime.PolicyPermissive)

	resp, err := f.svc.RecordEvent(context.Background(), f.adminActor(), attendance.RecordEventRequest{
		UserID:    f.worker.ID,
		Kind:      string(attendance.KindClockIn),
		Timestamp: strPtr("2024-03-01T09:00:00+02:00"),
		Simulated: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01T07:00:00Z", resp.Timestamp)
	assert.True(t, resp.Simulated)
}

func TestAttendanceService_RecordEvent_UnknownUser(t *testing.T) {
	f := newFixture(t, worktime.PolicyPermissive)

	_, err := f.svc.RecordEvent(context.Background(), f.adminActor(), attendance.RecordEventRequest{
		UserID: "0190a0b0-0000-7000-8000-000000000000",
		Kind:   string(attendance.KindClockIn),
	})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestAttendanceService_RecordEvent_InvalidKind(t *testing.T) {
	f := newFixture(t, worktime.PolicyPermissive)

	_, err := f.svc.RecordEvent(context.Background(), f.workerActor(), attendance.RecordEventRequest{
		UserID: f.worker.ID,
		Kind:   "lunch",
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "kind", verrs[0].Field)
}

func TestAttendanceService_RecordEvent_PermissiveAcceptsUnpaired(t *testing.T) {
	f := newFixture(t, worktime.PolicyPermissive)
	ctx := context.Background()

	for _, kind := range []attendance.Kind{attendance.KindClockOut, attendance.KindClockIn, attendance.KindClockIn} {
		_, err := f.svc.RecordEvent(ctx, f.workerActor(), attendance.RecordEventRequest{
			UserID: f.worker.ID,
			Kind:   string(kind),
		})
		require.NoError(t, err)
	}
}

func TestAttendanceService_RecordEvent_StrictRejectsUnpaired(t *testing.T) {
	f := newFixture(t, worktime.PolicyStrict)
	ctx := context.Background()

	_, err := f.svc.RecordEvent(ctx, f.workerActor(), attendance.RecordEventRequest{
		UserID: f.worker.ID,
		Kind:   string(attendance.KindClockOut),
	})
	assert.ErrorIs(t, err, attendance.ErrNoOpenSession)

	_, err = f.svc.RecordEvent(ctx, f.workerActor(), attendance.RecordEventRequest{
		UserID: f.worker.ID,
		Kind:   string(attendance.KindClockIn),
	})
	require.NoError(t, err)

	_, err = f.svc.RecordEvent(ctx, f.workerActor(), attendance.RecordEventRequest{
		UserID: f.worker.ID,
		Kind:   string(attendance.KindClockIn),
	})
	assert.ErrorIs(t, err, attendance.ErrSessionAlreadyOpen)

	events, err := f.events.ListByUser(ctx, f.worker.ID, testNow.Add(-time.Hour), testNow.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestAttendanceService_RecordEvent_StrictChecksLaterEvents(t *testing.T) {
	f := newFixture(t, worktime.PolicyStrict)
	ctx := context.Background()

	record := func(kind attendance.Kind, ts string) error {
		_, err := f.svc.RecordEvent(ctx, f.adminActor(), attendance.RecordEventRequest{
			UserID:    f.worker.ID,
			Kind:      string(kind),
			Timestamp: strPtr(ts),
		})
		return err
	}

	require.NoError(t, record(attendance.KindClockIn, "2024-03-05T09:00:00Z"))
	require.NoError(t, record(attendance.KindClockOut, "2024-03-05T17:00:00Z"))

	// Each would leave an existing event without a partner
	assert.ErrorIs(t, record(attendance.KindClockIn, "2024-03-05T08:00:00Z"), attendance.ErrBreaksLaterPair)
	assert.ErrorIs(t, record(attendance.KindClockOut, "2024-03-05T12:00:00Z"), attendance.ErrBreaksLaterPair)

	// A full pair before the first session still fits
	require.NoError(t, record(attendance.KindClockIn, "2024-03-04T09:00:00Z"))
	require.NoError(t, record(attendance.KindClockOut, "2024-03-04T17:00:00Z"))
}

func TestAttendanceService_RecordEvent_PermissiveAcceptsOutOfSequence(t *testing.T) {
	f := newFixture(t, worktime.PolicyPermissive)
	ctx := context.Background()

	for _, ts := range []string{"2024-03-05T09:00:00Z", "2024-03-05T08:00:00Z"} {
		_, err := f.svc.RecordEvent(ctx, f.adminActor(), attendance.RecordEventRequest{
			UserID:    f.worker.ID,
			Kind:      string(attendance.KindClockIn),
			Timestamp: strPtr(ts),
		})
		require.NoError(t, err)
	}
}

func TestAttendanceService_SimulateEvents_WeekdaysOnly(t *testing.T) {
	f := newFixture(t, worktime.PolicyStrict)
	ctx := context.Background()

	// Fri 1 March to Mon 4 March 2024
	resp, err := f.svc.SimulateEvents(ctx, f.adminActor(), attendance.SimulateEventsRequest{
		UserID:       f.worker.ID,
		StartDate:    "2024-03-01",
		EndDate:      "2024-03-04",
		ClockInTime:  "09:00",
		ClockOutTime: "17:30",
	})
	require.NoError(t, err)
	require.Len(t, resp, 4)
	assert.Equal(t, "2024-03-01T09:00:00Z", resp[0].Timestamp)
	assert.Equal(t, "2024-03-01T17:30:00Z", resp[1].Timestamp)
	assert.Equal(t, "2024-03-04T09:00:00Z", resp[2].Timestamp)
	for _, e := range resp {
		assert.True(t, e.Simulated)
	}
}

func TestAttendanceService_SimulateEvents_AdminOnly(t *testing.T) {
	f := newFixture(t, worktime.PolicyPermissive)

	_, err := f.svc.SimulateEvents(context.Background(), f.workerActor(), attendance.SimulateEventsRequest{
		UserID:       f.worker.ID,
		StartDate:    "2024-03-01",
		EndDate:      "2024-03-01",
		ClockInTime:  "09:00",
		ClockOutTime: "17:00",
	})
	assert.ErrorIs(t, err, user.ErrAdminPrivilegeRequired)
}

func TestAttendanceService_ListEvents_DefaultsToCurrentMonth(t *testing.T) {
	f := newFixture(t, worktime.PolicyPermissive)
	ctx := context.Background()

	for _, ts := range []string{"2024-02-29T09:00:00Z", "2024-03-01T09:00:00Z", "2024-03-31T23:59:00Z", "2024-04-01T00:00:00Z"} {
		_, err := f.svc.RecordEvent(ctx, f.adminActor(), attendance.RecordEventRequest{
			UserID:    f.worker.ID,
			Kind:      string(attendance.KindClockIn),
			Timestamp: strPtr(ts),
		})
		require.NoError(t, err)
	}

	list, err := f.svc.ListEvents(ctx, f.workerActor(), f.worker.ID, attendance.RangeFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2024-03-01T09:00:00Z", list[0].Timestamp)

	list, err = f.svc.ListEvents(ctx, f.workerActor(), f.worker.ID, attendance.RangeFilter{From: "2024-02-29", To: "2024-02-29"})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = f.svc.ListEvents(ctx, f.workerActor(), f.admin.ID, attendance.RangeFilter{})
	assert.ErrorIs(t, err, user.ErrForbiddenUser)
}
