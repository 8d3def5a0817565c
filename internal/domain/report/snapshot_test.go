package report

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/worktime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSnapshot(t *testing.T) {
	loc := time.UTC
	thresholds := worktime.Thresholds{
		ExpectedDaily:  8 * time.Hour,
		ExpectedFriday: 8 * time.Hour,
		WeeklyCap:      worktime.DefaultWeeklyCap,
		YearlyCap:      worktime.DefaultYearlyCap,
	}
	events := []attendance.TimeEvent{
		{ID: "e1", Timestamp: time.Date(2024, 2, 5, 8, 30, 0, 0, loc), Kind: attendance.KindClockIn},
		{ID: "e2", Timestamp: time.Date(2024, 2, 5, 17, 45, 0, 0, loc), Kind: attendance.KindClockOut},
		{ID: "e3", Timestamp: time.Date(2024, 2, 6, 18, 0, 0, 0, loc), Kind: attendance.KindClockOut},
	}
	from, to := PeriodBounds(2024, 2, loc)

	rec, summaries := worktime.Summarize(events, worktime.PolicyPermissive, loc)
	days := worktime.FillCalendar(summaries, from, to, loc)
	assessment := worktime.EvaluateOvertime(summaries, from, to, thresholds)

	snap := BuildSnapshot(events, rec, days, assessment, thresholds, loc)

	require.Len(t, snap.Days, 29)
	assert.Len(t, snap.Events, 3)
	assert.Equal(t, "UTC", snap.Timezone)

	stats := snap.Statistics
	assert.Equal(t, 1, stats.WorkedDays)
	assert.Equal(t, 1, stats.SessionCount)
	assert.Equal(t, 1, stats.AnomalyCount)
	assert.Equal(t, int64(570), stats.TotalMinutes)
	assert.Equal(t, "9.5", stats.TotalHours.String())
	assert.Equal(t, "1.5", stats.OvertimeHours.String())
	// February 2024 has 21 weekdays
	assert.Equal(t, "168", stats.ExpectedHours.String())
	assert.Equal(t, string(worktime.WarningWarning), stats.WarningLevel)

	worked := snap.Days[4]
	assert.Equal(t, "2024-02-05", worked.Date)
	assert.True(t, worked.Worked)
	assert.Equal(t, int64(15), worked.BreakBonusMinutes)
	require.Len(t, worked.Sessions, 1)
	assert.True(t, worked.Sessions[0].Closed)
}
