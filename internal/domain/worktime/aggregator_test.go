package worktime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closed(start time.Time, d time.Duration) WorkSession {
	end := start.Add(d)
	return WorkSession{Start: start, End: &end, Duration: d, Closed: true}
}

func TestAggregate_PaidBreakBonus(t *testing.T) {
	cases := []struct {
		name      string
		sessions  []WorkSession
		wantTotal time.Duration
		wantBonus time.Duration
	}{
		{
			name:      "exactly six hours earns the bonus",
			sessions:  []WorkSession{closed(at(4, 9, 0), 6*time.Hour)},
			wantTotal: 6*time.Hour + 15*time.Minute,
			wantBonus: 15 * time.Minute,
		},
		{
			name:      "one second short earns nothing",
			sessions:  []WorkSession{closed(at(4, 9, 0), 6*time.Hour-time.Second)},
			wantTotal: 6*time.Hour - time.Second,
		},
		{
			name:      "clock in 08:30 clock out 17:45",
			sessions:  []WorkSession{closed(at(4, 8, 30), 9*time.Hour+15*time.Minute)},
			wantTotal: 9*time.Hour + 30*time.Minute,
			wantBonus: 15 * time.Minute,
		},
		{
			name: "bonus applies once per day across sessions",
			sessions: []WorkSession{
				closed(at(4, 8, 0), 4*time.Hour),
				closed(at(4, 13, 0), 4*time.Hour),
			},
			wantTotal: 8*time.Hour + 15*time.Minute,
			wantBonus: 15 * time.Minute,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			days := Aggregate(tc.sessions, time.UTC)

			require.Len(t, days, 1)
			assert.Equal(t, tc.wantTotal, days[0].TotalDuration)
			assert.Equal(t, tc.wantBonus, days[0].BreakBonus)
			assert.Equal(t, len(tc.sessions), days[0].SessionCount)
			assert.True(t, days[0].Worked)
		})
	}
}

func TestAggregate_SessionStaysOnStartDate(t *testing.T) {
	days := Aggregate([]WorkSession{closed(at(4, 22, 0), 4*time.Hour)}, time.UTC)

	require.Len(t, days, 1)
	assert.Equal(t, "2024-03-04", days[0].Date.Format(DateLayout))
	assert.Equal(t, 4*time.Hour, days[0].TotalDuration)
}

func TestAggregate_UsesLocalCalendarDate(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)

	days := Aggregate([]WorkSession{closed(at(4, 23, 0), time.Hour)}, loc)

	require.Len(t, days, 1)
	assert.Equal(t, "2024-03-05", days[0].Date.Format(DateLayout))
	assert.Equal(t, loc, days[0].Date.Location())
}

func TestAggregate_OpenSessionsDoNotCount(t *testing.T) {
	open := WorkSession{Start: at(4, 9, 0)}

	days := Aggregate([]WorkSession{open}, time.UTC)

	require.Len(t, days, 1)
	assert.Equal(t, time.Duration(0), days[0].TotalDuration)
	assert.False(t, days[0].Worked)
	assert.True(t, days[0].HasOpenSession)
	assert.Equal(t, 1, days[0].SessionCount)
}

func TestAggregate_OrdersByDate(t *testing.T) {
	days := Aggregate([]WorkSession{
		closed(at(6, 9, 0), time.Hour),
		closed(at(4, 9, 0), time.Hour),
		closed(at(5, 9, 0), time.Hour),
	}, time.UTC)

	require.Len(t, days, 3)
	assert.Equal(t, "2024-03-04", days[0].Date.Format(DateLayout))
	assert.Equal(t, "2024-03-05", days[1].Date.Format(DateLayout))
	assert.Equal(t, "2024-03-06", days[2].Date.Format(DateLayout))
}

func TestFillCalendar(t *testing.T) {
	days := Aggregate([]WorkSession{closed(at(5, 9, 0), time.Hour)}, time.UTC)

	filled := FillCalendar(days, at(4, 0, 0), at(8, 0, 0), time.UTC)

	require.Len(t, filled, 4)
	assert.False(t, filled[0].Worked)
	assert.True(t, filled[1].Worked)
	assert.Equal(t, "2024-03-07", filled[3].Date.Format(DateLayout))
}

func TestInRange(t *testing.T) {
	days := Aggregate([]WorkSession{
		closed(at(3, 9, 0), time.Hour),
		closed(at(4, 9, 0), time.Hour),
		closed(at(8, 9, 0), time.Hour),
	}, time.UTC)

	kept := InRange(days, at(4, 0, 0), at(8, 0, 0))

	require.Len(t, kept, 1)
	assert.Equal(t, "2024-03-04", kept[0].Date.Format(DateLayout))
}
