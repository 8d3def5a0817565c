package report

import (
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/worktime"
)

// BuildStatistics summarises a month. days must hold one entry per calendar day of the period.
func BuildStatistics(rec worktime.Reconciliation, days []worktime.DailySummary, a worktime.Assessment, t worktime.Thresholds) Statistics {
	var (
		stats    Statistics
		expected time.Duration
		total    time.Duration
	)
	for _, d := range days {
		if !d.Date.Before(a.From) && d.Date.Before(a.To) {
			expected += t.ExpectedOn(d.Date)
			if d.Worked {
				stats.WorkedDays++
			}
			stats.SessionCount += d.SessionCount
			stats.WorkedMinutes += int64(d.WorkedDuration / time.Minute)
			stats.BreakBonusMinutes += int64(d.BreakBonus / time.Minute)
			total += d.TotalDuration
			for _, s := range d.Sessions {
				if !s.Closed {
					stats.OpenSessionCount++
				}
			}
		}
	}
	for _, w := range a.Weeks {
		if w.ExceedsCap {
			stats.WeeksOverCap++
		}
	}

	stats.AnomalyCount = len(rec.Anomalies)
	stats.TotalMinutes = int64(total / time.Minute)
	stats.TotalHours = worktime.Hours(total)
	stats.ExpectedHours = worktime.Hours(expected)
	stats.OvertimeHours = worktime.Hours(a.PeriodOvertime)
	stats.YearToDateOvertimeHours = worktime.Hours(a.YearToDateOvertime)
	stats.WarningLevel = string(a.WarningLevel)
	return stats
}

// BuildSnapshot freezes the month: statistics, one entry per calendar day, and the exact events used.
func BuildSnapshot(events []attendance.TimeEvent, rec worktime.Reconciliation, days []worktime.DailySummary, a worktime.Assessment, t worktime.Thresholds, loc *time.Location) Snapshot {
	snap := Snapshot{
		Timezone:   loc.String(),
		Statistics: BuildStatistics(rec, days, a, t),
		Days:       make([]DaySnapshot, 0, len(days)),
		Events:     make([]EventSnapshot, 0, len(events)),
	}

	for _, d := range days {
		day := DaySnapshot{
			Date:              d.Date.Format(worktime.DateLayout),
			Worked:            d.Worked,
			SessionCount:      d.SessionCount,
			WorkedMinutes:     int64(d.WorkedDuration / time.Minute),
			BreakBonusMinutes: int64(d.BreakBonus / time.Minute),
			TotalMinutes:      int64(d.TotalDuration / time.Minute),
		}
		for _, s := range d.Sessions {
			day.Sessions = append(day.Sessions, SessionSnapshot{
				Start:   s.Start.UTC(),
				End:     utcPtr(s.End),
				Minutes: int64(s.Duration / time.Minute),
				Closed:  s.Closed,
			})
		}
		snap.Days = append(snap.Days, day)
	}

	for _, e := range events {
		snap.Events = append(snap.Events, EventSnapshot{
			ID:        e.ID,
			Timestamp: e.Timestamp.UTC(),
			Kind:      e.Kind,
			Location:  e.Location,
			Simulated: e.Simulated,
			Modified:  e.Modified,
		})
	}
	return snap
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
