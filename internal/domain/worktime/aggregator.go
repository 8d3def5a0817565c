package worktime

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/attendance"
)

const (
	// PaidBreakThreshold is the closed-session total a day must reach to earn the paid break.
	PaidBreakThreshold = 6 * time.Hour
	// PaidBreakBonus is added once per qualifying day.
	PaidBreakBonus = 15 * time.Minute

	DateLayout = "2006-01-02"

	// PairingMargin is read on both sides of a range so sessions crossing its edges pair up.
	PairingMargin = 24 * time.Hour
)

// LocalDate returns local midnight of the calendar day containing t.
func LocalDate(t time.Time, loc *time.Location) time.Time {
	l := t.In(loc)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, loc)
}

// Aggregate groups sessions by the local date of their start. A session that
// runs past midnight is attributed whole to the day it started.
func Aggregate(sessions []WorkSession, loc *time.Location) []DailySummary {
	byDate := make(map[string]*DailySummary)
	for _, s := range sessions {
		day := LocalDate(s.Start, loc)
		key := day.Format(DateLayout)
		d, ok := byDate[key]
		if !ok {
			d = &DailySummary{Date: day}
			byDate[key] = d
		}
		d.Sessions = append(d.Sessions, s)
		d.SessionCount++
		if s.Closed {
			d.WorkedDuration += s.Duration
		} else {
			d.HasOpenSession = true
		}
	}

	out := make([]DailySummary, 0, len(byDate))
	for _, d := range byDate {
		if d.WorkedDuration >= PaidBreakThreshold {
			d.BreakBonus = PaidBreakBonus
		}
		d.TotalDuration = d.WorkedDuration + d.BreakBonus
		d.Worked = d.TotalDuration > 0
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// FillCalendar returns one summary per calendar day in [from, to), inserting
// empty summaries for days without sessions.
func FillCalendar(summaries []DailySummary, from, to time.Time, loc *time.Location) []DailySummary {
	byDate := make(map[string]DailySummary, len(summaries))
	for _, d := range summaries {
		byDate[d.Date.Format(DateLayout)] = d
	}

	var out []DailySummary
	for day := LocalDate(from, loc); day.Before(to); day = day.AddDate(0, 0, 1) {
		if d, ok := byDate[day.Format(DateLayout)]; ok {
			out = append(out, d)
			continue
		}
		out = append(out, DailySummary{Date: day})
	}
	return out
}

// Summarize reconciles events and aggregates the resulting sessions into daily summaries.
func Summarize(events []attendance.TimeEvent, policy Policy, loc *time.Location) (Reconciliation, []DailySummary) {
	r := Reconcile(events, policy)
	return r, Aggregate(r.Sessions, loc)
}

// InRange keeps the summaries dated within [from, to).
func InRange(summaries []DailySummary, from, to time.Time) []DailySummary {
	var out []DailySummary
	for _, d := range summaries {
		if !d.Date.Before(from) && d.Date.Before(to) {
			out = append(out, d)
		}
	}
	return out
}
