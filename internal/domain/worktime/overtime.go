package worktime

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/user"
)

const (
	DefaultWeeklyCap = 40 * time.Hour
	DefaultYearlyCap = 80 * time.Hour
)

// Thresholds holds a user's expected working time plus the statutory caps.
// Weekends expect zero hours.
type Thresholds struct {
	ExpectedDaily  time.Duration
	ExpectedFriday time.Duration
	WeeklyCap      time.Duration
	YearlyCap      time.Duration
}

// ForUser overrides the expected hours with the user's own values where set.
func (t Thresholds) ForUser(u user.User) Thresholds {
	out := t
	if u.ExpectedDailyMinutes != nil {
		out.ExpectedDaily = time.Duration(*u.ExpectedDailyMinutes) * time.Minute
	}
	if u.FridayExpectedMinutes != nil {
		out.ExpectedFriday = time.Duration(*u.FridayExpectedMinutes) * time.Minute
	}
	return out
}

func (t Thresholds) ExpectedOn(date time.Time) time.Duration {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return 0
	case time.Friday:
		return t.ExpectedFriday
	default:
		return t.ExpectedDaily
	}
}

// WeekStart returns local midnight of the Monday opening the ISO week of date.
func WeekStart(date time.Time) time.Time {
	offset := (int(date.Weekday()) + 6) % 7
	return time.Date(date.Year(), date.Month(), date.Day()-offset, 0, 0, 0, 0, date.Location())
}

// EvaluationWindow returns the span of daily summaries EvaluateOvertime needs
// for the period [from, to): every ISO week the period touches and the calendar
// year up to the period end.
func EvaluationWindow(from, to time.Time) (time.Time, time.Time) {
	last := to.AddDate(0, 0, -1)
	start := WeekStart(from)
	if yearStart := time.Date(last.Year(), 1, 1, 0, 0, 0, 0, last.Location()); yearStart.Before(start) {
		start = yearStart
	}
	end := WeekStart(last).AddDate(0, 0, 7)
	return start, end
}

// EvaluateOvertime compares summaries against the thresholds for the period
// [from, to). Summaries outside the period only count toward the weekly totals
// of the weeks it touches and the year-to-date figure.
func EvaluateOvertime(summaries []DailySummary, from, to time.Time, t Thresholds) Assessment {
	a := Assessment{From: from, To: to}

	last := to.AddDate(0, 0, -1)
	yearStart := time.Date(last.Year(), 1, 1, 0, 0, 0, 0, last.Location())
	firstWeek := WeekStart(from)
	weekEnd := WeekStart(last).AddDate(0, 0, 7)

	weeks := make(map[string]*WeekTotal)
	for _, d := range summaries {
		var daily time.Duration
		if over := d.TotalDuration - t.ExpectedOn(d.Date); over > 0 {
			daily = over
		}

		if !d.Date.Before(from) && d.Date.Before(to) {
			a.Days = append(a.Days, DayOvertime{
				Date:     d.Date,
				Total:    d.TotalDuration,
				Expected: t.ExpectedOn(d.Date),
				Overtime: daily,
			})
			a.PeriodOvertime += daily
		}

		if !d.Date.Before(yearStart) && d.Date.Before(to) {
			a.YearToDateOvertime += daily
		}

		if d.Date.Before(firstWeek) || !d.Date.Before(weekEnd) {
			continue
		}
		ws := WeekStart(d.Date)
		key := ws.Format(DateLayout)
		w, ok := weeks[key]
		if !ok {
			year, week := ws.ISOWeek()
			w = &WeekTotal{Year: year, Week: week, Start: ws}
			weeks[key] = w
		}
		w.Total += d.TotalDuration
	}

	for _, w := range weeks {
		if w.Total > t.WeeklyCap {
			w.ExceedsCap = true
			w.Overtime = w.Total - t.WeeklyCap
			a.WeeklyOvertime += w.Overtime
		}
		a.Weeks = append(a.Weeks, *w)
	}
	sort.Slice(a.Weeks, func(i, j int) bool {
		return a.Weeks[i].Start.Before(a.Weeks[j].Start)
	})
	sort.Slice(a.Days, func(i, j int) bool {
		return a.Days[i].Date.Before(a.Days[j].Date)
	})

	a.YearlyCapExceeded = a.YearToDateOvertime > t.YearlyCap

	switch {
	case a.WeeklyOvertime > 0 || a.YearlyCapExceeded:
		a.WarningLevel = WarningCritical
	case a.PeriodOvertime > 0:
		a.WarningLevel = WarningWarning
	default:
		a.WarningLevel = WarningNone
	}
	return a
}
