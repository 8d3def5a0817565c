package worktime

import (
	"time"
)

// Policy decides what happens to an open session when another clock-in arrives before its clock-out.
type Policy string

const (
	// PolicyPermissive keeps the abandoned session in the output as an open session.
	PolicyPermissive Policy = "permissive"
	// PolicyStrict drops the abandoned session and rejects such clock-ins at record time.
	PolicyStrict Policy = "strict"
)

func (p Policy) IsValid() bool {
	return p == PolicyPermissive || p == PolicyStrict
}

// WorkSession is a reconciled clock-in/clock-out pair. It is derived on every read and never stored.
type WorkSession struct {
	StartEventID string
	EndEventID   *string
	Start        time.Time
	End          *time.Time
	Duration     time.Duration
	Closed       bool
}

// ElapsedAt returns the duration to show for the session at now.
// Closed sessions return their stored duration.
func (s WorkSession) ElapsedAt(now time.Time) time.Duration {
	if s.Closed {
		return s.Duration
	}
	if now.Before(s.Start) {
		return 0
	}
	return now.Sub(s.Start)
}

type AnomalyKind string

const (
	AnomalyOrphanClockOut   AnomalyKind = "orphan_clock_out"
	AnomalyAbandonedSession AnomalyKind = "abandoned_session"
)

// Anomaly marks an event the reconciler could not pair.
type Anomaly struct {
	Kind    AnomalyKind
	EventID string
	At      time.Time
}

type Reconciliation struct {
	Sessions  []WorkSession
	Anomalies []Anomaly
	// Current is the open session still tracked at the end of the stream
	Current *WorkSession
}

// CurrentOn returns the open session only when it started on the local day
// containing day. An older open session is a forgotten clock-out, not live work.
func (r Reconciliation) CurrentOn(day time.Time, loc *time.Location) *WorkSession {
	if r.Current == nil || !LocalDate(r.Current.Start, loc).Equal(LocalDate(day, loc)) {
		return nil
	}
	return r.Current
}

type DailySummary struct {
	// Date is local midnight of the calendar day
	Date           time.Time
	Sessions       []WorkSession
	WorkedDuration time.Duration
	BreakBonus     time.Duration
	TotalDuration  time.Duration
	SessionCount   int
	Worked         bool
	HasOpenSession bool
}

type WarningLevel string

const (
	WarningNone     WarningLevel = "none"
	WarningWarning  WarningLevel = "warning"
	WarningCritical WarningLevel = "critical"
)

type DayOvertime struct {
	Date     time.Time
	Total    time.Duration
	Expected time.Duration
	Overtime time.Duration
}

type WeekTotal struct {
	Year       int
	Week       int
	Start      time.Time
	Total      time.Duration
	Overtime   time.Duration
	ExceedsCap bool
}

type Assessment struct {
	From time.Time
	To   time.Time

	Days           []DayOvertime
	PeriodOvertime time.Duration

	Weeks          []WeekTotal
	WeeklyOvertime time.Duration

	YearToDateOvertime time.Duration
	YearlyCapExceeded  bool

	WarningLevel WarningLevel
}
