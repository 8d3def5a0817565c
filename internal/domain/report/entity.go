package report

import (
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

type Disposition string

const (
	DispositionUnreviewed Disposition = "unreviewed"
	DispositionAccepted   Disposition = "accepted"
	DispositionContested  Disposition = "contested"
)

type Statistics struct {
	WorkedDays              int             `json:"worked_days"`
	SessionCount            int             `json:"session_count"`
	OpenSessionCount        int             `json:"open_session_count"`
	AnomalyCount            int             `json:"anomaly_count"`
	WorkedMinutes           int64           `json:"worked_minutes"`
	BreakBonusMinutes       int64           `json:"break_bonus_minutes"`
	TotalMinutes            int64           `json:"total_minutes"`
	TotalHours              decimal.Decimal `json:"total_hours"`
	ExpectedHours           decimal.Decimal `json:"expected_hours"`
	OvertimeHours           decimal.Decimal `json:"overtime_hours"`
	WeeksOverCap            int             `json:"weeks_over_cap"`
	YearToDateOvertimeHours decimal.Decimal `json:"year_to_date_overtime_hours"`
	WarningLevel            string          `json:"warning_level"`
}

type SessionSnapshot struct {
	Start   time.Time  `json:"start"`
	End     *time.Time `json:"end,omitempty"`
	Minutes int64      `json:"minutes"`
	Closed  bool       `json:"closed"`
}

type DaySnapshot struct {
	Date              string            `json:"date"`
	Worked            bool              `json:"worked"`
	SessionCount      int               `json:"session_count"`
	WorkedMinutes     int64             `json:"worked_minutes"`
	BreakBonusMinutes int64             `json:"break_bonus_minutes"`
	TotalMinutes      int64             `json:"total_minutes"`
	Sessions          []SessionSnapshot `json:"sessions,omitempty"`
}

type EventSnapshot struct {
	ID        string               `json:"id"`
	Timestamp time.Time            `json:"timestamp"`
	Kind      attendance.Kind      `json:"kind"`
	Location  *attendance.Location `json:"location,omitempty"`
	Simulated bool                 `json:"simulated"`
	Modified  bool                 `json:"modified"`
}

// Snapshot is the frozen content of a monthly report. It is written once at
// generation and never updated.
type Snapshot struct {
	Timezone   string          `json:"timezone"`
	Statistics Statistics      `json:"statistics"`
	Days       []DaySnapshot   `json:"days"`
	Events     []EventSnapshot `json:"events"`
}

type MonthlyReport struct {
	ID            string
	UserID        string
	Year          int
	Month         int
	Snapshot      Snapshot
	GeneratedAt   time.Time
	GeneratedBy   string
	ViewedAt      *time.Time
	AcceptedAt    *time.Time
	ContestedAt   *time.Time
	ContestReason *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (r *MonthlyReport) Disposition() Disposition {
	switch {
	case r.AcceptedAt != nil:
		return DispositionAccepted
	case r.ContestedAt != nil:
		return DispositionContested
	default:
		return DispositionUnreviewed
	}
}

func (r *MonthlyReport) IsViewed() bool {
	return r.ViewedAt != nil
}

// MarkViewed sets ViewedAt on the first call and reports whether it changed.
func (r *MonthlyReport) MarkViewed(now time.Time) bool {
	if r.ViewedAt != nil {
		return false
	}
	r.ViewedAt = &now
	return true
}

func (r *MonthlyReport) Accept(now time.Time) error {
	if r.Disposition() != DispositionUnreviewed {
		return ErrReportAlreadyReviewed
	}
	if !r.IsViewed() {
		return ErrReportNotViewed
	}
	r.AcceptedAt = &now
	return nil
}

func (r *MonthlyReport) Contest(now time.Time, reason string) error {
	if r.Disposition() != DispositionUnreviewed {
		return ErrReportAlreadyReviewed
	}
	r.ContestedAt = &now
	r.ContestReason = &reason
	return nil
}

// PeriodBounds returns [start, end) of a calendar month at local midnight in loc.
func PeriodBounds(year, month int, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// PreviousMonth returns the year and month before the month containing t.
func PreviousMonth(t time.Time) (int, int) {
	prev := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, -1, 0)
	return prev.Year(), int(prev.Month())
}
