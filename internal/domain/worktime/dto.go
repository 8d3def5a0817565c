package worktime

import (
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/user"
	"github.com/shopspring/decimal"
)

var secondsPerHour = decimal.NewFromInt(3600)

// Hours converts a duration to decimal hours rounded to two places.
func Hours(d time.Duration) decimal.Decimal {
	return decimal.NewFromInt(int64(d / time.Second)).Div(secondsPerHour).Round(2)
}

func minutes(d time.Duration) int64 {
	return int64(d / time.Minute)
}

type SessionResponse struct {
	StartEventID    string          `json:"start_event_id"`
	EndEventID      *string         `json:"end_event_id,omitempty"`
	Start           string          `json:"start"`
	End             *string         `json:"end,omitempty"`
	Closed          bool            `json:"closed"`
	DurationMinutes int64           `json:"duration_minutes"`
	Hours           decimal.Decimal `json:"hours"`
}

func ToSessionResponse(s WorkSession) SessionResponse {
	resp := SessionResponse{
		StartEventID:    s.StartEventID,
		EndEventID:      s.EndEventID,
		Start:           s.Start.UTC().Format(time.RFC3339),
		Closed:          s.Closed,
		DurationMinutes: minutes(s.Duration),
		Hours:           Hours(s.Duration),
	}
	if s.End != nil {
		end := s.End.UTC().Format(time.RFC3339)
		resp.End = &end
	}
	return resp
}

type DailySummaryResponse struct {
	Date              string            `json:"date"`
	Weekday           string            `json:"weekday"`
	Sessions          []SessionResponse `json:"sessions"`
	SessionCount      int               `json:"session_count"`
	WorkedMinutes     int64             `json:"worked_minutes"`
	BreakBonusMinutes int64             `json:"break_bonus_minutes"`
	TotalMinutes      int64             `json:"total_minutes"`
	TotalHours        decimal.Decimal   `json:"total_hours"`
	Worked            bool              `json:"worked"`
	HasOpenSession    bool              `json:"has_open_session"`
}

func ToDailySummaryResponse(d DailySummary) DailySummaryResponse {
	sessions := make([]SessionResponse, 0, len(d.Sessions))
	for _, s := range d.Sessions {
		sessions = append(sessions, ToSessionResponse(s))
	}
	return DailySummaryResponse{
		Date:              d.Date.Format(DateLayout),
		Weekday:           d.Date.Weekday().String(),
		Sessions:          sessions,
		SessionCount:      d.SessionCount,
		WorkedMinutes:     minutes(d.WorkedDuration),
		BreakBonusMinutes: minutes(d.BreakBonus),
		TotalMinutes:      minutes(d.TotalDuration),
		TotalHours:        Hours(d.TotalDuration),
		Worked:            d.Worked,
		HasOpenSession:    d.HasOpenSession,
	}
}

func ToDailySummaryResponses(days []DailySummary) []DailySummaryResponse {
	out := make([]DailySummaryResponse, 0, len(days))
	for _, d := range days {
		out = append(out, ToDailySummaryResponse(d))
	}
	return out
}

type DayOvertimeResponse struct {
	Date          string          `json:"date"`
	TotalHours    decimal.Decimal `json:"total_hours"`
	ExpectedHours decimal.Decimal `json:"expected_hours"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
}

type WeekTotalResponse struct {
	Year          int             `json:"year"`
	Week          int             `json:"week"`
	StartDate     string          `json:"start_date"`
	TotalHours    decimal.Decimal `json:"total_hours"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	ExceedsCap    bool            `json:"exceeds_cap"`
}

type OvertimeAssessmentResponse struct {
	UserID                  string                `json:"user_id"`
	From                    string                `json:"from"`
	To                      string                `json:"to"`
	WarningLevel            string                `json:"warning_level"`
	PeriodOvertimeHours     decimal.Decimal       `json:"period_overtime_hours"`
	WeeklyOvertimeHours     decimal.Decimal       `json:"weekly_overtime_hours"`
	YearToDateOvertimeHours decimal.Decimal       `json:"year_to_date_overtime_hours"`
	WeeklyCapHours          decimal.Decimal       `json:"weekly_cap_hours"`
	YearlyCapHours          decimal.Decimal       `json:"yearly_cap_hours"`
	YearlyCapExceeded       bool                  `json:"yearly_cap_exceeded"`
	Days                    []DayOvertimeResponse `json:"days"`
	Weeks                   []WeekTotalResponse   `json:"weeks"`
}

func ToAssessmentResponse(userID string, a Assessment, t Thresholds) OvertimeAssessmentResponse {
	resp := OvertimeAssessmentResponse{
		UserID:                  userID,
		From:                    a.From.Format(DateLayout),
		To:                      a.To.AddDate(0, 0, -1).Format(DateLayout),
		WarningLevel:            string(a.WarningLevel),
		PeriodOvertimeHours:     Hours(a.PeriodOvertime),
		WeeklyOvertimeHours:     Hours(a.WeeklyOvertime),
		YearToDateOvertimeHours: Hours(a.YearToDateOvertime),
		WeeklyCapHours:          Hours(t.WeeklyCap),
		YearlyCapHours:          Hours(t.YearlyCap),
		YearlyCapExceeded:       a.YearlyCapExceeded,
		Days:                    make([]DayOvertimeResponse, 0, len(a.Days)),
		Weeks:                   make([]WeekTotalResponse, 0, len(a.Weeks)),
	}
	for _, d := range a.Days {
		resp.Days = append(resp.Days, DayOvertimeResponse{
			Date:          d.Date.Format(DateLayout),
			TotalHours:    Hours(d.Total),
			ExpectedHours: Hours(d.Expected),
			OvertimeHours: Hours(d.Overtime),
		})
	}
	for _, w := range a.Weeks {
		resp.Weeks = append(resp.Weeks, WeekTotalResponse{
			Year:          w.Year,
			Week:          w.Week,
			StartDate:     w.Start.Format(DateLayout),
			TotalHours:    Hours(w.Total),
			OvertimeHours: Hours(w.Overtime),
			ExceedsCap:    w.ExceedsCap,
		})
	}
	return resp
}

type TodayStatusResponse struct {
	UserID         string            `json:"user_id"`
	Date           string            `json:"date"`
	Working        bool              `json:"working"`
	CurrentSession *SessionResponse  `json:"current_session,omitempty"`
	ElapsedMinutes int64             `json:"elapsed_minutes"`
	WorkedMinutes  int64             `json:"worked_minutes"`
	WorkedHours    decimal.Decimal   `json:"worked_hours"`
	Sessions       []SessionResponse `json:"sessions"`

	// StaleOpenSession is an open session left over from an earlier day
	StaleOpenSession *SessionResponse `json:"stale_open_session,omitempty"`
}

type TeamMemberResponse struct {
	User               user.UserResponse `json:"user"`
	WorkedDays         int               `json:"worked_days"`
	TotalHours         decimal.Decimal   `json:"total_hours"`
	OvertimeHours      decimal.Decimal   `json:"overtime_hours"`
	WarningLevel       string            `json:"warning_level"`
	CurrentlyClockedIn bool              `json:"currently_clocked_in"`
	AnomalyCount       int               `json:"anomaly_count"`
}

type TeamOverviewResponse struct {
	From    string               `json:"from"`
	To      string               `json:"to"`
	Members []TeamMemberResponse `json:"members"`
}
