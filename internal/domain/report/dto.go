package report

import (
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/worktime"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/validator"
)

// ========================================
// MONTHLY REPORT
// ========================================

type GenerateReportRequest struct {
	UserID string `json:"-"`
	Month  int    `json:"month" validate:"min=1,max=12"`
	Year   int    `json:"year" validate:"min=2000"`
}

func (r *GenerateReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	errs = append(errs, validator.Struct(r)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ContestRequest struct {
	ReportID string `json:"-"`
	Reason   string `json:"reason" validate:"required"`
}

func (r *ContestRequest) Validate() error {
	if errs := validator.Struct(r); errs != nil {
		return errs
	}
	return nil
}

type ReportResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Year          int       `json:"year"`
	Month         int       `json:"month"`
	Disposition   string    `json:"disposition"`
	Viewed        bool      `json:"viewed"`
	GeneratedAt   string    `json:"generated_at"`
	GeneratedBy   string    `json:"generated_by"`
	ViewedAt      *string   `json:"viewed_at,omitempty"`
	AcceptedAt    *string   `json:"accepted_at,omitempty"`
	ContestedAt   *string   `json:"contested_at,omitempty"`
	ContestReason *string   `json:"contest_reason,omitempty"`
	Snapshot      *Snapshot `json:"snapshot,omitempty"`
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

// ToResponse maps a report; the snapshot is only included when withSnapshot is set.
func ToResponse(r MonthlyReport, withSnapshot bool) ReportResponse {
	resp := ReportResponse{
		ID:            r.ID,
		UserID:        r.UserID,
		Year:          r.Year,
		Month:         r.Month,
		Disposition:   string(r.Disposition()),
		Viewed:        r.IsViewed(),
		GeneratedAt:   r.GeneratedAt.UTC().Format(time.RFC3339),
		GeneratedBy:   r.GeneratedBy,
		ViewedAt:      formatTimePtr(r.ViewedAt),
		AcceptedAt:    formatTimePtr(r.AcceptedAt),
		ContestedAt:   formatTimePtr(r.ContestedAt),
		ContestReason: r.ContestReason,
	}
	if withSnapshot {
		snapshot := r.Snapshot
		resp.Snapshot = &snapshot
	}
	return resp
}

type CurrentMonthStatusResponse struct {
	UserID         string                          `json:"user_id"`
	Year           int                             `json:"year"`
	Month          int                             `json:"month"`
	Statistics     Statistics                      `json:"statistics"`
	Days           []worktime.DailySummaryResponse `json:"days"`
	PreviousReport *ReportResponse                 `json:"previous_report,omitempty"`
	// ReviewPending is set while last month's report awaits accept or contest
	ReviewPending bool `json:"review_pending"`
}
