package report

import "context"

// ReportRepository stores frozen monthly reports. (user_id, year, month) is unique.
type ReportRepository interface {
	// Create returns ErrReportAlreadyExists when the period already has a report
	Create(ctx context.Context, r MonthlyReport) (MonthlyReport, error)

	GetByID(ctx context.Context, id string) (MonthlyReport, error)

	GetByPeriod(ctx context.Context, userID string, year, month int) (MonthlyReport, error)

	// ListByUser returns reports newest period first
	ListByUser(ctx context.Context, userID string) ([]MonthlyReport, error)

	// MarkViewed sets viewed_at only if it is still unset
	MarkViewed(ctx context.Context, r MonthlyReport) error

	// SetDisposition records an accept or contest. It returns ErrReportAlreadyReviewed
	// when the stored report is no longer unreviewed.
	SetDisposition(ctx context.Context, r MonthlyReport) error
}
