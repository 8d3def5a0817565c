package report

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/user"
)

// ReportService drives the monthly attestation lifecycle
type ReportService interface {
	// GenerateReport freezes a closed month into a report. A second call for the same period fails.
	GenerateReport(ctx context.Context, actor user.Actor, req GenerateReportRequest) (ReportResponse, error)

	// GenerateMissingForUser generates last month's report if it does not exist yet.
	// Returns nil when nothing was generated.
	GenerateMissingForUser(ctx context.Context, userID string, now time.Time) (*ReportResponse, error)

	// GetCurrentMonthStatus returns live figures for the running month and last month's report state
	GetCurrentMonthStatus(ctx context.Context, actor user.Actor, userID string) (CurrentMonthStatusResponse, error)

	// GetReport returns a report with its snapshot; the owner's first read marks it viewed
	GetReport(ctx context.Context, actor user.Actor, reportID string) (ReportResponse, error)

	MarkViewed(ctx context.Context, actor user.Actor, reportID string) (ReportResponse, error)

	Accept(ctx context.Context, actor user.Actor, reportID string) (ReportResponse, error)

	Contest(ctx context.Context, actor user.Actor, req ContestRequest) (ReportResponse, error)

	ListReports(ctx context.Context, actor user.Actor, userID string) ([]ReportResponse, error)
}
