package worktime

import (
	"context"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/user"
)

// WorktimeService serves read models computed fresh from the event stream
type WorktimeService interface {
	// GetDailySummaries returns one summary per worked day in the range
	GetDailySummaries(ctx context.Context, actor user.Actor, userID string, filter attendance.RangeFilter) ([]DailySummaryResponse, error)

	// GetOvertimeAssessment evaluates the range against the user's thresholds and statutory caps
	GetOvertimeAssessment(ctx context.Context, actor user.Actor, userID string, filter attendance.RangeFilter) (OvertimeAssessmentResponse, error)

	// GetTodayStatus returns the live "currently working" view for today
	GetTodayStatus(ctx context.Context, actor user.Actor, userID string) (TodayStatusResponse, error)

	// GetTeamOverview returns aggregates for every user (admin)
	GetTeamOverview(ctx context.Context, actor user.Actor, filter attendance.RangeFilter) (TeamOverviewResponse, error)
}
