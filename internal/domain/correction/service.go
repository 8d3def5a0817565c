package correction

import (
	"context"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/user"
)

type CorrectionService interface {
	// ApplyCorrection changes an event directly and records one approved correction per changed field (admin)
	ApplyCorrection(ctx context.Context, actor user.Actor, req ApplyCorrectionRequest) ([]CorrectionResponse, error)

	// SubmitUserRequest files a pending correction for the caller's own event
	SubmitUserRequest(ctx context.Context, actor user.Actor, req SubmitRequest) (CorrectionResponse, error)

	// ApproveRequest applies a pending request (admin)
	ApproveRequest(ctx context.Context, actor user.Actor, correctionID string) (CorrectionResponse, error)

	// RejectRequest closes a pending request without touching the event (admin)
	RejectRequest(ctx context.Context, actor user.Actor, req RejectRequest) (CorrectionResponse, error)

	// GetCorrectionsForEvents returns each event's history, most recent first
	GetCorrectionsForEvents(ctx context.Context, actor user.Actor, eventIDs []string) (map[string]EventHistoryResponse, error)

	// ListPendingRequests returns the review queue (admin)
	ListPendingRequests(ctx context.Context, actor user.Actor) ([]CorrectionResponse, error)
}
