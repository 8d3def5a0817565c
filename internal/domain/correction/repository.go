package correction

import "context"

// CorrectionRepository is the append-only audit trail
type CorrectionRepository interface {
	Create(ctx context.Context, c Correction) (Correction, error)

	GetByID(ctx context.Context, id string) (Correction, error)

	// ListByEventIDs returns the history of the given events, most recent first
	ListByEventIDs(ctx context.Context, eventIDs []string) ([]Correction, error)

	// ListPending returns pending requests, oldest first
	ListPending(ctx context.Context) ([]Correction, error)

	// Review moves a pending correction to its final status. It returns
	// ErrCorrectionAlreadyReviewed when the record is no longer pending.
	Review(ctx context.Context, c Correction) error
}
