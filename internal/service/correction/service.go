package correction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/correction"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/worktime"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/lock"
)

// Config holds correction service configuration
type Config struct {
	Policy worktime.Policy  // default: permissive
	Now    func() time.Time // default: time.Now
}

type CorrectionServiceImpl struct {
	correction.CorrectionRepository
	attendance.EventRepository
	tx     database.Transactor
	locker lock.Locker
	config Config
}

func NewCorrectionService(
	correctionRepo correction.CorrectionRepository,
	eventRepo attendance.EventRepository,
	tx database.Transactor,
	locker lock.Locker,
	cfg Config,
) correction.CorrectionService {
	if cfg.Policy == "" {
		cfg.Policy = worktime.PolicyPermissive
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &CorrectionServiceImpl{
		CorrectionRepository: correctionRepo,
		EventRepository:      eventRepo,
		tx:                   tx,
		locker:               locker,
		config:               cfg,
	}
}

func (s *CorrectionServiceImpl) now() time.Time {
	return s.config.Now().UTC()
}

// withUser runs fn under the user's lock inside one transaction.
func (s *CorrectionServiceImpl) withUser(ctx context.Context, userID string, fn func(ctx context.Context) error) error {
	return lock.Do(ctx, s.locker, lock.UserKey(userID), func(ctx context.Context) error {
		return s.tx.WithinTx(ctx, func(ctx context.Context) error {
			if err := s.EventRepository.LockUser(ctx, userID); err != nil {
				return fmt.Errorf("failed to lock user events: %w", err)
			}
			return fn(ctx)
		})
	})
}

// checkSequence places a corrected event between its new neighbours.
// Only the strict policy rejects a correction that leaves events unpaired.
func (s *CorrectionServiceImpl) checkSequence(ctx context.Context, event attendance.TimeEvent) error {
	if s.config.Policy != worktime.PolicyStrict {
		return nil
	}
	prev, next, err := s.EventRepository.GetAdjacent(ctx, event.UserID, event.Timestamp, event.ID)
	if err != nil {
		return fmt.Errorf("failed to get adjacent events: %w", err)
	}
	return attendance.SequenceAnomaly(prev, event, next)
}

// markCorrected stamps the event with the correction that just changed it.
func markCorrected(event *attendance.TimeEvent, adminID, correctionID string, at time.Time) {
	event.Modified = true
	event.ModifiedByAdminID = &adminID
	event.LastModifiedAt = &at
	event.LastCorrectionID = &correctionID
}

// ApplyCorrection implements correction.CorrectionService.
func (s *CorrectionServiceImpl) ApplyCorrection(ctx context.Context, actor user.Actor, req correction.ApplyCorrectionRequest) ([]correction.CorrectionResponse, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// The owner is needed for the lock key; the event is read again under the lock.
	target, err := s.EventRepository.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, err
	}

	var records []correction.Correction
	err = s.withUser(ctx, target.UserID, func(ctx context.Context) error {
		event, err := s.EventRepository.GetByID(ctx, req.EventID)
		if err != nil {
			return err
		}
		changes := req.Changes().Against(event)
		if changes.IsEmpty() {
			return correction.ErrNoChanges
		}

		updated := event
		changes.Values().ApplyTo(&updated)
		if err := s.checkSequence(ctx, updated); err != nil {
			return err
		}

		now := s.now()
		adminID := actor.UserID

		// One approved record per changed field
		var parts []correction.Changes
		if changes.Timestamp != nil {
			parts = append(parts, correction.Changes{Timestamp: changes.Timestamp})
		}
		if changes.Kind != nil {
			parts = append(parts, correction.Changes{Kind: changes.Kind})
		}

		for _, part := range parts {
			field := part.Field()
			record, err := s.CorrectionRepository.Create(ctx, correction.Correction{
				EventID:       event.ID,
				UserID:        event.UserID,
				AdminID:       &adminID,
				Source:        correction.SourceAdminApplied,
				Field:         field,
				PreviousValue: correction.ValuesOf(event, field),
				NewValue:      part.Values(),
				Reason:        req.Reason,
				Status:        correction.StatusApproved,
				ReviewedBy:    &adminID,
				ReviewedAt:    &now,
			})
			if err != nil {
				return fmt.Errorf("failed to record correction: %w", err)
			}
			markCorrected(&updated, adminID, record.ID, now)
			records = append(records, record)
		}

		if err := s.EventRepository.Update(ctx, updated); err != nil {
			return fmt.Errorf("failed to update time event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("correction applied",
		"event_id", req.EventID,
		"admin_id", actor.UserID,
		"records", len(records),
	)
	return correction.ToResponses(records), nil
}

// SubmitUserRequest implements correction.CorrectionService.
func (s *CorrectionServiceImpl) SubmitUserRequest(ctx context.Context, actor user.Actor, req correction.SubmitRequest) (correction.CorrectionResponse, error) {
	if err := req.Validate(); err != nil {
		return correction.CorrectionResponse{}, err
	}

	event, err := s.EventRepository.GetByID(ctx, req.EventID)
	if err != nil {
		return correction.CorrectionResponse{}, err
	}
	if event.UserID != actor.UserID {
		return correction.CorrectionResponse{}, attendance.ErrNotEventOwner
	}

	changes := req.Changes().Against(event)
	if changes.IsEmpty() {
		return correction.CorrectionResponse{}, correction.ErrNoChanges
	}

	field := changes.Field()
	created, err := s.CorrectionRepository.Create(ctx, correction.Correction{
		EventID:       event.ID,
		UserID:        event.UserID,
		Source:        correction.SourceUserRequested,
		Field:         field,
		PreviousValue: correction.ValuesOf(event, field),
		NewValue:      changes.Values(),
		Reason:        req.Reason,
		Status:        correction.StatusPending,
	})
	if err != nil {
		return correction.CorrectionResponse{}, fmt.Errorf("failed to create correction request: %w", err)
	}
	return correction.ToResponse(created), nil
}

// ApproveRequest implements correction.CorrectionService.
func (s *CorrectionServiceImpl) ApproveRequest(ctx context.Context, actor user.Actor, correctionID string) (correction.CorrectionResponse, error) {
	if err := actor.RequireAdmin(); err != nil {
		return correction.CorrectionResponse{}, err
	}

	pending, err := s.CorrectionRepository.GetByID(ctx, correctionID)
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	var approved correction.Correction
	err = s.withUser(ctx, pending.UserID, func(ctx context.Context) error {
		c, err := s.CorrectionRepository.GetByID(ctx, correctionID)
		if err != nil {
			return err
		}
		if !c.IsPending() {
			return correction.ErrCorrectionAlreadyReviewed
		}

		event, err := s.EventRepository.GetByID(ctx, c.EventID)
		if err != nil {
			return err
		}
		if event.ModifiedSince(c.CreatedAt) || !c.PreviousValue.Matches(event) {
			return correction.ErrStaleRequest
		}
		c.PreviousValue = correction.ValuesOf(event, c.Field)
		c.NewValue.ApplyTo(&event)
		if err := s.checkSequence(ctx, event); err != nil {
			return err
		}

		now := s.now()
		adminID := actor.UserID
		c.Status = correction.StatusApproved
		c.AdminID = &adminID
		c.ReviewedBy = &adminID
		c.ReviewedAt = &now
		if err := s.CorrectionRepository.Review(ctx, c); err != nil {
			return err
		}

		markCorrected(&event, adminID, c.ID, now)
		if err := s.EventRepository.Update(ctx, event); err != nil {
			return fmt.Errorf("failed to update time event: %w", err)
		}
		approved = c
		return nil
	})
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	slog.Info("correction request approved",
		"correction_id", correctionID,
		"event_id", approved.EventID,
		"admin_id", actor.UserID,
	)
	return correction.ToResponse(approved), nil
}

// RejectRequest implements correction.CorrectionService.
func (s *CorrectionServiceImpl) RejectRequest(ctx context.Context, actor user.Actor, req correction.RejectRequest) (correction.CorrectionResponse, error) {
	if err := actor.RequireAdmin(); err != nil {
		return correction.CorrectionResponse{}, err
	}

	c, err := s.CorrectionRepository.GetByID(ctx, req.CorrectionID)
	if err != nil {
		return correction.CorrectionResponse{}, err
	}
	if !c.IsPending() {
		return correction.CorrectionResponse{}, correction.ErrCorrectionAlreadyReviewed
	}

	now := s.now()
	adminID := actor.UserID
	c.Status = correction.StatusRejected
	c.AdminID = &adminID
	c.ReviewedBy = &adminID
	c.ReviewedAt = &now
	c.ReviewNote = req.Note
	if err := s.CorrectionRepository.Review(ctx, c); err != nil {
		return correction.CorrectionResponse{}, err
	}
	return correction.ToResponse(c), nil
}

// GetCorrectionsForEvents implements correction.CorrectionService.
func (s *CorrectionServiceImpl) GetCorrectionsForEvents(ctx context.Context, actor user.Actor, eventIDs []string) (map[string]correction.EventHistoryResponse, error) {
	result := make(map[string]correction.EventHistoryResponse)
	if len(eventIDs) == 0 {
		return result, nil
	}

	events, err := s.EventRepository.GetByIDs(ctx, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get time events: %w", err)
	}

	visible := make(map[string]attendance.TimeEvent, len(events))
	ids := make([]string, 0, len(events))
	for _, e := range events {
		if !actor.CanAccess(e.UserID) {
			continue
		}
		visible[e.ID] = e
		ids = append(ids, e.ID)
	}
	if len(ids) == 0 {
		return result, nil
	}

	history, err := s.CorrectionRepository.ListByEventIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list corrections: %w", err)
	}

	byEvent := make(map[string][]correction.Correction, len(ids))
	for _, c := range history {
		byEvent[c.EventID] = append(byEvent[c.EventID], c)
	}
	for id, event := range visible {
		result[id] = correction.ToHistoryResponse(event, byEvent[id])
	}
	return result, nil
}

// ListPendingRequests implements correction.CorrectionService.
func (s *CorrectionServiceImpl) ListPendingRequests(ctx context.Context, actor user.Actor) ([]correction.CorrectionResponse, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	pending, err := s.CorrectionRepository.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending corrections: %w", err)
	}
	return correction.ToResponses(pending), nil
}
