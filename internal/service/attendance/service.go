package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/worktime"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/lock"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/validator"
)

// Config holds attendance service configuration
type Config struct {
	Policy   worktime.Policy  // default: permissive
	Location *time.Location   // default: UTC
	Now      func() time.Time // default: time.Now
}

type AttendanceServiceImpl struct {
	attendance.EventRepository
	user.UserRepository
	tx     database.Transactor
	locker lock.Locker
	config Config
}

func NewAttendanceService(
	eventRepo attendance.EventRepository,
	userRepo user.UserRepository,
	tx database.Transactor,
	locker lock.Locker,
	cfg Config,
) attendance.AttendanceService {
	if cfg.Policy == "" {
		cfg.Policy = worktime.PolicyPermissive
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &AttendanceServiceImpl{
		EventRepository: eventRepo,
		UserRepository:  userRepo,
		tx:              tx,
		locker:          locker,
		config:          cfg,
	}
}

// withUser serializes fn against every other writer of the user's events.
func (s *AttendanceServiceImpl) withUser(ctx context.Context, userID string, fn func(ctx context.Context) error) error {
	return lock.Do(ctx, s.locker, lock.UserKey(userID), func(ctx context.Context) error {
		return s.tx.WithinTx(ctx, func(ctx context.Context) error {
			if err := s.EventRepository.LockUser(ctx, userID); err != nil {
				return fmt.Errorf("failed to lock user events: %w", err)
			}
			return fn(ctx)
		})
	})
}

// checkSequence places a new event between its neighbours. Strict policy
// rejects events that cannot pair; permissive policy records them and logs the anomaly.
func (s *AttendanceServiceImpl) checkSequence(ctx context.Context, event attendance.TimeEvent) error {
	prev, next, err := s.EventRepository.GetAdjacent(ctx, event.UserID, event.Timestamp, event.ID)
	if err != nil {
		return fmt.Errorf("failed to get adjacent events: %w", err)
	}

	anomaly := attendance.SequenceAnomaly(prev, event, next)
	if anomaly == nil {
		return nil
	}
	if s.config.Policy == worktime.PolicyStrict {
		return anomaly
	}
	slog.Warn("recording unpaired clock event",
		"user_id", event.UserID,
		"kind", event.Kind,
		"timestamp", event.Timestamp,
		"anomaly", anomaly.Error(),
	)
	return nil
}

// RecordEvent implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RecordEvent(ctx context.Context, actor user.Actor, req attendance.RecordEventRequest) (attendance.TimeEventResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.TimeEventResponse{}, err
	}
	if err := actor.RequireAccess(req.UserID); err != nil {
		return attendance.TimeEventResponse{}, err
	}

	timestamp := s.config.Now().UTC()
	if req.Timestamp != nil || req.Simulated {
		// Only admins may backdate or simulate
		if err := actor.RequireAdmin(); err != nil {
			return attendance.TimeEventResponse{}, err
		}
	}
	if req.Timestamp != nil {
		ts, _ := validator.IsValidDateTime(*req.Timestamp)
		timestamp = ts.UTC()
	}

	event := attendance.TimeEvent{
		UserID:    req.UserID,
		Timestamp: timestamp,
		Kind:      attendance.Kind(req.Kind),
		Simulated: req.Simulated,
	}
	if req.Location != nil {
		loc := attendance.Location(*req.Location)
		event.Location = &loc
	}

	var created attendance.TimeEvent
	err := s.withUser(ctx, req.UserID, func(ctx context.Context) error {
		if _, err := s.UserRepository.GetByID(ctx, req.UserID); err != nil {
			return err
		}
		if err := s.checkSequence(ctx, event); err != nil {
			return err
		}

		var err error
		created, err = s.EventRepository.Create(ctx, event)
		if err != nil {
			return fmt.Errorf("failed to create time event: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.TimeEventResponse{}, err
	}

	return attendance.ToResponse(created), nil
}

// SimulateEvents implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) SimulateEvents(ctx context.Context, actor user.Actor, req attendance.SimulateEventsRequest) ([]attendance.TimeEventResponse, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	loc := s.config.Location
	start, err := time.ParseInLocation(worktime.DateLayout, req.StartDate, loc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse start date: %w", err)
	}
	end, err := time.ParseInLocation(worktime.DateLayout, req.EndDate, loc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse end date: %w", err)
	}
	inMinutes, _ := validator.IsValidClock(req.ClockInTime)
	outMinutes, _ := validator.IsValidClock(req.ClockOutTime)

	var location *attendance.Location
	if req.Location != nil {
		l := attendance.Location(*req.Location)
		location = &l
	}

	var created []attendance.TimeEvent
	err = s.withUser(ctx, req.UserID, func(ctx context.Context) error {
		if _, err := s.UserRepository.GetByID(ctx, req.UserID); err != nil {
			return err
		}

		for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
			if !req.IncludeWeekends && (day.Weekday() == time.Saturday || day.Weekday() == time.Sunday) {
				continue
			}
			pair := []attendance.TimeEvent{
				{
					UserID:    req.UserID,
					Timestamp: atMinute(day, inMinutes).UTC(),
					Kind:      attendance.KindClockIn,
					Simulated: true,
					Location:  location,
				},
				{
					UserID:    req.UserID,
					Timestamp: atMinute(day, outMinutes).UTC(),
					Kind:      attendance.KindClockOut,
					Simulated: true,
					Location:  location,
				},
			}
			for _, event := range pair {
				if err := s.checkSequence(ctx, event); err != nil {
					return err
				}
				e, err := s.EventRepository.Create(ctx, event)
				if err != nil {
					return fmt.Errorf("failed to create simulated event: %w", err)
				}
				created = append(created, e)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("simulated clock events",
		"user_id", req.UserID,
		"admin_id", actor.UserID,
		"count", len(created),
	)
	return attendance.ToResponses(created), nil
}

// atMinute returns the instant minutes after local midnight of day.
func atMinute(day time.Time, minutes int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, day.Location())
}

// ListEvents implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListEvents(ctx context.Context, actor user.Actor, userID string, filter attendance.RangeFilter) ([]attendance.TimeEventResponse, error) {
	if err := actor.RequireAccess(userID); err != nil {
		return nil, err
	}
	from, to, err := filter.Bounds(s.config.Location, s.config.Now())
	if err != nil {
		return nil, err
	}

	if _, err := s.UserRepository.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	events, err := s.EventRepository.ListByUser(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list time events: %w", err)
	}
	return attendance.ToResponses(events), nil
}
