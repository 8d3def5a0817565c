package worktime

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/worktime"
	"golang.org/x/sync/errgroup"
)

// Config holds worktime service configuration
type Config struct {
	Policy              worktime.Policy     // default: permissive
	Location            *time.Location      // default: UTC
	Thresholds          worktime.Thresholds // caps default to 40h/week and 80h/year
	OverviewConcurrency int                 // default: 8
	Now                 func() time.Time    // default: time.Now
}

type WorktimeServiceImpl struct {
	attendance.EventRepository
	user.UserRepository
	config Config
}

func NewWorktimeService(eventRepo attendance.EventRepository, userRepo user.UserRepository, cfg Config) worktime.WorktimeService {
	if cfg.Policy == "" {
		cfg.Policy = worktime.PolicyPermissive
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Thresholds.WeeklyCap == 0 {
		cfg.Thresholds.WeeklyCap = worktime.DefaultWeeklyCap
	}
	if cfg.Thresholds.YearlyCap == 0 {
		cfg.Thresholds.YearlyCap = worktime.DefaultYearlyCap
	}
	if cfg.OverviewConcurrency <= 0 {
		cfg.OverviewConcurrency = 8
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &WorktimeServiceImpl{
		EventRepository: eventRepo,
		UserRepository:  userRepo,
		config:          cfg,
	}
}

// summarize reconciles the user's events around [from, to) and returns the
// daily summaries dated inside it.
func (s *WorktimeServiceImpl) summarize(ctx context.Context, userID string, from, to time.Time) (worktime.Reconciliation, []worktime.DailySummary, error) {
	events, err := s.EventRepository.ListByUser(ctx, userID, from.Add(-worktime.PairingMargin), to.Add(worktime.PairingMargin))
	if err != nil {
		return worktime.Reconciliation{}, nil, fmt.Errorf("failed to list time events: %w", err)
	}
	rec, days := worktime.Summarize(events, s.config.Policy, s.config.Location)
	return rec, worktime.InRange(days, from, to), nil
}

func (s *WorktimeServiceImpl) assess(ctx context.Context, u user.User, from, to time.Time) (worktime.Reconciliation, worktime.Assessment, worktime.Thresholds, error) {
	windowFrom, windowTo := worktime.EvaluationWindow(from, to)
	rec, days, err := s.summarize(ctx, u.ID, windowFrom, windowTo)
	if err != nil {
		return worktime.Reconciliation{}, worktime.Assessment{}, worktime.Thresholds{}, err
	}
	thresholds := s.config.Thresholds.ForUser(u)
	return rec, worktime.EvaluateOvertime(days, from, to, thresholds), thresholds, nil
}

// GetDailySummaries implements worktime.WorktimeService.
func (s *WorktimeServiceImpl) GetDailySummaries(ctx context.Context, actor user.Actor, userID string, filter attendance.RangeFilter) ([]worktime.DailySummaryResponse, error) {
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

	_, days, err := s.summarize(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	return worktime.ToDailySummaryResponses(days), nil
}

// GetOvertimeAssessment implements worktime.WorktimeService.
func (s *WorktimeServiceImpl) GetOvertimeAssessment(ctx context.Context, actor user.Actor, userID string, filter attendance.RangeFilter) (worktime.OvertimeAssessmentResponse, error) {
	if err := actor.RequireAccess(userID); err != nil {
		return worktime.OvertimeAssessmentResponse{}, err
	}
	from, to, err := filter.Bounds(s.config.Location, s.config.Now())
	if err != nil {
		return worktime.OvertimeAssessmentResponse{}, err
	}
	u, err := s.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return worktime.OvertimeAssessmentResponse{}, err
	}

	_, assessment, thresholds, err := s.assess(ctx, u, from, to)
	if err != nil {
		return worktime.OvertimeAssessmentResponse{}, err
	}
	return worktime.ToAssessmentResponse(userID, assessment, thresholds), nil
}

// reconcileToday pairs the events that can form today's sessions, reaching
// back far enough to see a session opened before midnight.
func (s *WorktimeServiceImpl) reconcileToday(ctx context.Context, userID string, now time.Time) (worktime.Reconciliation, time.Time, error) {
	today := worktime.LocalDate(now, s.config.Location)
	tomorrow := today.AddDate(0, 0, 1)

	events, err := s.EventRepository.ListByUser(ctx, userID, today.Add(-worktime.PairingMargin), tomorrow)
	if err != nil {
		return worktime.Reconciliation{}, time.Time{}, fmt.Errorf("failed to list time events: %w", err)
	}
	return worktime.Reconcile(events, s.config.Policy), today, nil
}

// GetTodayStatus implements worktime.WorktimeService.
func (s *WorktimeServiceImpl) GetTodayStatus(ctx context.Context, actor user.Actor, userID string) (worktime.TodayStatusResponse, error) {
	if err := actor.RequireAccess(userID); err != nil {
		return worktime.TodayStatusResponse{}, err
	}
	if _, err := s.UserRepository.GetByID(ctx, userID); err != nil {
		return worktime.TodayStatusResponse{}, err
	}

	now := s.config.Now()
	rec, today, err := s.reconcileToday(ctx, userID, now)
	if err != nil {
		return worktime.TodayStatusResponse{}, err
	}

	resp := worktime.TodayStatusResponse{
		UserID:   userID,
		Date:     today.Format(worktime.DateLayout),
		Sessions: []worktime.SessionResponse{},
	}

	var worked time.Duration
	for _, session := range rec.Sessions {
		if !worktime.LocalDate(session.Start, s.config.Location).Equal(today) {
			continue
		}
		resp.Sessions = append(resp.Sessions, worktime.ToSessionResponse(session))
		if session.Closed {
			worked += session.Duration
		}
	}

	if current := rec.CurrentOn(today, s.config.Location); current != nil {
		session := worktime.ToSessionResponse(*current)
		resp.Working = true
		resp.CurrentSession = &session
		resp.ElapsedMinutes = int64(current.ElapsedAt(now) / time.Minute)
	} else if rec.Current != nil {
		stale := worktime.ToSessionResponse(*rec.Current)
		resp.StaleOpenSession = &stale
	}
	resp.WorkedMinutes = int64(worked / time.Minute)
	resp.WorkedHours = worktime.Hours(worked)
	return resp, nil
}

// GetTeamOverview implements worktime.WorktimeService.
func (s *WorktimeServiceImpl) GetTeamOverview(ctx context.Context, actor user.Actor, filter attendance.RangeFilter) (worktime.TeamOverviewResponse, error) {
	if err := actor.RequireAdmin(); err != nil {
		return worktime.TeamOverviewResponse{}, err
	}
	now := s.config.Now()
	from, to, err := filter.Bounds(s.config.Location, now)
	if err != nil {
		return worktime.TeamOverviewResponse{}, err
	}

	users, err := s.UserRepository.List(ctx)
	if err != nil {
		return worktime.TeamOverviewResponse{}, fmt.Errorf("failed to list users: %w", err)
	}

	members := make([]worktime.TeamMemberResponse, len(users))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.OverviewConcurrency)
	for i, u := range users {
		g.Go(func() error {
			member, err := s.overviewMember(gctx, u, from, to, now)
			if err != nil {
				return fmt.Errorf("user %s: %w", u.ID, err)
			}
			members[i] = member
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return worktime.TeamOverviewResponse{}, err
	}

	return worktime.TeamOverviewResponse{
		From:    from.Format(worktime.DateLayout),
		To:      to.AddDate(0, 0, -1).Format(worktime.DateLayout),
		Members: members,
	}, nil
}

func (s *WorktimeServiceImpl) overviewMember(ctx context.Context, u user.User, from, to, now time.Time) (worktime.TeamMemberResponse, error) {
	rec, assessment, _, err := s.assess(ctx, u, from, to)
	if err != nil {
		return worktime.TeamMemberResponse{}, err
	}

	member := worktime.TeamMemberResponse{
		User:          user.ToResponse(u),
		OvertimeHours: worktime.Hours(assessment.PeriodOvertime),
		WarningLevel:  string(assessment.WarningLevel),
	}

	var total time.Duration
	for _, d := range assessment.Days {
		if d.Total > 0 {
			member.WorkedDays++
		}
		total += d.Total
	}
	member.TotalHours = worktime.Hours(total)

	for _, a := range rec.Anomalies {
		if !a.At.Before(from) && a.At.Before(to) {
			member.AnomalyCount++
		}
	}

	current, today, err := s.reconcileToday(ctx, u.ID, now)
	if err != nil {
		return worktime.TeamMemberResponse{}, err
	}
	member.CurrentlyClockedIn = current.CurrentOn(today, s.config.Location) != nil
	return member, nil
}
