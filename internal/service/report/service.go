package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/worktime"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/lock"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/validator"
)

// GeneratedBySystem marks reports created by the lazy month-close check.
const GeneratedBySystem = "system"

// Config holds report service configuration
type Config struct {
	Policy           worktime.Policy     // default: permissive
	Location         *time.Location      // default: UTC
	Thresholds       worktime.Thresholds // caps default to 40h/week and 80h/year
	WindowDays       int                 // default: 5
	ContestMinLength int                 // default: 10
	Now              func() time.Time    // default: time.Now
}

type ReportServiceImpl struct {
	report.ReportRepository
	attendance.EventRepository
	user.UserRepository
	tx     database.Transactor
	locker lock.Locker
	config Config
}

func NewReportService(
	reportRepo report.ReportRepository,
	eventRepo attendance.EventRepository,
	userRepo user.UserRepository,
	tx database.Transactor,
	locker lock.Locker,
	cfg Config,
) report.ReportService {
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
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 5
	}
	if cfg.ContestMinLength <= 0 {
		cfg.ContestMinLength = 10
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &ReportServiceImpl{
		ReportRepository: reportRepo,
		EventRepository:  eventRepo,
		UserRepository:   userRepo,
		tx:               tx,
		locker:           locker,
		config:           cfg,
	}
}

func (s *ReportServiceImpl) now() time.Time {
	return s.config.Now().UTC()
}

// monthFigures is everything a report needs about one calendar month.
type monthFigures struct {
	events     []attendance.TimeEvent
	rec        worktime.Reconciliation
	days       []worktime.DailySummary
	assessment worktime.Assessment
	thresholds worktime.Thresholds
}

// compute reconciles and evaluates [from, to) from the live event stream.
// days holds one entry per calendar day of the period.
func (s *ReportServiceImpl) compute(ctx context.Context, u user.User, from, to time.Time) (monthFigures, error) {
	loc := s.config.Location
	windowFrom, windowTo := worktime.EvaluationWindow(from, to)

	all, err := s.EventRepository.ListByUser(ctx, u.ID, windowFrom.Add(-worktime.PairingMargin), windowTo.Add(worktime.PairingMargin))
	if err != nil {
		return monthFigures{}, fmt.Errorf("failed to list time events: %w", err)
	}

	rec, summaries := worktime.Summarize(all, s.config.Policy, loc)
	thresholds := s.config.Thresholds.ForUser(u)
	assessment := worktime.EvaluateOvertime(worktime.InRange(summaries, windowFrom, windowTo), from, to, thresholds)

	f := monthFigures{
		rec:        worktime.Reconciliation{Current: rec.Current, Sessions: rec.Sessions},
		days:       worktime.FillCalendar(worktime.InRange(summaries, from, to), from, to, loc),
		assessment: assessment,
		thresholds: thresholds,
	}
	for _, a := range rec.Anomalies {
		if !a.At.Before(from) && a.At.Before(to) {
			f.rec.Anomalies = append(f.rec.Anomalies, a)
		}
	}

	// A session started on the last evening closes in the next month; its
	// closing event belongs with the session
	closing := make(map[string]bool)
	for _, d := range f.days {
		for _, session := range d.Sessions {
			if session.EndEventID != nil {
				closing[*session.EndEventID] = true
			}
		}
	}
	for _, e := range all {
		if (!e.Timestamp.Before(from) && e.Timestamp.Before(to)) || closing[e.ID] {
			f.events = append(f.events, e)
		}
	}
	return f, nil
}

// generate freezes one closed month under the user's lock.
func (s *ReportServiceImpl) generate(ctx context.Context, u user.User, year, month int, generatedBy string) (report.MonthlyReport, error) {
	from, to := report.PeriodBounds(year, month, s.config.Location)

	var created report.MonthlyReport
	err := lock.Do(ctx, s.locker, lock.UserKey(u.ID), func(ctx context.Context) error {
		return s.tx.WithinTx(ctx, func(ctx context.Context) error {
			if err := s.EventRepository.LockUser(ctx, u.ID); err != nil {
				return fmt.Errorf("failed to lock user events: %w", err)
			}

			_, err := s.ReportRepository.GetByPeriod(ctx, u.ID, year, month)
			if err == nil {
				return report.ErrReportAlreadyExists
			}
			if !errors.Is(err, report.ErrReportNotFound) {
				return fmt.Errorf("failed to check existing report: %w", err)
			}

			f, err := s.compute(ctx, u, from, to)
			if err != nil {
				return err
			}

			created, err = s.ReportRepository.Create(ctx, report.MonthlyReport{
				UserID:      u.ID,
				Year:        year,
				Month:       month,
				Snapshot:    report.BuildSnapshot(f.events, f.rec, f.days, f.assessment, f.thresholds, s.config.Location),
				GeneratedAt: s.now(),
				GeneratedBy: generatedBy,
			})
			return err
		})
	})
	if err != nil {
		return report.MonthlyReport{}, err
	}

	slog.Info("monthly report generated",
		"report_id", created.ID,
		"user_id", u.ID,
		"year", year,
		"month", month,
		"generated_by", generatedBy,
	)
	return created, nil
}

// GenerateReport implements report.ReportService.
func (s *ReportServiceImpl) GenerateReport(ctx context.Context, actor user.Actor, req report.GenerateReportRequest) (report.ReportResponse, error) {
	if err := req.Validate(); err != nil {
		return report.ReportResponse{}, err
	}
	if err := actor.RequireAccess(req.UserID); err != nil {
		return report.ReportResponse{}, err
	}

	_, end := report.PeriodBounds(req.Year, req.Month, s.config.Location)
	if end.After(s.now()) {
		return report.ReportResponse{}, report.ErrInvalidPeriod
	}

	u, err := s.UserRepository.GetByID(ctx, req.UserID)
	if err != nil {
		return report.ReportResponse{}, err
	}

	created, err := s.generate(ctx, u, req.Year, req.Month, actor.UserID)
	if err != nil {
		return report.ReportResponse{}, err
	}
	return report.ToResponse(created, true), nil
}

// GenerateMissingForUser implements report.ReportService.
func (s *ReportServiceImpl) GenerateMissingForUser(ctx context.Context, userID string, now time.Time) (*report.ReportResponse, error) {
	year, month := report.PreviousMonth(now.In(s.config.Location))
	_, end := report.PeriodBounds(year, month, s.config.Location)

	u, err := s.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.ExistedDuring(end) {
		return nil, nil
	}

	if _, err := s.ReportRepository.GetByPeriod(ctx, userID, year, month); err == nil {
		return nil, nil
	} else if !errors.Is(err, report.ErrReportNotFound) {
		return nil, fmt.Errorf("failed to check existing report: %w", err)
	}

	created, err := s.generate(ctx, u, year, month, GeneratedBySystem)
	if err != nil {
		// Another request generated it first
		if errors.Is(err, report.ErrReportAlreadyExists) {
			return nil, nil
		}
		return nil, err
	}
	resp := report.ToResponse(created, false)
	return &resp, nil
}

// GetCurrentMonthStatus implements report.ReportService.
func (s *ReportServiceImpl) GetCurrentMonthStatus(ctx context.Context, actor user.Actor, userID string) (report.CurrentMonthStatusResponse, error) {
	if err := actor.RequireAccess(userID); err != nil {
		return report.CurrentMonthStatusResponse{}, err
	}
	u, err := s.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return report.CurrentMonthStatusResponse{}, err
	}

	now := s.now()
	local := now.In(s.config.Location)

	if local.Day() <= s.config.WindowDays {
		if _, err := s.GenerateMissingForUser(ctx, userID, now); err != nil {
			// The status view still works without last month's report
			slog.Error("failed to generate missing monthly report", "user_id", userID, "error", err)
		}
	}

	from, to := report.PeriodBounds(local.Year(), int(local.Month()), s.config.Location)
	f, err := s.compute(ctx, u, from, to)
	if err != nil {
		return report.CurrentMonthStatusResponse{}, err
	}

	today := worktime.LocalDate(now, s.config.Location)
	elapsed := worktime.InRange(f.days, from, today.AddDate(0, 0, 1))

	resp := report.CurrentMonthStatusResponse{
		UserID:     userID,
		Year:       local.Year(),
		Month:      int(local.Month()),
		Statistics: report.BuildStatistics(f.rec, f.days, f.assessment, f.thresholds),
		Days:       worktime.ToDailySummaryResponses(elapsed),
	}

	prevYear, prevMonth := report.PreviousMonth(local)
	prev, err := s.ReportRepository.GetByPeriod(ctx, userID, prevYear, prevMonth)
	switch {
	case err == nil:
		prevResp := report.ToResponse(prev, false)
		resp.PreviousReport = &prevResp
		resp.ReviewPending = prev.Disposition() == report.DispositionUnreviewed
	case !errors.Is(err, report.ErrReportNotFound):
		return report.CurrentMonthStatusResponse{}, fmt.Errorf("failed to get previous report: %w", err)
	}
	return resp, nil
}

// GetReport implements report.ReportService.
func (s *ReportServiceImpl) GetReport(ctx context.Context, actor user.Actor, reportID string) (report.ReportResponse, error) {
	r, err := s.ReportRepository.GetByID(ctx, reportID)
	if err != nil {
		return report.ReportResponse{}, err
	}
	if err := actor.RequireAccess(r.UserID); err != nil {
		return report.ReportResponse{}, err
	}

	// Only the owner's read counts as viewing
	if actor.UserID == r.UserID && r.MarkViewed(s.now()) {
		if err := s.ReportRepository.MarkViewed(ctx, r); err != nil {
			return report.ReportResponse{}, fmt.Errorf("failed to mark report viewed: %w", err)
		}
	}
	return report.ToResponse(r, true), nil
}

// getOwned loads a report the actor owns.
func (s *ReportServiceImpl) getOwned(ctx context.Context, actor user.Actor, reportID string) (report.MonthlyReport, error) {
	r, err := s.ReportRepository.GetByID(ctx, reportID)
	if err != nil {
		return report.MonthlyReport{}, err
	}
	if r.UserID != actor.UserID {
		return report.MonthlyReport{}, report.ErrNotReportOwner
	}
	return r, nil
}

// MarkViewed implements report.ReportService.
func (s *ReportServiceImpl) MarkViewed(ctx context.Context, actor user.Actor, reportID string) (report.ReportResponse, error) {
	r, err := s.getOwned(ctx, actor, reportID)
	if err != nil {
		return report.ReportResponse{}, err
	}
	if r.MarkViewed(s.now()) {
		if err := s.ReportRepository.MarkViewed(ctx, r); err != nil {
			return report.ReportResponse{}, fmt.Errorf("failed to mark report viewed: %w", err)
		}
	}
	return report.ToResponse(r, false), nil
}

// Accept implements report.ReportService.
func (s *ReportServiceImpl) Accept(ctx context.Context, actor user.Actor, reportID string) (report.ReportResponse, error) {
	r, err := s.getOwned(ctx, actor, reportID)
	if err != nil {
		return report.ReportResponse{}, err
	}
	if err := r.Accept(s.now()); err != nil {
		return report.ReportResponse{}, err
	}
	if err := s.ReportRepository.SetDisposition(ctx, r); err != nil {
		return report.ReportResponse{}, err
	}

	slog.Info("monthly report accepted", "report_id", r.ID, "user_id", r.UserID)
	return report.ToResponse(r, false), nil
}

// Contest implements report.ReportService.
func (s *ReportServiceImpl) Contest(ctx context.Context, actor user.Actor, req report.ContestRequest) (report.ReportResponse, error) {
	if err := req.Validate(); err != nil {
		return report.ReportResponse{}, err
	}
	if !validator.HasMinLength(req.Reason, s.config.ContestMinLength) {
		return report.ReportResponse{}, report.ErrContestReasonTooShort
	}

	r, err := s.getOwned(ctx, actor, req.ReportID)
	if err != nil {
		return report.ReportResponse{}, err
	}
	if err := r.Contest(s.now(), req.Reason); err != nil {
		return report.ReportResponse{}, err
	}
	if err := s.ReportRepository.SetDisposition(ctx, r); err != nil {
		return report.ReportResponse{}, err
	}

	slog.Info("monthly report contested", "report_id", r.ID, "user_id", r.UserID)
	return report.ToResponse(r, false), nil
}

// ListReports implements report.ReportService.
func (s *ReportServiceImpl) ListReports(ctx context.Context, actor user.Actor, userID string) ([]report.ReportResponse, error) {
	if err := actor.RequireAccess(userID); err != nil {
		return nil, err
	}
	reports, err := s.ReportRepository.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	out := make([]report.ReportResponse, 0, len(reports))
	for _, r := range reports {
		out = append(out, report.ToResponse(r, false))
	}
	return out, nil
}
