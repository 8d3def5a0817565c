package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/report"
)

type reportRepository struct {
	store *Store
}

func NewReportRepository(s *Store) report.ReportRepository {
	return &reportRepository{store: s}
}

func (r *reportRepository) Create(ctx context.Context, m report.MonthlyReport) (report.MonthlyReport, error) {
	defer r.store.write(ctx)()

	for _, existing := range r.store.reports {
		if existing.UserID == m.UserID && existing.Year == m.Year && existing.Month == m.Month {
			return report.MonthlyReport{}, report.ErrReportAlreadyExists
		}
	}
	if m.ID == "" {
		id, err := newID()
		if err != nil {
			return report.MonthlyReport{}, fmt.Errorf("failed to generate report id: %w", err)
		}
		m.ID = id
	}
	now := r.store.now()
	m.CreatedAt = now
	m.UpdatedAt = now
	r.store.reports[m.ID] = m
	return m, nil
}

func (r *reportRepository) GetByID(ctx context.Context, id string) (report.MonthlyReport, error) {
	defer r.store.read(ctx)()

	m, ok := r.store.reports[id]
	if !ok {
		return report.MonthlyReport{}, report.ErrReportNotFound
	}
	return m, nil
}

func (r *reportRepository) GetByPeriod(ctx context.Context, userID string, year, month int) (report.MonthlyReport, error) {
	defer r.store.read(ctx)()

	for _, m := range r.store.reports {
		if m.UserID == userID && m.Year == year && m.Month == month {
			return m, nil
		}
	}
	return report.MonthlyReport{}, report.ErrReportNotFound
}

func (r *reportRepository) ListByUser(ctx context.Context, userID string) ([]report.MonthlyReport, error) {
	defer r.store.read(ctx)()

	var out []report.MonthlyReport
	for _, m := range r.store.reports {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Month > out[j].Month
	})
	return out, nil
}

func (r *reportRepository) MarkViewed(ctx context.Context, m report.MonthlyReport) error {
	defer r.store.write(ctx)()

	stored, ok := r.store.reports[m.ID]
	if !ok {
		return report.ErrReportNotFound
	}
	if stored.ViewedAt != nil {
		return nil
	}
	stored.ViewedAt = m.ViewedAt
	stored.UpdatedAt = r.store.now()
	r.store.reports[m.ID] = stored
	return nil
}

func (r *reportRepository) SetDisposition(ctx context.Context, m report.MonthlyReport) error {
	defer r.store.write(ctx)()

	stored, ok := r.store.reports[m.ID]
	if !ok {
		return report.ErrReportNotFound
	}
	if stored.Disposition() != report.DispositionUnreviewed {
		return report.ErrReportAlreadyReviewed
	}
	stored.AcceptedAt = m.AcceptedAt
	stored.ContestedAt = m.ContestedAt
	stored.ContestReason = m.ContestReason
	stored.UpdatedAt = r.store.now()
	r.store.reports[m.ID] = stored
	return nil
}
