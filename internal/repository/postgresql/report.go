package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type reportRepository struct {
	db *database.DB
}

const reportColumns = `
	id, user_id, year, month, snapshot, generated_at, generated_by,
	viewed_at, accepted_at, contested_at, contest_reason, created_at, updated_at`

func scanReport(row pgx.Row) (report.MonthlyReport, error) {
	var r report.MonthlyReport
	err := row.Scan(
		&r.ID, &r.UserID, &r.Year, &r.Month, &r.Snapshot, &r.GeneratedAt, &r.GeneratedBy,
		&r.ViewedAt, &r.AcceptedAt, &r.ContestedAt, &r.ContestReason, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

// Create implements report.ReportRepository.
func (r *reportRepository) Create(ctx context.Context, m report.MonthlyReport) (report.MonthlyReport, error) {
	q := GetQuerier(ctx, r.db)

	if m.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return report.MonthlyReport{}, fmt.Errorf("failed to generate report id: %w", err)
		}
		m.ID = id.String()
	}

	query := `
		INSERT INTO monthly_reports (id, user_id, year, month, snapshot, generated_at, generated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + reportColumns

	created, err := scanReport(q.QueryRow(ctx, query,
		m.ID,
		m.UserID,
		m.Year,
		m.Month,
		m.Snapshot,
		m.GeneratedAt,
		m.GeneratedBy,
	))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return report.MonthlyReport{}, report.ErrReportAlreadyExists
		}
		return report.MonthlyReport{}, fmt.Errorf("failed to create monthly report: %w", err)
	}
	return created, nil
}

// GetByID implements report.ReportRepository.
func (r *reportRepository) GetByID(ctx context.Context, id string) (report.MonthlyReport, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + reportColumns + ` FROM monthly_reports WHERE id = $1`

	m, err := scanReport(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || database.IsInvalidInput(err) {
			return report.MonthlyReport{}, report.ErrReportNotFound
		}
		return report.MonthlyReport{}, fmt.Errorf("failed to get monthly report by ID: %w", err)
	}
	return m, nil
}

// GetByPeriod implements report.ReportRepository.
func (r *reportRepository) GetByPeriod(ctx context.Context, userID string, year, month int) (report.MonthlyReport, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + reportColumns + `
		FROM monthly_reports
		WHERE user_id = $1 AND year = $2 AND month = $3
	`

	m, err := scanReport(q.QueryRow(ctx, query, userID, year, month))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || database.IsInvalidInput(err) {
			return report.MonthlyReport{}, report.ErrReportNotFound
		}
		return report.MonthlyReport{}, fmt.Errorf("failed to get monthly report by period: %w", err)
	}
	return m, nil
}

// ListByUser implements report.ReportRepository.
func (r *reportRepository) ListByUser(ctx context.Context, userID string) ([]report.MonthlyReport, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + reportColumns + `
		FROM monthly_reports
		WHERE user_id = $1
		ORDER BY year DESC, month DESC
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list monthly reports: %w", err)
	}
	defer rows.Close()

	var reports []report.MonthlyReport
	for rows.Next() {
		m, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan monthly report: %w", err)
		}
		reports = append(reports, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate monthly reports: %w", err)
	}
	return reports, nil
}

// MarkViewed implements report.ReportRepository.
func (r *reportRepository) MarkViewed(ctx context.Context, m report.MonthlyReport) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE monthly_reports
		SET viewed_at = $2, updated_at = NOW()
		WHERE id = $1 AND viewed_at IS NULL
	`

	if _, err := q.Exec(ctx, query, m.ID, m.ViewedAt); err != nil {
		return fmt.Errorf("failed to mark monthly report viewed: %w", err)
	}
	return nil
}

// SetDisposition implements report.ReportRepository.
func (r *reportRepository) SetDisposition(ctx context.Context, m report.MonthlyReport) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE monthly_reports
		SET accepted_at = $2, contested_at = $3, contest_reason = $4, updated_at = NOW()
		WHERE id = $1
		  AND accepted_at IS NULL
		  AND contested_at IS NULL
	`

	tag, err := q.Exec(ctx, query, m.ID, m.AcceptedAt, m.ContestedAt, m.ContestReason)
	if err != nil {
		return fmt.Errorf("failed to set monthly report disposition: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return report.ErrReportAlreadyReviewed
	}
	return nil
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepository{db: db}
}
