package repository

import (
	"context"
	"fmt"

	"github.com/akinalp/eihracat/database"
	"github.com/akinalp/eihracat/models"
)

type sqlReportRepo struct {
	db database.TxQuerier
}

// NewSQLReportRepo, ReportRepository'nin SQL implementasyonunu döner.
func NewSQLReportRepo(db database.TxQuerier) ReportRepository {
	return &sqlReportRepo{db: db}
}

const reportColumns = `id, company_id, title, period_start, period_end, export_volume, target_volume, currency,
	notes, status, consultant_feedback, reviewed_by, submitted_at, reviewed_at, created_by, created_at, updated_at`

func scanReport(row interface{ Scan(...any) error }, p *models.PeriodReport) error {
	return row.Scan(
		&p.ID, &p.CompanyID, &p.Title, &p.PeriodStart, &p.PeriodEnd, &p.ExportVolume, &p.TargetVolume, &p.Currency,
		&p.Notes, &p.Status, &p.ConsultantFeedback, &p.ReviewedBy, &p.SubmittedAt, &p.ReviewedAt,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
}

func (r *sqlReportRepo) Create(ctx context.Context, p *models.PeriodReport) error {
	p.ID = newID()
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt
	if p.Status == "" {
		p.Status = models.ReportDraft
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO period_reports (`+reportColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.CompanyID, p.Title, p.PeriodStart.UTC(), p.PeriodEnd.UTC(), p.ExportVolume, p.TargetVolume, p.Currency,
		p.Notes, p.Status, p.ConsultantFeedback, p.ReviewedBy, utcPtr(p.SubmittedAt), utcPtr(p.ReviewedAt),
		p.CreatedBy, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

func (r *sqlReportRepo) GetByID(ctx context.Context, companyID, id string) (*models.PeriodReport, error) {
	p := &models.PeriodReport{}
	row := r.db.QueryRowContext(ctx,
		`SELECT `+reportColumns+` FROM period_reports WHERE company_id = ? AND id = ?`, companyID, id)
	if err := scanReport(row, p); err != nil {
		return nil, notFound(err, "report")
	}
	return p, nil
}

func (r *sqlReportRepo) ListByCompany(ctx context.Context, companyID string) ([]models.PeriodReport, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reportColumns+` FROM period_reports WHERE company_id = ? ORDER BY period_start DESC, created_at DESC`,
		companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	list := []models.PeriodReport{}
	for rows.Next() {
		var p models.PeriodReport
		if err := scanReport(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *sqlReportRepo) Update(ctx context.Context, p *models.PeriodReport, from models.ReportStatus) error {
	p.UpdatedAt = now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE period_reports SET title = ?, period_start = ?, period_end = ?, export_volume = ?, target_volume = ?,
			currency = ?, notes = ?, status = ?, consultant_feedback = ?, reviewed_by = ?, submitted_at = ?,
			reviewed_at = ?, updated_at = ?
		WHERE company_id = ? AND id = ? AND status = ?`,
		p.Title, p.PeriodStart.UTC(), p.PeriodEnd.UTC(), p.ExportVolume, p.TargetVolume,
		p.Currency, p.Notes, p.Status, p.ConsultantFeedback, p.ReviewedBy, utcPtr(p.SubmittedAt),
		utcPtr(p.ReviewedAt), p.UpdatedAt, p.CompanyID, p.ID, from,
	)
	if err != nil {
		return fmt.Errorf("failed to update report: %w", err)
	}
	return requireTransition(res, "report")
}

func (r *sqlReportRepo) Delete(ctx context.Context, companyID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM period_reports WHERE company_id = ? AND id = ?`, companyID, id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return requireAffected(res, "report")
}

func (r *sqlReportRepo) CountByStatus(ctx context.Context, status models.ReportStatus) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM period_reports WHERE status = ?`, status,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return n, nil
}
