package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/akinalp/eihracat/database"
	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
)

type sqlProjectRepo struct {
	db database.TxQuerier
}

// NewSQLProjectRepo, ProjectRepository'nin SQL implementasyonunu döner.
func NewSQLProjectRepo(db database.TxQuerier) ProjectRepository {
	return &sqlProjectRepo{db: db}
}

const projectColumns = `p.id, p.company_id, p.name, p.description, p.status, p.start_date, p.due_date,
	p.created_by, p.created_at, p.updated_at`

func scanProject(row interface{ Scan(...any) error }, p *models.Project, extra ...any) error {
	dest := []any{
		&p.ID, &p.CompanyID, &p.Name, &p.Description, &p.Status, &p.StartDate, &p.DueDate,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

func (r *sqlProjectRepo) Create(ctx context.Context, p *models.Project) error {
	p.ID = newID()
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO projects (id, company_id, name, description, status, start_date, due_date, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.CompanyID, p.Name, p.Description, p.Status, utcPtr(p.StartDate), utcPtr(p.DueDate),
		p.CreatedBy, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

func (r *sqlProjectRepo) GetByID(ctx context.Context, companyID, id string) (*models.Project, error) {
	p := &models.Project{}
	row := r.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects p WHERE p.company_id = ? AND p.id = ?`, companyID, id)
	if err := scanProject(row, p); err != nil {
		return nil, notFound(err, "project")
	}
	return p, nil
}

func (r *sqlProjectRepo) List(ctx context.Context, companyID string) ([]models.ProjectWithProgress, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+projectColumns+`,
			COUNT(t.id),
			COALESCE(SUM(CASE WHEN t.status = ? THEN 1 ELSE 0 END), 0)
		FROM projects p
		LEFT JOIN tasks t ON t.project_id = p.id
		WHERE p.company_id = ?
		GROUP BY `+projectColumns+`
		ORDER BY p.created_at DESC`, models.TaskStatusDone, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	list := []models.ProjectWithProgress{}
	for rows.Next() {
		var p models.ProjectWithProgress
		if err := scanProject(rows, &p.Project, &p.TaskTotal, &p.TaskDone); err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		p.ProgressPercent = pkg.Percent(p.TaskDone, p.TaskTotal)
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *sqlProjectRepo) Update(ctx context.Context, p *models.Project) error {
	p.UpdatedAt = now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE projects SET name = ?, description = ?, status = ?, start_date = ?, due_date = ?, updated_at = ?
		WHERE company_id = ? AND id = ?`,
		p.Name, p.Description, p.Status, utcPtr(p.StartDate), utcPtr(p.DueDate), p.UpdatedAt,
		p.CompanyID, p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	return requireAffected(res, "project")
}

func (r *sqlProjectRepo) Delete(ctx context.Context, companyID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE company_id = ? AND id = ?`, companyID, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return requireAffected(res, "project")
}

func (r *sqlProjectRepo) Counts(ctx context.Context, companyID string) (models.ProjectCounts, error) {
	return r.countBy(ctx, `SELECT status, COUNT(*) FROM projects WHERE company_id = ? GROUP BY status`, companyID)
}

func (r *sqlProjectRepo) CountsUntil(ctx context.Context, companyID string, until time.Time) (models.ProjectCounts, error) {
	return r.countBy(ctx,
		`SELECT status, COUNT(*) FROM projects WHERE company_id = ? AND created_at < ? GROUP BY status`,
		companyID, until.UTC())
}

func (r *sqlProjectRepo) countBy(ctx context.Context, query string, args ...any) (models.ProjectCounts, error) {
	var c models.ProjectCounts

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return c, fmt.Errorf("failed to count projects: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status models.ProjectStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return c, fmt.Errorf("failed to scan project count: %w", err)
		}
		c.Total += n
		switch status {
		case models.ProjectStatusPlanned:
			c.Planned = n
		case models.ProjectStatusActive:
			c.Active = n
		case models.ProjectStatusCompleted:
			c.Completed = n
		case models.ProjectStatusCancelled:
			c.Cancelled = n
		}
	}
	return c, rows.Err()
}
