package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/akinalp/eihracat/database"
	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
)

type sqlTaskRepo struct {
	db database.TxQuerier
}

// NewSQLTaskRepo, TaskRepository'nin SQL implementasyonunu döner.
func NewSQLTaskRepo(db database.TxQuerier) TaskRepository {
	return &sqlTaskRepo{db: db}
}

const taskColumns = `id, project_id, company_id, title, description, assignee_id, status, priority,
	due_date, completed_at, created_by, created_at, updated_at`

func scanTask(row interface{ Scan(...any) error }, t *models.Task) error {
	return row.Scan(
		&t.ID, &t.ProjectID, &t.CompanyID, &t.Title, &t.Description, &t.AssigneeID, &t.Status,
		&t.Priority, &t.DueDate, &t.CompletedAt, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
	)
}

func (r *sqlTaskRepo) Create(ctx context.Context, t *models.Task) error {
	t.ID = newID()
	t.CreatedAt = now()
	t.UpdatedAt = t.CreatedAt

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, project_id, company_id, title, description, assignee_id, status, priority,
			due_date, completed_at, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.ProjectID, t.CompanyID, t.Title, t.Description, t.AssigneeID, t.Status, t.Priority,
		utcPtr(t.DueDate), utcPtr(t.CompletedAt), t.CreatedBy, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (r *sqlTaskRepo) GetByID(ctx context.Context, companyID, id string) (*models.Task, error) {
	t := &models.Task{}
	row := r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE company_id = ? AND id = ?`, companyID, id)
	if err := scanTask(row, t); err != nil {
		return nil, notFound(err, "task")
	}
	return t, nil
}

func (r *sqlTaskRepo) List(ctx context.Context, companyID string, filter models.TaskFilter) ([]models.Task, error) {
	var w whereBuilder
	w.add("company_id = ?", companyID)
	if filter.ProjectID != "" {
		w.add("project_id = ?", filter.ProjectID)
	}
	if filter.AssigneeID != "" {
		w.add("assignee_id = ?", filter.AssigneeID)
	}
	if filter.Status != "" {
		w.add("status = ?", filter.Status)
	}
	if !filter.ActiveTo.IsZero() {
		w.add("created_at < ?", filter.ActiveTo.UTC())
	}
	if !filter.ActiveFrom.IsZero() {
		w.add("(completed_at IS NULL OR completed_at >= ?)", filter.ActiveFrom.UTC())
	}

	// Açık görevler önce, sonra teslim tarihine göre (tarihsizler en sonda)
	rows, err := r.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks`+w.String()+`
		ORDER BY CASE WHEN status = 'done' THEN 1 ELSE 0 END,
			CASE WHEN due_date IS NULL THEN 1 ELSE 0 END, due_date, created_at`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var t models.Task
		if err := scanTask(rows, &t); err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *sqlTaskRepo) Update(ctx context.Context, t *models.Task) error {
	t.UpdatedAt = now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks SET title = ?, description = ?, assignee_id = ?, status = ?, priority = ?,
			due_date = ?, completed_at = ?, updated_at = ?
		WHERE company_id = ? AND id = ?`,
		t.Title, t.Description, t.AssigneeID, t.Status, t.Priority,
		utcPtr(t.DueDate), utcPtr(t.CompletedAt), t.UpdatedAt, t.CompanyID, t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return requireAffected(res, "task")
}

func (r *sqlTaskRepo) Delete(ctx context.Context, companyID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE company_id = ? AND id = ?`, companyID, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return requireAffected(res, "task")
}

func (r *sqlTaskRepo) Counts(ctx context.Context, companyID string) (models.TaskCounts, error) {
	var c models.TaskCounts

	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM tasks WHERE company_id = ? GROUP BY status`, companyID)
	if err != nil {
		return c, fmt.Errorf("failed to count tasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status models.TaskStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return c, fmt.Errorf("failed to scan task count: %w", err)
		}
		c.Total += n
		switch status {
		case models.TaskStatusTodo:
			c.Todo = n
		case models.TaskStatusInProgress:
			c.InProgress = n
		case models.TaskStatusDone:
			c.Done = n
		}
	}
	if err := rows.Err(); err != nil {
		return c, err
	}

	c.CompletionPercent = pkg.Percent(c.Done, c.Total)
	return c, nil
}

func (r *sqlTaskRepo) CountsInPeriod(ctx context.Context, companyID string, from, to time.Time) (int, int, error) {
	var total, done int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN completed_at >= ? AND completed_at < ? THEN 1 ELSE 0 END), 0)
		FROM tasks WHERE company_id = ? AND created_at < ?
			AND (completed_at IS NULL OR completed_at >= ?)`,
		from.UTC(), to.UTC(), companyID, to.UTC(), from.UTC(),
	).Scan(&total, &done)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count tasks in period: %w", err)
	}
	return total, done, nil
}
