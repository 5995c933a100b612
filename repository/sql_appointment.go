package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/akinalp/eihracat/database"
	"github.com/akinalp/eihracat/models"
)

type sqlAppointmentRepo struct {
	db database.TxQuerier
}

// NewSQLAppointmentRepo, AppointmentRepository'nin SQL implementasyonunu döner.
func NewSQLAppointmentRepo(db database.TxQuerier) AppointmentRepository {
	return &sqlAppointmentRepo{db: db}
}

const appointmentColumns = `a.id, a.company_id, c.name, a.requested_by, a.consultant_id, a.subject, a.message,
	a.preferred_date, a.status, a.scheduled_at, a.response_note, a.created_at, a.updated_at`

func scanAppointment(row interface{ Scan(...any) error }, a *models.AppointmentRequest) error {
	return row.Scan(
		&a.ID, &a.CompanyID, &a.CompanyName, &a.RequestedBy, &a.ConsultantID, &a.Subject, &a.Message,
		&a.PreferredDate, &a.Status, &a.ScheduledAt, &a.ResponseNote, &a.CreatedAt, &a.UpdatedAt,
	)
}

func (r *sqlAppointmentRepo) Create(ctx context.Context, a *models.AppointmentRequest) error {
	a.ID = newID()
	a.CreatedAt = now()
	a.UpdatedAt = a.CreatedAt
	if a.Status == "" {
		a.Status = models.AppointmentPending
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO appointment_requests (id, company_id, requested_by, consultant_id, subject, message,
			preferred_date, status, scheduled_at, response_note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.CompanyID, a.RequestedBy, a.ConsultantID, a.Subject, a.Message,
		a.PreferredDate.UTC(), a.Status, utcPtr(a.ScheduledAt), a.ResponseNote, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *sqlAppointmentRepo) GetByID(ctx context.Context, id string) (*models.AppointmentRequest, error) {
	a := &models.AppointmentRequest{}
	row := r.db.QueryRowContext(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointment_requests a JOIN companies c ON c.id = a.company_id
		WHERE a.id = ?`, id)
	if err := scanAppointment(row, a); err != nil {
		return nil, notFound(err, "appointment")
	}
	return a, nil
}

// List, ConsultantID verilirse danışmana atanmış talepleri ve danışmanın
// atandığı firmaların henüz sahiplenilmemiş taleplerini döner.
func (r *sqlAppointmentRepo) List(ctx context.Context, f models.AppointmentFilter) ([]models.AppointmentRequest, error) {
	var w whereBuilder
	if f.CompanyID != "" {
		w.add("a.company_id = ?", f.CompanyID)
	}
	if f.ConsultantID != "" {
		w.add(`(a.consultant_id = ? OR (a.consultant_id IS NULL AND a.company_id IN
			(SELECT company_id FROM consultant_assignments WHERE consultant_id = ?)))`, f.ConsultantID, f.ConsultantID)
	}
	if f.Status != "" {
		w.add("a.status = ?", f.Status)
	}
	if f.From != nil {
		w.add("COALESCE(a.scheduled_at, a.preferred_date) >= ?", f.From.UTC())
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointment_requests a JOIN companies c ON c.id = a.company_id`+w.String()+`
		ORDER BY COALESCE(a.scheduled_at, a.preferred_date)`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	list := []models.AppointmentRequest{}
	for rows.Next() {
		var a models.AppointmentRequest
		if err := scanAppointment(rows, &a); err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *sqlAppointmentRepo) Update(ctx context.Context, a *models.AppointmentRequest, from models.AppointmentStatus) error {
	a.UpdatedAt = now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE appointment_requests SET consultant_id = ?, status = ?, scheduled_at = ?, response_note = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		a.ConsultantID, a.Status, utcPtr(a.ScheduledAt), a.ResponseNote, a.UpdatedAt, a.ID, from,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	return requireTransition(res, "appointment")
}

func (r *sqlAppointmentRepo) CountsInPeriod(ctx context.Context, companyID string, from, to time.Time) (int, int, error) {
	var total, completed int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0)
		FROM appointment_requests
		WHERE company_id = ? AND created_at >= ? AND created_at < ?`,
		models.AppointmentCompleted, companyID, from.UTC(), to.UTC(),
	).Scan(&total, &completed)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return total, completed, nil
}

func (r *sqlAppointmentRepo) CountOpen(ctx context.Context, companyID string) (int, int, error) {
	var w whereBuilder
	if companyID != "" {
		w.add("company_id = ?", companyID)
	}
	args := append([]any{models.AppointmentPending, models.AppointmentApproved}, w.args...)

	var pending, approved int
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0)
		FROM appointment_requests`+w.String(), args...,
	).Scan(&pending, &approved)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count open appointments: %w", err)
	}
	return pending, approved, nil
}
