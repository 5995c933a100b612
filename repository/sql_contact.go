package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/akinalp/eihracat/database"
	"github.com/akinalp/eihracat/models"
)

type sqlContactRepo struct {
	db database.TxQuerier
}

// NewSQLContactRepo, ContactRepository'nin SQL implementasyonunu döner.
func NewSQLContactRepo(db database.TxQuerier) ContactRepository {
	return &sqlContactRepo{db: db}
}

const contactColumns = `id, name, email, company, phone, subject, message, ip_address, is_handled, handled_by, handled_at, created_at`

func scanContact(row interface{ Scan(...any) error }, m *models.ContactMessage) error {
	return row.Scan(
		&m.ID, &m.Name, &m.Email, &m.Company, &m.Phone, &m.Subject, &m.Message,
		&m.IPAddress, &m.IsHandled, &m.HandledBy, &m.HandledAt, &m.CreatedAt,
	)
}

func (r *sqlContactRepo) Create(ctx context.Context, m *models.ContactMessage) error {
	m.ID = newID()
	m.CreatedAt = now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO contact_messages (id, name, email, company, phone, subject, message, ip_address, is_handled, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Email, m.Company, m.Phone, m.Subject, m.Message, m.IPAddress, false, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create contact message: %w", err)
	}
	return nil
}

func (r *sqlContactRepo) GetByID(ctx context.Context, id string) (*models.ContactMessage, error) {
	m := &models.ContactMessage{}
	if err := scanContact(r.db.QueryRowContext(ctx, `SELECT `+contactColumns+` FROM contact_messages WHERE id = ?`, id), m); err != nil {
		return nil, notFound(err, "contact message")
	}
	return m, nil
}

func (r *sqlContactRepo) List(ctx context.Context, handled *bool, limit, offset int) ([]models.ContactMessage, int, error) {
	var w whereBuilder
	if handled != nil {
		w.add("is_handled = ?", *handled)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contact_messages`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count contact messages: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contact_messages`+w.String()+` ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		pageArgs(w.args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contact messages: %w", err)
	}
	defer rows.Close()

	list := []models.ContactMessage{}
	for rows.Next() {
		var m models.ContactMessage
		if err := scanContact(rows, &m); err != nil {
			return nil, 0, fmt.Errorf("failed to scan contact message: %w", err)
		}
		list = append(list, m)
	}
	return list, total, rows.Err()
}

func (r *sqlContactRepo) SetHandled(ctx context.Context, id string, handled bool, handledBy string) error {
	var by *string
	var at *time.Time
	if handled {
		by = &handledBy
		t := now()
		at = &t
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE contact_messages SET is_handled = ?, handled_by = ?, handled_at = ? WHERE id = ?`,
		handled, by, at, id)
	if err != nil {
		return fmt.Errorf("failed to update contact message: %w", err)
	}
	return requireAffected(res, "contact message")
}

func (r *sqlContactRepo) CountUnhandled(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM contact_messages WHERE is_handled = ?`, false,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count contact messages: %w", err)
	}
	return n, nil
}
