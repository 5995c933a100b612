package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/akinalp/eihracat/database"
	"github.com/akinalp/eihracat/models"
)

type sqlAuditRepo struct {
	db database.TxQuerier
}

// NewSQLAuditRepo, AuditRepository'nin SQL implementasyonunu döner.
func NewSQLAuditRepo(db database.TxQuerier) AuditRepository {
	return &sqlAuditRepo{db: db}
}

func (r *sqlAuditRepo) Create(ctx context.Context, e *models.AuditLog) error {
	e.ID = newID()
	e.CreatedAt = now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, actor_id, action, entity_type, entity_id, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ActorID, e.Action, e.EntityType, e.EntityID, e.Details, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

// List, kullanıcı silinmiş olsa bile kaydı döner; ActorName o durumda boştur.
func (r *sqlAuditRepo) List(ctx context.Context, f models.AuditFilter) ([]models.AuditLog, int, error) {
	var w whereBuilder
	if f.EntityType != "" {
		w.add("a.entity_type = ?", f.EntityType)
	}
	if f.ActorID != "" {
		w.add("a.actor_id = ?", f.ActorID)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_logs a`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT a.id, a.actor_id, COALESCE(u.full_name, ''), a.action, a.entity_type, a.entity_id, a.details, a.created_at
		FROM audit_logs a LEFT JOIN users u ON u.id = a.actor_id`+w.String()+`
		ORDER BY a.created_at DESC
		LIMIT ? OFFSET ?`, pageArgs(w.args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	list := []models.AuditLog{}
	for rows.Next() {
		var e models.AuditLog
		if err := rows.Scan(&e.ID, &e.ActorID, &e.ActorName, &e.Action, &e.EntityType, &e.EntityID, &e.Details, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan audit log: %w", err)
		}
		list = append(list, e)
	}
	return list, total, rows.Err()
}

func (r *sqlAuditRepo) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM audit_logs WHERE created_at < ?`, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to purge audit logs: %w", err)
	}
	return res.RowsAffected()
}
