package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/akinalp/eihracat/database"
	"github.com/akinalp/eihracat/models"
)

type sqlSessionRepo struct {
	db database.TxQuerier
}

// NewSQLSessionRepo, SessionRepository'nin SQL implementasyonunu döner.
func NewSQLSessionRepo(db database.TxQuerier) SessionRepository {
	return &sqlSessionRepo{db: db}
}

const sessionColumns = `id, user_id, refresh_token, user_agent, ip_address, expires_at, created_at`

func scanSession(row interface{ Scan(...any) error }, s *models.Session) error {
	return row.Scan(&s.ID, &s.UserID, &s.RefreshToken, &s.UserAgent, &s.IPAddress, &s.ExpiresAt, &s.CreatedAt)
}

func (r *sqlSessionRepo) Create(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		session.ID = newID()
	}
	session.CreatedAt = now()
	session.ExpiresAt = session.ExpiresAt.UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, refresh_token, user_agent, ip_address, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		session.ID, session.UserID, session.RefreshToken, session.UserAgent,
		session.IPAddress, session.ExpiresAt, session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *sqlSessionRepo) GetByID(ctx context.Context, id string) (*models.Session, error) {
	s := &models.Session{}
	row := r.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	if err := scanSession(row, s); err != nil {
		return nil, notFound(err, "session")
	}
	return s, nil
}

func (r *sqlSessionRepo) GetByRefreshToken(ctx context.Context, token string) (*models.Session, error) {
	s := &models.Session{}
	row := r.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE refresh_token = ?`, token)
	if err := scanSession(row, s); err != nil {
		return nil, notFound(err, "session")
	}
	return s, nil
}

func (r *sqlSessionRepo) ListByUser(ctx context.Context, userID string) ([]models.Session, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.Session{}
	for rows.Next() {
		var s models.Session
		if err := scanSession(rows, &s); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *sqlSessionRepo) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return requireAffected(res, "session")
}

func (r *sqlSessionRepo) DeleteByUserID(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}
	return nil
}

func (r *sqlSessionRepo) DeleteOthers(ctx context.Context, userID, keepID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE user_id = ? AND id <> ?`, userID, keepID,
	); err != nil {
		return fmt.Errorf("failed to delete other sessions: %w", err)
	}
	return nil
}

func (r *sqlSessionRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return res.RowsAffected()
}
