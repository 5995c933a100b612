package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/akinalp/eihracat/database"
	"github.com/akinalp/eihracat/models"
)

type sqlResetTokenRepo struct {
	db database.TxQuerier
}

// NewSQLResetTokenRepo, PasswordResetRepository'nin SQL implementasyonunu döner.
func NewSQLResetTokenRepo(db database.TxQuerier) PasswordResetRepository {
	return &sqlResetTokenRepo{db: db}
}

func (r *sqlResetTokenRepo) Create(ctx context.Context, token *models.PasswordResetToken) error {
	token.ID = newID()
	token.CreatedAt = now()
	token.ExpiresAt = token.ExpiresAt.UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO password_reset_tokens (id, user_id, token_hash, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		token.ID, token.UserID, token.TokenHash, token.ExpiresAt, token.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create password reset token: %w", err)
	}
	return nil
}

func (r *sqlResetTokenRepo) Consume(ctx context.Context, tokenHash string, now time.Time) (string, error) {
	now = now.UTC()

	var userID string
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id FROM password_reset_tokens
		WHERE token_hash = ? AND expires_at > ?`, tokenHash, now,
	).Scan(&userID)
	if err != nil {
		return "", notFound(err, "password reset token")
	}

	// Tüketimin kendisi DELETE'tir; okunan satırı başka bir istek silmişse 0 satır döner.
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM password_reset_tokens
		WHERE token_hash = ? AND expires_at > ?`, tokenHash, now)
	if err != nil {
		return "", fmt.Errorf("failed to consume password reset token: %w", err)
	}
	if err := requireAffected(res, "password reset token"); err != nil {
		return "", err
	}
	return userID, nil
}

func (r *sqlResetTokenRepo) GetLatestByUserID(ctx context.Context, userID string) (*models.PasswordResetToken, error) {
	t := &models.PasswordResetToken{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, token_hash, expires_at, created_at
		FROM password_reset_tokens WHERE user_id = ?
		ORDER BY created_at DESC LIMIT 1`, userID,
	).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		return nil, notFound(err, "password reset token")
	}
	return t, nil
}

func (r *sqlResetTokenRepo) DeleteByUserID(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM password_reset_tokens WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to delete user's password reset tokens: %w", err)
	}
	return nil
}

func (r *sqlResetTokenRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM password_reset_tokens WHERE expires_at < ?`, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired password reset tokens: %w", err)
	}
	return res.RowsAffected()
}
