package repository

import (
	"context"
	"time"

	"github.com/akinalp/eihracat/models"
)

// PasswordResetRepository, şifre sıfırlama token'ları.
// Token'ın kendisi değil SHA256 hash'i saklanır.
type PasswordResetRepository interface {
	Create(ctx context.Context, token *models.PasswordResetToken) error
	// Consume, süresi dolmamış token'ı siler ve sahibinin ID'sini döner.
	// Token yoksa, süresi geçmişse veya başka bir istek önce silmişse ErrNotFound.
	Consume(ctx context.Context, tokenHash string, now time.Time) (string, error)
	GetLatestByUserID(ctx context.Context, userID string) (*models.PasswordResetToken, error)
	DeleteByUserID(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
