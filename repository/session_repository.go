package repository

import (
	"context"
	"time"

	"github.com/akinalp/eihracat/models"
)

// SessionRepository, refresh token oturumları.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	GetByRefreshToken(ctx context.Context, token string) (*models.Session, error)
	ListByUser(ctx context.Context, userID string) ([]models.Session, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID string) error
	// DeleteOthers, kullanıcının keepID dışındaki tüm oturumlarını siler.
	DeleteOthers(ctx context.Context, userID, keepID string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
