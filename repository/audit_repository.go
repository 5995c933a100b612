package repository

import (
	"context"
	"time"

	"github.com/akinalp/eihracat/models"
)

// AuditRepository, admin işlem kayıtları.
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, int, error)
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}
