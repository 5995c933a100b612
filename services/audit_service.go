package services

import (
	"context"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/repository"
)

// AuditService, admin işlemlerinin denetim kaydı.
type AuditService interface {
	// Record, kaydı yazar. Hata işlemi geri almaz, sadece loglanır.
	Record(ctx context.Context, actorID, action, entityType, entityID string, details any)
	List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, int, error)
	PurgeBefore(ctx context.Context, before time.Time) (int64, error)
}

type auditService struct {
	repo repository.AuditRepository
	log  *zap.Logger
}

// NewAuditService, constructor.
func NewAuditService(repo repository.AuditRepository, log *zap.Logger) AuditService {
	return &auditService{repo: repo, log: log}
}

func (s *auditService) Record(ctx context.Context, actorID, action, entityType, entityID string, details any) {
	entry := &models.AuditLog{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
	}
	if details != nil {
		if raw, err := json.Marshal(details); err == nil {
			entry.Details = string(raw)
		}
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.log.Error("failed to write audit log",
			zap.String("action", action),
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID),
			zap.Error(err),
		)
	}
}

func (s *auditService) List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, int, error) {
	if filter.Limit <= 0 || filter.Limit > pkg.MaxPageLimit {
		filter.Limit = pkg.DefaultPageLimit
	}
	return s.repo.List(ctx, filter)
}

func (s *auditService) PurgeBefore(ctx context.Context, before time.Time) (int64, error) {
	return s.repo.DeleteBefore(ctx, before)
}
