package repository

import (
	"context"

	"github.com/akinalp/eihracat/models"
)

// PricingRepository, fiyatlandırma paketleri.
type PricingRepository interface {
	Create(ctx context.Context, plan *models.PricingPlan) error
	GetByID(ctx context.Context, id string) (*models.PricingPlan, error)
	GetByCode(ctx context.Context, code string) (*models.PricingPlan, error)
	List(ctx context.Context, activeOnly bool) ([]models.PricingPlan, error)
	Update(ctx context.Context, plan *models.PricingPlan) error
	Delete(ctx context.Context, id string) error
	// UpsertByCode, aynı koda sahip paket varsa günceller, yoksa oluşturur.
	// Dönen bool, yeni kayıt oluşturulup oluşturulmadığını belirtir.
	UpsertByCode(ctx context.Context, plan *models.PricingPlan) (bool, error)
}
