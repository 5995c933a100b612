package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/akinalp/eihracat/config"
	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/repository"
)

// PricingService, abonelik paketleri ve fiyat teklifi.
type PricingService interface {
	ListActive(ctx context.Context) ([]models.PricingPlan, error)
	GetByCode(ctx context.Context, code string) (*models.PricingPlan, error)
	// Quote, paket fiyatına dahil kullanıcıları aşan her kullanıcı için ek ücret ekler.
	// Yıllık faturada ek kullanıcı ücreti 12 ay üzerinden hesaplanır.
	Quote(ctx context.Context, req *models.QuoteRequest) (*models.Quote, error)

	AdminList(ctx context.Context) ([]models.PricingPlan, error)
	Create(ctx context.Context, actorID string, req *models.PricingPlanRequest) (*models.PricingPlan, error)
	Update(ctx context.Context, actorID, id string, req *models.PricingPlanRequest) (*models.PricingPlan, error)
	Delete(ctx context.Context, actorID, id string) error

	// SeedFromCatalog, katalogdaki paketleri koda göre ekler veya günceller.
	SeedFromCatalog(ctx context.Context, catalog *config.PricingCatalog) (created, updated int, err error)
	// SeedIfEmpty, tablo boşsa katalog dosyasından seed eder.
	SeedIfEmpty(ctx context.Context, path string) error
}

type pricingService struct {
	repo  repository.PricingRepository
	audit AuditService
	log   *zap.Logger
}

// NewPricingService, constructor.
func NewPricingService(repo repository.PricingRepository, audit AuditService, log *zap.Logger) PricingService {
	return &pricingService{repo: repo, audit: audit, log: log}
}

func (s *pricingService) ListActive(ctx context.Context) ([]models.PricingPlan, error) {
	return s.repo.List(ctx, true)
}

func (s *pricingService) GetByCode(ctx context.Context, code string) (*models.PricingPlan, error) {
	plan, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !plan.IsActive {
		return nil, fmt.Errorf("%w: pricing plan", pkg.ErrNotFound)
	}
	return plan, nil
}

var monthsPerYear = decimal.NewFromInt(12)

func (s *pricingService) Quote(ctx context.Context, req *models.QuoteRequest) (*models.Quote, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}

	plan, err := s.GetByCode(ctx, req.PlanCode)
	if err != nil {
		return nil, err
	}
	return quote(plan, req.BillingCycle, req.Users), nil
}

func quote(plan *models.PricingPlan, cycle models.BillingCycle, users int) *models.Quote {
	base := plan.MonthlyPrice
	perUser := plan.ExtraUserPrice
	if cycle == models.BillingYearly {
		base = plan.YearlyPrice
		perUser = perUser.Mul(monthsPerYear)
	}

	extraUsers := users - plan.IncludedUsers
	if extraUsers < 0 {
		extraUsers = 0
	}
	extraCost := perUser.Mul(decimal.NewFromInt(int64(extraUsers))).Round(2)

	return &models.Quote{
		PlanCode:     plan.Code,
		BillingCycle: cycle,
		Users:        users,
		Base:         base.Round(2),
		ExtraUsers:   extraUsers,
		ExtraCost:    extraCost,
		Total:        base.Add(extraCost).Round(2),
		Currency:     plan.Currency,
	}
}

func (s *pricingService) AdminList(ctx context.Context) ([]models.PricingPlan, error) {
	return s.repo.List(ctx, false)
}

func (s *pricingService) Create(ctx context.Context, actorID string, req *models.PricingPlanRequest) (*models.PricingPlan, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}

	plan := &models.PricingPlan{}
	applyPlan(plan, req)
	if err := s.repo.Create(ctx, plan); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actorID, models.AuditCreate, "pricing_plan", plan.ID, map[string]string{"code": plan.Code})
	return plan, nil
}

func (s *pricingService) Update(ctx context.Context, actorID, id string, req *models.PricingPlanRequest) (*models.PricingPlan, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}

	plan, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyPlan(plan, req)
	if err := s.repo.Update(ctx, plan); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actorID, models.AuditUpdate, "pricing_plan", plan.ID, map[string]string{"code": plan.Code})
	return plan, nil
}

func (s *pricingService) Delete(ctx context.Context, actorID, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actorID, models.AuditDelete, "pricing_plan", id, nil)
	return nil
}

func applyPlan(plan *models.PricingPlan, req *models.PricingPlanRequest) {
	plan.Code = req.Code
	plan.Name = req.Name
	plan.Description = req.Description
	plan.MonthlyPrice = req.MonthlyPrice
	plan.YearlyPrice = req.YearlyPrice
	plan.Currency = req.Currency
	plan.IncludedUsers = req.IncludedUsers
	plan.ExtraUserPrice = req.ExtraUserPrice
	plan.Features = req.Features
	plan.IsActive = req.IsActive
	plan.SortOrder = req.SortOrder
}

func (s *pricingService) SeedFromCatalog(ctx context.Context, catalog *config.PricingCatalog) (created, updated int, err error) {
	for _, entry := range catalog.Plans {
		monthly, yearly, extra, err := entry.ParsedPrices()
		if err != nil {
			return created, updated, invalid(err)
		}

		req := &models.PricingPlanRequest{
			Code:           entry.Code,
			Name:           entry.Name,
			Description:    entry.Description,
			MonthlyPrice:   monthly,
			YearlyPrice:    yearly,
			Currency:       entry.Currency,
			IncludedUsers:  entry.IncludedUsers,
			ExtraUserPrice: extra,
			Features:       entry.Features,
			IsActive:       true,
			SortOrder:      entry.SortOrder,
		}
		if req.Currency == "" {
			req.Currency = catalog.Currency
		}
		if err := req.Validate(); err != nil {
			return created, updated, invalid(fmt.Errorf("plan %s: %w", entry.Code, err))
		}

		plan := &models.PricingPlan{}
		applyPlan(plan, req)
		isNew, err := s.repo.UpsertByCode(ctx, plan)
		if err != nil {
			return created, updated, err
		}
		if isNew {
			created++
		} else {
			updated++
		}
	}

	s.log.Info("pricing catalog seeded", zap.Int("created", created), zap.Int("updated", updated))
	return created, updated, nil
}

func (s *pricingService) SeedIfEmpty(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	existing, err := s.repo.List(ctx, false)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	catalog, err := config.LoadPricingCatalog(path)
	if err != nil {
		return err
	}
	_, _, err = s.SeedFromCatalog(ctx, catalog)
	return err
}
