package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/akinalp/eihracat/database"
	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
)

type sqlPricingRepo struct {
	db database.TxQuerier
}

// NewSQLPricingRepo, PricingRepository'nin SQL implementasyonunu döner.
func NewSQLPricingRepo(db database.TxQuerier) PricingRepository {
	return &sqlPricingRepo{db: db}
}

const pricingColumns = `id, code, name, description, monthly_price, yearly_price, currency, included_users,
	extra_user_price, features, is_active, sort_order, created_at, updated_at`

func scanPlan(row interface{ Scan(...any) error }, p *models.PricingPlan) error {
	var features string
	err := row.Scan(
		&p.ID, &p.Code, &p.Name, &p.Description, &p.MonthlyPrice, &p.YearlyPrice, &p.Currency, &p.IncludedUsers,
		&p.ExtraUserPrice, &features, &p.IsActive, &p.SortOrder, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	p.Features = decodeList(features)
	return nil
}

func (r *sqlPricingRepo) Create(ctx context.Context, p *models.PricingPlan) error {
	p.ID = newID()
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pricing_plans (`+pricingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Code, p.Name, p.Description, p.MonthlyPrice, p.YearlyPrice, p.Currency, p.IncludedUsers,
		p.ExtraUserPrice, encodeList(p.Features), p.IsActive, p.SortOrder, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("%w: plan code %q", pkg.ErrAlreadyExists, p.Code)
		}
		return fmt.Errorf("failed to create pricing plan: %w", err)
	}
	return nil
}

func (r *sqlPricingRepo) GetByID(ctx context.Context, id string) (*models.PricingPlan, error) {
	p := &models.PricingPlan{}
	if err := scanPlan(r.db.QueryRowContext(ctx, `SELECT `+pricingColumns+` FROM pricing_plans WHERE id = ?`, id), p); err != nil {
		return nil, notFound(err, "pricing plan")
	}
	return p, nil
}

func (r *sqlPricingRepo) GetByCode(ctx context.Context, code string) (*models.PricingPlan, error) {
	p := &models.PricingPlan{}
	if err := scanPlan(r.db.QueryRowContext(ctx, `SELECT `+pricingColumns+` FROM pricing_plans WHERE code = ?`, code), p); err != nil {
		return nil, notFound(err, "pricing plan")
	}
	return p, nil
}

func (r *sqlPricingRepo) List(ctx context.Context, activeOnly bool) ([]models.PricingPlan, error) {
	query := `SELECT ` + pricingColumns + ` FROM pricing_plans`
	var args []any
	if activeOnly {
		query += ` WHERE is_active = ?`
		args = append(args, true)
	}
	query += ` ORDER BY sort_order, monthly_price`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pricing plans: %w", err)
	}
	defer rows.Close()

	plans := []models.PricingPlan{}
	for rows.Next() {
		var p models.PricingPlan
		if err := scanPlan(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan pricing plan: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func (r *sqlPricingRepo) Update(ctx context.Context, p *models.PricingPlan) error {
	p.UpdatedAt = now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE pricing_plans SET code = ?, name = ?, description = ?, monthly_price = ?, yearly_price = ?,
			currency = ?, included_users = ?, extra_user_price = ?, features = ?, is_active = ?, sort_order = ?,
			updated_at = ?
		WHERE id = ?`,
		p.Code, p.Name, p.Description, p.MonthlyPrice, p.YearlyPrice,
		p.Currency, p.IncludedUsers, p.ExtraUserPrice, encodeList(p.Features), p.IsActive, p.SortOrder,
		p.UpdatedAt, p.ID,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("%w: plan code %q", pkg.ErrAlreadyExists, p.Code)
		}
		return fmt.Errorf("failed to update pricing plan: %w", err)
	}
	return requireAffected(res, "pricing plan")
}

func (r *sqlPricingRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pricing_plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete pricing plan: %w", err)
	}
	return requireAffected(res, "pricing plan")
}

func (r *sqlPricingRepo) UpsertByCode(ctx context.Context, p *models.PricingPlan) (bool, error) {
	existing, err := r.GetByCode(ctx, p.Code)
	if errors.Is(err, pkg.ErrNotFound) {
		return true, r.Create(ctx, p)
	}
	if err != nil {
		return false, err
	}

	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	return false, r.Update(ctx, p)
}
