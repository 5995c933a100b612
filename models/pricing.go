package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BillingCycle, faturalama periyodu.
type BillingCycle string

const (
	BillingMonthly BillingCycle = "monthly"
	BillingYearly  BillingCycle = "yearly"
)

// PricingPlan, abonelik paketi.
type PricingPlan struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	MonthlyPrice   decimal.Decimal `json:"monthly_price"`
	YearlyPrice    decimal.Decimal `json:"yearly_price"`
	Currency       string          `json:"currency"`
	IncludedUsers  int             `json:"included_users"`
	ExtraUserPrice decimal.Decimal `json:"extra_user_price"`
	Features       []string        `json:"features"`
	IsActive       bool            `json:"is_active"`
	SortOrder      int             `json:"sort_order"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Quote, fiyat hesaplamasının sonucu.
type Quote struct {
	PlanCode     string          `json:"plan_code"`
	BillingCycle BillingCycle    `json:"billing_cycle"`
	Users        int             `json:"users"`
	Base         decimal.Decimal `json:"base"`
	ExtraUsers   int             `json:"extra_users"`
	ExtraCost    decimal.Decimal `json:"extra_cost"`
	Total        decimal.Decimal `json:"total"`
	Currency     string          `json:"currency"`
}

// QuoteRequest, fiyat teklifi isteği.
type QuoteRequest struct {
	PlanCode     string       `json:"plan_code"`
	BillingCycle BillingCycle `json:"billing_cycle"`
	Users        int          `json:"users"`
}

// Validate, QuoteRequest'i doğrular.
func (r *QuoteRequest) Validate() error {
	r.PlanCode = strings.TrimSpace(r.PlanCode)
	if r.BillingCycle == "" {
		r.BillingCycle = BillingMonthly
	}
	if r.PlanCode == "" {
		return fmt.Errorf("plan_code is required")
	}
	if r.BillingCycle != BillingMonthly && r.BillingCycle != BillingYearly {
		return fmt.Errorf("billing_cycle must be monthly or yearly")
	}
	if r.Users < 1 {
		return fmt.Errorf("users must be at least 1")
	}
	return nil
}

// PricingPlanRequest, admin paket oluşturma/güncelleme.
type PricingPlanRequest struct {
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	MonthlyPrice   decimal.Decimal `json:"monthly_price"`
	YearlyPrice    decimal.Decimal `json:"yearly_price"`
	Currency       string          `json:"currency"`
	IncludedUsers  int             `json:"included_users"`
	ExtraUserPrice decimal.Decimal `json:"extra_user_price"`
	Features       []string        `json:"features"`
	IsActive       bool            `json:"is_active"`
	SortOrder      int             `json:"sort_order"`
}

// Validate, PricingPlanRequest'i doğrular.
func (r *PricingPlanRequest) Validate() error {
	r.Code = strings.ToLower(strings.TrimSpace(r.Code))
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	r.Currency = strings.ToUpper(strings.TrimSpace(r.Currency))
	if r.Currency == "" {
		r.Currency = "TRY"
	}
	if r.IncludedUsers == 0 {
		r.IncludedUsers = 1
	}
	if r.Features == nil {
		r.Features = []string{}
	}

	if err := validateLength("code", r.Code, 2, 50); err != nil {
		return err
	}
	if err := validateLength("name", r.Name, 2, 100); err != nil {
		return err
	}
	if r.MonthlyPrice.IsNegative() || r.YearlyPrice.IsNegative() || r.ExtraUserPrice.IsNegative() {
		return fmt.Errorf("prices cannot be negative")
	}
	if r.IncludedUsers < 1 {
		return fmt.Errorf("included_users must be at least 1")
	}
	return nil
}
