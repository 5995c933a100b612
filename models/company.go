package models

import (
	"fmt"
	"strings"
	"time"
)

// CompanyStatus, firmanın platformdaki durumu.
type CompanyStatus string

const (
	CompanyStatusActive  CompanyStatus = "active"
	CompanyStatusPassive CompanyStatus = "passive"
	CompanyStatusPending CompanyStatus = "pending"
)

// Valid, durumun tanımlı değerlerden biri olup olmadığını döner.
func (s CompanyStatus) Valid() bool {
	switch s {
	case CompanyStatusActive, CompanyStatusPassive, CompanyStatusPending:
		return true
	}
	return false
}

// Company, platformdaki bir firma (tenant).
//
// TaxNumber DB'de şifreli saklanır; repository katmanı düz metin görür,
// şifreleme servis katmanında yapılır.
type Company struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	TaxNumber     string        `json:"tax_number"`
	Sector        string        `json:"sector"`
	City          string        `json:"city"`
	Country       string        `json:"country"`
	Website       string        `json:"website"`
	Phone         string        `json:"phone"`
	Email         string        `json:"email"`
	ExportMarkets []string      `json:"export_markets"`
	Status        CompanyStatus `json:"status"`
	OwnerID       *string       `json:"owner_id"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// CompanySummary, listelerde kullanılan kısa firma bilgisi.
type CompanySummary struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Status CompanyStatus `json:"status"`
}

// CompanyFilter, admin firma listesi filtreleri.
// Market, export_markets dizisinde "içerir" araması yapar.
type CompanyFilter struct {
	Query  string
	Status CompanyStatus
	Market string
	Limit  int
	Offset int
}

// CreateCompanyRequest, admin'in firma oluşturma isteği.
// OwnerEmail doluysa o kullanıcı owner olarak atanır.
type CreateCompanyRequest struct {
	Name          string        `json:"name"`
	TaxNumber     string        `json:"tax_number"`
	Sector        string        `json:"sector"`
	City          string        `json:"city"`
	Country       string        `json:"country"`
	Website       string        `json:"website"`
	Phone         string        `json:"phone"`
	Email         string        `json:"email"`
	ExportMarkets []string      `json:"export_markets"`
	Status        CompanyStatus `json:"status"`
	OwnerEmail    string        `json:"owner_email"`
}

// Validate, CreateCompanyRequest'i normalize eder ve doğrular.
func (r *CreateCompanyRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.TaxNumber = strings.TrimSpace(r.TaxNumber)
	r.Email = NormalizeEmail(r.Email)
	r.OwnerEmail = NormalizeEmail(r.OwnerEmail)
	r.Country = strings.ToUpper(strings.TrimSpace(r.Country))
	if r.Country == "" {
		r.Country = "TR"
	}
	if r.Status == "" {
		r.Status = CompanyStatusActive
	}
	r.ExportMarkets = NormalizeMarkets(r.ExportMarkets)

	if err := validateLength("company name", r.Name, 2, 200); err != nil {
		return err
	}
	if r.Email != "" {
		if err := validateEmail(r.Email); err != nil {
			return err
		}
	}
	if !r.Status.Valid() {
		return fmt.Errorf("invalid company status")
	}
	return nil
}

// UpdateCompanyRequest, firma profil güncellemesi. Status sadece admin tarafından değiştirilebilir.
type UpdateCompanyRequest struct {
	Name          *string        `json:"name"`
	TaxNumber     *string        `json:"tax_number"`
	Sector        *string        `json:"sector"`
	City          *string        `json:"city"`
	Country       *string        `json:"country"`
	Website       *string        `json:"website"`
	Phone         *string        `json:"phone"`
	Email         *string        `json:"email"`
	ExportMarkets []string       `json:"export_markets"`
	Status        *CompanyStatus `json:"status"`
}

// Validate, sadece gönderilen alanları doğrular.
func (r *UpdateCompanyRequest) Validate() error {
	for _, s := range []*string{r.Name, r.TaxNumber, r.Sector, r.City, r.Country, r.Website, r.Phone, r.Email} {
		trimPtr(s)
	}
	if r.Name != nil {
		if err := validateLength("company name", *r.Name, 2, 200); err != nil {
			return err
		}
	}
	if r.Email != nil && *r.Email != "" {
		*r.Email = NormalizeEmail(*r.Email)
		if err := validateEmail(*r.Email); err != nil {
			return err
		}
	}
	if r.Status != nil && !r.Status.Valid() {
		return fmt.Errorf("invalid company status")
	}
	if r.ExportMarkets != nil {
		r.ExportMarkets = NormalizeMarkets(r.ExportMarkets)
	}
	return nil
}

// NormalizeMarkets, ülke kodlarını büyük harfe çevirir, boşları ve tekrarları atar.
func NormalizeMarkets(markets []string) []string {
	out := make([]string, 0, len(markets))
	seen := make(map[string]bool, len(markets))
	for _, m := range markets {
		m = strings.ToUpper(strings.TrimSpace(m))
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}
