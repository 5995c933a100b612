package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// PricingCatalog, YAML fiyat kataloğunun kök yapısı.
//
//	currency: TRY
//	plans:
//	  - code: baslangic
//	    name: Başlangıç
//	    monthly_price: "1490.00"
//	    yearly_price: "14900.00"
//	    included_users: 3
//	    extra_user_price: "250.00"
//	    features: [Eğitim setleri, Forum erişimi]
type PricingCatalog struct {
	Currency string             `yaml:"currency"`
	Plans    []PricingPlanEntry `yaml:"plans"`
}

// PricingPlanEntry, katalogdaki tek bir paket.
// Fiyatlar kayan nokta hatasına düşmemek için string olarak okunur.
type PricingPlanEntry struct {
	Code           string   `yaml:"code"`
	Name           string   `yaml:"name"`
	Description    string   `yaml:"description"`
	MonthlyPrice   string   `yaml:"monthly_price"`
	YearlyPrice    string   `yaml:"yearly_price"`
	Currency       string   `yaml:"currency"`
	IncludedUsers  int      `yaml:"included_users"`
	ExtraUserPrice string   `yaml:"extra_user_price"`
	Features       []string `yaml:"features"`
	SortOrder      int      `yaml:"sort_order"`
}

// ParsedPrices, entry'nin fiyat alanlarını decimal olarak döner.
func (e PricingPlanEntry) ParsedPrices() (monthly, yearly, extra decimal.Decimal, err error) {
	if monthly, err = parseMoney(e.MonthlyPrice); err != nil {
		return monthly, yearly, extra, fmt.Errorf("plan %s monthly_price: %w", e.Code, err)
	}
	if yearly, err = parseMoney(e.YearlyPrice); err != nil {
		return monthly, yearly, extra, fmt.Errorf("plan %s yearly_price: %w", e.Code, err)
	}
	if extra, err = parseMoney(e.ExtraUserPrice); err != nil {
		return monthly, yearly, extra, fmt.Errorf("plan %s extra_user_price: %w", e.Code, err)
	}
	return monthly, yearly, extra, nil
}

// LoadPricingCatalog, YAML dosyasını okur ve doğrular.
func LoadPricingCatalog(path string) (*PricingCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pricing catalog: %w", err)
	}
	return ParsePricingCatalog(data)
}

// ParsePricingCatalog, ham YAML içeriğini çözer.
// Plan kodları benzersiz olmalı, currency boşsa katalog seviyesindeki değer kullanılır.
func ParsePricingCatalog(data []byte) (*PricingCatalog, error) {
	var catalog PricingCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse pricing catalog: %w", err)
	}
	if catalog.Currency == "" {
		catalog.Currency = "TRY"
	}

	seen := make(map[string]bool, len(catalog.Plans))
	for i := range catalog.Plans {
		p := &catalog.Plans[i]
		if p.Code == "" || p.Name == "" {
			return nil, fmt.Errorf("pricing plan #%d: code and name are required", i+1)
		}
		if seen[p.Code] {
			return nil, fmt.Errorf("pricing plan %s: duplicate code", p.Code)
		}
		seen[p.Code] = true

		if p.Currency == "" {
			p.Currency = catalog.Currency
		}
		if _, _, _, err := p.ParsedPrices(); err != nil {
			return nil, err
		}
	}

	return &catalog, nil
}

func parseMoney(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative amount %s", raw)
	}
	return d, nil
}
