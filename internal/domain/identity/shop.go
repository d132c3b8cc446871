package identity

import (
	"strings"
	"time"

	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Shop is the tenant aggregate. Every business record in the system is
// partitioned by the owning shop's ID.
type Shop struct {
	shared.BaseAggregateRoot
	Name     string          `json:"name"`
	Slug     string          `json:"slug"`
	Email    string          `json:"email"`
	Phone    string          `json:"phone"`
	Address  string          `json:"address"`
	Currency string          `json:"currency"`
	TaxRate  decimal.Decimal `json:"tax_rate"`
	Active   bool            `json:"active"`
}

// NewShop creates a new shop with the given display name and slug
func NewShop(name, slug string) (*Shop, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Shop name cannot be empty")
	}
	slug = normalizeSlug(slug)
	if slug == "" {
		slug = normalizeSlug(name)
	}
	if slug == "" {
		return nil, shared.NewDomainError("INVALID_SLUG", "Shop slug cannot be empty")
	}

	return &Shop{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              slug,
		Currency:          "USD",
		TaxRate:           decimal.Zero,
		Active:            true,
	}, nil
}

// UpdateProfile updates the shop's display name and contact fields
func (s *Shop) UpdateProfile(name, email, phone, address string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Shop name cannot be empty")
	}
	s.Name = name
	s.Email = strings.ToLower(strings.TrimSpace(email))
	s.Phone = phone
	s.Address = address
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// SetCurrency sets the shop's billing currency (ISO 4217 code)
func (s *Shop) SetCurrency(currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter ISO code")
	}
	s.Currency = currency
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// SetTaxRate sets the shop's default tax rate (percentage, 0-100)
func (s *Shop) SetTaxRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
	}
	s.TaxRate = rate
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Deactivate soft-disables the shop. Deactivation never deletes data.
func (s *Shop) Deactivate() {
	s.Active = false
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Activate re-enables the shop
func (s *Shop) Activate() {
	s.Active = true
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

func normalizeSlug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
