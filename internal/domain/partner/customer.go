package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopledger/backend/internal/domain/shared"
)

// Customer represents a buyer belonging to exactly one shop.
// Invoices reference customers and snapshot their name at creation time.
type Customer struct {
	shared.TenantAggregateRoot
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

// NewCustomer creates a new customer for the given shop
func NewCustomer(tenantID uuid.UUID, name string) (*Customer, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Customer must belong to a shop")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}

	return &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
	}, nil
}

// Update replaces the customer's name and contact fields
func (c *Customer) Update(name, phone, email, address, notes string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	c.Name = name
	c.Phone = phone
	c.Email = strings.ToLower(strings.TrimSpace(email))
	c.Address = address
	c.Notes = notes
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}
