package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product represents a sellable item owned by one shop.
// Categories and brands are tenant-agnostic reference data.
type Product struct {
	shared.TenantAggregateRoot
	Name       string          `json:"name"`
	SKU        string          `json:"sku"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock"`
	CategoryID *uuid.UUID      `json:"category_id"`
	BrandID    *uuid.UUID      `json:"brand_id"`
}

// NewProduct creates a new product for the given shop
func NewProduct(tenantID uuid.UUID, name string, price decimal.Decimal) (*Product, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Product must belong to a shop")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}

	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Price:               price,
	}, nil
}

// Update replaces the product's mutable fields
func (p *Product) Update(name, sku string, price decimal.Decimal, categoryID, brandID *uuid.UUID) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}
	p.Name = name
	p.SKU = sku
	p.Price = price
	p.CategoryID = categoryID
	p.BrandID = brandID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// AdjustStock applies a stock delta. Negative adjustments may not take the
// stock below zero.
func (p *Product) AdjustStock(delta int) error {
	next := p.Stock + delta
	if next < 0 {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "Stock adjustment would go below zero")
	}
	p.Stock = next
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// Category is tenant-agnostic reference data for grouping products
type Category struct {
	shared.BaseEntity
	Name string `json:"name"`
}

// NewCategory creates a new category
func NewCategory(name string) (*Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	return &Category{BaseEntity: shared.NewBaseEntity(), Name: name}, nil
}

// Brand is tenant-agnostic reference data for product manufacturers
type Brand struct {
	shared.BaseEntity
	Name string `json:"name"`
}

// NewBrand creates a new brand
func NewBrand(name string) (*Brand, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Brand name cannot be empty")
	}
	return &Brand{BaseEntity: shared.NewBaseEntity(), Name: name}, nil
}
