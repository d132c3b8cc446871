package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopledger/backend/internal/domain/catalog"
)

// ProductModel is the persistence model for products
type ProductModel struct {
	TenantAggregateModel
	Name       string          `gorm:"type:varchar(200);not null"`
	SKU        string          `gorm:"type:varchar(100);index"`
	Price      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Stock      int             `gorm:"not null;default:0"`
	CategoryID *uuid.UUID      `gorm:"type:uuid;index"`
	BrandID    *uuid.UUID      `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Name:                m.Name,
		SKU:                 m.SKU,
		Price:               m.Price,
		Stock:               m.Stock,
		CategoryID:          m.CategoryID,
		BrandID:             m.BrandID,
	}
}

// ProductModelFromDomain creates a persistence model from a domain Product
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{
		Name:       p.Name,
		SKU:        p.SKU,
		Price:      p.Price,
		Stock:      p.Stock,
		CategoryID: p.CategoryID,
		BrandID:    p.BrandID,
	}
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	return m
}

// CategoryModel is the persistence model for the tenant-agnostic category
// reference data.
type CategoryModel struct {
	BaseModel
	Name string `gorm:"type:varchar(200);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
	}
}

// CategoryModelFromDomain creates a persistence model from a domain Category
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{Name: c.Name}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}

// BrandModel is the persistence model for the tenant-agnostic brand
// reference data.
type BrandModel struct {
	BaseModel
	Name string `gorm:"type:varchar(200);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (BrandModel) TableName() string {
	return "brands"
}

// ToDomain converts the persistence model to a domain Brand
func (m *BrandModel) ToDomain() *catalog.Brand {
	return &catalog.Brand{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
	}
}

// BrandModelFromDomain creates a persistence model from a domain Brand
func BrandModelFromDomain(b *catalog.Brand) *BrandModel {
	m := &BrandModel{Name: b.Name}
	m.FromDomainBaseEntity(b.BaseEntity)
	return m
}
