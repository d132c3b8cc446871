package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopledger/backend/internal/domain/catalog"
)

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name       string          `json:"name" binding:"required,min=1,max=200"`
	SKU        string          `json:"sku" binding:"max=100"`
	Price      decimal.Decimal `json:"price" binding:"required"`
	Stock      *int            `json:"stock" binding:"omitempty,min=0"`
	CategoryID *uuid.UUID      `json:"category_id"`
	BrandID    *uuid.UUID      `json:"brand_id"`
}

// UpdateProductRequest represents a partial update of a product
type UpdateProductRequest struct {
	Name       *string          `json:"name" binding:"omitempty,min=1,max=200"`
	SKU        *string          `json:"sku" binding:"omitempty,max=100"`
	Price      *decimal.Decimal `json:"price"`
	CategoryID *uuid.UUID       `json:"category_id"`
	BrandID    *uuid.UUID       `json:"brand_id"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID         uuid.UUID       `json:"id"`
	TenantID   uuid.UUID       `json:"tenant_id"`
	Name       string          `json:"name"`
	SKU        string          `json:"sku"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock"`
	CategoryID *uuid.UUID      `json:"category_id"`
	BrandID    *uuid.UUID      `json:"brand_id"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ToProductResponse converts a domain product to its API representation
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:         p.ID,
		TenantID:   p.TenantID,
		Name:       p.Name,
		SKU:        p.SKU,
		Price:      p.Price,
		Stock:      p.Stock,
		CategoryID: p.CategoryID,
		BrandID:    p.BrandID,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search     string     `form:"search"`
	CategoryID *uuid.UUID `form:"category_id"`
	BrandID    *uuid.UUID `form:"brand_id"`
	InStock    *bool      `form:"in_stock"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// NameRequest carries the single field of category/brand create and rename
type NameRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// ReferenceResponse represents a category or brand in API responses
type ReferenceResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ToCategoryResponse converts a domain category to its API representation
func ToCategoryResponse(c *catalog.Category) ReferenceResponse {
	return ReferenceResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}
}

// ToBrandResponse converts a domain brand to its API representation
func ToBrandResponse(b *catalog.Brand) ReferenceResponse {
	return ReferenceResponse{ID: b.ID, Name: b.Name, CreatedAt: b.CreatedAt}
}
