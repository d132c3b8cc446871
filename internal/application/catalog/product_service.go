package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/shopledger/backend/internal/domain/catalog"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopledger/backend/internal/infrastructure/authz"
)

// ProductService handles product management within a tenant
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	brandRepo    catalog.BrandRepository
	policy       *authz.Policy
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	brandRepo catalog.BrandRepository,
	policy *authz.Policy,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		brandRepo:    brandRepo,
		policy:       policy,
	}
}

// Create creates a product in the actor's own shop. Category and brand
// references are validated; a dangling reference is de-linked rather than
// rejected, matching invoice item behavior.
func (s *ProductService) Create(ctx context.Context, actor authz.Actor, req CreateProductRequest) (*ProductResponse, error) {
	if err := s.policy.Authorize(actor.Role, authz.ActionWriteRecords, actor.ShopID, actor.ShopID); err != nil {
		return nil, err
	}
	product, err := catalog.NewProduct(actor.ShopID, req.Name, req.Price)
	if err != nil {
		return nil, err
	}

	categoryID, err := s.resolveCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	brandID, err := s.resolveBrand(ctx, req.BrandID)
	if err != nil {
		return nil, err
	}
	if err := product.Update(req.Name, req.SKU, req.Price, categoryID, brandID); err != nil {
		return nil, err
	}
	if req.Stock != nil {
		if err := product.AdjustStock(*req.Stock); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// GetByID retrieves a product, existence checked before ownership
func (s *ProductService) GetByID(ctx context.Context, actor authz.Actor, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.load(ctx, actor, id, authz.ActionReadRecords)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// List retrieves products scoped to the effective tenant
func (s *ProductService) List(ctx context.Context, actor authz.Actor, filter ProductListFilter) ([]ProductResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.CategoryID != nil {
		domainFilter.Filters["category_id"] = *filter.CategoryID
	}
	if filter.BrandID != nil {
		domainFilter.Filters["brand_id"] = *filter.BrandID
	}
	if filter.InStock != nil {
		domainFilter.Filters["in_stock"] = *filter.InStock
	}

	products, err := s.productRepo.FindAllForTenant(ctx, actor.ShopID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.CountForTenant(ctx, actor.ShopID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses, total, nil
}

// Update applies a partial update to a product. Stock is not updatable
// here; it only moves through goods-received notes and invoice flows.
func (s *ProductService) Update(ctx context.Context, actor authz.Actor, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.load(ctx, actor, id, authz.ActionWriteRecords)
	if err != nil {
		return nil, err
	}

	name := product.Name
	if req.Name != nil {
		name = *req.Name
	}
	sku := product.SKU
	if req.SKU != nil {
		sku = *req.SKU
	}
	price := product.Price
	if req.Price != nil {
		price = *req.Price
	}
	categoryID := product.CategoryID
	if req.CategoryID != nil {
		categoryID, err = s.resolveCategory(ctx, req.CategoryID)
		if err != nil {
			return nil, err
		}
	}
	brandID := product.BrandID
	if req.BrandID != nil {
		brandID, err = s.resolveBrand(ctx, req.BrandID)
		if err != nil {
			return nil, err
		}
	}

	if err := product.Update(name, sku, price, categoryID, brandID); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// Delete removes a product. Invoice items that referenced it keep their
// name snapshot and are de-linked on next read.
func (s *ProductService) Delete(ctx context.Context, actor authz.Actor, id uuid.UUID) error {
	product, err := s.load(ctx, actor, id, authz.ActionDeleteRecords)
	if err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, product.ID)
}

func (s *ProductService) load(ctx context.Context, actor authz.Actor, id uuid.UUID, action authz.Action) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(actor.Role, action, product.TenantID, actor.ShopID); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) resolveCategory(ctx context.Context, id *uuid.UUID) (*uuid.UUID, error) {
	if id == nil {
		return nil, nil
	}
	if _, err := s.categoryRepo.FindByID(ctx, *id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return id, nil
}

func (s *ProductService) resolveBrand(ctx context.Context, id *uuid.UUID) (*uuid.UUID, error) {
	if id == nil {
		return nil, nil
	}
	if _, err := s.brandRepo.FindByID(ctx, *id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return id, nil
}
