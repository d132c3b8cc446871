package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/shopledger/backend/internal/domain/catalog"
	"github.com/shopledger/backend/internal/domain/shared"
)

// ReferenceService handles categories and brands. Both are tenant-agnostic
// reference data: readable by any authenticated user, writable only through
// the platform admin surface.
type ReferenceService struct {
	categoryRepo catalog.CategoryRepository
	brandRepo    catalog.BrandRepository
}

// NewReferenceService creates a new ReferenceService
func NewReferenceService(categoryRepo catalog.CategoryRepository, brandRepo catalog.BrandRepository) *ReferenceService {
	return &ReferenceService{categoryRepo: categoryRepo, brandRepo: brandRepo}
}

// ListCategories retrieves all categories
func (s *ReferenceService) ListCategories(ctx context.Context) ([]ReferenceResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx, shared.Filter{PageSize: 500, OrderBy: "name", OrderDir: "asc"})
	if err != nil {
		return nil, err
	}
	responses := make([]ReferenceResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses, nil
}

// CreateCategory creates a category
func (s *ReferenceService) CreateCategory(ctx context.Context, req NameRequest) (*ReferenceResponse, error) {
	category, err := catalog.NewCategory(req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// RenameCategory renames a category
func (s *ReferenceService) RenameCategory(ctx context.Context, id uuid.UUID, req NameRequest) (*ReferenceResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = req.Name
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// DeleteCategory removes a category. Products keep a dangling reference
// that is de-linked on their next write.
func (s *ReferenceService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.categoryRepo.Delete(ctx, id)
}

// ListBrands retrieves all brands
func (s *ReferenceService) ListBrands(ctx context.Context) ([]ReferenceResponse, error) {
	brands, err := s.brandRepo.FindAll(ctx, shared.Filter{PageSize: 500, OrderBy: "name", OrderDir: "asc"})
	if err != nil {
		return nil, err
	}
	responses := make([]ReferenceResponse, len(brands))
	for i := range brands {
		responses[i] = ToBrandResponse(&brands[i])
	}
	return responses, nil
}

// CreateBrand creates a brand
func (s *ReferenceService) CreateBrand(ctx context.Context, req NameRequest) (*ReferenceResponse, error) {
	brand, err := catalog.NewBrand(req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.brandRepo.Save(ctx, brand); err != nil {
		return nil, err
	}
	resp := ToBrandResponse(brand)
	return &resp, nil
}

// RenameBrand renames a brand
func (s *ReferenceService) RenameBrand(ctx context.Context, id uuid.UUID, req NameRequest) (*ReferenceResponse, error) {
	brand, err := s.brandRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	brand.Name = req.Name
	if err := s.brandRepo.Save(ctx, brand); err != nil {
		return nil, err
	}
	resp := ToBrandResponse(brand)
	return &resp, nil
}

// DeleteBrand removes a brand
func (s *ReferenceService) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	return s.brandRepo.Delete(ctx, id)
}
