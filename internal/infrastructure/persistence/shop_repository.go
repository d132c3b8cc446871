package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopledger/backend/internal/domain/identity"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopledger/backend/internal/infrastructure/persistence/models"
)

// GormShopRepository implements identity.ShopRepository using GORM
type GormShopRepository struct {
	db *gorm.DB
}

// NewGormShopRepository creates a new GormShopRepository
func NewGormShopRepository(db *gorm.DB) *GormShopRepository {
	return &GormShopRepository{db: db}
}

// FindByID finds a shop by its ID
func (r *GormShopRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Shop, error) {
	var model models.ShopModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySlug finds a shop by its unique slug
func (r *GormShopRepository) FindBySlug(ctx context.Context, slug string) (*identity.Shop, error) {
	var model models.ShopModel
	if err := r.db.WithContext(ctx).
		Where("slug = ?", strings.ToLower(slug)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists shops matching the filter
func (r *GormShopRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Shop, error) {
	var shopModels []models.ShopModel
	query := r.db.WithContext(ctx).Model(&models.ShopModel{})
	query = applySearch(query, filter, "name", "slug", "email")
	query = applyPagination(query, filter, "name ASC")

	if err := query.Find(&shopModels).Error; err != nil {
		return nil, err
	}

	shops := make([]identity.Shop, len(shopModels))
	for i, model := range shopModels {
		shops[i] = *model.ToDomain()
	}
	return shops, nil
}

// Count counts shops matching the filter
func (r *GormShopRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ShopModel{})
	query = applySearch(query, filter, "name", "slug", "email")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsBySlug checks whether a shop with the slug already exists
func (r *GormShopRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ShopModel{}).
		Where("slug = ?", strings.ToLower(slug)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a shop
func (r *GormShopRepository) Save(ctx context.Context, shop *identity.Shop) error {
	return r.db.WithContext(ctx).Save(models.ShopModelFromDomain(shop)).Error
}

var _ identity.ShopRepository = (*GormShopRepository)(nil)
