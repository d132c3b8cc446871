package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopledger/backend/internal/domain/inventory"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopledger/backend/internal/infrastructure/persistence/models"
)

// GormGoodsReceivedRepository implements inventory.GoodsReceivedRepository
// using GORM.
type GormGoodsReceivedRepository struct {
	db *gorm.DB
}

// NewGormGoodsReceivedRepository creates a new GormGoodsReceivedRepository
func NewGormGoodsReceivedRepository(db *gorm.DB) *GormGoodsReceivedRepository {
	return &GormGoodsReceivedRepository{db: db}
}

// FindByID finds a note by its ID regardless of tenant
func (r *GormGoodsReceivedRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.GoodsReceivedNote, error) {
	var model models.GoodsReceivedModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a note by ID within a tenant
func (r *GormGoodsReceivedRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.GoodsReceivedNote, error) {
	var model models.GoodsReceivedModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists notes for a tenant
func (r *GormGoodsReceivedRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.GoodsReceivedNote, error) {
	var noteModels []models.GoodsReceivedModel
	query := scopeTenant(r.db.WithContext(ctx).Model(&models.GoodsReceivedModel{}), tenantID)
	query = applySearch(query, filter, "product_name", "supplier")
	query = applyPagination(query, filter, "received_at DESC")

	if err := query.Find(&noteModels).Error; err != nil {
		return nil, err
	}

	notes := make([]inventory.GoodsReceivedNote, len(noteModels))
	for i, model := range noteModels {
		notes[i] = *model.ToDomain()
	}
	return notes, nil
}

// CountForTenant counts notes for a tenant
func (r *GormGoodsReceivedRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := scopeTenant(r.db.WithContext(ctx).Model(&models.GoodsReceivedModel{}), tenantID)
	query = applySearch(query, filter, "product_name", "supplier")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a note
func (r *GormGoodsReceivedRepository) Save(ctx context.Context, note *inventory.GoodsReceivedNote) error {
	return r.db.WithContext(ctx).Save(models.GoodsReceivedModelFromDomain(note)).Error
}

// Delete removes a note
func (r *GormGoodsReceivedRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.GoodsReceivedModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ inventory.GoodsReceivedRepository = (*GormGoodsReceivedRepository)(nil)
