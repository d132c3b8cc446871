package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/shopledger/backend/internal/domain/identity"
	"github.com/shopledger/backend/internal/infrastructure/persistence/models"
)

// GormRegistrar implements identity.Registrar using GORM
type GormRegistrar struct {
	db *gorm.DB
}

// NewGormRegistrar creates a new GormRegistrar
func NewGormRegistrar(db *gorm.DB) *GormRegistrar {
	return &GormRegistrar{db: db}
}

// CreateShopWithOwner persists a shop and its first admin user atomically
func (r *GormRegistrar) CreateShopWithOwner(ctx context.Context, shop *identity.Shop, owner *identity.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(models.ShopModelFromDomain(shop)).Error; err != nil {
			return err
		}
		return tx.Create(models.UserModelFromDomain(owner)).Error
	})
}

var _ identity.Registrar = (*GormRegistrar)(nil)
