package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopledger/backend/internal/domain/shared"
)

// ShopRepository is the persistence interface for shops
type ShopRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Shop, error)
	FindBySlug(ctx context.Context, slug string) (*Shop, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Shop, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	Save(ctx context.Context, shop *Shop) error
}

// Registrar persists a new shop together with its first admin user in a
// single transaction, so platform registration cannot leave a shop without
// an owner.
type Registrar interface {
	CreateShopWithOwner(ctx context.Context, shop *Shop, owner *User) error
}

// UserRepository is the persistence interface for users.
// Email lookups are case-insensitive.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAllForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]User, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)
	CountForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}
