package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/shopledger/backend/internal/domain/identity"
	"github.com/shopledger/backend/internal/domain/shared"
)

// ShopService handles shop management. Creation and deactivation are
// platform-admin operations; profile updates are also reachable by the
// shop's own admin.
type ShopService struct {
	shopRepo identity.ShopRepository
}

// NewShopService creates a new ShopService
func NewShopService(shopRepo identity.ShopRepository) *ShopService {
	return &ShopService{shopRepo: shopRepo}
}

// Create creates a new shop
func (s *ShopService) Create(ctx context.Context, req CreateShopRequest) (*ShopResponse, error) {
	shop, err := identity.NewShop(req.Name, req.Slug)
	if err != nil {
		return nil, err
	}
	exists, err := s.shopRepo.ExistsBySlug(ctx, shop.Slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A shop with this slug already exists")
	}
	if err := s.shopRepo.Save(ctx, shop); err != nil {
		return nil, err
	}
	resp := ToShopResponse(shop)
	return &resp, nil
}

// GetByID retrieves a shop by ID
func (s *ShopService) GetByID(ctx context.Context, id uuid.UUID) (*ShopResponse, error) {
	shop, err := s.shopRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToShopResponse(shop)
	return &resp, nil
}

// List retrieves shops with search and pagination
func (s *ShopService) List(ctx context.Context, filter ShopListFilter) ([]ShopResponse, int64, error) {
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
	}

	shops, err := s.shopRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.shopRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ShopResponse, len(shops))
	for i := range shops {
		responses[i] = ToShopResponse(&shops[i])
	}
	return responses, total, nil
}

// Count returns the number of shops matching the filter
func (s *ShopService) Count(ctx context.Context, search string) (int64, error) {
	return s.shopRepo.Count(ctx, shared.Filter{Search: search})
}

// Update applies a partial update to a shop's profile
func (s *ShopService) Update(ctx context.Context, id uuid.UUID, req UpdateShopRequest) (*ShopResponse, error) {
	shop, err := s.shopRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := shop.Name
	if req.Name != nil {
		name = *req.Name
	}
	email := shop.Email
	if req.Email != nil {
		email = *req.Email
	}
	phone := shop.Phone
	if req.Phone != nil {
		phone = *req.Phone
	}
	address := shop.Address
	if req.Address != nil {
		address = *req.Address
	}
	if err := shop.UpdateProfile(name, email, phone, address); err != nil {
		return nil, err
	}

	if req.Currency != nil {
		if err := shop.SetCurrency(*req.Currency); err != nil {
			return nil, err
		}
	}
	if req.TaxRate != nil {
		if err := shop.SetTaxRate(*req.TaxRate); err != nil {
			return nil, err
		}
	}
	if req.Active != nil {
		if *req.Active {
			shop.Activate()
		} else {
			shop.Deactivate()
		}
	}

	if err := s.shopRepo.Save(ctx, shop); err != nil {
		return nil, err
	}
	resp := ToShopResponse(shop)
	return &resp, nil
}

// Deactivate soft-disables a shop. Shop data is never deleted.
func (s *ShopService) Deactivate(ctx context.Context, id uuid.UUID) error {
	shop, err := s.shopRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	shop.Deactivate()
	return s.shopRepo.Save(ctx, shop)
}

// Activate re-enables a shop
func (s *ShopService) Activate(ctx context.Context, id uuid.UUID) error {
	shop, err := s.shopRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	shop.Activate()
	return s.shopRepo.Save(ctx, shop)
}
