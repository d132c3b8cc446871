package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shopledger/backend/internal/domain/catalog"
	"github.com/shopledger/backend/internal/domain/identity"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopledger/backend/internal/infrastructure/authz"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCategoryRepository is a mock implementation of catalog.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Category, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockBrandRepository is a mock implementation of catalog.BrandRepository
type MockBrandRepository struct {
	mock.Mock
}

func (m *MockBrandRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Brand, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Brand), args.Error(1)
}

func (m *MockBrandRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Brand, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Brand), args.Error(1)
}

func (m *MockBrandRepository) Save(ctx context.Context, brand *catalog.Brand) error {
	args := m.Called(ctx, brand)
	return args.Error(0)
}

func (m *MockBrandRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// =============================================================================
// Helpers
// =============================================================================

func staffActor(shopID uuid.UUID) authz.Actor {
	return authz.Actor{UserID: uuid.New(), Role: identity.RoleStaff, ShopID: shopID}
}

func newProductService(productRepo *MockProductRepository, categoryRepo *MockCategoryRepository, brandRepo *MockBrandRepository) *ProductService {
	return NewProductService(productRepo, categoryRepo, brandRepo, authz.NewPolicy())
}

// =============================================================================
// Tests
// =============================================================================

func TestProductService_Create_DanglingCategoryDelinked(t *testing.T) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	shopID := uuid.New()
	missingCategory := uuid.New()

	categoryRepo.On("FindByID", mock.Anything, missingCategory).Return(nil, shared.ErrNotFound)
	productRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	service := newProductService(productRepo, categoryRepo, new(MockBrandRepository))
	resp, err := service.Create(context.Background(), staffActor(shopID), CreateProductRequest{
		Name:       "Espresso Beans 1kg",
		Price:      decimal.NewFromFloat(18.50),
		CategoryID: &missingCategory,
	})

	// The bad reference is nulled, not rejected.
	require.NoError(t, err)
	assert.Nil(t, resp.CategoryID)
	assert.Equal(t, shopID, resp.TenantID)
}

func TestProductService_Create_ValidCategoryKept(t *testing.T) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	shopID := uuid.New()

	category, err := catalog.NewCategory("Coffee")
	require.NoError(t, err)
	categoryRepo.On("FindByID", mock.Anything, category.ID).Return(category, nil)
	productRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	service := newProductService(productRepo, categoryRepo, new(MockBrandRepository))
	resp, err := service.Create(context.Background(), staffActor(shopID), CreateProductRequest{
		Name:       "Espresso Beans 1kg",
		Price:      decimal.NewFromFloat(18.50),
		CategoryID: &category.ID,
	})

	require.NoError(t, err)
	require.NotNil(t, resp.CategoryID)
	assert.Equal(t, category.ID, *resp.CategoryID)
}

func TestProductService_Create_NegativePriceRejected(t *testing.T) {
	service := newProductService(new(MockProductRepository), new(MockCategoryRepository), new(MockBrandRepository))
	_, err := service.Create(context.Background(), staffActor(uuid.New()), CreateProductRequest{
		Name:  "Broken",
		Price: decimal.NewFromInt(-1),
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_PRICE", domainErr.Code)
}

func TestProductService_GetByID_ForeignTenantForbidden(t *testing.T) {
	productRepo := new(MockProductRepository)
	foreign, err := catalog.NewProduct(uuid.New(), "Foreign Product", decimal.NewFromInt(5))
	require.NoError(t, err)
	productRepo.On("FindByID", mock.Anything, foreign.ID).Return(foreign, nil)

	service := newProductService(productRepo, new(MockCategoryRepository), new(MockBrandRepository))
	_, err = service.GetByID(context.Background(), staffActor(uuid.New()), foreign.ID)

	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestProductService_Update_PriceOnly(t *testing.T) {
	productRepo := new(MockProductRepository)
	shopID := uuid.New()
	product, err := catalog.NewProduct(shopID, "Espresso Beans 1kg", decimal.NewFromFloat(18.50))
	require.NoError(t, err)
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	productRepo.On("Save", mock.Anything, product).Return(nil)

	service := newProductService(productRepo, new(MockCategoryRepository), new(MockBrandRepository))
	price := decimal.NewFromFloat(19.90)
	resp, err := service.Update(context.Background(), staffActor(shopID), product.ID, UpdateProductRequest{
		Price: &price,
	})

	require.NoError(t, err)
	assert.True(t, resp.Price.Equal(price))
	assert.Equal(t, "Espresso Beans 1kg", resp.Name)
}

func TestProductService_Delete_StaffLacksCapability(t *testing.T) {
	productRepo := new(MockProductRepository)
	shopID := uuid.New()
	product, err := catalog.NewProduct(shopID, "Espresso Beans 1kg", decimal.NewFromInt(10))
	require.NoError(t, err)
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	service := newProductService(productRepo, new(MockCategoryRepository), new(MockBrandRepository))
	err = service.Delete(context.Background(), staffActor(shopID), product.ID)

	assert.ErrorIs(t, err, shared.ErrForbidden)
	productRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
