package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopledger/backend/internal/domain/catalog"
	"github.com/shopledger/backend/internal/domain/identity"
	"github.com/shopledger/backend/internal/domain/inventory"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopledger/backend/internal/infrastructure/authz"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockGoodsReceivedRepository is a mock implementation of inventory.GoodsReceivedRepository
type MockGoodsReceivedRepository struct {
	mock.Mock
}

func (m *MockGoodsReceivedRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.GoodsReceivedNote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.GoodsReceivedNote), args.Error(1)
}

func (m *MockGoodsReceivedRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.GoodsReceivedNote, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.GoodsReceivedNote), args.Error(1)
}

func (m *MockGoodsReceivedRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.GoodsReceivedNote, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]inventory.GoodsReceivedNote), args.Error(1)
}

func (m *MockGoodsReceivedRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGoodsReceivedRepository) Save(ctx context.Context, note *inventory.GoodsReceivedNote) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockGoodsReceivedRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

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

// =============================================================================
// Helpers
// =============================================================================

func newGoodsReceivedService(noteRepo *MockGoodsReceivedRepository, productRepo *MockProductRepository) *GoodsReceivedService {
	return NewGoodsReceivedService(noteRepo, productRepo, authz.NewPolicy(), zap.NewNop())
}

func staffActor(shopID uuid.UUID) authz.Actor {
	return authz.Actor{UserID: uuid.New(), Role: identity.RoleStaff, ShopID: shopID}
}

func managerActor(shopID uuid.UUID) authz.Actor {
	return authz.Actor{UserID: uuid.New(), Role: identity.RoleManager, ShopID: shopID}
}

func testProduct(t *testing.T, shopID uuid.UUID, stock int) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(shopID, "Espresso Beans 1kg", decimal.NewFromFloat(18.50))
	require.NoError(t, err)
	require.NoError(t, product.AdjustStock(stock))
	return product
}

func testNote(t *testing.T, shopID, productID uuid.UUID, quantity int) *inventory.GoodsReceivedNote {
	t.Helper()
	note, err := inventory.NewGoodsReceivedNote(shopID, productID, "Espresso Beans 1kg", quantity, decimal.NewFromFloat(12.00))
	require.NoError(t, err)
	return note
}

// =============================================================================
// Tests
// =============================================================================

func TestGoodsReceivedService_Create_IncreasesStockAndSnapshotsName(t *testing.T) {
	noteRepo := new(MockGoodsReceivedRepository)
	productRepo := new(MockProductRepository)
	shopID := uuid.New()
	product := testProduct(t, shopID, 5)

	productRepo.On("FindByIDForTenant", mock.Anything, shopID, product.ID).Return(product, nil)
	productRepo.On("Save", mock.Anything, product).Return(nil)
	noteRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	service := newGoodsReceivedService(noteRepo, productRepo)
	resp, err := service.Create(context.Background(), staffActor(shopID), CreateGoodsReceivedRequest{
		ProductID: product.ID,
		Quantity:  20,
		UnitCost:  decimal.NewFromFloat(12.00),
		Supplier:  "Beanfarm Co",
	})

	require.NoError(t, err)
	assert.Equal(t, 25, product.Stock)
	assert.Equal(t, "Espresso Beans 1kg", resp.ProductName)
	assert.Equal(t, "Beanfarm Co", resp.Supplier)
	assert.Equal(t, shopID, resp.TenantID)
}

func TestGoodsReceivedService_Create_UnknownProductIsNotFound(t *testing.T) {
	noteRepo := new(MockGoodsReceivedRepository)
	productRepo := new(MockProductRepository)
	shopID := uuid.New()
	productID := uuid.New()

	productRepo.On("FindByIDForTenant", mock.Anything, shopID, productID).Return(nil, shared.ErrNotFound)

	service := newGoodsReceivedService(noteRepo, productRepo)
	_, err := service.Create(context.Background(), staffActor(shopID), CreateGoodsReceivedRequest{
		ProductID: productID,
		Quantity:  5,
	})

	assert.ErrorIs(t, err, shared.ErrNotFound)
	noteRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestGoodsReceivedService_Delete_RevertsStock(t *testing.T) {
	noteRepo := new(MockGoodsReceivedRepository)
	productRepo := new(MockProductRepository)
	shopID := uuid.New()
	product := testProduct(t, shopID, 30)
	note := testNote(t, shopID, product.ID, 20)

	noteRepo.On("FindByID", mock.Anything, note.ID).Return(note, nil)
	productRepo.On("FindByIDForTenant", mock.Anything, shopID, product.ID).Return(product, nil)
	productRepo.On("Save", mock.Anything, product).Return(nil)
	noteRepo.On("Delete", mock.Anything, note.ID).Return(nil)

	service := newGoodsReceivedService(noteRepo, productRepo)
	err := service.Delete(context.Background(), managerActor(shopID), note.ID)

	require.NoError(t, err)
	assert.Equal(t, 10, product.Stock)
}

func TestGoodsReceivedService_Delete_BlockedWhenStockAlreadySold(t *testing.T) {
	noteRepo := new(MockGoodsReceivedRepository)
	productRepo := new(MockProductRepository)
	shopID := uuid.New()
	product := testProduct(t, shopID, 3)
	note := testNote(t, shopID, product.ID, 20)

	noteRepo.On("FindByID", mock.Anything, note.ID).Return(note, nil)
	productRepo.On("FindByIDForTenant", mock.Anything, shopID, product.ID).Return(product, nil)

	service := newGoodsReceivedService(noteRepo, productRepo)
	err := service.Delete(context.Background(), managerActor(shopID), note.ID)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
	assert.Equal(t, 3, product.Stock, "a failed revert leaves the stock untouched")
	noteRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestGoodsReceivedService_Delete_ProductGoneStillDeletesNote(t *testing.T) {
	noteRepo := new(MockGoodsReceivedRepository)
	productRepo := new(MockProductRepository)
	shopID := uuid.New()
	note := testNote(t, shopID, uuid.New(), 20)

	noteRepo.On("FindByID", mock.Anything, note.ID).Return(note, nil)
	productRepo.On("FindByIDForTenant", mock.Anything, shopID, note.ProductID).Return(nil, shared.ErrNotFound)
	noteRepo.On("Delete", mock.Anything, note.ID).Return(nil)

	service := newGoodsReceivedService(noteRepo, productRepo)
	err := service.Delete(context.Background(), managerActor(shopID), note.ID)

	require.NoError(t, err)
	noteRepo.AssertCalled(t, "Delete", mock.Anything, note.ID)
}

func TestGoodsReceivedService_Delete_ForeignTenantForbidden(t *testing.T) {
	noteRepo := new(MockGoodsReceivedRepository)
	productRepo := new(MockProductRepository)
	note := testNote(t, uuid.New(), uuid.New(), 5)

	noteRepo.On("FindByID", mock.Anything, note.ID).Return(note, nil)

	service := newGoodsReceivedService(noteRepo, productRepo)
	err := service.Delete(context.Background(), managerActor(uuid.New()), note.ID)

	assert.ErrorIs(t, err, shared.ErrForbidden)
	productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestGoodsReceivedService_Delete_StaffLacksCapability(t *testing.T) {
	noteRepo := new(MockGoodsReceivedRepository)
	productRepo := new(MockProductRepository)
	shopID := uuid.New()
	note := testNote(t, shopID, uuid.New(), 5)

	noteRepo.On("FindByID", mock.Anything, note.ID).Return(note, nil)

	service := newGoodsReceivedService(noteRepo, productRepo)
	err := service.Delete(context.Background(), staffActor(shopID), note.ID)

	assert.ErrorIs(t, err, shared.ErrForbidden)
	noteRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
