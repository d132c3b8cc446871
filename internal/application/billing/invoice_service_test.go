package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopledger/backend/internal/domain/billing"
	"github.com/shopledger/backend/internal/domain/catalog"
	"github.com/shopledger/backend/internal/domain/identity"
	"github.com/shopledger/backend/internal/domain/partner"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopledger/backend/internal/infrastructure/authz"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockInvoiceRepository is a mock implementation of billing.InvoiceRepository.
// Transaction runs the callback against the mock itself, which is enough to
// assert what happens inside the transactional scope.
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByNumber(ctx context.Context, number string) (*billing.Invoice, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]billing.Invoice, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) CountByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, customerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) MaxSequence(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) ReplaceItems(ctx context.Context, invoiceID uuid.UUID, items []billing.InvoiceItem) error {
	args := m.Called(ctx, invoiceID, items)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, invoiceID uuid.UUID) error {
	args := m.Called(ctx, invoiceID)
	return args.Error(0)
}

func (m *MockInvoiceRepository) AddPayment(ctx context.Context, payment *billing.InvoicePayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FindPayments(ctx context.Context, invoiceID uuid.UUID) ([]billing.InvoicePayment, error) {
	args := m.Called(ctx, invoiceID)
	return args.Get(0).([]billing.InvoicePayment), args.Error(1)
}

func (m *MockInvoiceRepository) Transaction(ctx context.Context, fn func(repo billing.InvoiceRepository) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(m)
}

func (m *MockInvoiceRepository) StatusTotals(ctx context.Context, tenantID uuid.UUID) (map[billing.InvoiceStatus]billing.StatusTotal, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[billing.InvoiceStatus]billing.StatusTotal), args.Error(1)
}

func (m *MockInvoiceRepository) SumOverdue(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, asOf)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockReminderRepository is a mock implementation of billing.ReminderRepository
type MockReminderRepository struct {
	mock.Mock
}

func (m *MockReminderRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]billing.InvoiceReminder, error) {
	args := m.Called(ctx, invoiceID)
	return args.Get(0).([]billing.InvoiceReminder), args.Error(1)
}

func (m *MockReminderRepository) CountByInvoice(ctx context.Context, invoiceID uuid.UUID) (int64, error) {
	args := m.Called(ctx, invoiceID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReminderRepository) Save(ctx context.Context, reminder *billing.InvoiceReminder) error {
	args := m.Called(ctx, reminder)
	return args.Error(0)
}

func (m *MockReminderRepository) DeleteByInvoice(ctx context.Context, invoiceID uuid.UUID) error {
	args := m.Called(ctx, invoiceID)
	return args.Error(0)
}

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
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

type serviceMocks struct {
	invoices  *MockInvoiceRepository
	reminders *MockReminderRepository
	customers *MockCustomerRepository
	products  *MockProductRepository
}

func newInvoiceService() (*InvoiceService, serviceMocks) {
	m := serviceMocks{
		invoices:  new(MockInvoiceRepository),
		reminders: new(MockReminderRepository),
		customers: new(MockCustomerRepository),
		products:  new(MockProductRepository),
	}
	svc := NewInvoiceService(m.invoices, m.reminders, m.customers, m.products, authz.NewPolicy(), zap.NewNop())
	return svc, m
}

func managerActor(shopID uuid.UUID) authz.Actor {
	return authz.Actor{UserID: uuid.New(), Role: identity.RoleManager, ShopID: shopID}
}

func staffActor(shopID uuid.UUID) authz.Actor {
	return authz.Actor{UserID: uuid.New(), Role: identity.RoleStaff, ShopID: shopID}
}

func testCustomer(t *testing.T, shopID uuid.UUID, name string) *partner.Customer {
	t.Helper()
	customer, err := partner.NewCustomer(shopID, name)
	require.NoError(t, err)
	return customer
}

func testInvoice(t *testing.T, shopID uuid.UUID, sequence int64, input billing.NewInvoiceInput) *billing.Invoice {
	t.Helper()
	if input.CustomerID == uuid.Nil {
		input.CustomerID = uuid.New()
	}
	if input.CustomerName == "" {
		input.CustomerName = "Acme Ltd"
	}
	inv, err := billing.NewInvoice(shopID, sequence, input)
	require.NoError(t, err)
	return inv
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// =============================================================================
// Create
// =============================================================================

func TestInvoiceService_Create_AllocatesNextSequenceInTransaction(t *testing.T) {
	svc, m := newInvoiceService()
	shopID := uuid.New()
	customer := testCustomer(t, shopID, "Acme Ltd")

	m.customers.On("FindByIDForTenant", mock.Anything, shopID, customer.ID).Return(customer, nil)
	m.invoices.On("Transaction", mock.Anything, mock.Anything).Return(nil)
	m.invoices.On("MaxSequence", mock.Anything).Return(int64(41), nil)
	m.invoices.On("Save", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.Create(context.Background(), staffActor(shopID), CreateInvoiceRequest{
		CustomerID: customer.ID,
		Items: []InvoiceItemRequest{
			{ProductName: "Espresso Beans 1kg", Quantity: dec("2"), UnitPrice: dec("18.50")},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.Sequence)
	assert.Equal(t, "INV-42", resp.InvoiceNumber)
	assert.Equal(t, shopID, resp.TenantID)
	// MaxSequence must have been read inside the transactional scope.
	m.invoices.AssertCalled(t, "Transaction", mock.Anything, mock.Anything)
	m.invoices.AssertCalled(t, "MaxSequence", mock.Anything)
}

func TestInvoiceService_Create_SnapshotsCustomerName(t *testing.T) {
	svc, m := newInvoiceService()
	shopID := uuid.New()
	customer := testCustomer(t, shopID, "Jane's Bakery")

	m.customers.On("FindByIDForTenant", mock.Anything, shopID, customer.ID).Return(customer, nil)
	m.invoices.On("Transaction", mock.Anything, mock.Anything).Return(nil)
	m.invoices.On("MaxSequence", mock.Anything).Return(int64(0), nil)
	m.invoices.On("Save", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.Create(context.Background(), staffActor(shopID), CreateInvoiceRequest{
		CustomerID: customer.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, "Jane's Bakery", resp.CustomerName)
	assert.Equal(t, int64(1), resp.Sequence)
}

func TestInvoiceService_Create_UnknownCustomerIsNotFound(t *testing.T) {
	svc, m := newInvoiceService()
	shopID := uuid.New()
	customerID := uuid.New()

	m.customers.On("FindByIDForTenant", mock.Anything, shopID, customerID).Return(nil, shared.ErrNotFound)

	_, err := svc.Create(context.Background(), staffActor(shopID), CreateInvoiceRequest{CustomerID: customerID})

	assert.ErrorIs(t, err, shared.ErrNotFound)
	m.invoices.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestInvoiceService_Create_DanglingProductRefDelinked(t *testing.T) {
	svc, m := newInvoiceService()
	shopID := uuid.New()
	customer := testCustomer(t, shopID, "Acme Ltd")
	missingProduct := uuid.New()

	m.customers.On("FindByIDForTenant", mock.Anything, shopID, customer.ID).Return(customer, nil)
	m.products.On("FindByIDForTenant", mock.Anything, shopID, missingProduct).Return(nil, shared.ErrNotFound)
	m.invoices.On("Transaction", mock.Anything, mock.Anything).Return(nil)
	m.invoices.On("MaxSequence", mock.Anything).Return(int64(7), nil)
	m.invoices.On("Save", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.Create(context.Background(), staffActor(shopID), CreateInvoiceRequest{
		CustomerID: customer.ID,
		Items: []InvoiceItemRequest{
			{ProductID: &missingProduct, ProductName: "Discontinued Grinder", Quantity: dec("1"), UnitPrice: dec("99")},
		},
	})

	// The line survives on its name snapshot; only the reference is dropped.
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Nil(t, resp.Items[0].ProductID)
	assert.Equal(t, "Discontinued Grinder", resp.Items[0].ProductName)
}

func TestInvoiceService_Create_DerivesTotalsAndStatus(t *testing.T) {
	svc, m := newInvoiceService()
	shopID := uuid.New()
	customer := testCustomer(t, shopID, "Acme Ltd")

	m.customers.On("FindByIDForTenant", mock.Anything, shopID, customer.ID).Return(customer, nil)
	m.invoices.On("Transaction", mock.Anything, mock.Anything).Return(nil)
	m.invoices.On("MaxSequence", mock.Anything).Return(int64(0), nil)
	m.invoices.On("Save", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.Create(context.Background(), staffActor(shopID), CreateInvoiceRequest{
		CustomerID: customer.ID,
		Items: []InvoiceItemRequest{
			{ProductName: "Beans", Quantity: dec("2"), UnitPrice: dec("50")},
		},
		Tax:        dec("10"),
		Discount:   dec("5"),
		PaidAmount: dec("40"),
	})

	require.NoError(t, err)
	assert.True(t, resp.Subtotal.Equal(dec("100")))
	assert.True(t, resp.Total.Equal(dec("105")), "total = subtotal + tax - discount")
	assert.True(t, resp.DueAmount.Equal(dec("65")))
	assert.Equal(t, "HALFPAY", resp.Status)
}

// =============================================================================
// Lookup
// =============================================================================

func TestInvoiceService_Get_FallsBackFromIDToNumber(t *testing.T) {
	svc, m := newInvoiceService()
	shopID := uuid.New()
	inv := testInvoice(t, shopID, 7, billing.NewInvoiceInput{})

	// The ref happens to parse as a UUID but no invoice has that primary key.
	ref := uuid.New()
	m.invoices.On("FindByID", mock.Anything, ref).Return(nil, shared.ErrNotFound)
	m.invoices.On("FindByNumber", mock.Anything, ref.String()).Return(inv, nil)

	resp, err := svc.Get(context.Background(), staffActor(shopID), ref.String())

	require.NoError(t, err)
	assert.Equal(t, inv.ID, resp.ID)
}

func TestInvoiceService_Get_BareSequenceGetsPrefix(t *testing.T) {
	svc, m := newInvoiceService()
	shopID := uuid.New()
	inv := testInvoice(t, shopID, 42, billing.NewInvoiceInput{})

	m.invoices.On("FindByNumber", mock.Anything, "42").Return(nil, shared.ErrNotFound)
	m.invoices.On("FindByNumber", mock.Anything, "INV-42").Return(inv, nil)

	resp, err := svc.Get(context.Background(), staffActor(shopID), "42")

	require.NoError(t, err)
	assert.Equal(t, "INV-42", resp.InvoiceNumber)
}

func TestInvoiceService_Get_PrefixedRefNotRetried(t *testing.T) {
	svc, m := newInvoiceService()

	m.invoices.On("FindByNumber", mock.Anything, "INV-999").Return(nil, shared.ErrNotFound)

	_, err := svc.Get(context.Background(), staffActor(uuid.New()), "INV-999")

	assert.ErrorIs(t, err, shared.ErrNotFound)
	m.invoices.AssertNumberOfCalls(t, "FindByNumber", 1)
}

func TestInvoiceService_Get_MissingBeforeForbidden(t *testing.T) {
	svc, m := newInvoiceService()
	foreign := testInvoice(t, uuid.New(), 3, billing.NewInvoiceInput{})

	m.invoices.On("FindByID", mock.Anything, foreign.ID).Return(foreign, nil)

	_, err := svc.Get(context.Background(), staffActor(uuid.New()), foreign.ID.String())

	// The invoice exists, so the caller gets forbidden, not missing.
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestInvoiceService_Get_ScopedSuperAdminReadsViewedShop(t *testing.T) {
	svc, m := newInvoiceService()
	viewed := uuid.New()
	inv := testInvoice(t, viewed, 3, billing.NewInvoiceInput{})
	m.invoices.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)

	actor := authz.Actor{UserID: uuid.New(), Role: identity.RoleSuperAdmin, ShopID: viewed}
	resp, err := svc.Get(context.Background(), actor, inv.ID.String())

	require.NoError(t, err)
	assert.Equal(t, viewed, resp.TenantID)
}

// =============================================================================
// Update
// =============================================================================

func TestInvoiceService_Update_ExplicitStatusWins(t *testing.T) {
	svc, m := newInvoiceService()
	shopID := uuid.New()
	subtotal := dec("100")
	inv := testInvoice(t, shopID, 5, billing.NewInvoiceInput{Subtotal: &subtotal})
	require.Equal(t, billing.StatusUnpaid, inv.Status)

	m.invoices.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
	m.invoices.On("Transaction", mock.Anything, mock.Anything).Return(nil)
	m.invoices.On("Save", mock.Anything, inv).Return(nil)

	status := "FULLPAID"
	resp, err := svc.Update(context.Background(), staffActor(shopID), inv.ID.String(), UpdateInvoiceRequest{
		Status: &status,
	})

	// Nothing was paid; the explicit status is applied verbatim anyway.
	require.NoError(t, err)
	assert.Equal(t, "FULLPAID", resp.Status)
	assert.True(t, resp.DueAmount.Equal(dec("100")))
}

func TestInvoiceService_Update_AmountChangeKeepsStoredStatus(t *testing.T) {
	svc, m := newInvoiceService()
	shopID := uuid.New()
	subtotal := dec("100")
	inv := testInvoice(t, shopID, 5, billing.NewInvoiceInput{Subtotal: &subtotal, PaidAmount: dec("100")})
	require.Equal(t, billing.StatusFullpaid, inv.Status)

	m.invoices.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
	m.invoices.On("Transaction", mock.Anything, mock.Anything).Return(nil)
	m.invoices.On("Save", mock.Anything, inv).Return(nil)

	newSubtotal := dec("200")
	resp, err := svc.Update(context.Background(), staffActor(shopID), inv.ID.String(), UpdateInvoiceRequest{
		Subtotal: &newSubtotal,
	})

	// Amounts are recomputed but the status is not re-derived on update.
	require.NoError(t, err)
	assert.True(t, resp.Total.Equal(dec("200")))
	assert.True(t, resp.DueAmount.Equal(dec("100")))
	assert.Equal(t, "FULLPAID", resp.Status)
}

func TestInvoiceService_Update_ReplacesItemsWholesale(t *testing.T) {
	svc, m := newInvoiceService()
	shopID := uuid.New()
	inv := testInvoice(t, shopID, 5, billing.NewInvoiceInput{
		Items: []billing.ItemInput{
			{ProductName: "Old Line A", Quantity: dec("1"), UnitPrice: dec("10")},
			{ProductName: "Old Line B", Quantity: dec("1"), UnitPrice: dec("20")},
		},
	})

	m.invoices.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
	m.invoices.On("Transaction", mock.Anything, mock.Anything).Return(nil)
	m.invoices.On("ReplaceItems", mock.Anything, inv.ID, mock.Anything).Return(nil)
	m.invoices.On("Save", mock.Anything, inv).Return(nil)

	items := []InvoiceItemRequest{
		{ProductName: "New Line", Quantity: dec("3"), UnitPrice: dec("5")},
	}
	resp, err := svc.Update(context.Background(), staffActor(shopID), inv.ID.String(), UpdateInvoiceRequest{
		Items: &items,
	})

	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "New Line", resp.Items[0].ProductName)
	m.invoices.AssertCalled(t, "ReplaceItems", mock.Anything, inv.ID, mock.Anything)
}

func TestInvoiceService_Update_NewCustomerResnapshotsName(t *testing.T) {
	svc, m := newInvoiceService()
	shopID := uuid.New()
	inv := testInvoice(t, shopID, 5, billing.NewInvoiceInput{})
	replacement := testCustomer(t, shopID, "Replacement Corp")

	m.invoices.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
	m.customers.On("FindByIDForTenant", mock.Anything, shopID, replacement.ID).Return(replacement, nil)
	m.invoices.On("Transaction", mock.Anything, mock.Anything).Return(nil)
	m.invoices.On("Save", mock.Anything, inv).Return(nil)

	resp, err := svc.Update(context.Background(), staffActor(shopID), inv.ID.String(), UpdateInvoiceRequest{
		CustomerID: &replacement.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, replacement.ID, resp.CustomerID)
	assert.Equal(t, "Replacement Corp", resp.CustomerName)
}

// =============================================================================
// Payments
// =============================================================================

func TestInvoiceService_AddPayment_ReconcilesFromLedger(t *testing.T) {
	svc, m := newInvoiceService()
	shopID := uuid.New()
	subtotal := dec("100")
	inv := testInvoice(t, shopID, 5, billing.NewInvoiceInput{Subtotal: &subtotal})
	// Simulate a drifted cached paid amount; the ledger is empty.
	inv.PaidAmount = dec("55")

	m.invoices.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
	m.invoices.On("Transaction", mock.Anything, mock.Anything).Return(nil)
	m.invoices.On("AddPayment", mock.Anything, mock.Anything).Return(nil)
	m.invoices.On("Save", mock.Anything, inv).Return(nil)

	resp, err := svc.AddPayment(context.Background(), staffActor(shopID), inv.ID.String(), AddPaymentRequest{
		Amount: dec("40"),
		Method: "CASH",
	})

	// paidAmount is rebuilt from the ledger sum, so the drift is healed.
	require.NoError(t, err)
	assert.True(t, resp.PaidAmount.Equal(dec("40")))
	assert.True(t, resp.DueAmount.Equal(dec("60")))
	assert.Equal(t, "HALFPAY", resp.Status)
	require.Len(t, resp.Payments, 1)
}

func TestInvoiceService_AddPayment_FullPaymentFlipsStatus(t *testing.T) {
	svc, m := newInvoiceService()
	shopID := uuid.New()
	subtotal := dec("100")
	inv := testInvoice(t, shopID, 5, billing.NewInvoiceInput{Subtotal: &subtotal})

	m.invoices.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
	m.invoices.On("Transaction", mock.Anything, mock.Anything).Return(nil)
	m.invoices.On("AddPayment", mock.Anything, mock.Anything).Return(nil)
	m.invoices.On("Save", mock.Anything, inv).Return(nil)

	resp, err := svc.AddPayment(context.Background(), staffActor(shopID), inv.ID.String(), AddPaymentRequest{
		Amount: dec("120"),
	})

	// Overpayment floors the due amount at zero.
	require.NoError(t, err)
	assert.Equal(t, "FULLPAID", resp.Status)
	assert.True(t, resp.DueAmount.IsZero())
}

func TestInvoiceService_AddPayment_NonPositiveAmountRejected(t *testing.T) {
	svc, m := newInvoiceService()
	shopID := uuid.New()
	inv := testInvoice(t, shopID, 5, billing.NewInvoiceInput{})

	m.invoices.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
	m.invoices.On("Transaction", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.AddPayment(context.Background(), staffActor(shopID), inv.ID.String(), AddPaymentRequest{
		Amount: dec("0"),
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_AMOUNT", domainErr.Code)
	m.invoices.AssertNotCalled(t, "AddPayment", mock.Anything, mock.Anything)
}

// =============================================================================
// Delete
// =============================================================================

func TestInvoiceService_Delete_RemindersGoFirst(t *testing.T) {
	svc, m := newInvoiceService()
	shopID := uuid.New()
	inv := testInvoice(t, shopID, 5, billing.NewInvoiceInput{})

	m.invoices.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
	m.reminders.On("DeleteByInvoice", mock.Anything, inv.ID).Return(nil)
	m.invoices.On("Transaction", mock.Anything, mock.Anything).Return(nil)
	m.invoices.On("Delete", mock.Anything, inv.ID).Return(nil)

	err := svc.Delete(context.Background(), managerActor(shopID), inv.ID.String())

	require.NoError(t, err)
	m.reminders.AssertCalled(t, "DeleteByInvoice", mock.Anything, inv.ID)
	m.invoices.AssertCalled(t, "Delete", mock.Anything, inv.ID)
}

func TestInvoiceService_Delete_StaffLacksCapability(t *testing.T) {
	svc, m := newInvoiceService()
	shopID := uuid.New()
	inv := testInvoice(t, shopID, 5, billing.NewInvoiceInput{})

	m.invoices.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)

	err := svc.Delete(context.Background(), staffActor(shopID), inv.ID.String())

	assert.ErrorIs(t, err, shared.ErrForbidden)
	m.invoices.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	m.reminders.AssertNotCalled(t, "DeleteByInvoice", mock.Anything, mock.Anything)
}

// =============================================================================
// Reminders
// =============================================================================

func TestInvoiceService_AddReminder_StampsInvoiceTenant(t *testing.T) {
	svc, m := newInvoiceService()
	shopID := uuid.New()
	inv := testInvoice(t, shopID, 5, billing.NewInvoiceInput{})

	m.invoices.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
	var saved *billing.InvoiceReminder
	m.reminders.On("Save", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*billing.InvoiceReminder)
	}).Return(nil)
	m.reminders.On("CountByInvoice", mock.Anything, inv.ID).Return(int64(3), nil)

	resp, err := svc.AddReminder(context.Background(), staffActor(shopID), inv.ID.String(), AddReminderRequest{
		Type:    "PAYMENT",
		Message: "Please settle INV-5",
	})

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, shopID, saved.TenantID)
	assert.Equal(t, int64(3), resp.ReminderCount)
}

// =============================================================================
// Stats
// =============================================================================

func TestInvoiceService_Stats_CombinesTotalsAndOverdue(t *testing.T) {
	svc, m := newInvoiceService()
	shopID := uuid.New()

	m.invoices.On("StatusTotals", mock.Anything, shopID).Return(map[billing.InvoiceStatus]billing.StatusTotal{
		billing.StatusUnpaid:   {Count: 2, Total: dec("200"), Due: dec("200")},
		billing.StatusFullpaid: {Count: 3, Total: dec("300"), Due: dec("0")},
	}, nil)
	m.invoices.On("SumOverdue", mock.Anything, shopID, mock.Anything).Return(dec("150"), nil)

	resp, err := svc.Stats(context.Background(), managerActor(shopID))

	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.InvoiceCount)
	assert.True(t, resp.TotalAmount.Equal(dec("500")))
	assert.True(t, resp.TotalDue.Equal(dec("200")))
	assert.True(t, resp.OverdueAmount.Equal(dec("150")))
	assert.Equal(t, int64(2), resp.ByStatus["UNPAID"].Count)
}

func TestInvoiceService_Stats_StaffForbidden(t *testing.T) {
	svc, m := newInvoiceService()

	_, err := svc.Stats(context.Background(), staffActor(uuid.New()))

	assert.ErrorIs(t, err, shared.ErrForbidden)
	m.invoices.AssertNotCalled(t, "StatusTotals", mock.Anything, mock.Anything)
}
