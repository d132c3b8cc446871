package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/shopledger/backend/internal/domain/partner"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopledger/backend/internal/infrastructure/authz"
)

// InvoiceCounter reports how many invoices reference a customer. It keeps
// the customer service from depending on the whole billing repository.
type InvoiceCounter interface {
	CountByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (int64, error)
}

// CustomerService handles customer management within a tenant
type CustomerService struct {
	customerRepo partner.CustomerRepository
	invoices     InvoiceCounter
	policy       *authz.Policy
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, invoices InvoiceCounter, policy *authz.Policy) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		invoices:     invoices,
		policy:       policy,
	}
}

// Create creates a customer in the actor's own shop. The tenant always
// comes from the credential, never from the request.
func (s *CustomerService) Create(ctx context.Context, actor authz.Actor, req CreateCustomerRequest) (*CustomerResponse, error) {
	if err := s.policy.Authorize(actor.Role, authz.ActionWriteRecords, actor.ShopID, actor.ShopID); err != nil {
		return nil, err
	}
	customer, err := partner.NewCustomer(actor.ShopID, req.Name)
	if err != nil {
		return nil, err
	}
	if err := customer.Update(req.Name, req.Phone, req.Email, req.Address, req.Notes); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// GetByID retrieves a customer. Existence is checked before ownership, so
// a missing ID is a 404 and a foreign one a 403.
func (s *CustomerService) GetByID(ctx context.Context, actor authz.Actor, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.load(ctx, actor, id, authz.ActionReadRecords)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// List retrieves customers scoped to the effective tenant
func (s *CustomerService) List(ctx context.Context, actor authz.Actor, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
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

	customers, err := s.customerRepo.FindAllForTenant(ctx, actor.ShopID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.customerRepo.CountForTenant(ctx, actor.ShopID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses, total, nil
}

// Update applies a partial update to a customer
func (s *CustomerService) Update(ctx context.Context, actor authz.Actor, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.load(ctx, actor, id, authz.ActionWriteRecords)
	if err != nil {
		return nil, err
	}

	name := customer.Name
	if req.Name != nil {
		name = *req.Name
	}
	phone := customer.Phone
	if req.Phone != nil {
		phone = *req.Phone
	}
	email := customer.Email
	if req.Email != nil {
		email = *req.Email
	}
	address := customer.Address
	if req.Address != nil {
		address = *req.Address
	}
	notes := customer.Notes
	if req.Notes != nil {
		notes = *req.Notes
	}
	if err := customer.Update(name, phone, email, address, notes); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Delete removes a customer. Customers referenced by invoices cannot be
// deleted; the invoices hold a name snapshot but the reference must stay
// resolvable.
func (s *CustomerService) Delete(ctx context.Context, actor authz.Actor, id uuid.UUID) error {
	customer, err := s.load(ctx, actor, id, authz.ActionDeleteRecords)
	if err != nil {
		return err
	}

	invoiceCount, err := s.invoices.CountByCustomer(ctx, customer.TenantID, customer.ID)
	if err != nil {
		return err
	}
	if invoiceCount > 0 {
		return shared.NewDomainError("INVALID_STATE", "Customer has invoices and cannot be deleted")
	}

	return s.customerRepo.Delete(ctx, customer.ID)
}

func (s *CustomerService) load(ctx context.Context, actor authz.Actor, id uuid.UUID, action authz.Action) (*partner.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(actor.Role, action, customer.TenantID, actor.ShopID); err != nil {
		return nil, err
	}
	return customer, nil
}
