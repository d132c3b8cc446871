package billing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shopledger/backend/internal/domain/billing"
	"github.com/shopledger/backend/internal/domain/catalog"
	"github.com/shopledger/backend/internal/domain/partner"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopledger/backend/internal/infrastructure/authz"
)

// InvoiceService implements the invoice ledger use cases: creation with
// system-wide sequence allocation, partial updates with replace-all item
// semantics, the append-only payment ledger and the derived dashboard stats.
type InvoiceService struct {
	invoiceRepo  billing.InvoiceRepository
	reminderRepo billing.ReminderRepository
	customerRepo partner.CustomerRepository
	productRepo  catalog.ProductRepository
	policy       *authz.Policy
	logger       *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo billing.InvoiceRepository,
	reminderRepo billing.ReminderRepository,
	customerRepo partner.CustomerRepository,
	productRepo catalog.ProductRepository,
	policy *authz.Policy,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		reminderRepo: reminderRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		policy:       policy,
		logger:       logger,
	}
}

// Create creates an invoice for the caller's shop. The customer must exist
// in that shop; its name is snapshotted onto the invoice. The invoice number
// is allocated from the system-wide max sequence inside the same transaction
// that persists the row, so concurrent creates cannot mint duplicates.
func (s *InvoiceService) Create(ctx context.Context, actor authz.Actor, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	if err := s.policy.Authorize(actor.Role, authz.ActionWriteRecords, actor.ShopID, actor.ShopID); err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.FindByIDForTenant(ctx, actor.ShopID, req.CustomerID)
	if err != nil {
		return nil, err
	}

	items, err := s.resolveItems(ctx, actor.ShopID, req.Items)
	if err != nil {
		return nil, err
	}

	input := billing.NewInvoiceInput{
		CustomerID:    customer.ID,
		CustomerName:  customer.Name,
		Items:         items,
		Subtotal:      req.Subtotal,
		Tax:           req.Tax,
		Discount:      req.Discount,
		PaidAmount:    req.PaidAmount,
		Status:        statusPtr(req.Status),
		DueDate:       req.DueDate,
		PaymentMethod: req.PaymentMethod,
		SalesChannel:  req.SalesChannel,
		Notes:         req.Notes,
	}
	if req.Date != nil {
		input.Date = *req.Date
	}

	var invoice *billing.Invoice
	err = s.invoiceRepo.Transaction(ctx, func(repo billing.InvoiceRepository) error {
		maxSeq, err := repo.MaxSequence(ctx)
		if err != nil {
			return err
		}
		invoice, err = billing.NewInvoice(actor.ShopID, maxSeq+1, input)
		if err != nil {
			return err
		}
		return repo.Save(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("invoice created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("shop_id", invoice.TenantID.String()),
	)

	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// Get retrieves an invoice by primary key, exact number, or bare sequence.
// Existence is resolved before ownership, so a foreign invoice reads as
// forbidden rather than missing.
func (s *InvoiceService) Get(ctx context.Context, actor authz.Actor, ref string) (*InvoiceResponse, error) {
	invoice, err := s.load(ctx, actor, ref, authz.ActionReadRecords)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// List retrieves invoices in the caller's effective scope
func (s *InvoiceService) List(ctx context.Context, actor authz.Actor, filter InvoiceListFilter) ([]InvoiceListResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	repoFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  map[string]any{},
	}
	if filter.Status != "" {
		repoFilter.Filters["status"] = filter.Status
	}
	if filter.CustomerID != nil {
		repoFilter.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.DateFrom != nil {
		repoFilter.Filters["date_from"] = *filter.DateFrom
	}
	if filter.DateTo != nil {
		repoFilter.Filters["date_to"] = *filter.DateTo
	}
	if filter.Overdue != nil && *filter.Overdue {
		repoFilter.Filters["overdue"] = true
	}

	invoices, err := s.invoiceRepo.FindAllForTenant(ctx, actor.ShopID, repoFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.CountForTenant(ctx, actor.ShopID, repoFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]InvoiceListResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceListResponse(&invoices[i])
	}
	return responses, total, nil
}

// Update partially updates an invoice. A non-nil item set replaces the
// existing lines wholesale. An explicit status in the request is applied
// verbatim; otherwise the stored status is left alone even when amounts
// move, so corrections stay possible.
func (s *InvoiceService) Update(ctx context.Context, actor authz.Actor, ref string, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.load(ctx, actor, ref, authz.ActionWriteRecords)
	if err != nil {
		return nil, err
	}

	update := billing.InvoiceUpdate{
		Subtotal:      req.Subtotal,
		Tax:           req.Tax,
		Discount:      req.Discount,
		PaidAmount:    req.PaidAmount,
		Status:        statusPtr(req.Status),
		Date:          req.Date,
		DueDate:       req.DueDate,
		PaymentMethod: req.PaymentMethod,
		SalesChannel:  req.SalesChannel,
		Notes:         req.Notes,
	}

	// Re-pointing the invoice at another customer re-snapshots the name,
	// and the new customer must live in the invoice's own shop.
	if req.CustomerID != nil && *req.CustomerID != invoice.CustomerID {
		customer, err := s.customerRepo.FindByIDForTenant(ctx, invoice.TenantID, *req.CustomerID)
		if err != nil {
			return nil, err
		}
		update.CustomerID = &customer.ID
		update.CustomerName = &customer.Name
	}

	if req.Items != nil {
		items, err := s.resolveItems(ctx, invoice.TenantID, *req.Items)
		if err != nil {
			return nil, err
		}
		update.Items = &items
	}

	if err := invoice.ApplyUpdate(update); err != nil {
		return nil, err
	}

	err = s.invoiceRepo.Transaction(ctx, func(repo billing.InvoiceRepository) error {
		if req.Items != nil {
			if err := repo.ReplaceItems(ctx, invoice.ID, invoice.Items); err != nil {
				return err
			}
		}
		return repo.Save(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// Delete removes an invoice and everything hanging off it: reminders first,
// then items, payments and the invoice row inside one transaction.
func (s *InvoiceService) Delete(ctx context.Context, actor authz.Actor, ref string) error {
	invoice, err := s.load(ctx, actor, ref, authz.ActionDeleteRecords)
	if err != nil {
		return err
	}

	if err := s.reminderRepo.DeleteByInvoice(ctx, invoice.ID); err != nil {
		return err
	}
	err = s.invoiceRepo.Transaction(ctx, func(repo billing.InvoiceRepository) error {
		return repo.Delete(ctx, invoice.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("invoice deleted",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
	)
	return nil
}

// AddPayment appends a payment to the invoice ledger and reconciles the
// invoice against it. The reload, ledger append and recompute all happen
// inside one transaction so the stored paidAmount always equals the ledger
// sum even under concurrent payments.
func (s *InvoiceService) AddPayment(ctx context.Context, actor authz.Actor, ref string, req AddPaymentRequest) (*InvoiceResponse, error) {
	guarded, err := s.load(ctx, actor, ref, authz.ActionWriteRecords)
	if err != nil {
		return nil, err
	}

	input := billing.PaymentInput{
		Amount:    req.Amount,
		Method:    req.Method,
		Notes:     req.Notes,
		Reference: req.Reference,
	}
	if req.PaidAt != nil {
		input.PaidAt = *req.PaidAt
	}

	var invoice *billing.Invoice
	err = s.invoiceRepo.Transaction(ctx, func(repo billing.InvoiceRepository) error {
		// Fresh read inside the transaction; the guarded copy may be stale.
		var err error
		invoice, err = repo.FindByID(ctx, guarded.ID)
		if err != nil {
			return err
		}
		payment, err := invoice.AddPayment(input)
		if err != nil {
			return err
		}
		if err := repo.AddPayment(ctx, payment); err != nil {
			return err
		}
		return repo.Save(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment recorded",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("amount", req.Amount.String()),
		zap.String("status", string(invoice.Status)),
	)

	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// ListPayments retrieves the payment ledger of an invoice
func (s *InvoiceService) ListPayments(ctx context.Context, actor authz.Actor, ref string) ([]PaymentResponse, error) {
	invoice, err := s.load(ctx, actor, ref, authz.ActionReadRecords)
	if err != nil {
		return nil, err
	}
	payments, err := s.invoiceRepo.FindPayments(ctx, invoice.ID)
	if err != nil {
		return nil, err
	}
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i])
	}
	return responses, nil
}

// AddReminder records a reminder for an invoice. The record is stamped with
// the invoice's shop, never anything from the request body, and the response
// carries the invoice's updated reminder count.
func (s *InvoiceService) AddReminder(ctx context.Context, actor authz.Actor, ref string, req AddReminderRequest) (*AddReminderResponse, error) {
	invoice, err := s.load(ctx, actor, ref, authz.ActionWriteRecords)
	if err != nil {
		return nil, err
	}

	reminder, err := billing.NewInvoiceReminder(invoice.TenantID, invoice.ID, billing.ReminderType(req.Type), req.Channel, req.Message, req.Recipient)
	if err != nil {
		return nil, err
	}
	if err := s.reminderRepo.Save(ctx, reminder); err != nil {
		return nil, err
	}
	count, err := s.reminderRepo.CountByInvoice(ctx, invoice.ID)
	if err != nil {
		return nil, err
	}

	return &AddReminderResponse{
		Reminder:      ToReminderResponse(reminder),
		ReminderCount: count,
	}, nil
}

// ListReminders retrieves the reminders recorded for an invoice
func (s *InvoiceService) ListReminders(ctx context.Context, actor authz.Actor, ref string) ([]ReminderResponse, error) {
	invoice, err := s.load(ctx, actor, ref, authz.ActionReadRecords)
	if err != nil {
		return nil, err
	}
	reminders, err := s.reminderRepo.FindByInvoice(ctx, invoice.ID)
	if err != nil {
		return nil, err
	}
	responses := make([]ReminderResponse, len(reminders))
	for i := range reminders {
		responses[i] = ToReminderResponse(&reminders[i])
	}
	return responses, nil
}

// Stats aggregates the invoice dashboard for the caller's effective scope.
// The status breakdown and the overdue sum are independent queries and run
// concurrently.
func (s *InvoiceService) Stats(ctx context.Context, actor authz.Actor) (*StatsResponse, error) {
	if err := s.policy.Authorize(actor.Role, authz.ActionViewStats, actor.ShopID, actor.ShopID); err != nil {
		return nil, err
	}

	var (
		totals  map[billing.InvoiceStatus]billing.StatusTotal
		overdue decimal.Decimal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = s.invoiceRepo.StatusTotals(gctx, actor.ShopID)
		return err
	})
	g.Go(func() error {
		var err error
		overdue, err = s.invoiceRepo.SumOverdue(gctx, actor.ShopID, time.Now())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp := &StatsResponse{
		ByStatus:      make(map[string]StatusTotalResponse, len(totals)),
		TotalAmount:   decimal.Zero,
		TotalDue:      decimal.Zero,
		OverdueAmount: overdue,
	}
	for status, t := range totals {
		resp.ByStatus[string(status)] = StatusTotalResponse{Count: t.Count, Total: t.Total, Due: t.Due}
		resp.InvoiceCount += t.Count
		resp.TotalAmount = resp.TotalAmount.Add(t.Total)
		resp.TotalDue = resp.TotalDue.Add(t.Due)
	}
	return resp, nil
}

// load resolves an invoice reference and enforces the access guard:
// existence first (so the caller learns nothing about foreign invoices they
// probe by number), ownership second.
func (s *InvoiceService) load(ctx context.Context, actor authz.Actor, ref string, action authz.Action) (*billing.Invoice, error) {
	invoice, err := s.findByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(actor.Role, action, invoice.TenantID, actor.ShopID); err != nil {
		return nil, err
	}
	return invoice, nil
}

// findByRef resolves a reference in three stages: primary key when the ref
// parses as a UUID, then exact invoice number, then the bare sequence with
// the number prefix prepended.
func (s *InvoiceService) findByRef(ctx context.Context, ref string) (*billing.Invoice, error) {
	if id, err := uuid.Parse(ref); err == nil {
		invoice, err := s.invoiceRepo.FindByID(ctx, id)
		if err == nil {
			return invoice, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}

	invoice, err := s.invoiceRepo.FindByNumber(ctx, ref)
	if err == nil {
		return invoice, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if !strings.HasPrefix(ref, billing.NumberPrefix) {
		return s.invoiceRepo.FindByNumber(ctx, billing.NumberPrefix+ref)
	}
	return nil, shared.ErrNotFound
}

// resolveItems validates the product references on incoming lines against
// the invoice's shop. A reference to a missing or foreign product is nulled
// out rather than rejected; the line survives on its name snapshot.
func (s *InvoiceService) resolveItems(ctx context.Context, tenantID uuid.UUID, reqs []InvoiceItemRequest) ([]billing.ItemInput, error) {
	items := make([]billing.ItemInput, 0, len(reqs))
	for _, r := range reqs {
		item := billing.ItemInput{
			ProductID:     r.ProductID,
			ProductName:   r.ProductName,
			Quantity:      r.Quantity,
			UnitPrice:     r.UnitPrice,
			OriginalPrice: r.OriginalPrice,
			Discount:      r.Discount,
			Total:         r.Total,
		}
		if r.ProductID != nil {
			_, err := s.productRepo.FindByIDForTenant(ctx, tenantID, *r.ProductID)
			if errors.Is(err, shared.ErrNotFound) {
				item.ProductID = nil
			} else if err != nil {
				return nil, err
			}
		}
		items = append(items, item)
	}
	return items, nil
}

func statusPtr(s *string) *billing.InvoiceStatus {
	if s == nil {
		return nil
	}
	status := billing.InvoiceStatus(*s)
	return &status
}
