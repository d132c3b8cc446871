package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopledger/backend/internal/domain/billing"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopledger/backend/internal/infrastructure/persistence/models"
)

// GormInvoiceRepository implements billing.InvoiceRepository using GORM.
// Invoice rows, item rows and payment rows live in separate tables; the
// repository assembles the aggregate on load.
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID loads an invoice with its items and payments
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.hydrate(ctx, &model)
}

// FindByNumber loads an invoice by its human-readable number
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, number string) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("invoice_number = ?", number).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.hydrate(ctx, &model)
}

// hydrate attaches the item and payment collections to the aggregate
func (r *GormInvoiceRepository) hydrate(ctx context.Context, model *models.InvoiceModel) (*billing.Invoice, error) {
	inv := model.ToDomain()

	var itemModels []models.InvoiceItemModel
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", inv.ID).
		Order("created_at ASC").
		Find(&itemModels).Error; err != nil {
		return nil, err
	}
	inv.Items = make([]billing.InvoiceItem, len(itemModels))
	for i, m := range itemModels {
		inv.Items[i] = m.ToDomain()
	}

	payments, err := r.FindPayments(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Payments = payments
	return inv, nil
}

// FindAllForTenant lists invoices for a tenant without their collections.
// List views only need the aggregate row.
func (r *GormInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]billing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	query := r.tenantQuery(ctx, tenantID)
	query = applyInvoiceFilters(query, filter)
	query = applySearch(query, filter, "invoice_number", "customer_name")
	query = applyPagination(query, filter, "sequence DESC")

	if err := query.Find(&invoiceModels).Error; err != nil {
		return nil, err
	}

	invoices := make([]billing.Invoice, len(invoiceModels))
	for i, model := range invoiceModels {
		invoices[i] = *model.ToDomain()
	}
	return invoices, nil
}

// CountForTenant counts invoices for a tenant
func (r *GormInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.tenantQuery(ctx, tenantID)
	query = applyInvoiceFilters(query, filter)
	query = applySearch(query, filter, "invoice_number", "customer_name")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByCustomer counts invoices referencing a customer within a tenant
func (r *GormInvoiceRepository) CountByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// MaxSequence returns the highest invoice sequence across all tenants.
// The sequence is system-wide so invoice numbers never collide between
// shops.
func (r *GormInvoiceRepository) MaxSequence(ctx context.Context) (int64, error) {
	var max *int64
	if err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Select("MAX(sequence)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

// Save persists the invoice row and its current item set. Existing items
// for the invoice are replaced wholesale.
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	if err := r.db.WithContext(ctx).Save(models.InvoiceModelFromDomain(invoice)).Error; err != nil {
		return err
	}
	return r.ReplaceItems(ctx, invoice.ID, invoice.Items)
}

// ReplaceItems deletes every existing item row for the invoice and inserts
// the supplied set. Updates never diff items.
func (r *GormInvoiceRepository) ReplaceItems(ctx context.Context, invoiceID uuid.UUID, items []billing.InvoiceItem) error {
	if err := r.db.WithContext(ctx).
		Delete(&models.InvoiceItemModel{}, "invoice_id = ?", invoiceID).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	itemModels := make([]*models.InvoiceItemModel, len(items))
	for i, it := range items {
		itemModels[i] = models.InvoiceItemModelFromDomain(it)
	}
	return r.db.WithContext(ctx).Create(itemModels).Error
}

// Delete removes items first, then payments, then the invoice row, so a
// failure partway never leaves orphan children pointing at a dead invoice.
func (r *GormInvoiceRepository) Delete(ctx context.Context, invoiceID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Delete(&models.InvoiceItemModel{}, "invoice_id = ?", invoiceID).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).
		Delete(&models.InvoicePaymentModel{}, "invoice_id = ?", invoiceID).Error; err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&models.InvoiceModel{}, "id = ?", invoiceID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// AddPayment appends a payment ledger row
func (r *GormInvoiceRepository) AddPayment(ctx context.Context, payment *billing.InvoicePayment) error {
	return r.db.WithContext(ctx).Create(models.InvoicePaymentModelFromDomain(*payment)).Error
}

// FindPayments loads the payment ledger for an invoice, oldest first
func (r *GormInvoiceRepository) FindPayments(ctx context.Context, invoiceID uuid.UUID) ([]billing.InvoicePayment, error) {
	var paymentModels []models.InvoicePaymentModel
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("paid_at ASC, created_at ASC").
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	payments := make([]billing.InvoicePayment, len(paymentModels))
	for i, m := range paymentModels {
		payments[i] = m.ToDomain()
	}
	return payments, nil
}

// Transaction runs fn with a repository bound to a single database
// transaction. Payment recording and invoice deletion run through this.
func (r *GormInvoiceRepository) Transaction(ctx context.Context, fn func(repo billing.InvoiceRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormInvoiceRepository(tx))
	})
}

// statusTotalRow is the scan target for the status aggregation query
type statusTotalRow struct {
	Status string
	Count  int64
	Total  decimal.Decimal
	Due    decimal.Decimal
}

// StatusTotals aggregates invoice counts and amounts per status for a
// tenant. A nil tenant ID aggregates across all shops (SUPER_ADMIN view).
func (r *GormInvoiceRepository) StatusTotals(ctx context.Context, tenantID uuid.UUID) (map[billing.InvoiceStatus]billing.StatusTotal, error) {
	query := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total), 0) AS total, COALESCE(SUM(due_amount), 0) AS due").
		Group("status")
	if tenantID != uuid.Nil {
		query = query.Where("tenant_id = ?", tenantID)
	}

	var rows []statusTotalRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make(map[billing.InvoiceStatus]billing.StatusTotal, len(rows))
	for _, row := range rows {
		totals[billing.InvoiceStatus(row.Status)] = billing.StatusTotal{
			Count: row.Count,
			Total: row.Total,
			Due:   row.Due,
		}
	}
	return totals, nil
}

// SumOverdue sums the outstanding amount of invoices past their due date
// and not fully paid. A nil tenant ID sums across all shops.
func (r *GormInvoiceRepository) SumOverdue(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (decimal.Decimal, error) {
	query := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Select("COALESCE(SUM(due_amount), 0)").
		Where("due_date IS NOT NULL AND due_date < ? AND status <> ?", asOf, string(billing.StatusFullpaid))
	if tenantID != uuid.Nil {
		query = query.Where("tenant_id = ?", tenantID)
	}

	var sum decimal.Decimal
	if err := query.Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

func (r *GormInvoiceRepository) tenantQuery(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return scopeTenant(r.db.WithContext(ctx).Model(&models.InvoiceModel{}), tenantID)
}

func applyInvoiceFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "date_from":
			query = query.Where("date >= ?", value)
		case "date_to":
			query = query.Where("date <= ?", value)
		case "overdue":
			if value == true {
				query = query.Where("due_date IS NOT NULL AND due_date < ? AND status <> ?",
					time.Now(), string(billing.StatusFullpaid))
			}
		}
	}
	return query
}

var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
