package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceRepository is the persistence interface for the invoice aggregate.
// Save persists the invoice row together with its current item set;
// ReplaceItems implements the destructive replace-all semantics of updates.
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByNumber(ctx context.Context, number string) (*Invoice, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Invoice, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	CountByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (int64, error)
	// MaxSequence returns the numerically highest invoice sequence across the
	// whole system (not per tenant), 0 when no invoices exist.
	MaxSequence(ctx context.Context) (int64, error)
	Save(ctx context.Context, invoice *Invoice) error
	ReplaceItems(ctx context.Context, invoiceID uuid.UUID, items []InvoiceItem) error
	// Delete removes items, then payments, then the invoice row, in that
	// order, to satisfy referential integrity without DB-level cascade.
	Delete(ctx context.Context, invoiceID uuid.UUID) error

	AddPayment(ctx context.Context, payment *InvoicePayment) error
	FindPayments(ctx context.Context, invoiceID uuid.UUID) ([]InvoicePayment, error)
	// Transaction runs fn with a repository bound to a single database
	// transaction; the ledger-reconciling mutations run through this.
	Transaction(ctx context.Context, fn func(repo InvoiceRepository) error) error

	StatusTotals(ctx context.Context, tenantID uuid.UUID) (map[InvoiceStatus]StatusTotal, error)
	SumOverdue(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (decimal.Decimal, error)
}

// StatusTotal aggregates invoice counts and amounts for one status
type StatusTotal struct {
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
	Due   decimal.Decimal `json:"due"`
}

// ReminderRepository is the persistence interface for invoice reminders
type ReminderRepository interface {
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]InvoiceReminder, error)
	CountByInvoice(ctx context.Context, invoiceID uuid.UUID) (int64, error)
	Save(ctx context.Context, reminder *InvoiceReminder) error
	DeleteByInvoice(ctx context.Context, invoiceID uuid.UUID) error
}
