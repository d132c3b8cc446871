package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the payment state of an invoice
type InvoiceStatus string

const (
	StatusUnpaid   InvoiceStatus = "UNPAID"
	StatusHalfpay  InvoiceStatus = "HALFPAY"
	StatusFullpaid InvoiceStatus = "FULLPAID"
)

// IsValid checks if the status is a known InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case StatusUnpaid, StatusHalfpay, StatusFullpaid:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s InvoiceStatus) String() string {
	return string(s)
}

// NumberPrefix is prepended to the numeric sequence to form the
// human-readable invoice number.
const NumberPrefix = "INV-"

// FormatNumber renders a sequence as a human-readable invoice number
func FormatNumber(sequence int64) string {
	return fmt.Sprintf("%s%d", NumberPrefix, sequence)
}

// DeriveStatus computes the invoice status from the paid/total relation.
// This rule is applied at creation and after every payment; updates may
// force a status explicitly instead.
func DeriveStatus(paid, total decimal.Decimal) InvoiceStatus {
	if !paid.IsPositive() {
		return StatusUnpaid
	}
	if paid.GreaterThanOrEqual(total) {
		return StatusFullpaid
	}
	return StatusHalfpay
}

// InvoiceItem is a line on an invoice. The product reference is optional:
// a dangling product ID is de-linked, never dropped.
type InvoiceItem struct {
	shared.BaseEntity
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	ProductID     *uuid.UUID      `json:"product_id"`
	ProductName   string          `json:"product_name"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	OriginalPrice decimal.Decimal `json:"original_price"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
}

// InvoicePayment is one entry in the invoice's append-only payment ledger.
// Payments are immutable once created; there is no update path.
type InvoicePayment struct {
	shared.BaseEntity
	InvoiceID uuid.UUID       `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	PaidAt    time.Time       `json:"paid_at"`
	Notes     string          `json:"notes"`
	Reference string          `json:"reference"`
}

// ItemInput describes one invoice line as supplied by the caller.
// Total defaults to Quantity x UnitPrice when not explicitly given.
type ItemInput struct {
	ProductID     *uuid.UUID
	ProductName   string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	OriginalPrice decimal.Decimal
	Discount      decimal.Decimal
	Total         *decimal.Decimal
}

// Invoice is the aggregate root for the invoice ledger. It owns an ordered
// item collection and the append-only payment ledger, and is the only place
// monetary totals are computed.
type Invoice struct {
	shared.TenantAggregateRoot
	InvoiceNumber string           `json:"invoice_number"`
	Sequence      int64            `json:"sequence"`
	CustomerID    uuid.UUID        `json:"customer_id"`
	CustomerName  string           `json:"customer_name"`
	Subtotal      decimal.Decimal  `json:"subtotal"`
	Tax           decimal.Decimal  `json:"tax"`
	Discount      decimal.Decimal  `json:"discount"`
	Total         decimal.Decimal  `json:"total"`
	PaidAmount    decimal.Decimal  `json:"paid_amount"`
	DueAmount     decimal.Decimal  `json:"due_amount"`
	Status        InvoiceStatus    `json:"status"`
	Date          time.Time        `json:"date"`
	DueDate       *time.Time       `json:"due_date"`
	PaymentMethod string           `json:"payment_method"`
	SalesChannel  string           `json:"sales_channel"`
	Notes         string           `json:"notes"`
	Items         []InvoiceItem    `json:"items"`
	Payments      []InvoicePayment `json:"payments"`
}

// NewInvoiceInput carries the caller-supplied fields for invoice creation.
// Subtotal and Status are optional overrides; when absent they are derived.
type NewInvoiceInput struct {
	CustomerID    uuid.UUID
	CustomerName  string
	Items         []ItemInput
	Subtotal      *decimal.Decimal
	Tax           decimal.Decimal
	Discount      decimal.Decimal
	PaidAmount    decimal.Decimal
	Status        *InvoiceStatus
	Date          time.Time
	DueDate       *time.Time
	PaymentMethod string
	SalesChannel  string
	Notes         string
}

// NewInvoice creates an invoice with the given system-wide sequence number.
// Totals follow total = subtotal + tax - discount and
// dueAmount = max(0, total - paidAmount); status is derived from the
// paid/total relation unless an explicit status is supplied.
func NewInvoice(tenantID uuid.UUID, sequence int64, input NewInvoiceInput) (*Invoice, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Invoice must belong to a shop")
	}
	if sequence <= 0 {
		return nil, shared.NewDomainError("INVALID_SEQUENCE", "Invoice sequence must be positive")
	}
	if input.CustomerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if strings.TrimSpace(input.CustomerName) == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown invoice status")
	}

	inv := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		InvoiceNumber:       FormatNumber(sequence),
		Sequence:            sequence,
		CustomerID:          input.CustomerID,
		CustomerName:        input.CustomerName,
		Tax:                 input.Tax,
		Discount:            input.Discount,
		PaidAmount:          input.PaidAmount,
		Date:                input.Date,
		DueDate:             input.DueDate,
		PaymentMethod:       input.PaymentMethod,
		SalesChannel:        input.SalesChannel,
		Notes:               input.Notes,
		Payments:            []InvoicePayment{},
	}
	if inv.Date.IsZero() {
		inv.Date = time.Now()
	}

	items, err := buildItems(inv.ID, input.Items)
	if err != nil {
		return nil, err
	}
	inv.Items = items

	if input.Subtotal != nil {
		inv.Subtotal = *input.Subtotal
	} else {
		inv.Subtotal = itemsSubtotal(input.Items)
	}

	inv.Total = inv.Subtotal.Add(inv.Tax).Sub(inv.Discount)
	inv.DueAmount = floorZero(inv.Total.Sub(inv.PaidAmount))

	if input.Status != nil {
		inv.Status = *input.Status
	} else {
		inv.Status = DeriveStatus(inv.PaidAmount, inv.Total)
	}

	return inv, nil
}

// InvoiceUpdate carries a partial update. Nil fields keep their current
// values; Items non-nil replaces the entire item set (no diffing).
type InvoiceUpdate struct {
	CustomerID    *uuid.UUID
	CustomerName  *string
	Subtotal      *decimal.Decimal
	Tax           *decimal.Decimal
	Discount      *decimal.Decimal
	PaidAmount    *decimal.Decimal
	Status        *InvoiceStatus
	Date          *time.Time
	DueDate       *time.Time
	PaymentMethod *string
	SalesChannel  *string
	Notes         *string
	Items         *[]ItemInput
}

// ApplyUpdate mutates the invoice with the supplied fields. Any change to
// subtotal, tax or discount triggers a full total recompute reading stale
// inputs from the current row; dueAmount is recomputed against the possibly
// new paidAmount. Status is only changed when explicitly supplied here.
func (inv *Invoice) ApplyUpdate(u InvoiceUpdate) error {
	if u.Status != nil && !u.Status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown invoice status")
	}
	if u.CustomerID != nil {
		if *u.CustomerID == uuid.Nil {
			return shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
		}
		inv.CustomerID = *u.CustomerID
	}
	if u.CustomerName != nil {
		inv.CustomerName = *u.CustomerName
	}

	amountsChanged := u.Subtotal != nil || u.Tax != nil || u.Discount != nil
	if u.Subtotal != nil {
		inv.Subtotal = *u.Subtotal
	}
	if u.Tax != nil {
		inv.Tax = *u.Tax
	}
	if u.Discount != nil {
		inv.Discount = *u.Discount
	}
	if u.PaidAmount != nil {
		inv.PaidAmount = *u.PaidAmount
	}
	if amountsChanged {
		inv.Total = inv.Subtotal.Add(inv.Tax).Sub(inv.Discount)
	}
	if amountsChanged || u.PaidAmount != nil {
		inv.DueAmount = floorZero(inv.Total.Sub(inv.PaidAmount))
	}

	// Corrections escape hatch: an explicit status wins over the derived one.
	if u.Status != nil {
		inv.Status = *u.Status
	}

	if u.Date != nil {
		inv.Date = *u.Date
	}
	if u.DueDate != nil {
		inv.DueDate = u.DueDate
	}
	if u.PaymentMethod != nil {
		inv.PaymentMethod = *u.PaymentMethod
	}
	if u.SalesChannel != nil {
		inv.SalesChannel = *u.SalesChannel
	}
	if u.Notes != nil {
		inv.Notes = *u.Notes
	}

	if u.Items != nil {
		items, err := buildItems(inv.ID, *u.Items)
		if err != nil {
			return err
		}
		inv.Items = items
	}

	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
	return nil
}

// PaymentInput describes a payment to append to the ledger
type PaymentInput struct {
	Amount    decimal.Decimal
	Method    string
	PaidAt    time.Time
	Notes     string
	Reference string
}

// AddPayment appends an immutable payment row and reconciles the invoice
// against the full ledger: paidAmount is always rebuilt as the sum of all
// payments rather than incremented, so a drifted cached value self-heals.
func (inv *Invoice) AddPayment(input PaymentInput) (*InvoicePayment, error) {
	if !input.Amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	paidAt := input.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	payment := InvoicePayment{
		BaseEntity: shared.NewBaseEntity(),
		InvoiceID:  inv.ID,
		Amount:     input.Amount,
		Method:     input.Method,
		PaidAt:     paidAt,
		Notes:      input.Notes,
		Reference:  input.Reference,
	}
	inv.Payments = append(inv.Payments, payment)
	inv.ReconcileLedger()
	return &payment, nil
}

// ReconcileLedger recomputes paidAmount from the payment ledger and
// re-derives dueAmount and status. The ledger sum is the single source of
// truth for the paid amount.
func (inv *Invoice) ReconcileLedger() {
	paid := decimal.Zero
	for _, p := range inv.Payments {
		paid = paid.Add(p.Amount)
	}
	inv.PaidAmount = paid
	inv.DueAmount = floorZero(inv.Total.Sub(paid))
	inv.Status = DeriveStatus(paid, inv.Total)
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
}

// PaymentSum returns the sum of all ledger entries
func (inv *Invoice) PaymentSum() decimal.Decimal {
	sum := decimal.Zero
	for _, p := range inv.Payments {
		sum = sum.Add(p.Amount)
	}
	return sum
}

// IsOverdue reports whether the invoice is past its due date and not fully paid
func (inv *Invoice) IsOverdue() bool {
	if inv.Status == StatusFullpaid || inv.DueDate == nil {
		return false
	}
	return time.Now().After(*inv.DueDate)
}

func buildItems(invoiceID uuid.UUID, inputs []ItemInput) ([]InvoiceItem, error) {
	items := make([]InvoiceItem, 0, len(inputs))
	for _, in := range inputs {
		if in.Quantity.IsNegative() {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Item quantity cannot be negative")
		}
		item := InvoiceItem{
			BaseEntity:    shared.NewBaseEntity(),
			InvoiceID:     invoiceID,
			ProductID:     in.ProductID,
			ProductName:   in.ProductName,
			Quantity:      in.Quantity,
			UnitPrice:     in.UnitPrice,
			OriginalPrice: in.OriginalPrice,
			Discount:      in.Discount,
		}
		if in.Total != nil {
			item.Total = *in.Total
		} else {
			item.Total = in.Quantity.Mul(in.UnitPrice)
		}
		items = append(items, item)
	}
	return items, nil
}

func itemsSubtotal(inputs []ItemInput) decimal.Decimal {
	sum := decimal.Zero
	for _, in := range inputs {
		sum = sum.Add(in.Quantity.Mul(in.UnitPrice))
	}
	return sum
}

func floorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
