package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopledger/backend/internal/domain/billing"
)

// =============================================================================
// Invoice DTOs
// =============================================================================

// InvoiceItemRequest represents one invoice line in a request. Total
// defaults to quantity x unit price when omitted.
type InvoiceItemRequest struct {
	ProductID     *uuid.UUID       `json:"product_id"`
	ProductName   string           `json:"product_name" binding:"required,min=1,max=200"`
	Quantity      decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice     decimal.Decimal  `json:"unit_price" binding:"required"`
	OriginalPrice decimal.Decimal  `json:"original_price"`
	Discount      decimal.Decimal  `json:"discount"`
	Total         *decimal.Decimal `json:"total"`
}

// CreateInvoiceRequest represents a request to create an invoice. The
// tenant is never taken from the body; it always comes from the credential.
type CreateInvoiceRequest struct {
	CustomerID    uuid.UUID            `json:"customer_id" binding:"required"`
	Items         []InvoiceItemRequest `json:"items" binding:"dive"`
	Subtotal      *decimal.Decimal     `json:"subtotal"`
	Tax           decimal.Decimal      `json:"tax"`
	Discount      decimal.Decimal      `json:"discount"`
	PaidAmount    decimal.Decimal      `json:"paid_amount"`
	Status        *string              `json:"status" binding:"omitempty,oneof=UNPAID HALFPAY FULLPAID"`
	Date          *time.Time           `json:"date"`
	DueDate       *time.Time           `json:"due_date"`
	PaymentMethod string               `json:"payment_method" binding:"max=50"`
	SalesChannel  string               `json:"sales_channel" binding:"max=50"`
	Notes         string               `json:"notes" binding:"max=2000"`
}

// UpdateInvoiceRequest represents a partial invoice update. Nil fields are
// untouched; a non-nil Items replaces the whole item set. Status set here
// is applied verbatim, the corrections escape hatch.
type UpdateInvoiceRequest struct {
	CustomerID    *uuid.UUID            `json:"customer_id"`
	Subtotal      *decimal.Decimal      `json:"subtotal"`
	Tax           *decimal.Decimal      `json:"tax"`
	Discount      *decimal.Decimal      `json:"discount"`
	PaidAmount    *decimal.Decimal      `json:"paid_amount"`
	Status        *string               `json:"status" binding:"omitempty,oneof=UNPAID HALFPAY FULLPAID"`
	Date          *time.Time            `json:"date"`
	DueDate       *time.Time            `json:"due_date"`
	PaymentMethod *string               `json:"payment_method" binding:"omitempty,max=50"`
	SalesChannel  *string               `json:"sales_channel" binding:"omitempty,max=50"`
	Notes         *string               `json:"notes" binding:"omitempty,max=2000"`
	Items         *[]InvoiceItemRequest `json:"items" binding:"omitempty,dive"`
}

// AddPaymentRequest represents a payment to append to an invoice's ledger
type AddPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Method    string          `json:"method" binding:"max=50"`
	PaidAt    *time.Time      `json:"paid_at"`
	Notes     string          `json:"notes" binding:"max=2000"`
	Reference string          `json:"reference" binding:"max=100"`
}

// AddReminderRequest represents a reminder record for an invoice. The
// tenant stamp never comes from the body.
type AddReminderRequest struct {
	Type      string `json:"type" binding:"required,oneof=PAYMENT OVERDUE"`
	Channel   string `json:"channel" binding:"max=50"`
	Message   string `json:"message" binding:"required,min=1,max=2000"`
	Recipient string `json:"recipient" binding:"max=200"`
}

// InvoiceItemResponse represents an invoice line in API responses
type InvoiceItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     *uuid.UUID      `json:"product_id"`
	ProductName   string          `json:"product_name"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	OriginalPrice decimal.Decimal `json:"original_price"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
}

// PaymentResponse represents a ledger entry in API responses
type PaymentResponse struct {
	ID        uuid.UUID       `json:"id"`
	InvoiceID uuid.UUID       `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	PaidAt    time.Time       `json:"paid_at"`
	Notes     string          `json:"notes"`
	Reference string          `json:"reference"`
	CreatedAt time.Time       `json:"created_at"`
}

// InvoiceResponse represents a full invoice with its collections
type InvoiceResponse struct {
	ID            uuid.UUID             `json:"id"`
	TenantID      uuid.UUID             `json:"tenant_id"`
	InvoiceNumber string                `json:"invoice_number"`
	Sequence      int64                 `json:"sequence"`
	CustomerID    uuid.UUID             `json:"customer_id"`
	CustomerName  string                `json:"customer_name"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	Tax           decimal.Decimal       `json:"tax"`
	Discount      decimal.Decimal       `json:"discount"`
	Total         decimal.Decimal       `json:"total"`
	PaidAmount    decimal.Decimal       `json:"paid_amount"`
	DueAmount     decimal.Decimal       `json:"due_amount"`
	Status        string                `json:"status"`
	Date          time.Time             `json:"date"`
	DueDate       *time.Time            `json:"due_date"`
	PaymentMethod string                `json:"payment_method"`
	SalesChannel  string                `json:"sales_channel"`
	Notes         string                `json:"notes"`
	Items         []InvoiceItemResponse `json:"items"`
	Payments      []PaymentResponse     `json:"payments"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// InvoiceListResponse represents an invoice row in list views, without the
// item and payment collections.
type InvoiceListResponse struct {
	ID            uuid.UUID       `json:"id"`
	TenantID      uuid.UUID       `json:"tenant_id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	Total         decimal.Decimal `json:"total"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	DueAmount     decimal.Decimal `json:"due_amount"`
	Status        string          `json:"status"`
	Date          time.Time       `json:"date"`
	DueDate       *time.Time      `json:"due_date"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ReminderResponse represents a reminder record in API responses
type ReminderResponse struct {
	ID        uuid.UUID `json:"id"`
	InvoiceID uuid.UUID `json:"invoice_id"`
	Type      string    `json:"type"`
	Channel   string    `json:"channel"`
	Message   string    `json:"message"`
	Recipient string    `json:"recipient"`
	CreatedAt time.Time `json:"created_at"`
}

// AddReminderResponse carries the new reminder plus the invoice's updated
// reminder count.
type AddReminderResponse struct {
	Reminder      ReminderResponse `json:"reminder"`
	ReminderCount int64            `json:"reminder_count"`
}

// StatusTotalResponse aggregates one status bucket in stats
type StatusTotalResponse struct {
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
	Due   decimal.Decimal `json:"due"`
}

// StatsResponse is the invoice dashboard aggregate
type StatsResponse struct {
	ByStatus      map[string]StatusTotalResponse `json:"by_status"`
	InvoiceCount  int64                          `json:"invoice_count"`
	TotalAmount   decimal.Decimal                `json:"total_amount"`
	TotalDue      decimal.Decimal                `json:"total_due"`
	OverdueAmount decimal.Decimal                `json:"overdue_amount"`
}

// InvoiceListFilter represents filter options for the invoice list
type InvoiceListFilter struct {
	Status     string     `form:"status" binding:"omitempty,oneof=UNPAID HALFPAY FULLPAID"`
	CustomerID *uuid.UUID `form:"customer_id"`
	DateFrom   *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo     *time.Time `form:"date_to" time_format:"2006-01-02"`
	Overdue    *bool      `form:"overdue"`
	Search     string     `form:"search"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// =============================================================================
// Converters
// =============================================================================

// ToInvoiceResponse converts a domain invoice to its full API representation
func ToInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, len(inv.Items))
	for i, item := range inv.Items {
		items[i] = InvoiceItemResponse{
			ID:            item.ID,
			ProductID:     item.ProductID,
			ProductName:   item.ProductName,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			OriginalPrice: item.OriginalPrice,
			Discount:      item.Discount,
			Total:         item.Total,
		}
	}
	payments := make([]PaymentResponse, len(inv.Payments))
	for i := range inv.Payments {
		payments[i] = ToPaymentResponse(&inv.Payments[i])
	}
	return InvoiceResponse{
		ID:            inv.ID,
		TenantID:      inv.TenantID,
		InvoiceNumber: inv.InvoiceNumber,
		Sequence:      inv.Sequence,
		CustomerID:    inv.CustomerID,
		CustomerName:  inv.CustomerName,
		Subtotal:      inv.Subtotal,
		Tax:           inv.Tax,
		Discount:      inv.Discount,
		Total:         inv.Total,
		PaidAmount:    inv.PaidAmount,
		DueAmount:     inv.DueAmount,
		Status:        string(inv.Status),
		Date:          inv.Date,
		DueDate:       inv.DueDate,
		PaymentMethod: inv.PaymentMethod,
		SalesChannel:  inv.SalesChannel,
		Notes:         inv.Notes,
		Items:         items,
		Payments:      payments,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}

// ToInvoiceListResponse converts a domain invoice to its list representation
func ToInvoiceListResponse(inv *billing.Invoice) InvoiceListResponse {
	return InvoiceListResponse{
		ID:            inv.ID,
		TenantID:      inv.TenantID,
		InvoiceNumber: inv.InvoiceNumber,
		CustomerID:    inv.CustomerID,
		CustomerName:  inv.CustomerName,
		Total:         inv.Total,
		PaidAmount:    inv.PaidAmount,
		DueAmount:     inv.DueAmount,
		Status:        string(inv.Status),
		Date:          inv.Date,
		DueDate:       inv.DueDate,
		CreatedAt:     inv.CreatedAt,
	}
}

// ToPaymentResponse converts a domain payment to its API representation
func ToPaymentResponse(p *billing.InvoicePayment) PaymentResponse {
	return PaymentResponse{
		ID:        p.ID,
		InvoiceID: p.InvoiceID,
		Amount:    p.Amount,
		Method:    p.Method,
		PaidAt:    p.PaidAt,
		Notes:     p.Notes,
		Reference: p.Reference,
		CreatedAt: p.CreatedAt,
	}
}

// ToReminderResponse converts a domain reminder to its API representation
func ToReminderResponse(r *billing.InvoiceReminder) ReminderResponse {
	return ReminderResponse{
		ID:        r.ID,
		InvoiceID: r.InvoiceID,
		Type:      string(r.Type),
		Channel:   r.Channel,
		Message:   r.Message,
		Recipient: r.Recipient,
		CreatedAt: r.CreatedAt,
	}
}
