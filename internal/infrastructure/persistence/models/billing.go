package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopledger/backend/internal/domain/billing"
)

// InvoiceModel is the persistence model for the invoice aggregate root.
// Items and payments live in their own tables and are loaded explicitly.
type InvoiceModel struct {
	TenantAggregateModel
	InvoiceNumber string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Sequence      int64           `gorm:"not null;uniqueIndex"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerName  string          `gorm:"type:varchar(200);not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Tax           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Discount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Total         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DueAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status        string          `gorm:"type:varchar(20);not null;index"`
	Date          time.Time       `gorm:"not null;index"`
	DueDate       *time.Time      `gorm:"index"`
	PaymentMethod string          `gorm:"type:varchar(50)"`
	SalesChannel  string          `gorm:"type:varchar(50)"`
	Notes         string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice without its
// item and payment collections; the repository attaches those.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	return &billing.Invoice{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		InvoiceNumber:       m.InvoiceNumber,
		Sequence:            m.Sequence,
		CustomerID:          m.CustomerID,
		CustomerName:        m.CustomerName,
		Subtotal:            m.Subtotal,
		Tax:                 m.Tax,
		Discount:            m.Discount,
		Total:               m.Total,
		PaidAmount:          m.PaidAmount,
		DueAmount:           m.DueAmount,
		Status:              billing.InvoiceStatus(m.Status),
		Date:                m.Date,
		DueDate:             m.DueDate,
		PaymentMethod:       m.PaymentMethod,
		SalesChannel:        m.SalesChannel,
		Notes:               m.Notes,
	}
}

// InvoiceModelFromDomain creates a persistence model from a domain Invoice
func InvoiceModelFromDomain(inv *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{
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
	}
	m.FromDomainTenantAggregateRoot(inv.TenantAggregateRoot)
	return m
}

// InvoiceItemModel is the persistence model for invoice lines
type InvoiceItemModel struct {
	BaseModel
	InvoiceID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID     *uuid.UUID      `gorm:"type:uuid;index"`
	ProductName   string          `gorm:"type:varchar(200)"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OriginalPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Discount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Total         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// ToDomain converts the persistence model to a domain InvoiceItem
func (m *InvoiceItemModel) ToDomain() billing.InvoiceItem {
	return billing.InvoiceItem{
		BaseEntity:    m.BaseModel.ToDomain(),
		InvoiceID:     m.InvoiceID,
		ProductID:     m.ProductID,
		ProductName:   m.ProductName,
		Quantity:      m.Quantity,
		UnitPrice:     m.UnitPrice,
		OriginalPrice: m.OriginalPrice,
		Discount:      m.Discount,
		Total:         m.Total,
	}
}

// InvoiceItemModelFromDomain creates a persistence model from a domain item
func InvoiceItemModelFromDomain(it billing.InvoiceItem) *InvoiceItemModel {
	m := &InvoiceItemModel{
		InvoiceID:     it.InvoiceID,
		ProductID:     it.ProductID,
		ProductName:   it.ProductName,
		Quantity:      it.Quantity,
		UnitPrice:     it.UnitPrice,
		OriginalPrice: it.OriginalPrice,
		Discount:      it.Discount,
		Total:         it.Total,
	}
	m.FromDomainBaseEntity(it.BaseEntity)
	return m
}

// InvoicePaymentModel is the persistence model for payment ledger entries.
// Rows are append-only; there is no update path.
type InvoicePaymentModel struct {
	BaseModel
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Method    string          `gorm:"type:varchar(50)"`
	PaidAt    time.Time       `gorm:"not null;index"`
	Notes     string          `gorm:"type:text"`
	Reference string          `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (InvoicePaymentModel) TableName() string {
	return "invoice_payments"
}

// ToDomain converts the persistence model to a domain InvoicePayment
func (m *InvoicePaymentModel) ToDomain() billing.InvoicePayment {
	return billing.InvoicePayment{
		BaseEntity: m.BaseModel.ToDomain(),
		InvoiceID:  m.InvoiceID,
		Amount:     m.Amount,
		Method:     m.Method,
		PaidAt:     m.PaidAt,
		Notes:      m.Notes,
		Reference:  m.Reference,
	}
}

// InvoicePaymentModelFromDomain creates a persistence model from a domain payment
func InvoicePaymentModelFromDomain(p billing.InvoicePayment) *InvoicePaymentModel {
	m := &InvoicePaymentModel{
		InvoiceID: p.InvoiceID,
		Amount:    p.Amount,
		Method:    p.Method,
		PaidAt:    p.PaidAt,
		Notes:     p.Notes,
		Reference: p.Reference,
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}

// InvoiceReminderModel is the persistence model for reminder records
type InvoiceReminderModel struct {
	BaseModel
	InvoiceID uuid.UUID `gorm:"type:uuid;not null;index"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Type      string    `gorm:"type:varchar(20);not null"`
	Channel   string    `gorm:"type:varchar(50)"`
	Message   string    `gorm:"type:text;not null"`
	Recipient string    `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (InvoiceReminderModel) TableName() string {
	return "invoice_reminders"
}

// ToDomain converts the persistence model to a domain InvoiceReminder
func (m *InvoiceReminderModel) ToDomain() billing.InvoiceReminder {
	return billing.InvoiceReminder{
		BaseEntity: m.BaseModel.ToDomain(),
		InvoiceID:  m.InvoiceID,
		TenantID:   m.TenantID,
		Type:       billing.ReminderType(m.Type),
		Channel:    m.Channel,
		Message:    m.Message,
		Recipient:  m.Recipient,
	}
}

// InvoiceReminderModelFromDomain creates a persistence model from a domain reminder
func InvoiceReminderModelFromDomain(r *billing.InvoiceReminder) *InvoiceReminderModel {
	m := &InvoiceReminderModel{
		InvoiceID: r.InvoiceID,
		TenantID:  r.TenantID,
		Type:      string(r.Type),
		Channel:   r.Channel,
		Message:   r.Message,
		Recipient: r.Recipient,
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	return m
}
