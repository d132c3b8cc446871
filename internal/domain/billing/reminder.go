package billing

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopledger/backend/internal/domain/shared"
)

// ReminderType classifies an invoice reminder
type ReminderType string

const (
	ReminderPayment ReminderType = "PAYMENT"
	ReminderOverdue ReminderType = "OVERDUE"
)

// IsValid checks if the reminder type is known
func (t ReminderType) IsValid() bool {
	return t == ReminderPayment || t == ReminderOverdue
}

// InvoiceReminder is an append-only record of a reminder issued for an
// invoice. Delivery is out of scope; only the record is kept. The tenant
// stamp always comes from the authenticated caller, never the request body.
type InvoiceReminder struct {
	shared.BaseEntity
	InvoiceID uuid.UUID    `json:"invoice_id"`
	TenantID  uuid.UUID    `json:"tenant_id"`
	Type      ReminderType `json:"type"`
	Channel   string       `json:"channel"`
	Message   string       `json:"message"`
	Recipient string       `json:"recipient"`
}

// NewInvoiceReminder creates a reminder record for an invoice
func NewInvoiceReminder(tenantID, invoiceID uuid.UUID, reminderType ReminderType, channel, message, recipient string) (*InvoiceReminder, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Reminder must belong to a shop")
	}
	if invoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Reminder must reference an invoice")
	}
	if !reminderType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Unknown reminder type")
	}
	if strings.TrimSpace(message) == "" {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Reminder message cannot be empty")
	}

	return &InvoiceReminder{
		BaseEntity: shared.NewBaseEntity(),
		InvoiceID:  invoiceID,
		TenantID:   tenantID,
		Type:       reminderType,
		Channel:    channel,
		Message:    message,
		Recipient:  recipient,
	}, nil
}
