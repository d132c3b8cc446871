package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopledger/backend/internal/domain/billing"
	"github.com/shopledger/backend/internal/infrastructure/persistence/models"
)

// GormReminderRepository implements billing.ReminderRepository using GORM
type GormReminderRepository struct {
	db *gorm.DB
}

// NewGormReminderRepository creates a new GormReminderRepository
func NewGormReminderRepository(db *gorm.DB) *GormReminderRepository {
	return &GormReminderRepository{db: db}
}

// FindByInvoice lists reminders recorded for an invoice, newest first
func (r *GormReminderRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]billing.InvoiceReminder, error) {
	var reminderModels []models.InvoiceReminderModel
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at DESC").
		Find(&reminderModels).Error; err != nil {
		return nil, err
	}
	reminders := make([]billing.InvoiceReminder, len(reminderModels))
	for i, m := range reminderModels {
		reminders[i] = m.ToDomain()
	}
	return reminders, nil
}

// CountByInvoice counts reminders recorded for an invoice
func (r *GormReminderRepository) CountByInvoice(ctx context.Context, invoiceID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.InvoiceReminderModel{}).
		Where("invoice_id = ?", invoiceID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save appends a reminder record
func (r *GormReminderRepository) Save(ctx context.Context, reminder *billing.InvoiceReminder) error {
	return r.db.WithContext(ctx).Create(models.InvoiceReminderModelFromDomain(reminder)).Error
}

// DeleteByInvoice removes all reminders for an invoice; invoked when the
// invoice itself is deleted.
func (r *GormReminderRepository) DeleteByInvoice(ctx context.Context, invoiceID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&models.InvoiceReminderModel{}, "invoice_id = ?", invoiceID).Error
}

var _ billing.ReminderRepository = (*GormReminderRepository)(nil)
