package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopledger/backend/internal/domain/inventory"
)

// GoodsReceivedModel is the persistence model for stock intake records
type GoodsReceivedModel struct {
	TenantAggregateModel
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200)"`
	Quantity    int             `gorm:"not null"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Supplier    string          `gorm:"type:varchar(200)"`
	ReceivedAt  time.Time       `gorm:"not null;index"`
	Notes       string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (GoodsReceivedModel) TableName() string {
	return "goods_received_notes"
}

// ToDomain converts the persistence model to a domain GoodsReceivedNote
func (m *GoodsReceivedModel) ToDomain() *inventory.GoodsReceivedNote {
	return &inventory.GoodsReceivedNote{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		ProductID:           m.ProductID,
		ProductName:         m.ProductName,
		Quantity:            m.Quantity,
		UnitCost:            m.UnitCost,
		Supplier:            m.Supplier,
		ReceivedAt:          m.ReceivedAt,
		Notes:               m.Notes,
	}
}

// GoodsReceivedModelFromDomain creates a persistence model from a domain note
func GoodsReceivedModelFromDomain(n *inventory.GoodsReceivedNote) *GoodsReceivedModel {
	m := &GoodsReceivedModel{
		ProductID:   n.ProductID,
		ProductName: n.ProductName,
		Quantity:    n.Quantity,
		UnitCost:    n.UnitCost,
		Supplier:    n.Supplier,
		ReceivedAt:  n.ReceivedAt,
		Notes:       n.Notes,
	}
	m.FromDomainTenantAggregateRoot(n.TenantAggregateRoot)
	return m
}
