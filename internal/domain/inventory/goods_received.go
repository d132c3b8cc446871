package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// GoodsReceivedNote records a stock intake for one product of one shop.
// Creating a note increases the product's stock; deleting it reverts the
// adjustment.
type GoodsReceivedNote struct {
	shared.TenantAggregateRoot
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Supplier    string          `json:"supplier"`
	ReceivedAt  time.Time       `json:"received_at"`
	Notes       string          `json:"notes"`
}

// NewGoodsReceivedNote creates a stock intake record
func NewGoodsReceivedNote(tenantID, productID uuid.UUID, productName string, quantity int, unitCost decimal.Decimal) (*GoodsReceivedNote, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Goods received note must belong to a shop")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Goods received note must reference a product")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Received quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	return &GoodsReceivedNote{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProductID:           productID,
		ProductName:         productName,
		Quantity:            quantity,
		UnitCost:            unitCost,
		ReceivedAt:          time.Now(),
	}, nil
}
