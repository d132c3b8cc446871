package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopledger/backend/internal/domain/inventory"
)

// CreateGoodsReceivedRequest represents a stock intake to record. The
// tenant always comes from the credential, never the body.
type CreateGoodsReceivedRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required,min=1"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Supplier  string          `json:"supplier" binding:"max=200"`
	Notes     string          `json:"notes" binding:"max=2000"`
}

// GoodsReceivedResponse represents a stock intake in API responses
type GoodsReceivedResponse struct {
	ID          uuid.UUID       `json:"id"`
	TenantID    uuid.UUID       `json:"tenant_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Supplier    string          `json:"supplier"`
	ReceivedAt  time.Time       `json:"received_at"`
	Notes       string          `json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`
}

// GoodsReceivedListFilter represents filter options for the intake list
type GoodsReceivedListFilter struct {
	ProductID *uuid.UUID `form:"product_id"`
	Search    string     `form:"search"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToGoodsReceivedResponse converts a domain note to its API representation
func ToGoodsReceivedResponse(note *inventory.GoodsReceivedNote) GoodsReceivedResponse {
	return GoodsReceivedResponse{
		ID:          note.ID,
		TenantID:    note.TenantID,
		ProductID:   note.ProductID,
		ProductName: note.ProductName,
		Quantity:    note.Quantity,
		UnitCost:    note.UnitCost,
		Supplier:    note.Supplier,
		ReceivedAt:  note.ReceivedAt,
		Notes:       note.Notes,
		CreatedAt:   note.CreatedAt,
	}
}
