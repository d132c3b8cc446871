package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopledger/backend/internal/domain/shared"
)

// GoodsReceivedRepository is the persistence interface for stock intakes
type GoodsReceivedRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*GoodsReceivedNote, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*GoodsReceivedNote, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]GoodsReceivedNote, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, note *GoodsReceivedNote) error
	Delete(ctx context.Context, id uuid.UUID) error
}
