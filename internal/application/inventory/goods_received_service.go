package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopledger/backend/internal/domain/catalog"
	"github.com/shopledger/backend/internal/domain/inventory"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopledger/backend/internal/infrastructure/authz"
)

// GoodsReceivedService records stock intakes and keeps product stock in
// step with them. The stock adjustment and the note are written as two
// sequential saves, not one transaction; a crash between them leaves the
// stock adjusted without a note, which an operator can correct manually.
type GoodsReceivedService struct {
	noteRepo    inventory.GoodsReceivedRepository
	productRepo catalog.ProductRepository
	policy      *authz.Policy
	logger      *zap.Logger
}

// NewGoodsReceivedService creates a new GoodsReceivedService
func NewGoodsReceivedService(
	noteRepo inventory.GoodsReceivedRepository,
	productRepo catalog.ProductRepository,
	policy *authz.Policy,
	logger *zap.Logger,
) *GoodsReceivedService {
	return &GoodsReceivedService{
		noteRepo:    noteRepo,
		productRepo: productRepo,
		policy:      policy,
		logger:      logger,
	}
}

// Create records a stock intake for a product of the caller's shop and
// increases the product's stock by the received quantity. The product name
// is snapshotted onto the note.
func (s *GoodsReceivedService) Create(ctx context.Context, actor authz.Actor, req CreateGoodsReceivedRequest) (*GoodsReceivedResponse, error) {
	if err := s.policy.Authorize(actor.Role, authz.ActionWriteRecords, actor.ShopID, actor.ShopID); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByIDForTenant(ctx, actor.ShopID, req.ProductID)
	if err != nil {
		return nil, err
	}

	note, err := inventory.NewGoodsReceivedNote(actor.ShopID, product.ID, product.Name, req.Quantity, req.UnitCost)
	if err != nil {
		return nil, err
	}
	note.Supplier = req.Supplier
	note.Notes = req.Notes

	if err := product.AdjustStock(req.Quantity); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	if err := s.noteRepo.Save(ctx, note); err != nil {
		return nil, err
	}

	s.logger.Info("goods received",
		zap.String("note_id", note.ID.String()),
		zap.String("product_id", product.ID.String()),
		zap.Int("quantity", req.Quantity),
		zap.Int("stock", product.Stock),
	)

	resp := ToGoodsReceivedResponse(note)
	return &resp, nil
}

// GetByID retrieves a stock intake by ID
func (s *GoodsReceivedService) GetByID(ctx context.Context, actor authz.Actor, id uuid.UUID) (*GoodsReceivedResponse, error) {
	note, err := s.load(ctx, actor, id, authz.ActionReadRecords)
	if err != nil {
		return nil, err
	}
	resp := ToGoodsReceivedResponse(note)
	return &resp, nil
}

// List retrieves stock intakes in the caller's effective scope
func (s *GoodsReceivedService) List(ctx context.Context, actor authz.Actor, filter GoodsReceivedListFilter) ([]GoodsReceivedResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	repoFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  map[string]any{},
	}
	if filter.ProductID != nil {
		repoFilter.Filters["product_id"] = *filter.ProductID
	}

	notes, err := s.noteRepo.FindAllForTenant(ctx, actor.ShopID, repoFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.noteRepo.CountForTenant(ctx, actor.ShopID, repoFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]GoodsReceivedResponse, len(notes))
	for i := range notes {
		responses[i] = ToGoodsReceivedResponse(&notes[i])
	}
	return responses, total, nil
}

// Delete removes a stock intake and reverts the stock it added. When the
// stock has since been sold below the intake quantity the revert fails with
// INSUFFICIENT_STOCK and the note is kept.
func (s *GoodsReceivedService) Delete(ctx context.Context, actor authz.Actor, id uuid.UUID) error {
	note, err := s.load(ctx, actor, id, authz.ActionDeleteRecords)
	if err != nil {
		return err
	}

	product, err := s.productRepo.FindByIDForTenant(ctx, note.TenantID, note.ProductID)
	switch {
	case err == nil:
		if err := product.AdjustStock(-note.Quantity); err != nil {
			return err
		}
		if err := s.productRepo.Save(ctx, product); err != nil {
			return err
		}
	case errors.Is(err, shared.ErrNotFound):
		// Product already gone; nothing to revert.
	default:
		return err
	}

	if err := s.noteRepo.Delete(ctx, note.ID); err != nil {
		return err
	}

	s.logger.Info("goods received reverted",
		zap.String("note_id", note.ID.String()),
		zap.String("product_id", note.ProductID.String()),
		zap.Int("quantity", note.Quantity),
	)
	return nil
}

// load fetches a note unscoped, then enforces ownership, so probing a
// foreign note reads as forbidden rather than missing.
func (s *GoodsReceivedService) load(ctx context.Context, actor authz.Actor, id uuid.UUID, action authz.Action) (*inventory.GoodsReceivedNote, error) {
	note, err := s.noteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(actor.Role, action, note.TenantID, actor.ShopID); err != nil {
		return nil, err
	}
	return note, nil
}
