package handler

import (
	"github.com/gin-gonic/gin"

	appinventory "github.com/shopledger/backend/internal/application/inventory"
)

// GoodsReceivedHandler handles stock intake endpoints
type GoodsReceivedHandler struct {
	BaseHandler
	goodsService *appinventory.GoodsReceivedService
}

// NewGoodsReceivedHandler creates a new GoodsReceivedHandler
func NewGoodsReceivedHandler(goodsService *appinventory.GoodsReceivedService) *GoodsReceivedHandler {
	return &GoodsReceivedHandler{goodsService: goodsService}
}

// List handles GET /goods-received
func (h *GoodsReceivedHandler) List(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter appinventory.GoodsReceivedListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	notes, total, err := h.goodsService.List(c.Request.Context(), caller, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, notes, total, page, pageSize)
}

// Get handles GET /goods-received/:id
func (h *GoodsReceivedHandler) Get(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := pathID(c)
	if !ok {
		h.BadRequest(c, "Invalid goods received id")
		return
	}

	resp, err := h.goodsService.GetByID(c.Request.Context(), caller, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Create handles POST /goods-received. The product's stock increases by the
// received quantity.
func (h *GoodsReceivedHandler) Create(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appinventory.CreateGoodsReceivedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.goodsService.Create(c.Request.Context(), caller, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Delete handles DELETE /goods-received/:id and reverts the stock the note
// added.
func (h *GoodsReceivedHandler) Delete(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := pathID(c)
	if !ok {
		h.BadRequest(c, "Invalid goods received id")
		return
	}

	if err := h.goodsService.Delete(c.Request.Context(), caller, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
