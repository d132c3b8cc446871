package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appbilling "github.com/shopledger/backend/internal/application/billing"
	appidentity "github.com/shopledger/backend/internal/application/identity"
	"github.com/shopledger/backend/internal/infrastructure/authz"
)

// AdminHandler handles the platform admin surface. Every route behind it is
// gated on SUPER_ADMIN by the router.
type AdminHandler struct {
	BaseHandler
	shopService    *appidentity.ShopService
	userService    *appidentity.UserService
	invoiceService *appbilling.InvoiceService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	shopService *appidentity.ShopService,
	userService *appidentity.UserService,
	invoiceService *appbilling.InvoiceService,
) *AdminHandler {
	return &AdminHandler{
		shopService:    shopService,
		userService:    userService,
		invoiceService: invoiceService,
	}
}

// ListShops handles GET /admin/shops
func (h *AdminHandler) ListShops(c *gin.Context) {
	var filter appidentity.ShopListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	shops, total, err := h.shopService.List(c.Request.Context(), filter)
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
	h.SuccessWithMeta(c, shops, total, page, pageSize)
}

// GetShop handles GET /admin/shops/:id
func (h *AdminHandler) GetShop(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.BadRequest(c, "Invalid shop id")
		return
	}
	resp, err := h.shopService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateShop handles POST /admin/shops
func (h *AdminHandler) CreateShop(c *gin.Context) {
	var req appidentity.CreateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.shopService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateShop handles PUT /admin/shops/:id
func (h *AdminHandler) UpdateShop(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.BadRequest(c, "Invalid shop id")
		return
	}
	var req appidentity.UpdateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.shopService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeactivateShop handles DELETE /admin/shops/:id. Deactivation is a soft
// flag; the shop's data is kept.
func (h *AdminHandler) DeactivateShop(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.BadRequest(c, "Invalid shop id")
		return
	}
	if err := h.shopService.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListUsers handles GET /admin/users. An optional shop_id query narrows the
// list to one shop; without it all users are returned.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter appidentity.UserListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	shopID := uuid.Nil
	if v := c.Query("shop_id"); v != "" {
		parsed, err := uuid.Parse(v)
		if err != nil {
			h.BadRequest(c, "Invalid shop id")
			return
		}
		shopID = parsed
	}

	users, total, err := h.userService.List(c.Request.Context(), caller, shopID, filter)
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
	h.SuccessWithMeta(c, users, total, page, pageSize)
}

// CreateUser handles POST /admin/users. SUPER_ADMIN may create users for
// any shop and any role.
func (h *AdminHandler) CreateUser(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appidentity.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.userService.Create(c.Request.Context(), caller, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateUser handles PUT /admin/users/:id
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := pathID(c)
	if !ok {
		h.BadRequest(c, "Invalid user id")
		return
	}

	var req appidentity.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.userService.Update(c.Request.Context(), caller, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ResetUserPassword handles PUT /admin/users/:id/password
func (h *AdminHandler) ResetUserPassword(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := pathID(c)
	if !ok {
		h.BadRequest(c, "Invalid user id")
		return
	}

	var req appidentity.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	if err := h.userService.ResetPassword(c.Request.Context(), caller, id, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Password reset"})
}

// DeleteUser handles DELETE /admin/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := pathID(c)
	if !ok {
		h.BadRequest(c, "Invalid user id")
		return
	}

	if err := h.userService.Delete(c.Request.Context(), caller, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// PlatformStats handles GET /admin/stats: shop count plus the invoice
// aggregate over all shops.
func (h *AdminHandler) PlatformStats(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	shopCount, err := h.shopService.Count(c.Request.Context(), "")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	// Unscoped stats: caller.ShopID is uuid.Nil for SUPER_ADMIN without an
	// override, which the repositories treat as the all-shops view.
	invoiceStats, err := h.invoiceService.Stats(c.Request.Context(), authz.Actor{
		UserID: caller.UserID,
		Role:   caller.Role,
		ShopID: uuid.Nil,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{
		"shop_count": shopCount,
		"invoices":   invoiceStats,
	})
}
