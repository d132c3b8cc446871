package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appidentity "github.com/shopledger/backend/internal/application/identity"
)

// ShopAdminHandler handles the tenant admin surface: the caller's own shop
// profile and its staff. Routes behind it are gated on the ADMIN role by
// the router; the shop is always the caller's own, never taken from the
// request.
type ShopAdminHandler struct {
	BaseHandler
	shopService *appidentity.ShopService
	userService *appidentity.UserService
}

// NewShopAdminHandler creates a new ShopAdminHandler
func NewShopAdminHandler(shopService *appidentity.ShopService, userService *appidentity.UserService) *ShopAdminHandler {
	return &ShopAdminHandler{shopService: shopService, userService: userService}
}

// GetShop handles GET /shop-admin/shop
func (h *ShopAdminHandler) GetShop(c *gin.Context) {
	caller, ok := actor(c)
	if !ok || caller.ShopID == uuid.Nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	resp, err := h.shopService.GetByID(c.Request.Context(), caller.ShopID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateShop handles PUT /shop-admin/shop. The active flag is platform
// admin territory and is ignored here.
func (h *ShopAdminHandler) UpdateShop(c *gin.Context) {
	caller, ok := actor(c)
	if !ok || caller.ShopID == uuid.Nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appidentity.UpdateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	req.Active = nil

	resp, err := h.shopService.Update(c.Request.Context(), caller.ShopID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListUsers handles GET /shop-admin/users
func (h *ShopAdminHandler) ListUsers(c *gin.Context) {
	caller, ok := actor(c)
	if !ok || caller.ShopID == uuid.Nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter appidentity.UserListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	users, total, err := h.userService.List(c.Request.Context(), caller, caller.ShopID, filter)
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

// CreateUser handles POST /shop-admin/users. The service pins the new user
// to the caller's shop and refuses the ADMIN role from this surface.
func (h *ShopAdminHandler) CreateUser(c *gin.Context) {
	caller, ok := actor(c)
	if !ok || caller.ShopID == uuid.Nil {
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

// UpdateUser handles PUT /shop-admin/users/:id
func (h *ShopAdminHandler) UpdateUser(c *gin.Context) {
	caller, ok := actor(c)
	if !ok || caller.ShopID == uuid.Nil {
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

// ResetUserPassword handles PUT /shop-admin/users/:id/password
func (h *ShopAdminHandler) ResetUserPassword(c *gin.Context) {
	caller, ok := actor(c)
	if !ok || caller.ShopID == uuid.Nil {
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

// DeleteUser handles DELETE /shop-admin/users/:id
func (h *ShopAdminHandler) DeleteUser(c *gin.Context) {
	caller, ok := actor(c)
	if !ok || caller.ShopID == uuid.Nil {
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
