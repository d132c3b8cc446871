package handler

import (
	"github.com/gin-gonic/gin"

	apppartner "github.com/shopledger/backend/internal/application/partner"
)

// CustomerHandler handles customer endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *apppartner.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *apppartner.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// List handles GET /customers
func (h *CustomerHandler) List(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter apppartner.CustomerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	customers, total, err := h.customerService.List(c.Request.Context(), caller, filter)
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
	h.SuccessWithMeta(c, customers, total, page, pageSize)
}

// Get handles GET /customers/:id
func (h *CustomerHandler) Get(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := pathID(c)
	if !ok {
		h.BadRequest(c, "Invalid customer id")
		return
	}

	resp, err := h.customerService.GetByID(c.Request.Context(), caller, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Create handles POST /customers
func (h *CustomerHandler) Create(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req apppartner.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.customerService.Create(c.Request.Context(), caller, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Update handles PUT /customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := pathID(c)
	if !ok {
		h.BadRequest(c, "Invalid customer id")
		return
	}

	var req apppartner.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.customerService.Update(c.Request.Context(), caller, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /customers/:id. Deletion is blocked while the
// customer still has invoices.
func (h *CustomerHandler) Delete(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, ok := pathID(c)
	if !ok {
		h.BadRequest(c, "Invalid customer id")
		return
	}

	if err := h.customerService.Delete(c.Request.Context(), caller, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
