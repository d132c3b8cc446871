package handler

import (
	"github.com/gin-gonic/gin"

	appbilling "github.com/shopledger/backend/internal/application/billing"
)

// InvoiceHandler handles invoice endpoints. The :ref path parameter accepts
// a primary key, a full invoice number, or a bare sequence.
type InvoiceHandler struct {
	BaseHandler
	invoiceService *appbilling.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *appbilling.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// List handles GET /invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter appbilling.InvoiceListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	invoices, total, err := h.invoiceService.List(c.Request.Context(), caller, filter)
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
	h.SuccessWithMeta(c, invoices, total, page, pageSize)
}

// Get handles GET /invoices/:ref
func (h *InvoiceHandler) Get(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	resp, err := h.invoiceService.Get(c.Request.Context(), caller, c.Param("ref"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Create handles POST /invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appbilling.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.invoiceService.Create(c.Request.Context(), caller, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Update handles PUT /invoices/:ref
func (h *InvoiceHandler) Update(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appbilling.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.invoiceService.Update(c.Request.Context(), caller, c.Param("ref"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /invoices/:ref
func (h *InvoiceHandler) Delete(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), caller, c.Param("ref")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AddPayment handles POST /invoices/:ref/payments
func (h *InvoiceHandler) AddPayment(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appbilling.AddPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.invoiceService.AddPayment(c.Request.Context(), caller, c.Param("ref"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListPayments handles GET /invoices/:ref/payments
func (h *InvoiceHandler) ListPayments(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	resp, err := h.invoiceService.ListPayments(c.Request.Context(), caller, c.Param("ref"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddReminder handles POST /invoices/:ref/reminders
func (h *InvoiceHandler) AddReminder(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appbilling.AddReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.invoiceService.AddReminder(c.Request.Context(), caller, c.Param("ref"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListReminders handles GET /invoices/:ref/reminders
func (h *InvoiceHandler) ListReminders(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	resp, err := h.invoiceService.ListReminders(c.Request.Context(), caller, c.Param("ref"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Stats handles GET /invoices/stats
func (h *InvoiceHandler) Stats(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	resp, err := h.invoiceService.Stats(c.Request.Context(), caller)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
