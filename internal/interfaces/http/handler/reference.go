package handler

import (
	"github.com/gin-gonic/gin"

	appcatalog "github.com/shopledger/backend/internal/application/catalog"
)

// ReferenceHandler handles category and brand endpoints. Both are
// tenant-agnostic reference data: any authenticated user may read them,
// only the platform admin surface mutates them.
type ReferenceHandler struct {
	BaseHandler
	referenceService *appcatalog.ReferenceService
}

// NewReferenceHandler creates a new ReferenceHandler
func NewReferenceHandler(referenceService *appcatalog.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{referenceService: referenceService}
}

// ListCategories handles GET /categories
func (h *ReferenceHandler) ListCategories(c *gin.Context) {
	resp, err := h.referenceService.ListCategories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateCategory handles POST /admin/categories
func (h *ReferenceHandler) CreateCategory(c *gin.Context) {
	var req appcatalog.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.referenceService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// RenameCategory handles PUT /admin/categories/:id
func (h *ReferenceHandler) RenameCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.BadRequest(c, "Invalid category id")
		return
	}
	var req appcatalog.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.referenceService.RenameCategory(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteCategory handles DELETE /admin/categories/:id
func (h *ReferenceHandler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.BadRequest(c, "Invalid category id")
		return
	}
	if err := h.referenceService.DeleteCategory(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListBrands handles GET /brands
func (h *ReferenceHandler) ListBrands(c *gin.Context) {
	resp, err := h.referenceService.ListBrands(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateBrand handles POST /admin/brands
func (h *ReferenceHandler) CreateBrand(c *gin.Context) {
	var req appcatalog.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.referenceService.CreateBrand(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// RenameBrand handles PUT /admin/brands/:id
func (h *ReferenceHandler) RenameBrand(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.BadRequest(c, "Invalid brand id")
		return
	}
	var req appcatalog.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.referenceService.RenameBrand(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteBrand handles DELETE /admin/brands/:id
func (h *ReferenceHandler) DeleteBrand(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.BadRequest(c, "Invalid brand id")
		return
	}
	if err := h.referenceService.DeleteBrand(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
