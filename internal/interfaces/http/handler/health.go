package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopledger/backend/internal/infrastructure/persistence"
	"github.com/shopledger/backend/internal/interfaces/http/dto"
)

// HealthHandler handles the liveness endpoint
type HealthHandler struct {
	BaseHandler
	db *persistence.Database
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db *persistence.Database) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check handles GET /health. A failed DB ping reports 503.
func (h *HealthHandler) Check(c *gin.Context) {
	if err := h.db.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(dto.ErrCodeInternal, "Database unavailable"))
		return
	}
	h.Success(c, gin.H{"status": "ok"})
}
