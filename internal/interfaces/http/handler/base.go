package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shopledger/backend/internal/domain/identity"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopledger/backend/internal/infrastructure/authz"
	"github.com/shopledger/backend/internal/interfaces/http/dto"
	"github.com/shopledger/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common response and error utilities for all handlers
type BaseHandler struct{}

// actor builds the service-layer caller identity from the authenticated
// claims and the effective shop scope resolved by the tenant middleware.
func actor(c *gin.Context) (authz.Actor, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return authz.Actor{}, false
	}
	userID, err := claims.UserUUID()
	if err != nil {
		return authz.Actor{}, false
	}
	return authz.Actor{
		UserID: userID,
		Role:   identity.Role(claims.Role),
		ShopID: middleware.EffectiveShopID(c),
	}, true
}

// pathID parses the :id path parameter as a UUID
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Success sends a 200 success envelope
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a 200 success envelope with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 success envelope
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 with the bad-request code
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeBadRequest, message))
}

// ValidationError sends a 400 for a binding/validation failure
func (h *BaseHandler) ValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeValidation, err.Error()))
}

// Unauthorized sends a 401
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrCodeUnauthorized, message))
}

// HandleError translates a service error into the envelope. Domain error
// codes are normalized to the API format and mapped to an HTTP status;
// anything else is a 500 with no internal detail leaked.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		status, ok := dto.ErrorCodeHTTPStatus[code]
		if !ok {
			// Unmapped domain codes are business rule violations.
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, dto.NewErrorResponse(code, domainErr.Message))
		return
	}
	c.JSON(http.StatusInternalServerError,
		dto.NewErrorResponse(dto.ErrCodeInternal, "Internal server error"))
}
