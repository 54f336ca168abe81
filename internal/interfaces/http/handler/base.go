package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/logger"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/interfaces/http/dto"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides the response and error helpers shared by all handlers
type BaseHandler struct {
	logger *zap.Logger
}

// NewBaseHandler creates a BaseHandler that logs unexpected errors to log
func NewBaseHandler(log *zap.Logger) BaseHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return BaseHandler{logger: log}
}

// Success sends a 200 response with data
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 response with data
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the status mapped from code
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	c.Set(middleware.ErrorCodeKey, code)
	c.AbortWithStatusJSON(dto.GetHTTPStatus(code), dto.NewErrorResponse(code, message, middleware.GetRequestID(c)))
}

// Unauthorized sends a 401 response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeUnauthorized, message)
}

// ValidationError sends a 400 response with per-field messages
func (h *BaseHandler) ValidationError(c *gin.Context, fields map[string]string) {
	c.Set(middleware.ErrorCodeKey, dto.ErrCodeValidation)
	c.AbortWithStatusJSON(http.StatusBadRequest,
		dto.NewValidationErrorResponse("Request validation failed", middleware.GetRequestID(c), fields))
}

// HandleError maps domain errors onto the response envelope. Anything that is
// not a DomainError is logged and reported as ERR_INTERNAL without detail.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.FromDomainCode(domainErr.Code)
		if code == dto.ErrCodeValidation && len(domainErr.Fields) > 0 {
			c.Set(middleware.ErrorCodeKey, code)
			c.AbortWithStatusJSON(http.StatusBadRequest,
				dto.NewValidationErrorResponse(domainErr.Message, middleware.GetRequestID(c), domainErr.Fields))
			return
		}
		h.Error(c, code, domainErr.Message)
		return
	}

	logger.Ctx(c.Request.Context(), h.logger).Error("Unhandled error",
		zap.Error(err),
		zap.String("method", c.Request.Method),
		zap.String("route", c.FullPath()),
	)
	h.Error(c, dto.ErrCodeInternal, "An unexpected error occurred")
}

// bindJSON binds the request body, writing the 400 itself on failure
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.Set(middleware.ErrorCodeKey, dto.ErrCodeValidation)
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// bindList binds the common page/limit/search query
func (h *BaseHandler) bindList(c *gin.Context) (shared.Filter, bool) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.HandleValidationError(c, err)
		return shared.Filter{}, false
	}
	return q.Filter(), true
}

// pathID parses a positive integer path parameter
func (h *BaseHandler) pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		h.ValidationError(c, map[string]string{name: "Must be a positive integer"})
		return 0, false
	}
	return id, true
}

// actor returns the authenticated user for audit columns, or nil
func (h *BaseHandler) actor(c *gin.Context) *int64 {
	if id, ok := middleware.GetJWTUserID(c); ok {
		return &id
	}
	return nil
}

// requireActor is actor for operations that must be attributed to a user
func (h *BaseHandler) requireActor(c *gin.Context) (int64, bool) {
	id, ok := middleware.GetJWTUserID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
	}
	return id, ok
}

// page writes a paginated result with items in data and counters in meta
func page[T any](c *gin.Context, p *shared.Paginated[T]) {
	c.JSON(http.StatusOK, dto.NewPageResponse(p))
}
