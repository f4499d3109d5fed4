package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aliskhannn/vocab-quest/internal/domain/entities"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorDetail accompanies validation failures.
type ErrorDetail struct {
	Type  entities.ValidationCode `json:"type"`
	Field string                  `json:"field"`
}

func success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Code: http.StatusOK, Message: "success", Data: data})
}

func created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{Code: http.StatusCreated, Message: "created", Data: data})
}

func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, Response{Code: code, Message: message})
}

func badRequest(c *gin.Context, message string) {
	abortWithError(c, http.StatusBadRequest, message)
}

func unauthorized(c *gin.Context) {
	abortWithError(c, http.StatusUnauthorized, "unauthorized")
}

func forbidden(c *gin.Context) {
	abortWithError(c, http.StatusForbidden, "forbidden")
}

// writeError maps the domain error taxonomy onto HTTP statuses.
func (h *Handler) writeError(c *gin.Context, err error) {
	if ve, ok := entities.AsValidation(err); ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, Response{
			Code:    http.StatusBadRequest,
			Message: ve.Error(),
			Data:    ErrorDetail{Type: ve.Code, Field: ve.Field},
		})
		return
	}

	if errors.Is(err, entities.ErrNotFound) {
		abortWithError(c, http.StatusNotFound, "resource not found")
		return
	}

	h.logger.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	abortWithError(c, http.StatusInternalServerError, "internal server error")
}
