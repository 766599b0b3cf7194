package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "clinic/internal/errors"
	"clinic/internal/logger"
	"clinic/internal/middleware"
	"clinic/internal/pagination"
	"clinic/internal/uuid"
)

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (string, error) {
	userID := c.GetString("userID")
	if userID == "" {
		return "", apperrors.ErrUnauthorized
	}
	return userID, nil
}

// parsePathID reads a UUID path parameter.
// Returns ErrInvalidInput if the parameter is not a valid UUID.
func parsePathID(c *gin.Context, param string) (string, error) {
	id := strings.TrimSpace(c.Param(param))
	if !uuid.IsValid(id) {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// bindJSON decodes the request body into req and writes a 400 on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, bindErrorMessage(err)))
		return false
	}
	return true
}

// bindErrorMessage turns validator failures into a short field list.
func bindErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request body"
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
	}
	return "Invalid input: " + strings.Join(parts, "; ")
}

// invalidPage reports a malformed page or page_size query.
func invalidPage(err error) error {
	return apperrors.WithMessage(apperrors.ErrInvalidInput, bindErrorMessage(err))
}

// pageMeta describes a page without repeating its items.
func pageMeta[T any](p *pagination.Page[T]) gin.H {
	return gin.H{
		"page":       p.Page,
		"pageSize":   p.PageSize,
		"totalItems": p.TotalItems,
		"totalPages": p.TotalPages,
	}
}

// respondWithSuccess writes the success envelope.
func respondWithSuccess(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, gin.H{
		"statusCode": status,
		"data":       data,
		"message":    message,
	})
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error", append(middleware.LogFields(c),
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)...)
		}
		c.JSON(appErr.StatusCode, ErrorResponse{
			StatusCode: appErr.StatusCode,
			Code:       appErr.Code,
			Message:    appErr.Message,
		})
		return
	}

	logger.Get().Errorw("unexpected error", append(middleware.LogFields(c),
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)...)
	c.JSON(apperrors.ErrInternalServer.StatusCode, ErrorResponse{
		StatusCode: apperrors.ErrInternalServer.StatusCode,
		Code:       apperrors.ErrInternalServer.Code,
		Message:    apperrors.ErrInternalServer.Message,
	})
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

// SuccessResponse represents the success envelope. Data varies per endpoint.
type SuccessResponse struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
}
