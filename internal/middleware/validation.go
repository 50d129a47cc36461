package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/temcen/popcornpick/internal/validation"
	"github.com/temcen/popcornpick/pkg/models"
)

const maxBodyBytes = 1 << 20

// ValidationMiddleware validates request bodies against JSON schemas
// before they reach the handlers.
type ValidationMiddleware struct {
	validator *validation.SchemaValidator
}

func NewValidationMiddleware(validator *validation.SchemaValidator) *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validator,
	}
}

func (vm *ValidationMiddleware) ValidateProfile() gin.HandlerFunc {
	return vm.validateRequestBody(validation.SchemaProfile, true)
}

// ValidateRecommendation accepts an empty body as "all defaults".
func (vm *ValidationMiddleware) ValidateRecommendation() gin.HandlerFunc {
	return vm.validateRequestBody(validation.SchemaRecommendation, false)
}

func (vm *ValidationMiddleware) ValidateWatch() gin.HandlerFunc {
	return vm.validateRequestBody(validation.SchemaWatch, true)
}

func (vm *ValidationMiddleware) ValidateSelection() gin.HandlerFunc {
	return vm.validateRequestBody(validation.SchemaSelection, true)
}

func (vm *ValidationMiddleware) ValidateGenrePreference() gin.HandlerFunc {
	return vm.validateRequestBody(validation.SchemaGenrePreference, true)
}

func (vm *ValidationMiddleware) validateRequestBody(schemaName string, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodDelete {
			c.Next()
			return
		}

		if ct := c.GetHeader("Content-Type"); ct != "" && !strings.Contains(ct, "application/json") {
			sendValidationError(c, http.StatusUnsupportedMediaType, "INVALID_HEADER", "Content-Type must be application/json", nil)
			return
		}

		bodyBytes, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
		if err != nil {
			sendValidationError(c, http.StatusBadRequest, "BODY_READ_ERROR", "Failed to read request body", nil)
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

		if len(bytes.TrimSpace(bodyBytes)) == 0 {
			if required {
				sendValidationError(c, http.StatusBadRequest, "EMPTY_BODY", "Request body is required", nil)
				return
			}
			c.Next()
			return
		}

		result := vm.validator.Validate(schemaName, bodyBytes)
		if !result.Valid {
			code := "VALIDATION_ERROR"
			if len(result.Errors) > 0 && result.Errors[0].Code == "INVALID_JSON" {
				code = "INVALID_JSON"
			}
			sendValidationError(c, http.StatusBadRequest, code, "Request validation failed", gin.H{
				"validation_errors": result.Errors,
				"field_errors":      result.FieldErrors(),
			})
			return
		}

		c.Next()
	}
}

func sendValidationError(c *gin.Context, status int, code, message string, details interface{}) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Error: models.ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}
