package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clarity-backend/internal/shared/telemetry"
)

// Error codes shared by every handler.
const (
	CodeValidation = "validation_error"
	CodeNotFound   = "not_found"
	CodeInternal   = "internal_error"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// FieldError points a validation failure at one request field, e.g. an
// intake answer key or the submitting email.
type FieldError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// Error aborts with the standard envelope and logs the failure with the
// request's intake and client when a handler has resolved them.
func Error(c *gin.Context, status int, code, message string, details any) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"route":      c.FullPath(),
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	for key, field := range map[string]string{"userId": "user_id", "intakeId": "intake_id", "clientId": "client_id"} {
		if v := c.GetString(key); v != "" {
			fields[field] = v
		}
	}
	if status >= http.StatusInternalServerError {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Warn("http.error", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{Error: ErrorBody{Code: code, Message: message, Details: details}})
}

// Validation answers 400. Field errors, when given, become the details.
func Validation(c *gin.Context, message string, fields ...FieldError) {
	var details any
	if len(fields) > 0 {
		details = fields
	}
	Error(c, http.StatusBadRequest, CodeValidation, message, details)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, CodeNotFound, message, nil)
}

// Internal answers 500 with a message safe to show the client.
func Internal(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, CodeInternal, message, nil)
}

// Unauthorized answers 401 for a missing or rejected bearer token.
func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
}
