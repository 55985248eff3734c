package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"clarity-backend/internal/shared/telemetry"
)

const (
	requestIDKey    = "requestId"
	RequestIDHeader = "X-Request-Id"

	maxRequestIDLen = 64
)

// RequestID tags each request with an id, reusing a well-formed inbound
// X-Request-Id. The id is echoed in the response header and carried on the
// request context so report jobs queued by the request keep it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if !validRequestID(id) {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Request = c.Request.WithContext(telemetry.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// RequestIDFromContext fetches the request ID stored by RequestID middleware.
func RequestIDFromContext(c *gin.Context) string {
	return stringFromContext(c, requestIDKey)
}

// validRequestID accepts short ids made of letters, digits, '-', '_' and '.'
// so an inbound header can never inject into log lines or SQS attributes.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}
