package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"clarity-backend/internal/shared/telemetry"
)

// Context keys handlers set so the access log can correlate a request.
const (
	IntakeIDKey         = "intakeId"
	ClientIDKey         = "clientId"
	StatusTransitionKey = "statusTransition"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		telemetry.Info("request.complete", map[string]any{
			"request_id":        RequestIDFromContext(c),
			"method":            c.Request.Method,
			"path":              c.Request.URL.Path,
			"route":             c.FullPath(),
			"status":            c.Writer.Status(),
			"status_transition": c.GetString(StatusTransitionKey),
			"duration_ms":       float64(latency.Microseconds()) / 1000.0,
			"user_id":           UserIDFromContext(c),
			"intake_id":         c.GetString(IntakeIDKey),
			"client_id":         c.GetString(ClientIDKey),
			"is_admin":          IsAdmin(c),
			"client_ip":         c.ClientIP(),
			"user_agent":        c.Request.UserAgent(),
		})
	}
}
