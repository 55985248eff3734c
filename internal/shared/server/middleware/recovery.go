package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"clarity-backend/internal/shared/server/respond"
	"clarity-backend/internal/shared/telemetry"
)

// Recovery turns a handler panic into a 500 carrying the request id, and
// logs it with whatever intake and client the handler had resolved.
// http.ErrAbortHandler is re-raised so net/http can drop the connection.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}
			reqID := RequestIDFromContext(c)
			telemetry.Error("http.panic", map[string]any{
				"request_id": reqID,
				"intake_id":  c.GetString(IntakeIDKey),
				"client_id":  c.GetString(ClientIDKey),
				"user_id":    UserIDFromContext(c),
				"error":      rec,
				"stack":      string(debug.Stack()),
				"route":      c.FullPath(),
				"method":     c.Request.Method,
			})
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "unexpected server error", gin.H{"requestId": reqID})
		}()
		c.Next()
	}
}
