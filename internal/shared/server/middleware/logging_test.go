package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"clarity-backend/internal/shared/telemetry"
)

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)
	defer telemetry.SetLogger(zap.New(core))()

	router := gin.New()
	router.Use(RequestID(), Auth(), Logging())
	router.POST("/api/v1/intakes", func(c *gin.Context) {
		c.Set(IntakeIDKey, "intake-1")
		c.Set(ClientIDKey, "client-1")
		c.Set(StatusTransitionKey, "submitted->queued")
		c.JSON(http.StatusAccepted, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/intakes", nil)
	req.Header.Set("X-Request-Id", "req-42")
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "client@example.com"))
	router.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("request.complete").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()

	for _, key := range []string{"request_id", "user_id", "intake_id", "client_id", "duration_ms", "status", "status_transition"} {
		assert.Contains(t, fields, key)
	}
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Equal(t, "user-1", fields["user_id"])
	assert.Equal(t, "intake-1", fields["intake_id"])
	assert.Equal(t, "/api/v1/intakes", fields["route"])
	assert.Equal(t, "submitted->queued", fields["status_transition"])
	assert.EqualValues(t, http.StatusAccepted, fields["status"])
}
