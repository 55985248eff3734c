package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitPreviewHigherThanDefault(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	groupFor := func(c *gin.Context) string {
		if c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/preview" {
			return "PREVIEW"
		}
		return "DEFAULT"
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", "client:test")
		c.Next()
	})
	r.Use(RateLimit(RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor:     groupFor,
		Limiter:      limiter,
		Rules: map[string]RateLimitRule{
			"DEFAULT": {Rate: 1, Burst: 2},
			"PREVIEW": {Rate: 5, Burst: 10},
		},
	}))

	r.POST("/api/v1/preview", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.POST("/api/v1/intakes", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 3; i++ {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/preview", nil))
		require.Equal(t, http.StatusOK, resp.Code, "preview request %d", i+1)
	}

	for i := 0; i < 2; i++ {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/intakes", nil))
		require.Equal(t, http.StatusOK, resp.Code, "default request %d", i+1)
	}

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/intakes", nil))
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
}

func TestRateLimit429IncludesRetryAfter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	r := gin.New()
	r.Use(RateLimit(RateLimitConfig{
		Limiter: limiter,
		Rules: map[string]RateLimitRule{
			"DEFAULT": {Rate: 0.5, Burst: 1},
		},
	}))
	r.GET("/api/v1/limited", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	resp1 := httptest.NewRecorder()
	r.ServeHTTP(resp1, httptest.NewRequest(http.MethodGet, "/api/v1/limited", nil))
	require.Equal(t, http.StatusOK, resp1.Code)

	resp2 := httptest.NewRecorder()
	r.ServeHTTP(resp2, httptest.NewRequest(http.MethodGet, "/api/v1/limited", nil))
	require.Equal(t, http.StatusTooManyRequests, resp2.Code)
	assert.Equal(t, "2", resp2.Header().Get("Retry-After"))

	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&payload))
	assert.Equal(t, "rate_limited", payload["error"])
	assert.EqualValues(t, 2000, payload["retryAfterMs"])
}

func TestRateLimiterRefillsAndForgetsIdleKeys(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := PerMinute(60, 1)

	ok, _ := limiter.Allow("a", rule)
	require.True(t, ok)
	ok, wait := limiter.Allow("a", rule)
	require.False(t, ok)
	assert.Equal(t, time.Second, wait)

	now = now.Add(time.Second)
	ok, _ = limiter.Allow("a", rule)
	assert.True(t, ok)

	now = now.Add(time.Hour)
	ok, _ = limiter.Allow("b", rule)
	assert.True(t, ok)
	assert.Equal(t, 1, limiter.size())
}

func TestPerMinuteDisabledWhenZero(t *testing.T) {
	limiter := NewRateLimiter(nil)
	for i := 0; i < 5; i++ {
		ok, _ := limiter.Allow("k", PerMinute(0, 0))
		assert.True(t, ok)
	}
}
