package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clarity-backend/internal/shared/server/middleware"
	"clarity-backend/internal/shared/server/respond"
)

func pingEvent(requestID string) events.APIGatewayV2HTTPRequest {
	return events.APIGatewayV2HTTPRequest{
		RawPath: "/ping",
		Headers: map[string]string{},
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			RequestID: requestID,
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{
				Method: http.MethodGet,
				Path:   "/ping",
			},
		},
	}
}

func TestGatewayCarriesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	builds := 0
	g := &gateway{build: func() (*gin.Engine, error) {
		builds++
		r := gin.New()
		r.Use(middleware.RequestID())
		r.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, middleware.RequestIDFromContext(c))
		})
		return r, nil
	}}

	for _, id := range []string{"gw-1", "gw-2"} {
		resp, err := g.handle(context.Background(), pingEvent(id))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, id, resp.Body)
	}
	assert.Equal(t, 1, builds, "warm invocations reuse the router")
}

func TestGatewayBootstrapFailure(t *testing.T) {
	builds := 0
	g := &gateway{build: func() (*gin.Engine, error) {
		builds++
		return nil, errors.New("DATABASE_URL is required")
	}}

	for i := 0; i < 2; i++ {
		resp, err := g.handle(context.Background(), pingEvent("gw-9"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "gw-9", resp.Headers[middleware.RequestIDHeader])

		var body respond.ErrorResponse
		require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
		assert.Equal(t, "unavailable", body.Error.Code)
	}
	assert.Equal(t, 1, builds)
}
