package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"clarity-backend/internal/bootstrap"
	"clarity-backend/internal/shared/config"
	"clarity-backend/internal/shared/server/middleware"
	"clarity-backend/internal/shared/server/respond"
	"clarity-backend/internal/shared/telemetry"
)

// gateway adapts API Gateway v2 events to the router, building the app on
// the first invocation and reusing it while the sandbox stays warm.
type gateway struct {
	build func() (*gin.Engine, error)

	once  sync.Once
	proxy *ginadapter.GinLambdaV2
	err   error
}

func (g *gateway) handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	g.once.Do(func() {
		router, err := g.build()
		if err != nil {
			g.err = err
			return
		}
		g.proxy = ginadapter.NewV2(router)
	})

	requestID := req.RequestContext.RequestID
	if g.err != nil {
		telemetry.Error("api.bootstrap_failed", map[string]any{"error": g.err, "request_id": requestID})
		return unavailable(requestID), nil
	}

	if requestID != "" {
		if req.Headers == nil {
			req.Headers = map[string]string{}
		}
		if _, ok := req.Headers[headerKey]; !ok {
			req.Headers[headerKey] = requestID
		}
	}
	return g.proxy.ProxyWithContext(ctx, req)
}

// API Gateway v2 lower-cases header names.
const headerKey = "x-request-id"

func unavailable(requestID string) events.APIGatewayV2HTTPResponse {
	body, _ := json.Marshal(respond.ErrorResponse{Error: respond.ErrorBody{
		Code:    "unavailable",
		Message: "service is starting up, retry shortly",
		Details: map[string]string{"requestId": requestID},
	}})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusServiceUnavailable,
		Body:       string(body),
		Headers: map[string]string{
			"Content-Type":             "application/json",
			middleware.RequestIDHeader: requestID,
		},
	}
}

func main() {
	defer telemetry.Sync()
	g := &gateway{build: func() (*gin.Engine, error) {
		app, err := bootstrap.Build(config.Load())
		if err != nil {
			return nil, err
		}
		return app.Router, nil
	}}
	lambda.Start(g.handle)
}
