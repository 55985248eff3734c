package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"clarity-backend/internal/account"
	"clarity-backend/internal/admin"
	"clarity-backend/internal/diagnostics"
	"clarity-backend/internal/packs"
	"clarity-backend/internal/payments"
	"clarity-backend/internal/services/health"
	"clarity-backend/internal/shared/config"
	"clarity-backend/internal/shared/metrics"
	"clarity-backend/internal/shared/server/middleware"
	"clarity-backend/internal/shared/server/respond"
)

const (
	rateGroupSubmit = "SUBMIT"
	submitBurst     = 5
	defaultBurst    = 20
)

// RouterDeps carries the handlers the router mounts. Nil handlers are
// skipped.
type RouterDeps struct {
	Config            config.Config
	Health            *health.Service
	DiagnosticHandler *diagnostics.Handler
	PackHandler       *packs.Handler
	PaymentHandler    *payments.Handler
	AdminHandler      *admin.Handler
	AccountHandler    *account.Handler
	Limiter           *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	admins := middleware.NewAdminSet(deps.Config.AdminEmails)
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		metrics.Middleware(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(),
		middleware.MarkAdmin(admins),
	)

	r.GET("/metrics", metrics.Handler())
	if deps.PaymentHandler != nil {
		deps.PaymentHandler.RegisterWebhook(r)
	}

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		status := deps.Health.Check(c.Request.Context())
		code := http.StatusOK
		if !status.OK {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})

	client := api.Group("")
	client.Use(middleware.RateLimit(rateLimitConfig(deps)))
	registerMeRoutes(client)
	if deps.DiagnosticHandler != nil {
		deps.DiagnosticHandler.RegisterRoutes(client)
	}
	if deps.PackHandler != nil {
		deps.PackHandler.RegisterRoutes(client)
	}
	if deps.PaymentHandler != nil {
		deps.PaymentHandler.RegisterRoutes(client)
	}
	if deps.AccountHandler != nil {
		deps.AccountHandler.RegisterRoutes(client)
	}

	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.RequireAdmin(admins))
	if deps.AdminHandler != nil {
		deps.AdminHandler.RegisterRoutes(adminGroup)
	}
	if deps.PackHandler != nil {
		deps.PackHandler.RegisterAdminRoutes(adminGroup)
	}

	return r
}

func rateLimitConfig(deps RouterDeps) middleware.RateLimitConfig {
	rpm := deps.Config.RateLimitRPM
	submitRPM := 0
	if rpm > 0 {
		submitRPM = max(rpm/4, 1)
	}
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT":       middleware.PerMinute(rpm, defaultBurst),
			rateGroupSubmit: middleware.PerMinute(submitRPM, submitBurst),
		},
		GroupFor: rateGroupFor,
		Limiter:  deps.Limiter,
	}
}

// rateGroupFor puts the endpoints that run the engines on a tighter budget.
func rateGroupFor(c *gin.Context) string {
	if c.Request.Method != http.MethodPost {
		return ""
	}
	path := c.FullPath()
	if strings.HasSuffix(path, "/intakes") || strings.HasSuffix(path, "/preview") {
		return rateGroupSubmit
	}
	return ""
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
