package payments

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"clarity-backend/internal/clients"
	"clarity-backend/internal/shared/metrics"
	"clarity-backend/internal/shared/server/respond"
	"clarity-backend/internal/shared/telemetry"
)

const maxWebhookBody = 64 << 10

// Handler serves the Stripe webhook and the client payment status.
type Handler struct {
	Svc *Service
	// WebhookSecret enables Stripe-Signature verification when set.
	WebhookSecret string
}

func NewHandler(svc *Service, webhookSecret string) *Handler {
	return &Handler{Svc: svc, WebhookSecret: webhookSecret}
}

// RegisterRoutes attaches the payment status route.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/payments/status", h.status)
}

// RegisterWebhook attaches the Stripe webhook. It takes no auth middleware.
func (h *Handler) RegisterWebhook(r gin.IRoutes) {
	r.POST("/webhooks/stripe", h.stripeWebhook)
}

func (h *Handler) stripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody+1))
	if err != nil || len(payload) > maxWebhookBody {
		metrics.IncWebhookEvent("unknown", "invalid_body")
		respond.Validation(c, "invalid webhook body")
		return
	}

	event, err := h.parseEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		metrics.IncWebhookEvent("unknown", "invalid_signature")
		telemetry.Warn("payments.webhook_rejected", map[string]any{"error": err})
		respond.Error(c, http.StatusBadRequest, "invalid_signature", "webhook signature verification failed", nil)
		return
	}

	outcome, err := h.Svc.HandleEvent(c.Request.Context(), event)
	if err != nil {
		metrics.IncWebhookEvent(string(event.Type), "error")
		telemetry.Error("payments.webhook_failed", map[string]any{
			"event_id":   event.ID,
			"event_type": string(event.Type),
			"error":      err,
		})
		respond.Internal(c, "failed to process event")
		return
	}
	metrics.IncWebhookEvent(string(event.Type), string(outcome))

	resp := gin.H{"received": true}
	if outcome == OutcomeDuplicate {
		resp["duplicate"] = true
	}
	respond.OK(c, resp)
}

func (h *Handler) parseEvent(payload []byte, signature string) (stripe.Event, error) {
	if h.WebhookSecret == "" {
		var event stripe.Event
		if err := json.Unmarshal(payload, &event); err != nil {
			return stripe.Event{}, err
		}
		return event, nil
	}
	if strings.TrimSpace(signature) == "" {
		return stripe.Event{}, errors.New("missing Stripe-Signature header")
	}
	return webhook.ConstructEventWithOptions(payload, signature, h.WebhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
}

func (h *Handler) status(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		respond.Validation(c, "email is required")
		return
	}
	summary, err := h.Svc.Status(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, clients.ErrInvalidEmail) {
			respond.Validation(c, "a valid email is required")
			return
		}
		respond.Internal(c, "failed to fetch payment status")
		return
	}
	respond.OK(c, summary)
}
