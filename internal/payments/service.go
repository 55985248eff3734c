package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"

	"clarity-backend/internal/clients"
	"clarity-backend/internal/notify"
	"clarity-backend/internal/shared/telemetry"
)

// DefaultBalanceThresholdCents separates the deposit from the balance.
const DefaultBalanceThresholdCents int64 = 85000

// Outcome is what an event did to the ledger.
type Outcome string

const (
	OutcomeRecorded  Outcome = "recorded"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeRefunded  Outcome = "refunded"
	OutcomeNoEmail   Outcome = "no_email"
	OutcomeLogged    Outcome = "logged"
	OutcomeIgnored   Outcome = "ignored"
)

type Service struct {
	Repo     Repo
	Clients  *clients.Service
	Notifier notify.Notifier
	// BalanceThresholdCents is the checkout total at or above which a
	// payment counts as the balance.
	BalanceThresholdCents int64
	Now                   func() time.Time
}

func NewService(repo Repo, clientsSvc *clients.Service) *Service {
	return &Service{
		Repo:                  repo,
		Clients:               clientsSvc,
		Notifier:              notify.LogNotifier{},
		BalanceThresholdCents: DefaultBalanceThresholdCents,
		Now:                   func() time.Time { return time.Now().UTC() },
	}
}

// HandleEvent applies a verified Stripe event. Unknown event types are
// ignored.
func (s *Service) HandleEvent(ctx context.Context, event stripe.Event) (Outcome, error) {
	if s == nil || s.Repo == nil {
		return "", errors.New("payments service not configured")
	}
	if event.Data == nil {
		return OutcomeIgnored, nil
	}
	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return "", fmt.Errorf("decode checkout session: %w", err)
		}
		return s.recordCheckout(ctx, event.ID, session)
	case stripe.EventTypeChargeRefunded:
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			return "", fmt.Errorf("decode charge: %w", err)
		}
		return s.recordRefund(ctx, charge)
	case stripe.EventTypePaymentIntentPaymentFailed:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return "", fmt.Errorf("decode payment intent: %w", err)
		}
		telemetry.Warn("payments.intent_failed", map[string]any{
			"event_id":          event.ID,
			"payment_intent_id": intent.ID,
		})
		return OutcomeLogged, nil
	default:
		return OutcomeIgnored, nil
	}
}

func (s *Service) recordCheckout(ctx context.Context, eventID string, session stripe.CheckoutSession) (Outcome, error) {
	raw := session.CustomerEmail
	if raw == "" && session.CustomerDetails != nil {
		raw = session.CustomerDetails.Email
	}
	email, err := clients.NormalizeEmail(raw)
	if err != nil {
		telemetry.Warn("payments.checkout_no_email", map[string]any{
			"event_id":   eventID,
			"session_id": session.ID,
		})
		return OutcomeNoEmail, nil
	}

	p := Payment{
		ID:            uuid.NewString(),
		Email:         email,
		Type:          TypeForAmount(session.AmountTotal, s.threshold()),
		AmountCents:   session.AmountTotal,
		Currency:      string(session.Currency),
		Status:        StatusSucceeded,
		StripeEventID: eventID,
		SessionID:     session.ID,
		CreatedAt:     s.now(),
	}
	if p.Currency == "" {
		p.Currency = "usd"
	}
	if session.PaymentIntent != nil {
		p.PaymentIntentID = session.PaymentIntent.ID
	}
	if meta, err := checkoutMetadata(session); err == nil {
		p.Metadata = meta
	}

	var client clients.Client
	if s.Clients != nil {
		client, err = s.Clients.Upsert(ctx, email, clients.Identity{})
		if err != nil {
			return "", fmt.Errorf("upsert client: %w", err)
		}
		p.ClientID = client.ID
	}

	if err := s.Repo.Create(ctx, p); err != nil {
		if errors.Is(err, ErrDuplicateEvent) {
			telemetry.Info("payments.duplicate_event", map[string]any{"event_id": eventID})
			return OutcomeDuplicate, nil
		}
		return "", fmt.Errorf("record payment: %w", err)
	}

	telemetry.Info("payments.recorded", map[string]any{
		"event_id":     eventID,
		"client_id":    p.ClientID,
		"payment_type": string(p.Type),
		"amount_cents": p.AmountCents,
	})
	notify.Send(ctx, s.Notifier, notify.Submission{
		Kind:       notify.KindPayment,
		Email:      email,
		ClientName: client.DisplayName(),
		Track:      string(p.Type),
		At:         p.CreatedAt,
	})
	return OutcomeRecorded, nil
}

func checkoutMetadata(session stripe.CheckoutSession) (json.RawMessage, error) {
	meta := map[string]any{
		"payment_method_types": session.PaymentMethodTypes,
		"created":              session.Created,
	}
	if session.Customer != nil {
		meta["stripe_customer_id"] = session.Customer.ID
	}
	if len(session.Metadata) > 0 {
		meta["session_metadata"] = session.Metadata
	}
	return json.Marshal(meta)
}

func (s *Service) recordRefund(ctx context.Context, charge stripe.Charge) (Outcome, error) {
	if charge.PaymentIntent == nil || charge.PaymentIntent.ID == "" {
		return OutcomeIgnored, nil
	}
	n, err := s.Repo.MarkRefunded(ctx, charge.PaymentIntent.ID)
	if err != nil {
		return "", fmt.Errorf("mark refunded: %w", err)
	}
	telemetry.Info("payments.refunded", map[string]any{
		"payment_intent_id": charge.PaymentIntent.ID,
		"updated":           n,
	})
	return OutcomeRefunded, nil
}

// Status summarizes the payments recorded for email.
func (s *Service) Status(ctx context.Context, email string) (Summary, error) {
	if s == nil || s.Repo == nil {
		return Summary{}, errors.New("payments service not configured")
	}
	normalized, err := clients.NormalizeEmail(email)
	if err != nil {
		return Summary{}, err
	}
	list, err := s.Repo.ListByEmail(ctx, normalized)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(list), nil
}

func (s *Service) threshold() int64 {
	if s.BalanceThresholdCents > 0 {
		return s.BalanceThresholdCents
	}
	return DefaultBalanceThresholdCents
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
