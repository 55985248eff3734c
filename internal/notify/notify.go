// Package notify tells the operator about new submissions and payments.
// Delivery is pluggable; the default notifier writes to the log.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clarity-backend/internal/shared/telemetry"
)

// Kind is what happened.
type Kind string

const (
	KindInitial Kind = "initial"
	KindDeep    Kind = "deep"
	KindPayment Kind = "payment"
)

type Submission struct {
	Kind       Kind
	Email      string
	ClientName string
	// Track is the intake track for intakes and the payment type for payments.
	Track string
	At    time.Time
}

func (s Submission) displayName() string {
	if name := strings.TrimSpace(s.ClientName); name != "" {
		return name
	}
	return s.Email
}

// Subject is the notification subject line.
func Subject(s Submission) string {
	name := s.displayName()
	if s.Kind == KindPayment {
		return "Payment received: " + name
	}
	subject := fmt.Sprintf("New %s intake: %s", s.Kind, name)
	if s.Track != "" {
		subject += fmt.Sprintf(" [Track %s]", s.Track)
	}
	return subject
}

// Body is the plain-text notification body.
func Body(s Submission) string {
	name := s.displayName()
	at := s.At
	if at.IsZero() {
		at = time.Now()
	}
	stamp := at.UTC().Format("Jan 2, 2006 15:04 MST")

	var lines []string
	if s.Kind == KindPayment {
		typ := s.Track
		if typ == "" {
			typ = "full"
		}
		lines = []string{
			"Payment received from " + name,
			"Email: " + s.Email,
			"Type: " + typ,
			"Time: " + stamp,
		}
	} else {
		lines = []string{
			fmt.Sprintf("%s completed a %s intake submission.", name, s.Kind),
			"",
			"Email: " + s.Email,
		}
		if s.Track != "" {
			lines = append(lines, "Track: "+s.Track)
		}
		lines = append(lines, "Time: "+stamp)
	}
	return strings.Join(lines, "\n")
}

// Notifier delivers a submission notice. Implementations must not block the
// caller for long; failures are reported, never fatal to the submission.
type Notifier interface {
	Notify(ctx context.Context, s Submission) error
}

// LogNotifier writes notices to the structured log.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, s Submission) error {
	telemetry.Info("notify.submission", map[string]any{
		"kind":    string(s.Kind),
		"email":   s.Email,
		"subject": Subject(s),
		"body":    Body(s),
	})
	return nil
}

// Send delivers through n and logs a failure instead of returning it.
func Send(ctx context.Context, n Notifier, s Submission) {
	if n == nil {
		return
	}
	if err := n.Notify(ctx, s); err != nil {
		telemetry.Warn("notify.failed", map[string]any{
			"kind":  string(s.Kind),
			"email": s.Email,
			"error": err,
		})
	}
}
