package payments

import (
	"context"
	"errors"
)

var (
	ErrNotFound       = errors.New("payment not found")
	ErrDuplicateEvent = errors.New("stripe event already recorded")
)

type Repo interface {
	// Create stores a payment. A second payment with the same Stripe event
	// id fails with ErrDuplicateEvent.
	Create(ctx context.Context, p Payment) error
	// MarkRefunded flags every payment for the intent and returns how many
	// changed.
	MarkRefunded(ctx context.Context, paymentIntentID string) (int64, error)
	ListByEmail(ctx context.Context, email string) ([]Payment, error)
}
