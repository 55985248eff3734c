package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"

	"clarity-backend/internal/clients"
	"clarity-backend/internal/notify"
)

type recordingNotifier struct {
	got []notify.Submission
}

func (n *recordingNotifier) Notify(_ context.Context, s notify.Submission) error {
	n.got = append(n.got, s)
	return nil
}

func newTestService() (*Service, *recordingNotifier) {
	svc := NewService(NewMemoryRepo(), clients.NewService(clients.NewMemoryRepo()))
	svc.Now = func() time.Time { return time.Date(2025, time.April, 9, 15, 0, 0, 0, time.UTC) }
	n := &recordingNotifier{}
	svc.Notifier = n
	return svc, n
}

func checkoutPayload(eventID, email string, amount int64) []byte {
	return []byte(fmt.Sprintf(`{
  "id": %q,
  "object": "event",
  "type": "checkout.session.completed",
  "data": {"object": {
    "id": "cs_test_1",
    "object": "checkout.session",
    "amount_total": %d,
    "currency": "usd",
    "customer_email": %q,
    "customer": "cus_1",
    "payment_intent": "pi_%s",
    "payment_method_types": ["card"],
    "created": 1712674800
  }}
}`, eventID, amount, email, eventID))
}

func mustEvent(t *testing.T, payload []byte) stripe.Event {
	t.Helper()
	var event stripe.Event
	require.NoError(t, json.Unmarshal(payload, &event))
	return event
}

func TestCheckoutRecordsDepositAndBalance(t *testing.T) {
	svc, n := newTestService()
	ctx := context.Background()

	outcome, err := svc.HandleEvent(ctx, mustEvent(t, checkoutPayload("evt_1", "Buyer@Example.com", 30000)))
	require.NoError(t, err)
	assert.Equal(t, OutcomeRecorded, outcome)

	status, err := svc.Status(ctx, "buyer@example.com")
	require.NoError(t, err)
	assert.True(t, status.DepositPaid)
	assert.False(t, status.Paid)

	outcome, err = svc.HandleEvent(ctx, mustEvent(t, checkoutPayload("evt_2", "buyer@example.com", 90000)))
	require.NoError(t, err)
	assert.Equal(t, OutcomeRecorded, outcome)

	status, err = svc.Status(ctx, "BUYER@example.com")
	require.NoError(t, err)
	assert.True(t, status.Paid)

	client, err := svc.Clients.GetByEmail(ctx, "buyer@example.com")
	require.NoError(t, err)
	list, err := svc.Repo.ListByEmail(ctx, "buyer@example.com")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, client.ID, list[0].ClientID)
	assert.Equal(t, "pi_evt_1", list[0].PaymentIntentID)
	assert.Contains(t, string(list[0].Metadata), `"stripe_customer_id":"cus_1"`)

	require.Len(t, n.got, 2)
	assert.Equal(t, "Payment received: buyer@example.com", notify.Subject(n.got[0]))
	assert.Equal(t, "balance", n.got[1].Track)
}

func TestCheckoutIsIdempotent(t *testing.T) {
	svc, n := newTestService()
	ctx := context.Background()
	event := mustEvent(t, checkoutPayload("evt_1", "buyer@example.com", 30000))

	_, err := svc.HandleEvent(ctx, event)
	require.NoError(t, err)
	outcome, err := svc.HandleEvent(ctx, event)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDuplicate, outcome)

	list, err := svc.Repo.ListByEmail(ctx, "buyer@example.com")
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Len(t, n.got, 1)
}

func TestCheckoutWithoutEmail(t *testing.T) {
	svc, _ := newTestService()
	outcome, err := svc.HandleEvent(context.Background(), mustEvent(t, checkoutPayload("evt_1", "", 30000)))
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoEmail, outcome)
}

func TestRefundMarksPayment(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	_, err := svc.HandleEvent(ctx, mustEvent(t, checkoutPayload("evt_1", "buyer@example.com", 30000)))
	require.NoError(t, err)

	refund := mustEvent(t, []byte(`{"id":"evt_r","type":"charge.refunded","data":{"object":{"id":"ch_1","object":"charge","payment_intent":"pi_evt_1"}}}`))
	outcome, err := svc.HandleEvent(ctx, refund)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRefunded, outcome)

	status, err := svc.Status(ctx, "buyer@example.com")
	require.NoError(t, err)
	assert.False(t, status.DepositPaid)
}

func TestOtherEvents(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	outcome, err := svc.HandleEvent(ctx, mustEvent(t, []byte(`{"id":"evt_f","type":"payment_intent.payment_failed","data":{"object":{"id":"pi_9","object":"payment_intent"}}}`)))
	require.NoError(t, err)
	assert.Equal(t, OutcomeLogged, outcome)

	outcome, err = svc.HandleEvent(ctx, mustEvent(t, []byte(`{"id":"evt_x","type":"customer.created","data":{"object":{"id":"cus_1","object":"customer"}}}`)))
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, outcome)

	_, err = svc.Status(ctx, "not-an-email")
	assert.ErrorIs(t, err, clients.ErrInvalidEmail)
}
