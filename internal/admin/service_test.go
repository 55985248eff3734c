package admin

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"

	"clarity-backend/internal/clients"
	"clarity-backend/internal/diagnostic/deepdive"
	"clarity-backend/internal/diagnostic/intake"
	"clarity-backend/internal/diagnostics"
	"clarity-backend/internal/intakes"
	"clarity-backend/internal/notify"
	"clarity-backend/internal/packs"
	"clarity-backend/internal/payments"
)

type silentNotifier struct{}

func (silentNotifier) Notify(context.Context, notify.Submission) error { return nil }

type fixture struct {
	svc   *Service
	diag  *diagnostics.Service
	pay   *payments.Service
	packs *packs.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	clientsSvc := clients.NewService(clients.NewMemoryRepo())
	intakesSvc := intakes.NewService(intakes.NewMemoryRepo())
	diag := diagnostics.NewService(clientsSvc, intakesSvc, diagnostics.NewMemoryRepo())
	diag.Notifier = silentNotifier{}
	pay := payments.NewService(payments.NewMemoryRepo(), clientsSvc)
	pay.Notifier = silentNotifier{}
	packsSvc := packs.NewService(packs.NewMemoryRepo(), intakesSvc)

	svc := &Service{
		Notes:       NewMemoryNotesRepo(),
		Overrides:   NewMemoryOverridesRepo(),
		Clients:     clientsSvc,
		Intakes:     intakesSvc,
		Payments:    pay,
		Packs:       packsSvc,
		Diagnostics: diag,
		Now:         func() time.Time { return time.Date(2025, time.July, 1, 8, 0, 0, 0, time.UTC) },
	}
	diag.Curation = svc
	return fixture{svc: svc, diag: diag, pay: pay, packs: packsSvc}
}

func (f fixture) submit(t *testing.T, email string, mode intake.Mode) diagnostics.Submission {
	t.Helper()
	sub, err := f.diag.Submit(context.Background(), diagnostics.SubmitInput{
		Email: email,
		Mode:  mode,
		Answers: intake.FromStrings(map[string]string{
			"businessName":       "Harbor Consulting",
			"business_model":     "Consulting / advisory",
			"revenue_generation": "Mostly me",
		}),
	})
	require.NoError(t, err)
	return sub
}

func (f fixture) checkout(t *testing.T, eventID, email string, amount int64) {
	t.Helper()
	_, err := f.pay.HandleEvent(context.Background(), stripe.Event{
		ID:   eventID,
		Type: stripe.EventTypeCheckoutSessionCompleted,
		Data: &stripe.EventData{Raw: []byte(`{"id":"cs_1","amount_total":` + strconv.FormatInt(amount, 10) + `,"customer_email":"` + email + `"}`)},
	})
	require.NoError(t, err)
}

func TestFormatNote(t *testing.T) {
	assert.Equal(t, "[delivered] Sent PDF", FormatNote("delivered", " Sent PDF "))
	assert.Equal(t, "plain", FormatNote("", "plain"))
	assert.True(t, Note{Body: "x [report-released] y"}.HasTag(TagReportReleased))
	assert.False(t, Note{Body: "report-released"}.HasTag(TagReportReleased))
}

func TestNotesAndRelease(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.submit(t, "owner@example.com", intake.ModeInitial)

	_, err := f.svc.AddNote(ctx, sub.Client.ID, "ops@example.com", "", "  ")
	assert.ErrorIs(t, err, ErrEmptyNote)
	_, err = f.svc.AddNote(ctx, "missing", "ops@example.com", "", "hello")
	assert.ErrorIs(t, err, clients.ErrNotFound)

	released, err := f.svc.ReportReleased(ctx, sub.Client.ID)
	require.NoError(t, err)
	assert.False(t, released)

	n, err := f.svc.ReleaseReport(ctx, sub.Client.ID, "ops@example.com")
	require.NoError(t, err)
	assert.Equal(t, "[report-released] Report released for client viewing on Jul 1, 2025", n.Body)

	released, err = f.svc.ReportReleased(ctx, sub.Client.ID)
	require.NoError(t, err)
	assert.True(t, released)

	require.NoError(t, f.svc.DeleteNote(ctx, n.ID))
	released, err = f.svc.ReportReleased(ctx, sub.Client.ID)
	require.NoError(t, err)
	assert.False(t, released)
	assert.ErrorIs(t, f.svc.DeleteNote(ctx, n.ID), ErrNoteNotFound)
}

func TestOverrides(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SaveOverride(ctx, "c-1", "intro", "x", "ops")
	assert.ErrorIs(t, err, ErrUnknownSection)

	_, err = f.svc.SaveOverride(ctx, "c-1", "executive_summary", "First.", "ops")
	require.NoError(t, err)
	_, err = f.svc.SaveOverride(ctx, "c-1", "executive_summary", "Second.", "ops")
	require.NoError(t, err)
	_, err = f.svc.SaveOverride(ctx, "c-1", "phase_2", "Later.", "ops")
	require.NoError(t, err)

	got, err := f.svc.Overrides(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"executive_summary": "Second.", "phase_2": "Later."}, got)

	require.NoError(t, f.svc.DeleteOverride(ctx, "c-1", "phase_2"))
	assert.ErrorIs(t, f.svc.DeleteOverride(ctx, "c-1", "phase_2"), ErrOverrideNotFound)
	assert.ErrorIs(t, f.svc.DeleteOverride(ctx, "c-1", "nope"), ErrUnknownSection)
}

func TestStageProgression(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	client, err := f.svc.Clients.Upsert(ctx, "owner@example.com", clients.Identity{})
	require.NoError(t, err)
	stage := func() clients.Stage {
		t.Helper()
		s, err := f.svc.Stage(ctx, client)
		require.NoError(t, err)
		return s
	}

	assert.Equal(t, clients.StageNew, stage())
	f.submit(t, "owner@example.com", intake.ModeInitial)
	assert.Equal(t, clients.StagePreviewDone, stage())
	f.checkout(t, "evt_1", "owner@example.com", 30000)
	assert.Equal(t, clients.StageDepositPaid, stage())
	f.submit(t, "owner@example.com", intake.ModeDeep)
	assert.Equal(t, clients.StageClarityDone, stage())
	f.checkout(t, "evt_2", "owner@example.com", 90000)
	assert.Equal(t, clients.StageBalancePaid, stage())
	_, err = f.svc.MarkDelivered(ctx, client.ID, "ops")
	require.NoError(t, err)
	assert.Equal(t, clients.StageDelivered, stage())
}

func TestOverview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.submit(t, "a@example.com", intake.ModeInitial)
	f.submit(t, "b@example.com", intake.ModeInitial)
	f.checkout(t, "evt_1", "a@example.com", 30000)
	_, err := f.packs.Generate(ctx, first.Client.ID, deepdive.Prefs{})
	require.NoError(t, err)

	rows, err := f.svc.Overview(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byEmail := map[string]ClientOverview{}
	for _, r := range rows {
		byEmail[r.Client.Email] = r
	}
	a := byEmail["a@example.com"]
	assert.Equal(t, clients.StageDepositPaid, a.Stage)
	assert.Equal(t, "Deposit Paid", a.StageLabel)
	assert.True(t, a.Payment.DepositPaid)
	assert.Equal(t, packs.ClientDraft, a.PackStatus)
	assert.NotEmpty(t, a.Pattern)
	assert.NotNil(t, a.PreviewAt)
	assert.Equal(t, "Harbor Consulting", a.DisplayName)

	b := byEmail["b@example.com"]
	assert.Equal(t, clients.StagePreviewDone, b.Stage)
	assert.Equal(t, packs.ClientNone, b.PackStatus)
}
