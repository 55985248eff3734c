package payments

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPGRepoCreateMapsUniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("INSERT INTO payments").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "payments_stripe_event_id_key"})

	err = (&PGRepo{DB: db}).Create(context.Background(), Payment{ID: "p-1", Email: "a@example.com", StripeEventID: "evt_1", CreatedAt: time.Now()})
	assert.ErrorIs(t, err, ErrDuplicateEvent)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoMarkRefunded(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("UPDATE payments SET status = 'refunded'").
		WithArgs("pi_1").
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := (&PGRepo{DB: db}).MarkRefunded(context.Background(), "pi_1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestPGRepoListByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	cols := []string{"id", "email", "client_id", "payment_type", "amount_cents", "currency", "status",
		"stripe_event_id", "payment_intent_id", "session_id", "metadata", "created_at"}
	mock.ExpectQuery("FROM payments").
		WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("p-1", "a@example.com", nil, "deposit", int64(30000), "usd", "succeeded", "evt_1", "pi_1", nil, nil, now))

	list, err := (&PGRepo{DB: db}).ListByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, TypeDeposit, list[0].Type)
	assert.Empty(t, list[0].ClientID)
	assert.Equal(t, "pi_1", list[0].PaymentIntentID)
}
