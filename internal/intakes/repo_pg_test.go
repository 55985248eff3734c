package intakes

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clarity-backend/internal/diagnostic/intake"
)

var intakeCols = []string{"id", "client_id", "email", "mode", "track", "answers", "fingerprint", "report_status", "report_error", "created_at", "updated_at"}

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	in := Intake{
		ID:          "i-1",
		ClientID:    "c-1",
		Mode:        intake.ModeDeep,
		Track:       intake.TrackB,
		Answers:     intake.FromStrings(map[string]string{"a": "b"}),
		Fingerprint: "fp",
		CreatedAt:   now,
	}
	mock.ExpectExec("INSERT INTO intakes").
		WithArgs("i-1", "c-1", "deep", "B", []byte(`{"a":"b"}`), "fp", "none", now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, (&PGRepo{DB: db}).Create(context.Background(), in))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoLatestDecodesAnswers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	mock.ExpectQuery("FROM intakes i").
		WithArgs("c-1", "initial").
		WillReturnRows(sqlmock.NewRows(intakeCols).
			AddRow("i-1", "c-1", "a@example.com", "initial", "C", []byte(`{"roles_handled":["Sales","Delivery"]}`), "fp", "none", nil, now, now))

	got, err := (&PGRepo{DB: db}).Latest(context.Background(), "c-1", intake.ModeInitial)
	require.NoError(t, err)
	assert.Equal(t, intake.TrackC, got.Track)
	assert.Equal(t, []string{"Sales", "Delivery"}, got.Answers.Items("roles_handled"))
	assert.Equal(t, "a@example.com", got.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoUpdateReportStatusNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("UPDATE intakes").
		WithArgs("missing", "queued", nil).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = (&PGRepo{DB: db}).UpdateReportStatus(context.Background(), "missing", ReportQueued, "")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
