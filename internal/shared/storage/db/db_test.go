package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withMockOpen swaps openDB for one that hands out pinged sqlmock
// connections. fail lists the call numbers (1-based) that should error.
func withMockOpen(t *testing.T, fail ...int32) *int32 {
	t.Helper()
	var calls int32
	prev := openDB
	openDB = func(_, _ string) (*sql.DB, error) {
		n := atomic.AddInt32(&calls, 1)
		for _, f := range fail {
			if f == n {
				return nil, driver.ErrBadConn
			}
		}
		conn, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		if err != nil {
			return nil, err
		}
		mock.ExpectPing()
		return conn, nil
	}
	t.Cleanup(func() { openDB = prev })
	return &calls
}

func resetShared(t *testing.T) {
	t.Helper()
	shared.Lock()
	shared.db = nil
	shared.Unlock()
	t.Cleanup(func() {
		shared.Lock()
		shared.db = nil
		shared.Unlock()
	})
}

func TestConnectRequiresURL(t *testing.T) {
	_, err := Connect(context.Background(), "  ", OptionsFor(ProfileServer))
	assert.Error(t, err)
}

func TestConnectAppliesEnvOverrides(t *testing.T) {
	withMockOpen(t)
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("DB_MAX_IDLE_CONNS", "3")
	t.Setenv("DB_CONN_MAX_LIFETIME", "20m")
	t.Setenv("DB_CONN_MAX_IDLE_TIME", "45s")
	t.Setenv("DB_PING_TIMEOUT", "not-a-duration")

	opts := OptionsFor(ProfileServer)
	assert.Equal(t, Options{
		MaxOpenConns:    7,
		MaxIdleConns:    3,
		ConnMaxLifetime: 20 * time.Minute,
		ConnMaxIdleTime: 45 * time.Second,
		PingTimeout:     profiles[ProfileServer].PingTimeout,
	}, opts)

	conn, err := Connect(context.Background(), "postgres://clarity", opts)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, 7, conn.Stats().MaxOpenConnections)
}

func TestOptionsForProfiles(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "-1")
	assert.Equal(t, 2, OptionsFor(ProfileLambda).MaxOpenConns, "negative override ignored")
	assert.Equal(t, 1, OptionsFor(ProfileMigrate).MaxOpenConns)
	assert.Equal(t, profiles[ProfileServer], OptionsFor("unknown"))

	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "")
	assert.Equal(t, ProfileServer, RuntimeProfile(ProfileServer))
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "clarity-report-worker")
	assert.Equal(t, ProfileLambda, RuntimeProfile(ProfileServer))
}

func TestSharedReusesOneConnection(t *testing.T) {
	resetShared(t)
	calls := withMockOpen(t)

	first, err := Shared(context.Background(), "postgres://clarity", OptionsFor(ProfileLambda))
	require.NoError(t, err)
	second, err := Shared(context.Background(), "postgres://clarity", OptionsFor(ProfileLambda))
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestSharedRetriesAfterFailure(t *testing.T) {
	resetShared(t)
	calls := withMockOpen(t, 1)

	_, err := Shared(context.Background(), "postgres://clarity", OptionsFor(ProfileLambda))
	require.Error(t, err)

	conn, err := Shared(context.Background(), "postgres://clarity", OptionsFor(ProfileLambda))
	require.NoError(t, err)
	assert.NotNil(t, conn)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestMigrationsCreateEveryTable(t *testing.T) {
	names, err := MigrationNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "00001_init.sql", names[0])

	var all strings.Builder
	for _, name := range names {
		raw, err := migrationFiles.ReadFile(migrationsDir + "/" + name)
		require.NoError(t, err)
		body := string(raw)
		assert.Contains(t, body, "-- +goose Up", name)
		assert.Contains(t, body, "-- +goose Down", name)
		all.WriteString(body)
	}
	for _, table := range Tables {
		assert.Contains(t, all.String(), "CREATE TABLE IF NOT EXISTS "+table+" (", table)
	}
}

func TestVerifySchema(t *testing.T) {
	query := `SELECT table_name FROM information_schema.tables`

	t.Run("complete", func(t *testing.T) {
		conn, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer conn.Close()

		rows := sqlmock.NewRows([]string{"table_name"}).AddRow("goose_db_version")
		for _, table := range Tables {
			rows.AddRow(table)
		}
		mock.ExpectQuery(query).WillReturnRows(rows)

		assert.NoError(t, VerifySchema(context.Background(), conn))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing tables", func(t *testing.T) {
		conn, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer conn.Close()

		mock.ExpectQuery(query).WillReturnRows(sqlmock.NewRows([]string{"table_name"}).
			AddRow("clients").AddRow("intakes"))

		err = VerifySchema(context.Background(), conn)
		assert.ErrorIs(t, err, ErrSchemaIncomplete)
		assert.Contains(t, err.Error(), "diagnostic_results")
		assert.Contains(t, err.Error(), "report_overrides")
		assert.NotContains(t, err.Error(), "intakes")
	})
}

func TestRunMigrationsNilDatabase(t *testing.T) {
	assert.NoError(t, RunMigrations(context.Background(), nil))
}
