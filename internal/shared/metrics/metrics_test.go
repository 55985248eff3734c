package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(reportJobs.WithLabelValues(JobCompleted))
	IncReportJob(JobCompleted)
	assert.Equal(t, before+1, testutil.ToFloat64(reportJobs.WithLabelValues(JobCompleted)))

	hits := testutil.ToFloat64(previewRuns.WithLabelValues("B", "hit"))
	ObservePreview("B", true)
	assert.Equal(t, hits+1, testutil.ToFloat64(previewRuns.WithLabelValues("B", "hit")))
}

func TestHandlerServesRegistry(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/metrics", Handler())

	IncWorkerMessage(MessageReceived)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "clarity_worker_messages_total")
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", statusClass(http.StatusAccepted))
	assert.Equal(t, "4xx", statusClass(http.StatusNotFound))
	assert.Equal(t, "5xx", statusClass(http.StatusBadGateway))
}

func TestRegisterDBExportsPoolStats(t *testing.T) {
	assert.False(t, RegisterDB(nil))

	conn, _, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()
	require.True(t, RegisterDB(conn))

	other, _, err := sqlmock.New()
	require.NoError(t, err)
	defer other.Close()
	assert.False(t, RegisterDB(other), "one pool per process")

	n, err := testutil.GatherAndCount(Registry(), "go_sql_max_open_connections")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
