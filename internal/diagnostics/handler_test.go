package diagnostics

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clarity-backend/internal/shared/server/middleware"
)

func newTestRouter(t *testing.T, admins ...string) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, _ := newTestService(t)
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Auth(), middleware.MarkAdmin(middleware.NewAdminSet(admins)))
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router, svc
}

func doJSON(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestSubmitIntakeInitialReturnsPreview(t *testing.T) {
	router, _ := newTestRouter(t)

	resp := doJSON(router, http.MethodPost, "/api/v1/intakes", gin.H{
		"email": "owner@example.com",
		"mode":  "initial",
		"answers": gin.H{
			"businessName":   "Northwind Studio",
			"business_model": "Creative service",
			"roles_handled":  []string{"Sales", "Delivery"},
		},
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var body struct {
		IntakeID string `json:"intakeId"`
		Preview  struct {
			BusinessName string `json:"businessName"`
		} `json:"preview"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.NotEmpty(t, body.IntakeID)
	assert.Equal(t, "Northwind Studio", body.Preview.BusinessName)

	resp = doJSON(router, http.MethodGet, "/api/v1/intakes/latest?email=OWNER@example.com", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var latest struct {
		IntakeID string         `json:"intakeId"`
		Answers  map[string]any `json:"answers"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &latest))
	assert.Equal(t, body.IntakeID, latest.IntakeID)
	assert.Equal(t, []any{"Sales", "Delivery"}, latest.Answers["roles_handled"])
}

func TestSubmitIntakeDeepAccepted(t *testing.T) {
	router, svc := newTestRouter(t)
	q := &fakeQueue{}
	svc.Queue = q

	resp := doJSON(router, http.MethodPost, "/api/v1/intakes", gin.H{
		"email":   "owner@example.com",
		"mode":    "deep",
		"answers": gin.H{"rework_percentage": "10-25%"},
	})
	require.Equal(t, http.StatusAccepted, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), `"reportStatus":"queued"`)
	assert.Len(t, q.sent, 1)
}

func TestSubmitIntakeValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	cases := []struct {
		name string
		body any
		code int
	}{
		{name: "bad email", body: gin.H{"email": "nope", "answers": gin.H{"a": "b"}}, code: http.StatusBadRequest},
		{name: "bad mode", body: gin.H{"email": "a@example.com", "mode": "other", "answers": gin.H{"a": "b"}}, code: http.StatusBadRequest},
		{name: "no answers", body: gin.H{"email": "a@example.com"}, code: http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(router, http.MethodPost, "/api/v1/intakes", tc.body)
			assert.Equal(t, tc.code, resp.Code)
			assert.Contains(t, resp.Body.String(), "validation_error")
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/intakes", bytes.NewBufferString("{"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestPreviewEndpointDoesNotPersist(t *testing.T) {
	router, svc := newTestRouter(t)

	resp := doJSON(router, http.MethodPost, "/api/v1/preview", gin.H{
		"answers": gin.H{"email": "owner@example.com", "business_model": "Creative service"},
	})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"constraintType"`)

	_, err := svc.Clients.GetByEmail(context.Background(), "owner@example.com")
	assert.Error(t, err)

	resp = doJSON(router, http.MethodPost, "/api/v1/preview", gin.H{"answers": gin.H{}})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestLatestReportEndpoint(t *testing.T) {
	router, svc := newTestRouter(t)

	resp := doJSON(router, http.MethodGet, "/api/v1/reports/latest", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	resp = doJSON(router, http.MethodGet, "/api/v1/reports/latest?email=owner@example.com", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = doJSON(router, http.MethodPost, "/api/v1/intakes", gin.H{
		"email":   "owner@example.com",
		"mode":    "deep",
		"answers": gin.H{"rework_percentage": "10-25%"},
	})
	require.Equal(t, http.StatusAccepted, resp.Code)

	svc.Curation = fakeCuration{released: false}
	resp = doJSON(router, http.MethodGet, "/api/v1/reports/latest?email=owner@example.com", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "not_released")

	svc.Curation = fakeCuration{released: true}
	resp = doJSON(router, http.MethodGet, "/api/v1/reports/latest?email=owner@example.com", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"kind":"full"`)
	assert.Contains(t, resp.Body.String(), `"released":true`)
}
