package bootstrap

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clarity-backend/internal/shared/auth"
	"clarity-backend/internal/shared/config"
)

func buildTestApp(t *testing.T) *App {
	t.Helper()
	app, err := Build(config.Config{
		Env:              "dev",
		ObjectStoreType:  "local",
		LocalStoreDir:    t.TempDir(),
		AdminEmails:      []string{"ops@example.com"},
		PreviewCacheSize: 16,
	})
	require.NoError(t, err)
	return app
}

func call(t *testing.T, app *App, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	return resp
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := auth.Sign(auth.Claims{Sub: "admin-1", Email: "ops@example.com"})
	require.NoError(t, err)
	return token
}

func TestBuildUsesMemoryRepositoriesInDev(t *testing.T) {
	app := buildTestApp(t)

	assert.Nil(t, app.DB)
	assert.Nil(t, app.Queue)
	assert.NotNil(t, app.Processor)
	assert.Same(t, app.DiagnosticsService, app.PacksService.Previewer)

	resp := call(t, app, http.MethodGet, "/api/v1/health", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"ok":true,"database":"memory"}`, resp.Body.String())

	resp = call(t, app, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestBuildRequiresDatabaseOutsideDev(t *testing.T) {
	_, err := Build(config.Config{Env: "production", LocalStoreDir: t.TempDir()})
	assert.Error(t, err)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	app := buildTestApp(t)

	resp := call(t, app, http.MethodGet, "/api/v1/admin/clients", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	token, err := auth.Sign(auth.Claims{Sub: "u-1", Email: "someone@example.com"})
	require.NoError(t, err)
	resp = call(t, app, http.MethodGet, "/api/v1/admin/clients", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = call(t, app, http.MethodGet, "/api/v1/admin/clients", adminToken(t), nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestReportReleaseFlow(t *testing.T) {
	app := buildTestApp(t)
	admin := adminToken(t)

	resp := call(t, app, http.MethodPost, "/api/v1/intakes", "", gin.H{
		"email": "owner@example.com",
		"mode":  "initial",
		"answers": gin.H{
			"firstName":      "Dana",
			"businessName":   "Northwind Studio",
			"business_model": "Creative service",
		},
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var initial struct {
		ClientID string `json:"clientId"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &initial))

	resp = call(t, app, http.MethodPost, "/api/v1/intakes", "", gin.H{
		"email":   "owner@example.com",
		"mode":    "deep",
		"answers": gin.H{"rework_percentage": "10-25%"},
	})
	require.Equal(t, http.StatusAccepted, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), `"reportStatus":"completed"`)

	resp = call(t, app, http.MethodGet, "/api/v1/reports/latest?email=owner@example.com", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "not_released")

	resp = call(t, app, http.MethodGet, "/api/v1/reports/latest?email=owner@example.com", admin, nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = call(t, app, http.MethodPost, "/api/v1/admin/clients/"+initial.ClientID+"/release", admin, nil)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = call(t, app, http.MethodGet, "/api/v1/reports/latest?email=owner@example.com", "", nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), `"released":true`)

	resp = call(t, app, http.MethodGet, "/api/v1/account/status?email=owner@example.com", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"reportReleased":true`)
}
