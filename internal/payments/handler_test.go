package payments

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"
)

const testSecret = "whsec_test"

func newTestRouter(secret string) (*gin.Engine, *Service) {
	gin.SetMode(gin.TestMode)
	svc, _ := newTestService()
	h := NewHandler(svc, secret)
	router := gin.New()
	h.RegisterWebhook(router)
	h.RegisterRoutes(router.Group("/api/v1"))
	return router, svc
}

func postWebhook(router http.Handler, payload []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader(payload))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestWebhookVerifiesSignature(t *testing.T) {
	router, _ := newTestRouter(testSecret)
	payload := checkoutPayload("evt_1", "buyer@example.com", 30000)

	resp := postWebhook(router, payload, "")
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = postWebhook(router, payload, "t=1,v1=deadbeef")
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: payload, Secret: testSecret})
	resp = postWebhook(router, payload, signed.Header)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.JSONEq(t, `{"received":true}`, resp.Body.String())

	resp = postWebhook(router, payload, signed.Header)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"received":true,"duplicate":true}`, resp.Body.String())

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/payments/status?email=buyer@example.com", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"depositPaid":true`)
	assert.Contains(t, resp.Body.String(), `"paid":false`)
}

func TestWebhookWithoutSecretAcceptsUnsigned(t *testing.T) {
	router, _ := newTestRouter("")

	resp := postWebhook(router, checkoutPayload("evt_1", "", 30000), "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"received":true}`, resp.Body.String())

	resp = postWebhook(router, []byte("{"), "")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestPaymentStatusValidation(t *testing.T) {
	router, _ := newTestRouter("")
	for _, path := range []string{"/api/v1/payments/status", "/api/v1/payments/status?email=nope"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusBadRequest, resp.Code, path)
	}
}
