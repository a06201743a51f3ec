package server_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DCWS-dev/ai-landing/internal/auth"
	"github.com/DCWS-dev/ai-landing/internal/config"
	"github.com/DCWS-dev/ai-landing/internal/prodamus"
	"github.com/DCWS-dev/ai-landing/internal/server"
	"github.com/DCWS-dev/ai-landing/internal/wayforpay"
)

func TestTelegramWebhookDispatchesUpdate(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]any{
		"update_id": 42,
		"message": map[string]any{
			"message_id": 7,
			"text":       "/start M-1",
			"chat":       map[string]any{"id": 100500},
			"from":       map[string]any{"id": 100500, "username": "ivan"},
		},
	}

	w := env.do(t, http.MethodPost, "/api/webhook/telegram", body, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeJSON(t, w)["ok"])

	require.Len(t, env.updates.updates, 1)
	update := env.updates.updates[0]
	assert.EqualValues(t, 42, update.ID)
	require.NotNil(t, update.Message)
	assert.Equal(t, "/start M-1", update.Message.Text)
}

func TestTelegramWebhookInvalidJSON(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/webhook/telegram", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid update")
}

func TestTelegramWebhookAcksWithoutHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// bot disabled: no dispatch target, the webhook still acks
	srv := server.New(
		&config.Config{Port: "0", SiteURL: testSiteURL},
		newMemStore(),
		auth.NewService(testAuthSecret, testAdminPassword),
		prodamus.NewClient(testProdamusForm, testProdamusSecret, testSiteURL),
		wayforpay.NewClient(testWfpAccount, testWfpSecret, "shop.example",
			"https://secure.wayforpay.com/pay", testSiteURL),
		&fakeNotifier{},
		nil,
		zap.NewNop(),
	)

	req := httptest.NewRequest(http.MethodPost, "/api/webhook/telegram", strings.NewReader(`{"update_id":1}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
