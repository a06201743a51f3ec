package server_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DCWS-dev/ai-landing/internal/prodamus"
	"github.com/DCWS-dev/ai-landing/internal/storage"
)

func prodamusBody(orderID, status string) map[string]any {
	return map[string]any{
		"order_id":       orderID,
		"payment_status": status,
		"sum":            "1990.00",
		"customer_email": "ivan@example.com",
	}
}

func signedHeaders(body map[string]any) map[string]string {
	return map[string]string{"Sign": prodamus.Sign(body, testProdamusSecret)}
}

func TestProdamusWebhookMissingSignature(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/webhook/prodamus", prodamusBody("M-1", "success"), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error: signature not found", w.Body.String())
}

func TestProdamusWebhookEmptyBody(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/webhook/prodamus", map[string]any{},
		map[string]string{"Sign": "deadbeef"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error: empty body", w.Body.String())
}

func TestProdamusWebhookTamperedSignature(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, storage.User{OrderID: "M-1", Status: storage.StatusPending})

	body := prodamusBody("M-1", "success")
	sig := prodamus.Sign(body, testProdamusSecret)
	tampered := sig[:len(sig)-1]
	if sig[len(sig)-1] == '0' {
		tampered += "1"
	} else {
		tampered += "0"
	}

	w := env.do(t, http.MethodPost, "/api/webhook/prodamus", body,
		map[string]string{"Sign": tampered})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error: signature incorrect", w.Body.String())

	// the record is untouched
	user, err := env.store.GetUser(context.Background(), "M-1")
	require.NoError(t, err)
	assert.Equal(t, storage.StatusPending, user.Status)
	assert.Empty(t, env.notifier.calls)
}

func TestProdamusWebhookSuccess(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, storage.User{OrderID: "M-1", Name: "Иван", Status: storage.StatusPending})

	body := prodamusBody("M-1", "success")
	w := env.do(t, http.MethodPost, "/api/webhook/prodamus", body, signedHeaders(body))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", w.Body.String())

	user, err := env.store.GetUser(context.Background(), "M-1")
	require.NoError(t, err)
	assert.Equal(t, storage.StatusPaid, user.Status)
	assert.NotEmpty(t, user.PaidAt)

	require.Len(t, env.notifier.calls, 1)
	assert.Equal(t, "M-1", env.notifier.calls[0].orderID)
	assert.Equal(t, "Prodamus", env.notifier.calls[0].gateway)
}

func TestProdamusWebhookSuccessByOrderNum(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, storage.User{OrderID: "M-2", Status: storage.StatusPending})

	// some notifications carry the id as order_num instead of order_id
	body := map[string]any{"order_num": "M-2", "payment_status": "success"}
	w := env.do(t, http.MethodPost, "/api/webhook/prodamus", body, signedHeaders(body))
	require.Equal(t, http.StatusOK, w.Code)

	user, err := env.store.GetUser(context.Background(), "M-2")
	require.NoError(t, err)
	assert.Equal(t, storage.StatusPaid, user.Status)
}

func TestProdamusWebhookNonSuccessBecomesFailed(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, storage.User{OrderID: "M-1", Status: storage.StatusPending})

	body := prodamusBody("M-1", "order_canceled")
	w := env.do(t, http.MethodPost, "/api/webhook/prodamus", body, signedHeaders(body))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", w.Body.String())

	user, err := env.store.GetUser(context.Background(), "M-1")
	require.NoError(t, err)
	assert.Equal(t, storage.StatusFailed, user.Status)
	assert.Empty(t, env.notifier.calls)
}

func TestProdamusWebhookUnknownOrderIsNoOp(t *testing.T) {
	env := newTestEnv(t)

	body := prodamusBody("M-missing", "success")
	w := env.do(t, http.MethodPost, "/api/webhook/prodamus", body, signedHeaders(body))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", w.Body.String())
	assert.Empty(t, env.notifier.calls)
}

func TestProdamusWebhookMissingOrderID(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]any{"payment_status": "success"}
	w := env.do(t, http.MethodPost, "/api/webhook/prodamus", body, signedHeaders(body))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error: order_id missing", w.Body.String())
}

func TestProdamusWebhookIdempotentSuccess(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, storage.User{OrderID: "M-1", Status: storage.StatusPending})

	body := prodamusBody("M-1", "success")
	headers := signedHeaders(body)

	for i := 0; i < 2; i++ {
		w := env.do(t, http.MethodPost, "/api/webhook/prodamus", body, headers)
		require.Equal(t, http.StatusOK, w.Code)
	}

	user, err := env.store.GetUser(context.Background(), "M-1")
	require.NoError(t, err)
	assert.Equal(t, storage.StatusPaid, user.Status)
	assert.NotEmpty(t, user.PaidAt)
	// the admin is re-notified on redelivery; the record is not duplicated
	assert.Len(t, env.notifier.calls, 2)

	users, err := env.store.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
