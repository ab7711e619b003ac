package payments

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"payment_relay/internal/domain/entities"
	"payment_relay/internal/usecase/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T, h http.HandlerFunc) *PaystackGateway {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	gw, err := NewPaystackGateway(PaystackOptions{SecretKey: "sk_test_secret", BaseURL: srv.URL + "/"})
	require.NoError(t, err)
	return gw
}

func TestNewPaystackGateway_MissingSecret(t *testing.T) {
	_, err := NewPaystackGateway(PaystackOptions{SecretKey: "  "})
	assert.ErrorIs(t, err, ErrMissingPaystackSecretKey)
}

func TestPaystackGateway_InitializeTransaction(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_secret", r.Header.Get("Authorization"))

		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, "buyer@test.com", body["email"])
		assert.Equal(t, float64(500000), body["amount"])
		assert.Equal(t, "http://cb", body["callback_url"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":true,"message":"Authorization URL created","data":{"authorization_url":"https://checkout.paystack.com/0peioxfhpn","access_code":"0peioxfhpn","reference":"7PVGX8MEk85tgeEpVDtD"}}`))
	})

	tx, err := gw.InitializeTransaction(context.Background(), "buyer@test.com", 500000, "http://cb")
	require.NoError(t, err)
	assert.Equal(t, "7PVGX8MEk85tgeEpVDtD", tx.Reference)
	assert.Equal(t, "0peioxfhpn", tx.AccessCode)
	assert.Equal(t, "https://checkout.paystack.com/0peioxfhpn", tx.AuthorizationURL)
	assert.JSONEq(t, `{"authorization_url":"https://checkout.paystack.com/0peioxfhpn","access_code":"0peioxfhpn","reference":"7PVGX8MEk85tgeEpVDtD"}`, string(tx.Data))
}

func TestPaystackGateway_InitializeTransaction_Declined(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":false,"message":"Invalid Email Address Passed"}`))
	})

	_, err := gw.InitializeTransaction(context.Background(), "nope", 100, "http://cb")
	assert.ErrorIs(t, err, interfaces.ErrGatewayDeclined)
	assert.Contains(t, err.Error(), "Invalid Email Address Passed")
}

func TestPaystackGateway_InitializeTransaction_MissingReference(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":true,"message":"ok","data":{}}`))
	})

	_, err := gw.InitializeTransaction(context.Background(), "buyer@test.com", 100, "http://cb")
	assert.ErrorIs(t, err, ErrInvalidGatewayResponse)
}

func TestPaystackGateway_NonJSONResponse(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	})

	_, err := gw.VerifyTransaction(context.Background(), "ref-1")
	assert.ErrorIs(t, err, ErrInvalidGatewayResponse)
	assert.False(t, errors.Is(err, interfaces.ErrGatewayDeclined))
}

func TestPaystackGateway_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	gw, err := NewPaystackGateway(PaystackOptions{SecretKey: "sk", BaseURL: url})
	require.NoError(t, err)

	_, err = gw.VerifyTransaction(context.Background(), "ref-1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, interfaces.ErrGatewayDeclined))
}

func TestPaystackGateway_VerifyTransaction(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/transaction/verify/ref%2F1", r.URL.EscapedPath())
		assert.Equal(t, "Bearer sk_test_secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"status":true,"message":"Verification successful","data":{"id":4099260516,"status":"success","reference":"ref/1","amount":2050,"currency":"NGN","customer":{"id":181873746,"email":"buyer@test.com"}}}`))
	})

	tx, err := gw.VerifyTransaction(context.Background(), "ref/1")
	require.NoError(t, err)
	assert.Equal(t, entities.OrderStatusSuccess, tx.Status)
	assert.Equal(t, int64(2050), tx.AmountMinor)
	assert.Equal(t, 20.5, tx.AmountPaid())
	assert.Equal(t, "buyer@test.com", tx.CustomerEmail)
	assert.Equal(t, "ref/1", tx.Reference)
}

func TestPaystackGateway_VerifyTransaction_Declined(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":false,"message":"Transaction reference not found"}`))
	})

	_, err := gw.VerifyTransaction(context.Background(), "missing")
	assert.ErrorIs(t, err, interfaces.ErrGatewayDeclined)
}

func TestPaystackGateway_MockMode(t *testing.T) {
	gw, err := NewPaystackGateway(PaystackOptions{Mock: true})
	require.NoError(t, err)

	tx, err := gw.InitializeTransaction(context.Background(), "buyer@test.com", 1000, "http://cb")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(tx.Reference, "mock_"))

	var data map[string]any
	require.NoError(t, json.Unmarshal(tx.Data, &data))
	assert.Equal(t, tx.Reference, data["reference"])

	v, err := gw.VerifyTransaction(context.Background(), tx.Reference)
	require.NoError(t, err)
	assert.Equal(t, entities.OrderStatusSuccess, v.Status)
	assert.Equal(t, tx.Reference, v.Reference)
}

func TestPaystackGateway_NotConfigured(t *testing.T) {
	var gw *PaystackGateway
	_, err := gw.InitializeTransaction(context.Background(), "a", 1, "b")
	assert.ErrorIs(t, err, ErrPaystackGatewayNotConfigured)
	_, err = gw.VerifyTransaction(context.Background(), "a")
	assert.ErrorIs(t, err, ErrPaystackGatewayNotConfigured)
}
