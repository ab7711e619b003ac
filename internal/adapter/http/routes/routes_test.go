package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"payment_relay/internal/adapter/http/handlers/mocks"
	"payment_relay/internal/adapter/persistence/repository"
	"payment_relay/internal/config"
	"payment_relay/internal/domain/entities"
	"payment_relay/internal/infrastructure/lock"
	"payment_relay/internal/infrastructure/payments"
	"payment_relay/internal/usecase"
	"payment_relay/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func testConfig() config.Config {
	return config.Config{AllowedOrigins: []string{"http://localhost:5173"}}
}

func newMockRouter(t *testing.T) (*gin.Engine, *mocks.MockITransactionUseCase, *mocks.MockIVerificationUseCase) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	tuc := mocks.NewMockITransactionUseCase(ctrl)
	vuc := mocks.NewMockIVerificationUseCase(ctrl)
	return NewRouter(testConfig(), Dependencies{Transactions: tuc, Verifications: vuc}), tuc, vuc
}

func assertRouteNotFound(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if w.Body.String() != `{"status":false,"message":"Route not found"}` {
		t.Fatalf("unexpected 404 body: %s", w.Body.String())
	}
}

func TestRouter_NotFound(t *testing.T) {
	r, _, _ := newMockRouter(t)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/unknown"},
		{http.MethodGet, "/api/verify-payment"},
		{http.MethodPut, "/api/initialize-transaction"},
		{http.MethodPost, "/api/verify-payment/"},
		{http.MethodPost, "/API/verify-payment"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
			assertRouteNotFound(t, w)
		})
	}
}

func TestRouter_Preflight(t *testing.T) {
	r, _, _ := newMockRouter(t)

	for _, origin := range []string{"http://localhost:5173", "http://evil.test"} {
		req := httptest.NewRequest(http.MethodOptions, "/api/initialize-transaction", nil)
		req.Header.Set("Origin", origin)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Fatalf("expected 204 for %s, got %d", origin, w.Code)
		}
		allow := w.Header().Get("Access-Control-Allow-Origin")
		if origin == "http://localhost:5173" && allow != origin {
			t.Fatalf("expected allow-origin %s, got %q", origin, allow)
		}
		if origin == "http://evil.test" && allow != "" {
			t.Fatalf("expected no allow-origin, got %q", allow)
		}
	}
}

func TestRouter_DispatchesPaymentRoutes(t *testing.T) {
	r, tuc, vuc := newMockRouter(t)

	tuc.EXPECT().Initialize(gomock.Any(), gomock.Any()).Return(entities.InitializedTransaction{}, usecase.ErrMissingRequiredFields)
	vuc.EXPECT().Verify(gomock.Any(), "").Return(usecase.VerificationResult{}, usecase.ErrMissingReference)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/initialize-transaction", strings.NewReader(`{}`)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header")
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/verify-payment", strings.NewReader(`{}`)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestRouter_OperationalRoutes(t *testing.T) {
	r, _, _ := newMockRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK || w.Body.String() != `{"status":"ok"}` {
		t.Fatalf("unexpected health response: %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "payment_relay_http_requests_total") {
		t.Fatalf("expected prometheus exposition, got %d", w.Code)
	}
}

// End to end through the real usecases with the memory store and a mock gateway.
func TestRouter_InitializeThenVerify(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := repository.NewOrderMemoryRepository(entities.Order{ID: "order-1"})
	gateway, err := payments.NewPaystackGateway(payments.PaystackOptions{Mock: true})
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	r := NewRouter(testConfig(), Dependencies{
		Transactions:  usecase.NewTransactionUseCase(repo, gateway),
		Verifications: usecase.NewVerificationUseCase(repo, gateway, lock.NewMemoryLocker(), nil),
	})

	body := `{"email":"buyer@test.com","amount":5000,"callback_url":"http://cb","orderId":"order-1"}`
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/initialize-transaction", bytes.NewBufferString(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var initResp struct {
		Data struct {
			Reference string `json:"reference"`
		} `json:"data"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &initResp)
	ref := initResp.Data.Reference

	stored, _ := repo.ListByReference(context.Background(), ref, 1)
	if ref == "" || len(stored) != 1 || stored[0].ID != "order-1" {
		t.Fatalf("expected order-1 to carry reference %q, got %+v", ref, stored)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/verify-payment", bytes.NewBufferString(`{"reference":"`+ref+`"}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	stored, _ = repo.ListByReference(context.Background(), ref, 1)
	if len(stored) != 1 || stored[0].Status != entities.OrderStatusSuccess {
		t.Fatalf("expected success status, got %+v", stored)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/verify-payment", bytes.NewBufferString(`{"reference":"unknown"}`)))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestRouter_InitializeRejectsMalformedInput(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := repository.NewOrderMemoryRepository(entities.Order{ID: "order-1"})
	gateway, err := payments.NewPaystackGateway(payments.PaystackOptions{Mock: true})
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	r := NewRouter(testConfig(), Dependencies{
		Transactions:  usecase.NewTransactionUseCase(repo, gateway),
		Verifications: usecase.NewVerificationUseCase(repo, gateway, lock.NewMemoryLocker(), nil),
	})

	cases := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"amount overflows minor units", "/api/initialize-transaction", `{"email":"a@b.c","amount":1e300,"callback_url":"x","orderId":"order-1"}`, http.StatusInternalServerError},
		{"empty initialize body", "/api/initialize-transaction", ``, http.StatusInternalServerError},
		{"null initialize body", "/api/initialize-transaction", `null`, http.StatusInternalServerError},
		{"false amount", "/api/initialize-transaction", `{"email":"a@b.c","amount":false,"callback_url":"x","orderId":"order-1"}`, http.StatusBadRequest},
		{"null verify body", "/api/verify-payment", `null`, http.StatusInternalServerError},
		{"numeric reference", "/api/verify-payment", `{"reference":123}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, tc.path, strings.NewReader(tc.body)))
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, w.Code, w.Body.String())
			}
		})
	}

	if _, err := repo.UpdateStatus(context.Background(), "order-1", "", entities.OrderStatusPending); err != nil {
		t.Fatalf("expected order-1 to keep an empty reference, got %v", err)
	}
}

func TestBuildDependencies_Memory(t *testing.T) {
	cfg := testConfig()
	cfg.Paystack.Mock = true
	cfg.Store.Driver = config.StoreDriverMemory

	deps, cleanup, err := buildDependencies(context.Background(), cfg)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	defer cleanup()
	if deps.Transactions == nil || deps.Verifications == nil {
		t.Fatalf("expected usecases to be wired")
	}
}

func TestBuildOrderRepository_MemorySeed(t *testing.T) {
	ctx := context.Background()
	repo, cleanup, err := buildOrderRepository(ctx, config.StoreConfig{
		Driver:         config.StoreDriverMemory,
		MemoryOrderIDs: []string{"order-1"},
	})
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	defer cleanup()

	if _, err := repo.UpdateReference(ctx, "order-1", "ref-1"); err != nil {
		t.Fatalf("expected seeded order, got %v", err)
	}
	if _, err := repo.UpdateReference(ctx, "order-2", "ref-2"); !errors.Is(err, interfaces.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestBuildDependencies_MissingSecret(t *testing.T) {
	cfg := testConfig()
	cfg.Store.Driver = config.StoreDriverMemory

	if _, _, err := buildDependencies(context.Background(), cfg); err == nil {
		t.Fatalf("expected missing secret error")
	}
}
