package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"credit-engine/internal/api"
	"credit-engine/internal/api/handler/dto"
	mw "credit-engine/internal/api/middleware"
	"credit-engine/internal/config"
	"credit-engine/internal/domain/customer"
	"credit-engine/internal/domain/loan"
	"credit-engine/internal/infrastructure/cache"
	"credit-engine/internal/infrastructure/database/memory"
	"credit-engine/internal/pkg/apperrors"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestServer(t *testing.T, authEnabled bool) *httptest.Server {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{
		Server: config.ServerConfig{
			RateLimit: config.RateLimitConfig{Enabled: false},
			Auth: config.AuthConfig{
				Enabled:   authEnabled,
				JWTSecret: "router-test-secret",
				TokenTTL:  time.Hour,
				Issuer:    "credit-engine",
				Users:     []config.UserConfig{{Username: "backoffice", PasswordHash: string(hash)}},
			},
		},
		Metrics: config.MetricsConfig{Path: "/metrics"},
		Redis:   config.RedisConfig{IdempotencyTTL: time.Hour},
	}

	store := memory.NewStore(testLogger)
	customers := customer.NewCustomerService(store, customer.DefaultCreditTierPolicy(), testLogger)
	loans := loan.NewLoanService(store, customers, loan.DefaultPolicies(), testLogger)

	router := api.SetupRouter(api.Dependencies{
		CustomerService:  customers,
		LoanService:      loans,
		IdempotencyStore: cache.NewInMemoryIdempotencyStore(),
	}, cfg, testLogger)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, token string, body any, headers map[string]string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func birthDateForAge(age int) string {
	return time.Now().AddDate(-age, 0, -10).Format(dto.DateLayout)
}

func TestCreditFlow(t *testing.T) {
	srv := newTestServer(t, true)

	resp := do(t, http.MethodPost, srv.URL+"/v1/customers", "", map[string]string{}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/v1/auth/login", "", dto.LoginRequest{Username: "backoffice", Password: "s3cret"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := decode[dto.TokenResponse](t, resp).Token

	newCustomer := dto.CreateCustomerRequest{
		FirstName:      "Carlos",
		LastName:       gofakeit.LastName(),
		SecondLastName: gofakeit.LastName(),
		DateOfBirth:    birthDateForAge(20),
	}
	resp = do(t, http.MethodPost, srv.URL+"/v1/customers", token, newCustomer, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.CustomerResponse](t, resp)
	assert.Equal(t, "3000.00", created.CreditLineAmount)
	assert.Equal(t, "/v1/customers/"+created.ID, resp.Header.Get("Location"))

	loanReq := map[string]string{"customerId": created.ID, "amount": "1000.00"}
	resp = do(t, http.MethodPost, srv.URL+"/v1/loans", token, loanReq, map[string]string{"Idempotency-Key": "checkout-1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	originated := decode[dto.LoanResponse](t, resp)
	assert.Equal(t, "1130.00", originated.PaymentPlan.TotalAmount)
	assert.Len(t, originated.PaymentPlan.Installments, 5)

	resp = do(t, http.MethodPost, srv.URL+"/v1/loans", token, loanReq, map[string]string{"Idempotency-Key": "checkout-1"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, apperrors.CodeDuplicateRequest, decode[dto.ErrorResponse](t, resp).Code)

	resp = do(t, http.MethodPost, srv.URL+"/v1/loans", token, map[string]string{"customerId": created.ID, "amount": "2000.01"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apperrors.CodeInvalidLoanRequest, decode[dto.ErrorResponse](t, resp).Code)

	resp = do(t, http.MethodGet, srv.URL+"/v1/customers/"+created.ID, token, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "2000.00", decode[dto.CustomerResponse](t, resp).AvailableCreditLineAmount)

	resp = do(t, http.MethodGet, srv.URL+"/v1/loans/"+originated.ID, token, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, originated.ID, decode[dto.LoanResponse](t, resp).ID)

	resp = do(t, http.MethodGet, srv.URL+"/v1/customers/"+created.ID+"/loans", token, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.LoanResponse](t, resp), 1)
}

func TestOnboardingRejectsAgeOutsideRange(t *testing.T) {
	srv := newTestServer(t, false)

	for _, age := range []int{17, 66} {
		req := dto.CreateCustomerRequest{FirstName: "Ana", LastName: "Lopez", SecondLastName: "Diaz", DateOfBirth: birthDateForAge(age)}
		resp := do(t, http.MethodPost, srv.URL+"/v1/customers", "", req, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, apperrors.CodeInvalidCustomerRequest, decode[dto.ErrorResponse](t, resp).Code)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t, true)

	resp := do(t, http.MethodGet, srv.URL+"/health", "", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/v1/customers/not-a-uuid", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/metrics", "", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "credit_engine_http_requests_total")
}

func TestRouterUsesSuppliedRateLimiter(t *testing.T) {
	limiter := mw.NewRateLimiterMiddleware(config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}, testLogger)
	t.Cleanup(limiter.Stop)

	cfg := &config.Config{Metrics: config.MetricsConfig{Path: "/metrics"}}
	store := memory.NewStore(testLogger)
	customers := customer.NewCustomerService(store, customer.DefaultCreditTierPolicy(), testLogger)
	router := api.SetupRouter(api.Dependencies{
		CustomerService: customers,
		LoanService:     loan.NewLoanService(store, customers, loan.DefaultPolicies(), testLogger),
		RateLimiter:     limiter,
	}, cfg, testLogger)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	assert.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/health", "", nil, nil).StatusCode)
	assert.Equal(t, http.StatusTooManyRequests, do(t, http.MethodGet, srv.URL+"/health", "", nil, nil).StatusCode)
}
