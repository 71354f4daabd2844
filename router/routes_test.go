package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/mstgnz/paybridge/handler"
	"github.com/mstgnz/paybridge/infra/metrics"
	"github.com/mstgnz/paybridge/infra/middle"
	"github.com/mstgnz/paybridge/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct{ calls int }

func (s *stubProvider) Name() string { return provider.PayPal }

func (s *stubProvider) CreateCheckout(context.Context, provider.Cart, provider.CustomerHint) (string, error) {
	s.calls++
	return "https://www.sandbox.paypal.com/checkoutnow?token=EC-1", nil
}

func (s *stubProvider) VerifyWebhook(context.Context, []byte, http.Header) (*provider.WebhookEvent, error) {
	return nil, nil
}

type okSender struct{ calls int }

func (s *okSender) Send(context.Context, *provider.WebhookEvent) error {
	s.calls++
	return nil
}

type fixture struct {
	router   http.Handler
	provider *stubProvider
	sender   *okSender
}

func newFixture(t *testing.T, apiKey string, burst int) *fixture {
	t.Helper()

	p := &stubProvider{}
	sender := &okSender{}
	registry := provider.NewRegistry(p)
	m := metrics.New(metrics.Config{Environment: "test"})

	limiter := middle.NewRateLimiter(0.001, burst)
	t.Cleanup(limiter.Stop)

	r := chi.NewRouter()
	Routes(r, Handlers{
		Checkout: handler.NewCheckoutHandler(provider.NewCheckoutService(registry, m)),
		Webhook:  handler.NewWebhookHandler(provider.NewWebhookService(registry, nil, m)),
		Notify:   handler.NewNotifyHandler(sender),
		Health:   handler.NewHealthHandler(registry.Names, "log"),
	}, Options{
		FrontendURL:  "http://localhost:5173",
		NotifyAPIKey: apiKey,
		RateLimiter:  limiter,
		Metrics:      m,
	})

	return &fixture{router: r, provider: p, sender: sender}
}

func (f *fixture) do(method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

const cart = `{"line_items":[{"name":"Shine Serum","unit_amount":2450,"quantity":2}]}`

func TestRoutes_Endpoints(t *testing.T) {
	f := newFixture(t, "secret-key", 10)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		header map[string]string
		status int
	}{
		{name: "health", method: http.MethodGet, path: "/health", status: http.StatusOK},
		{name: "metrics", method: http.MethodGet, path: "/metrics", status: http.StatusOK},
		{name: "checkout", method: http.MethodPost, path: "/api/checkout/paypal", body: cart, status: http.StatusOK},
		{name: "webhook", method: http.MethodPost, path: "/webhook/paypal", body: `{}`, status: http.StatusOK},
		{name: "notify_no_auth", method: http.MethodPost, path: "/api/notify/test", status: http.StatusUnauthorized},
		{
			name:   "notify_bad_key",
			method: http.MethodPost,
			path:   "/api/notify/test",
			header: map[string]string{"Authorization": "Bearer nope"},
			status: http.StatusUnauthorized,
		},
		{
			name:   "notify",
			method: http.MethodPost,
			path:   "/api/notify/test",
			header: map[string]string{"Authorization": "Bearer secret-key"},
			status: http.StatusOK,
		},
		{name: "not_found", method: http.MethodGet, path: "/v1/payments", status: http.StatusNotFound},
		{name: "wrong_method", method: http.MethodGet, path: "/api/checkout/paypal", status: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(tt.method, tt.path, tt.body, tt.header)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.NotEmpty(t, rec.Header().Get(middle.RequestIDHeader))
		})
	}

	assert.Equal(t, 1, f.provider.calls)
	assert.Equal(t, 1, f.sender.calls)
}

func TestRoutes_NotifyDisabledWithoutKey(t *testing.T) {
	f := newFixture(t, "", 10)

	rec := f.do(http.MethodPost, "/api/notify/test", "", map[string]string{"Authorization": "Bearer anything"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, f.sender.calls)
}

func TestRoutes_RateLimitsCheckoutOnly(t *testing.T) {
	f := newFixture(t, "", 2)

	for range 2 {
		require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/api/checkout/paypal", cart, nil).Code)
	}

	rec := f.do(http.MethodPost, "/api/checkout/paypal", cart, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Equal(t, 2, f.provider.calls)

	for range 5 {
		assert.Equal(t, http.StatusOK, f.do(http.MethodPost, "/webhook/paypal", `{}`, nil).Code)
	}
}

func TestRoutes_CORS(t *testing.T) {
	f := newFixture(t, "", 10)

	rec := f.do(http.MethodOptions, "/api/checkout/stripe", "", map[string]string{
		"Origin":                        "http://localhost:5173",
		"Access-Control-Request-Method": http.MethodPost,
	})
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = f.do(http.MethodOptions, "/api/checkout/stripe", "", map[string]string{
		"Origin":                        "https://evil.example.com",
		"Access-Control-Request-Method": http.MethodPost,
	})
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
