package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mstgnz/paybridge/notify"
	"github.com/mstgnz/paybridge/provider"
	"github.com/mstgnz/paybridge/provider/paypal"
	stripeprovider "github.com/mstgnz/paybridge/provider/stripe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"
)

const webhookSecret = "whsec_handler_test"

type recordingSender struct {
	messages []*notify.Message
	err      error
}

func (s *recordingSender) Transport() string { return "recording" }

func (s *recordingSender) Send(_ context.Context, msg *notify.Message) error {
	s.messages = append(s.messages, msg)
	return s.err
}

func newWebhookRouter(t *testing.T, sender notify.Sender) http.Handler {
	t.Helper()

	stripeProvider, err := stripeprovider.New(stripeprovider.Config{
		SecretKey:     "sk_test_handler",
		WebhookSecret: webhookSecret,
		SuccessURL:    "http://localhost:5173/success",
		CancelURL:     "http://localhost:5173/cancel",
	})
	require.NoError(t, err)

	paypalProvider, err := paypal.New(paypal.Config{
		ClientID:     "client-id-123",
		ClientSecret: "client-secret-123",
		SuccessURL:   "http://localhost:5173/success",
		CancelURL:    "http://localhost:5173/cancel",
		BaseURL:      "http://127.0.0.1:1",
	})
	require.NoError(t, err)

	dispatcher, err := notify.NewDispatcher(sender, notify.Options{StoreName: "IZ HAIR TREND", OwnerEmail: "owner@example.com"}, nil)
	require.NoError(t, err)

	service := provider.NewWebhookService(provider.NewRegistry(stripeProvider, paypalProvider), dispatcher, nil)
	h := NewWebhookHandler(service)

	r := chi.NewRouter()
	r.Post("/webhook/{provider}", h.HandleWebhook)
	return r
}

func postWebhook(handler http.Handler, path string, body []byte, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(body)))
	for key, values := range header {
		req.Header[key] = values
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

const stripeCompleted = `{
  "id": "evt_handler_1",
  "object": "event",
  "api_version": "2024-06-20",
  "type": "checkout.session.completed",
  "data": {"object": {
    "id": "cs_test_handler",
    "object": "checkout.session",
    "amount_total": 2450,
    "currency": "eur",
    "metadata": {"customer_name": "Ana", "customer_email": "ana@example.com", "customer_instagram": "", "customer_phone": ""},
    "line_items": {"object": "list", "data": [
      {"id": "li_1", "object": "item", "description": "Shine Serum", "quantity": 1, "amount_subtotal": 2450, "amount_total": 2450, "currency": "eur", "price": {"id": "price_1", "object": "price", "unit_amount": 2450}}
    ]}
  }}
}`

func stripeSignature(payload []byte, secret string) http.Header {
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
	})
	header := http.Header{}
	header.Set("Stripe-Signature", signed.Header)
	return header
}

func TestWebhookHandler_StripeCompleted(t *testing.T) {
	sender := &recordingSender{}
	r := newWebhookRouter(t, sender)

	payload := []byte(stripeCompleted)
	rec := postWebhook(r, "/webhook/stripe", payload, stripeSignature(payload, webhookSecret))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received":true}`, rec.Body.String())
	require.Len(t, sender.messages, 1)
	assert.Contains(t, sender.messages[0].Body, "Total: 24.50 EUR")
	assert.Contains(t, sender.messages[0].Body, "Payment method: Stripe")
}

func TestWebhookHandler_StripeBadSignature(t *testing.T) {
	sender := &recordingSender{}
	r := newWebhookRouter(t, sender)

	payload := []byte(stripeCompleted)

	tests := []struct {
		name   string
		header http.Header
		body   []byte
	}{
		{name: "wrong_secret", header: stripeSignature(payload, "whsec_someone_else"), body: payload},
		{name: "missing_header", header: http.Header{}, body: payload},
		{name: "tampered_body", header: stripeSignature(payload, webhookSecret), body: []byte(strings.Replace(stripeCompleted, "2450", "1", 1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postWebhook(r, "/webhook/stripe", tt.body, tt.header)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.True(t, strings.HasPrefix(rec.Body.String(), "Webhook Error: "))
			assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
		})
	}

	assert.Empty(t, sender.messages)
}

func TestWebhookHandler_StripeIgnoredEvent(t *testing.T) {
	sender := &recordingSender{}
	r := newWebhookRouter(t, sender)

	payload := []byte(`{"id":"evt_2","object":"event","api_version":"2024-06-20","type":"payment_intent.created","data":{"object":{"id":"pi_1","object":"payment_intent"}}}`)
	rec := postWebhook(r, "/webhook/stripe", payload, stripeSignature(payload, webhookSecret))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received":true}`, rec.Body.String())
	assert.Empty(t, sender.messages)
}

func TestWebhookHandler_PayPalNotifierFailureStillAcknowledged(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp: 421 service not available")}
	r := newWebhookRouter(t, sender)

	payload := []byte(`{"event_type":"PAYMENT.SALE.COMPLETED","resource":{"id":"SALE-1","amount":{"total":"10.00","currency":"EUR"}}}`)
	rec := postWebhook(r, "/webhook/paypal", payload, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received":true}`, rec.Body.String())
	require.Len(t, sender.messages, 1)
	assert.Contains(t, sender.messages[0].Body, "Total: 10.00 EUR")
	assert.Contains(t, sender.messages[0].Body, "Payment method: PayPal")
}

func TestWebhookHandler_PayPalInvalidBodyAcknowledged(t *testing.T) {
	sender := &recordingSender{}
	r := newWebhookRouter(t, sender)

	rec := postWebhook(r, "/webhook/paypal", []byte("not json"), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received":true}`, rec.Body.String())
	assert.Empty(t, sender.messages)
}

func TestWebhookHandler_UnknownProvider(t *testing.T) {
	r := newWebhookRouter(t, &recordingSender{})

	rec := postWebhook(r, "/webhook/square", []byte(`{}`), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "unsupported payment provider")
}

func TestWebhookHandler_BodyTooLarge(t *testing.T) {
	sender := &recordingSender{}
	r := newWebhookRouter(t, sender)

	body := []byte(`{"type":"checkout.session.completed","pad":"` + strings.Repeat("x", int(maxWebhookBody)) + `"}`)
	rec := postWebhook(r, "/webhook/stripe", body, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Webhook Error:")
	assert.Empty(t, sender.messages)
}

func TestWebhookHandler_PayPalBodyTooLargeAcknowledged(t *testing.T) {
	sender := &recordingSender{}
	r := newWebhookRouter(t, sender)

	body := []byte(`{"event_type":"PAYMENT.SALE.COMPLETED","pad":"` + strings.Repeat("x", int(maxWebhookBody)) + `"}`)
	rec := postWebhook(r, "/webhook/paypal", body, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received":true}`, rec.Body.String())
	assert.Empty(t, sender.messages)
}

type failingService struct{}

func (failingService) HandleWebhook(context.Context, string, []byte, http.Header) (string, error) {
	return "", errors.New("registry unavailable")
}

func TestWebhookHandler_UnexpectedError(t *testing.T) {
	h := NewWebhookHandler(failingService{})
	r := chi.NewRouter()
	r.Post("/webhook/{provider}", h.HandleWebhook)

	rec := postWebhook(r, "/webhook/stripe", []byte(`{}`), nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
