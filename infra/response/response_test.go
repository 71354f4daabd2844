package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuccessResponse(t *testing.T) {
	w := httptest.NewRecorder()

	Success(w, http.StatusOK, "ok", map[string]string{"key": "value"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"code":200,"success":true,"message":"ok","data":{"key":"value"}}`, w.Body.String())
}

func TestErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, http.StatusTooManyRequests, "Rate limit exceeded", errors.New("slow down"))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"code":429,"success":false,"message":"Rate limit exceeded","error":"slow down"}`, w.Body.String())
}

func TestCheckoutOK(t *testing.T) {
	w := httptest.NewRecorder()

	CheckoutOK(w, "stripe", "https://checkout.stripe.com/c/pay/cs_test")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"provider":"stripe","checkout_url":"https://checkout.stripe.com/c/pay/cs_test"}`, w.Body.String())
}

func TestCheckoutError(t *testing.T) {
	w := httptest.NewRecorder()

	CheckoutError(w, http.StatusBadRequest, errors.New("cart is empty"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"ok":false,"error":"cart is empty"}`, w.Body.String())
}

func TestReceivedAndText(t *testing.T) {
	w := httptest.NewRecorder()
	Received(w)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received":true}`, w.Body.String())

	w = httptest.NewRecorder()
	Text(w, http.StatusBadRequest, "Webhook Error: bad signature")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "Webhook Error: bad signature", w.Body.String())
}

func BenchmarkCheckoutOK(b *testing.B) {
	for b.Loop() {
		w := httptest.NewRecorder()
		CheckoutOK(w, "paypal", "https://www.sandbox.paypal.com/checkoutnow?token=EC-1")
	}
}
