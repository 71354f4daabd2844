package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mstgnz/paybridge/infra/response"
	"github.com/mstgnz/paybridge/provider"
)

// CheckoutServiceInterface defines the checkout operation used by the handler
type CheckoutServiceInterface interface {
	CreateCheckout(ctx context.Context, providerName string, lineItems json.RawMessage, hint *provider.CustomerHint) (*provider.Checkout, error)
}

// CheckoutRequest is the storefront payload. line_items is validated by the service.
type CheckoutRequest struct {
	LineItems    json.RawMessage        `json:"line_items"`
	CustomerHint *provider.CustomerHint `json:"customer_hint,omitempty"`
}

// CheckoutHandler answers POST /api/checkout/{provider}
type CheckoutHandler struct {
	service CheckoutServiceInterface
}

func NewCheckoutHandler(service CheckoutServiceInterface) *CheckoutHandler {
	return &CheckoutHandler{service: service}
}

// CreateCheckout returns {ok, provider, checkout_url} or {ok:false, error}
func (h *CheckoutHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.CheckoutError(w, http.StatusBadRequest, &provider.InvalidCartError{Reason: provider.ErrEmptyCart.Error()})
		return
	}

	checkout, err := h.service.CreateCheckout(r.Context(), chi.URLParam(r, "provider"), req.LineItems, req.CustomerHint)
	if err != nil {
		response.CheckoutError(w, checkoutStatus(err), err)
		return
	}

	response.CheckoutOK(w, checkout.Provider, checkout.CheckoutURL)
}

// checkoutStatus is the single mapping from checkout errors to HTTP status codes
func checkoutStatus(err error) int {
	switch provider.CheckoutOutcome(err) {
	case provider.OutcomeInvalidCart, provider.OutcomeProviderError, provider.OutcomeUnsupported:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
