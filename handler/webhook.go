package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/mstgnz/paybridge/infra/logger"
	"github.com/mstgnz/paybridge/infra/middle"
	"github.com/mstgnz/paybridge/infra/response"
	"github.com/mstgnz/paybridge/provider"
)

const maxWebhookBody = int64(65536)

// WebhookServiceInterface defines the webhook operation used by the handler
type WebhookServiceInterface interface {
	HandleWebhook(ctx context.Context, providerName string, payload []byte, header http.Header) (string, error)
}

// WebhookHandler answers POST /webhook/{provider}
type WebhookHandler struct {
	service WebhookServiceInterface
}

func NewWebhookHandler(service WebhookServiceInterface) *WebhookHandler {
	return &WebhookHandler{service: service}
}

// HandleWebhook reads the raw body before anything parses it, since the signature covers the exact bytes.
// Everything except an unknown provider, a bad signature or an unreadable Stripe body is acknowledged.
func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	providerName := chi.URLParam(r, "provider")

	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBody)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		logger.WithRequest(providerName, middle.GetRequestID(r.Context())).Error("webhook body unreadable", err)
		if !strings.EqualFold(providerName, provider.PayPal) {
			response.Text(w, http.StatusBadRequest, "Webhook Error: "+err.Error())
			return
		}
		// PayPal has no rejection path; an empty payload is counted as invalid and acknowledged
		payload = nil
	}

	_, err = h.service.HandleWebhook(r.Context(), providerName, payload, r.Header)
	if err != nil {
		var sigErr *provider.SignatureVerificationError
		switch {
		case errors.Is(err, provider.ErrUnsupportedProvider):
			response.Text(w, http.StatusNotFound, err.Error())
		case errors.As(err, &sigErr):
			response.Text(w, http.StatusBadRequest, err.Error())
		default:
			response.Text(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	response.Received(w)
}
