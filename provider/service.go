package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mstgnz/paybridge/infra/logger"
	"github.com/mstgnz/paybridge/infra/metrics"
	"github.com/mstgnz/paybridge/infra/middle"
)

// Checkout outcomes as counted by metrics
const (
	OutcomeOK            = "ok"
	OutcomeInvalidCart   = "invalid_cart"
	OutcomeProviderError = "provider_error"
	OutcomeMissingLink   = "missing_link"
	OutcomeUnsupported   = "unsupported"
	OutcomeError         = "error"
)

// Checkout is a created redirect for one cart
type Checkout struct {
	Provider    string
	CheckoutURL string
}

// CheckoutService validates carts and hands them to the selected provider
type CheckoutService struct {
	registry *Registry
	metrics  *metrics.GatewayMetrics
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(registry *Registry, m *metrics.GatewayMetrics) *CheckoutService {
	return &CheckoutService{
		registry: registry,
		metrics:  m,
	}
}

// CreateCheckout validates the raw line items before anything else, then makes one provider call
func (s *CheckoutService) CreateCheckout(ctx context.Context, providerName string, lineItems json.RawMessage, hint *CustomerHint) (*Checkout, error) {
	log := logger.WithRequest(providerName, middle.GetRequestID(ctx))

	cart, err := ParseCart(lineItems)
	if err != nil {
		s.observe(providerName, err)
		log.AddField("error", err.Error()).Warn("rejected cart")
		return nil, err
	}

	p, err := s.registry.Get(providerName)
	if err != nil {
		s.observe(providerName, err)
		log.Warn("unsupported provider requested")
		return nil, err
	}

	var customer CustomerHint
	if hint != nil {
		customer = *hint
	}

	url, err := p.CreateCheckout(ctx, cart, customer)
	if err != nil {
		s.observe(p.Name(), err)
		log.Error("checkout creation failed", err)
		return nil, err
	}

	s.observe(p.Name(), nil)
	log.AddField("items", len(cart)).Info("checkout created")

	return &Checkout{
		Provider:    p.Name(),
		CheckoutURL: url,
	}, nil
}

func (s *CheckoutService) observe(providerName string, err error) {
	// only registered names become labels
	label := "unknown"
	if p, lookupErr := s.registry.Get(providerName); lookupErr == nil {
		label = p.Name()
	}
	s.metrics.ObserveCheckout(label, CheckoutOutcome(err))
}

// CheckoutOutcome classifies a checkout error for metrics and status mapping
func CheckoutOutcome(err error) string {
	var (
		cartErr *InvalidCartError
		callErr *ProviderCallError
		linkErr *MissingApprovalLinkError
	)

	switch {
	case err == nil:
		return OutcomeOK
	case errors.As(err, &cartErr):
		return OutcomeInvalidCart
	case errors.As(err, &callErr):
		return OutcomeProviderError
	case errors.As(err, &linkErr):
		return OutcomeMissingLink
	case errors.Is(err, ErrUnsupportedProvider):
		return OutcomeUnsupported
	default:
		return OutcomeError
	}
}

// WebhookService authenticates callbacks and forwards completed payments to the notifier
type WebhookService struct {
	registry *Registry
	notifier Notifier
	metrics  *metrics.GatewayMetrics
}

// NewWebhookService creates a new webhook service
func NewWebhookService(registry *Registry, notifier Notifier, m *metrics.GatewayMetrics) *WebhookService {
	return &WebhookService{
		registry: registry,
		notifier: notifier,
		metrics:  m,
	}
}

// HandleWebhook returns the outcome of one callback. Only an unknown provider or a
// failed signature produce an error; every other path is acknowledged by the caller.
func (s *WebhookService) HandleWebhook(ctx context.Context, providerName string, payload []byte, header http.Header) (string, error) {
	// a verified payment is processed even if the provider hangs up
	ctx = context.WithoutCancel(ctx)

	p, err := s.registry.Get(providerName)
	if err != nil {
		return "", err
	}

	log := logger.WithRequest(p.Name(), middle.GetRequestID(ctx))

	event, err := p.VerifyWebhook(ctx, payload, header)
	if err != nil {
		var sigErr *SignatureVerificationError
		if errors.As(err, &sigErr) {
			s.metrics.ObserveWebhook(p.Name(), metrics.WebhookRejected)
			log.Warn("webhook signature rejected")
			return metrics.WebhookRejected, err
		}

		s.metrics.ObserveWebhook(p.Name(), metrics.WebhookInvalid)
		log.Error("webhook payload could not be used", err)
		return metrics.WebhookInvalid, nil
	}

	if event == nil {
		s.metrics.ObserveWebhook(p.Name(), metrics.WebhookIgnored)
		log.Debug("webhook ignored")
		return metrics.WebhookIgnored, nil
	}

	s.metrics.ObserveWebhook(p.Name(), metrics.WebhookNormalized)
	log.AddField("total", event.Total).AddField("reference", event.Reference).Info("payment confirmed")

	if s.notifier != nil {
		s.notifier.NotifyOwner(ctx, event)
	}

	return metrics.WebhookNormalized, nil
}
