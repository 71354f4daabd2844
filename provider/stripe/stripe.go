package stripe

import (
	"context"
	"errors"
	"net/http"

	"github.com/mstgnz/paybridge/provider"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

const (
	sessionMode     = stripe.CheckoutSessionModePayment
	sessionCurrency = "eur"

	metaCustomerName      = "customer_name"
	metaCustomerEmail     = "customer_email"
	metaCustomerInstagram = "customer_instagram"
	metaCustomerPhone     = "customer_phone"
)

// sessionAPI is the part of the Checkout Sessions API used to create a redirect
type sessionAPI interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// lineItemLister loads the purchased items of a completed session
type lineItemLister func(ctx context.Context, sessionID string) ([]*stripe.LineItem, error)

// Config holds what the Stripe provider needs at start-up
type Config struct {
	SecretKey     string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
}

// Provider creates hosted Checkout Sessions and verifies signed webhooks
type Provider struct {
	config    Config
	sessions  sessionAPI
	lineItems lineItemLister
}

// GetRequiredConfig returns the credentials checked by New
func GetRequiredConfig() []provider.ConfigField {
	return []provider.ConfigField{
		{
			Key:         "secretKey",
			Required:    true,
			Description: "Stripe secret API key",
			Example:     "sk_test_...",
			Pattern:     `^(sk|rk)_(test|live)_`,
		},
		{
			Key:         "webhookSecret",
			Required:    false,
			Description: "Signing secret of the webhook endpoint",
			Example:     "whsec_...",
			Pattern:     `^whsec_`,
		},
		{Key: "successURL", Required: true, Description: "Redirect after payment"},
		{Key: "cancelURL", Required: true, Description: "Redirect after cancel"},
	}
}

// New creates a provider bound to one API key
func New(cfg Config) (*Provider, error) {
	err := provider.ValidateConfigFields(provider.Stripe, map[string]string{
		"secretKey":     cfg.SecretKey,
		"webhookSecret": cfg.WebhookSecret,
		"successURL":    cfg.SuccessURL,
		"cancelURL":     cfg.CancelURL,
	}, GetRequiredConfig())
	if err != nil {
		return nil, err
	}

	client := &session.Client{B: stripe.GetBackend(stripe.APIBackend), Key: cfg.SecretKey}

	return &Provider{
		config:    cfg,
		sessions:  client,
		lineItems: sessionLineItems(client),
	}, nil
}

func (p *Provider) Name() string {
	return provider.Stripe
}

// CreateCheckout creates one Checkout Session and returns its hosted URL
func (p *Provider) CreateCheckout(ctx context.Context, cart provider.Cart, hint provider.CustomerHint) (string, error) {
	lineItems, err := NormalizeCart(cart)
	if err != nil {
		return "", err
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(sessionMode)),
		LineItems:  lineItems,
		SuccessURL: stripe.String(p.config.SuccessURL),
		CancelURL:  stripe.String(p.config.CancelURL),
		Currency:   stripe.String(sessionCurrency),
	}
	params.Context = ctx
	for key, value := range CustomerMetadata(hint) {
		params.AddMetadata(key, value)
	}

	sess, err := p.sessions.New(params)
	if err != nil {
		return "", callError(err)
	}

	return sess.URL, nil
}

// CustomerMetadata flattens the hint. Every key is always present.
func CustomerMetadata(hint provider.CustomerHint) map[string]string {
	return map[string]string{
		metaCustomerName:      hint.Name,
		metaCustomerEmail:     hint.Email,
		metaCustomerInstagram: hint.Instagram,
		metaCustomerPhone:     hint.Phone,
	}
}

func callError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		status := stripeErr.HTTPStatusCode
		if status == 0 {
			status = http.StatusBadRequest
		}
		return &provider.ProviderCallError{
			Provider:   provider.Stripe,
			StatusCode: status,
			Message:    stripeErr.Msg,
			Err:        err,
		}
	}

	return &provider.ProviderCallError{Provider: provider.Stripe, Err: err}
}

func sessionLineItems(client *session.Client) lineItemLister {
	return func(ctx context.Context, sessionID string) ([]*stripe.LineItem, error) {
		params := &stripe.CheckoutSessionListLineItemsParams{
			Session: stripe.String(sessionID),
		}
		params.Context = ctx

		var items []*stripe.LineItem
		iter := client.ListLineItems(params)
		for iter.Next() {
			items = append(items, iter.LineItem())
		}

		return items, iter.Err()
	}
}
