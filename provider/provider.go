package provider

import (
	"context"
	"net/http"
)

// Provider names as they appear in routes
const (
	Stripe = "stripe"
	PayPal = "paypal"
)

// Method is the human readable payment method shown to the store owner
type Method string

const (
	MethodStripe Method = "Stripe"
	MethodPayPal Method = "PayPal"
)

// LineItem is one cart entry. UnitAmount is in minor currency units.
type LineItem struct {
	Name       string `json:"name"`
	UnitAmount int64  `json:"unit_amount"`
	Quantity   int64  `json:"quantity"`
	Currency   string `json:"currency,omitempty"`
}

// Cart is an ordered, non-empty list of line items
type Cart []LineItem

// CustomerHint is attached to the checkout as opaque metadata. Nothing in it is validated.
type CustomerHint struct {
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// EventItem is an item reported back by a confirmed payment. Price is a decimal major-unit string.
type EventItem struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	Price    string `json:"price"`
}

// WebhookEvent is the provider independent shape of a confirmed payment
type WebhookEvent struct {
	Provider          string      `json:"provider"`
	Method            Method      `json:"method"`
	Reference         string      `json:"reference,omitempty"`
	Total             string      `json:"total"`
	Currency          string      `json:"currency,omitempty"`
	Items             []EventItem `json:"items"`
	CustomerEmail     string      `json:"customer_email,omitempty"`
	CustomerInstagram string      `json:"customer_instagram,omitempty"`
	CustomerPhone     string      `json:"customer_phone,omitempty"`
}

// CheckoutProvider is implemented once per payment provider
type CheckoutProvider interface {
	// Name returns the route name of the provider
	Name() string

	// CreateCheckout makes exactly one remote call and returns the URL the browser is sent to
	CreateCheckout(ctx context.Context, cart Cart, hint CustomerHint) (string, error)

	// VerifyWebhook authenticates a raw callback body. A nil event with a nil error
	// means the callback was authentic but not a completed payment.
	VerifyWebhook(ctx context.Context, payload []byte, header http.Header) (*WebhookEvent, error)
}

// Notifier receives normalized payment events. Implementations handle their own failures.
type Notifier interface {
	NotifyOwner(ctx context.Context, event *WebhookEvent)
}
