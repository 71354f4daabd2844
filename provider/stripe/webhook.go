package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/mstgnz/paybridge/infra/logger"
	"github.com/mstgnz/paybridge/provider"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const signatureHeader = "Stripe-Signature"

var errNoWebhookSecret = errors.New("webhook signing secret is not configured")

// VerifyWebhook checks the signature over the raw body before anything is parsed.
// Only checkout.session.completed yields an event.
func (p *Provider) VerifyWebhook(ctx context.Context, payload []byte, header http.Header) (*provider.WebhookEvent, error) {
	if p.config.WebhookSecret == "" {
		return nil, &provider.SignatureVerificationError{Provider: provider.Stripe, Err: errNoWebhookSecret}
	}

	event, err := webhook.ConstructEventWithOptions(payload, header.Get(signatureHeader), p.config.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, &provider.SignatureVerificationError{Provider: provider.Stripe, Err: err}
	}

	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		return nil, nil
	}

	var sess stripe.CheckoutSession
	if event.Data == nil || json.Unmarshal(event.Data.Raw, &sess) != nil {
		return nil, &provider.InvalidWebhookError{Provider: provider.Stripe, Err: errors.New("checkout session object missing")}
	}

	return p.normalizeSession(ctx, &sess), nil
}

func (p *Provider) normalizeSession(ctx context.Context, sess *stripe.CheckoutSession) *provider.WebhookEvent {
	event := &provider.WebhookEvent{
		Provider:          provider.Stripe,
		Method:            provider.MethodStripe,
		Reference:         sess.ID,
		Total:             minorToMajor(sess.AmountTotal),
		Currency:          strings.ToUpper(string(sess.Currency)),
		Items:             p.sessionItems(ctx, sess),
		CustomerEmail:     sess.Metadata[metaCustomerEmail],
		CustomerInstagram: sess.Metadata[metaCustomerInstagram],
		CustomerPhone:     sess.Metadata[metaCustomerPhone],
	}

	// what the customer typed on the hosted page beats the storefront hint
	if sess.CustomerDetails != nil {
		if sess.CustomerDetails.Email != "" {
			event.CustomerEmail = sess.CustomerDetails.Email
		}
		if event.CustomerPhone == "" {
			event.CustomerPhone = sess.CustomerDetails.Phone
		}
	}
	if event.CustomerEmail == "" {
		event.CustomerEmail = sess.CustomerEmail
	}

	return event
}

func (p *Provider) sessionItems(ctx context.Context, sess *stripe.CheckoutSession) []provider.EventItem {
	var lineItems []*stripe.LineItem
	if sess.LineItems != nil && len(sess.LineItems.Data) > 0 {
		lineItems = sess.LineItems.Data
	} else if p.lineItems != nil && sess.ID != "" {
		var err error
		lineItems, err = p.lineItems(ctx, sess.ID)
		if err != nil {
			// the notification still goes out without an item list
			logger.WithProvider(provider.Stripe).AddField("session_id", sess.ID).Error("failed to load session line items", err)
			return []provider.EventItem{}
		}
	}

	items := make([]provider.EventItem, 0, len(lineItems))
	for _, li := range lineItems {
		if li == nil {
			continue
		}
		items = append(items, provider.EventItem{
			Name:     li.Description,
			Quantity: li.Quantity,
			Price:    minorToMajor(unitAmount(li)),
		})
	}

	return items
}

func unitAmount(li *stripe.LineItem) int64 {
	if li.Price != nil {
		return li.Price.UnitAmount
	}
	if li.Quantity > 0 {
		return li.AmountSubtotal / li.Quantity
	}
	return li.AmountSubtotal
}

func minorToMajor(amount int64) string {
	return decimal.New(amount, -2).StringFixed(2)
}
