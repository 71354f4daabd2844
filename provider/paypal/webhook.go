package paypal

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/mstgnz/paybridge/infra/logger"
	"github.com/mstgnz/paybridge/provider"
)

const eventSaleCompleted = "PAYMENT.SALE.COMPLETED"

type webhookEvent struct {
	ID        string        `json:"id"`
	EventType string        `json:"event_type"`
	Resource  *saleResource `json:"resource"`
}

type saleResource struct {
	ID            string    `json:"id"`
	ParentPayment string    `json:"parent_payment"`
	Amount        amount    `json:"amount"`
	Payer         *payerRef `json:"payer"`
	ItemList      *itemList `json:"item_list"`
}

type payerRef struct {
	PayerInfo struct {
		Email string `json:"email"`
	} `json:"payer_info"`
}

// VerifyWebhook parses a PayPal callback. The body is not authenticated against PayPal,
// any well formed PAYMENT.SALE.COMPLETED payload is treated as a confirmed sale.
// TODO: call /v1/notifications/verify-webhook-signature once a webhook id is configured.
func (p *Provider) VerifyWebhook(_ context.Context, payload []byte, _ http.Header) (*provider.WebhookEvent, error) {
	var event webhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, &provider.InvalidWebhookError{Provider: provider.PayPal, Err: err}
	}

	if event.EventType != eventSaleCompleted || event.Resource == nil {
		return nil, nil
	}

	return normalizeSale(event.Resource), nil
}

func normalizeSale(sale *saleResource) *provider.WebhookEvent {
	out := &provider.WebhookEvent{
		Provider:  provider.PayPal,
		Method:    provider.MethodPayPal,
		Reference: sale.ID,
		Total:     sale.Amount.Total,
		Currency:  strings.ToUpper(sale.Amount.Currency),
		Items:     []provider.EventItem{},
	}

	if sale.Payer != nil {
		out.CustomerEmail = sale.Payer.PayerInfo.Email
	}

	if sale.ItemList != nil {
		for _, item := range sale.ItemList.Items {
			qty, err := strconv.ParseInt(item.Quantity, 10, 64)
			price := item.Price
			if err != nil {
				// one unit with no price renders as "not provided" instead of a zero line
				logger.WithProvider(provider.PayPal).
					AddField("reference", sale.ID).
					AddField("item", item.Name).
					Warn("sale item quantity unreadable")
				qty, price = 1, ""
			}
			out.Items = append(out.Items, provider.EventItem{
				Name:     item.Name,
				Quantity: qty,
				Price:    price,
			})
		}
	}

	return out
}
