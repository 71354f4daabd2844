package stripe

import (
	"strings"

	"github.com/mstgnz/paybridge/provider"
	"github.com/stripe/stripe-go/v82"
)

// NormalizeCart turns a cart into session line items. Amounts stay in minor units.
func NormalizeCart(cart provider.Cart) ([]*stripe.CheckoutSessionLineItemParams, error) {
	if err := provider.ValidateCart(cart); err != nil {
		return nil, err
	}

	items := make([]*stripe.CheckoutSessionLineItemParams, 0, len(cart))
	for _, item := range cart {
		currency := strings.ToLower(item.Currency)
		if currency == "" {
			currency = provider.DefaultStripeCurrency
		}

		items = append(items, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
				UnitAmount: stripe.Int64(item.UnitAmount),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	return items, nil
}
