package paypal

import (
	"strconv"
	"strings"

	"github.com/mstgnz/paybridge/provider"
	"github.com/shopspring/decimal"
)

// Item is one entry of a transaction item_list
type Item struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
}

// Cart is the PayPal view of a cart: items plus an aggregate amount
type Cart struct {
	Items    []Item
	Currency string
	Total    string
}

// NormalizeCart converts minor units to two-decimal strings and sums price times quantity.
// The cart currency is the first item's currency; mixed-currency carts are not rejected.
func NormalizeCart(cart provider.Cart) (*Cart, error) {
	if err := provider.ValidateCart(cart); err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(cart))
	total := decimal.Zero

	for _, item := range cart {
		currency := strings.ToUpper(item.Currency)
		if currency == "" {
			currency = provider.DefaultPayPalCurrency
		}

		price := decimal.New(item.UnitAmount, -2).Round(2)
		total = total.Add(price.Mul(decimal.NewFromInt(item.Quantity)))

		items = append(items, Item{
			Name:     item.Name,
			Currency: currency,
			Price:    price.StringFixed(2),
			Quantity: strconv.FormatInt(item.Quantity, 10),
		})
	}

	return &Cart{
		Items:    items,
		Currency: items[0].Currency,
		Total:    total.StringFixed(2),
	}, nil
}
