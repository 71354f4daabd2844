package provider

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mstgnz/paybridge/infra/validate"
)

const (
	DefaultStripeCurrency = "eur"
	DefaultPayPalCurrency = "EUR"
)

// lineItemInput mirrors LineItem with pointers so a missing number is told apart from zero
type lineItemInput struct {
	Name       string  `json:"name" validate:"required"`
	UnitAmount *int64  `json:"unit_amount" validate:"required,gte=0"`
	Quantity   *int64  `json:"quantity" validate:"required,gte=1"`
	Currency   *string `json:"currency" validate:"omitempty,iso4217_loose"`
}

var (
	cartValidator     *validate.Validator
	cartValidatorOnce sync.Once
)

func validator() *validate.Validator {
	cartValidatorOnce.Do(func() {
		cartValidator = validate.New()
	})
	return cartValidator
}

// ParseCart decodes the line_items value of a checkout request.
// Anything that is not a non-empty array of well formed items is an InvalidCartError.
func ParseCart(raw json.RawMessage) (Cart, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, newEmptyCartError()
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(trimmed, &elements); err != nil || len(elements) == 0 {
		return nil, newEmptyCartError()
	}

	cart := make(Cart, 0, len(elements))
	for i, element := range elements {
		prefix := fmt.Sprintf("line_items[%d]", i)

		var in lineItemInput
		if err := json.Unmarshal(element, &in); err != nil {
			return nil, decodeError(prefix, err)
		}

		if verrs := validator().Struct(in); verrs != nil {
			field, msg := verrs.First()
			return nil, &InvalidCartError{Field: prefix + "." + field, Reason: msg}
		}

		item := LineItem{
			Name:       in.Name,
			UnitAmount: *in.UnitAmount,
			Quantity:   *in.Quantity,
		}
		if in.Currency != nil {
			item.Currency = *in.Currency
		}
		cart = append(cart, item)
	}

	return cart, nil
}

func decodeError(prefix string, err error) *InvalidCartError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field == "" {
			return &InvalidCartError{Field: prefix, Reason: "must be an object"}
		}
		return &InvalidCartError{
			Field:  prefix + "." + typeErr.Field,
			Reason: fmt.Sprintf("must be a %s", friendlyType(typeErr.Type.Kind().String())),
		}
	}
	return &InvalidCartError{Field: prefix, Reason: "must be an object"}
}

func friendlyType(kind string) string {
	if strings.HasPrefix(kind, "int") {
		return "whole number"
	}
	return kind
}

// ValidateCart checks the cart invariants for callers that build a Cart directly
func ValidateCart(cart Cart) error {
	if len(cart) == 0 {
		return newEmptyCartError()
	}

	for i, item := range cart {
		prefix := fmt.Sprintf("line_items[%d]", i)

		switch {
		case strings.TrimSpace(item.Name) == "":
			return &InvalidCartError{Field: prefix + ".name", Reason: "name is a required field"}
		case item.UnitAmount < 0:
			return &InvalidCartError{Field: prefix + ".unit_amount", Reason: "unit_amount must be 0 or greater"}
		case item.Quantity < 1:
			return &InvalidCartError{Field: prefix + ".quantity", Reason: "quantity must be 1 or greater"}
		case item.Currency != "" && len(item.Currency) != 3:
			return &InvalidCartError{Field: prefix + ".currency", Reason: "currency must be a 3-letter currency code"}
		}
	}

	return nil
}
