package paypal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/mstgnz/paybridge/provider"
)

type payment struct {
	ID           string        `json:"id,omitempty"`
	Intent       string        `json:"intent"`
	State        string        `json:"state,omitempty"`
	Payer        payer         `json:"payer"`
	RedirectURLs *redirectURLs `json:"redirect_urls,omitempty"`
	Transactions []transaction `json:"transactions"`
	Links        []link        `json:"links,omitempty"`
}

type payer struct {
	PaymentMethod string `json:"payment_method"`
}

type redirectURLs struct {
	ReturnURL string `json:"return_url"`
	CancelURL string `json:"cancel_url"`
}

type transaction struct {
	ItemList    itemList `json:"item_list"`
	Amount      amount   `json:"amount"`
	Description string   `json:"description,omitempty"`
	Custom      string   `json:"custom,omitempty"`
}

type itemList struct {
	Items []Item `json:"items"`
}

type amount struct {
	Currency string `json:"currency"`
	Total    string `json:"total"`
}

type link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method,omitempty"`
}

type apiError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	DebugID string `json:"debug_id"`
}

// CreateCheckout sends one create-payment call, waits for it and returns the approval link
func (p *Provider) CreateCheckout(ctx context.Context, cart provider.Cart, hint provider.CustomerHint) (string, error) {
	ppCart, err := NormalizeCart(cart)
	if err != nil {
		return "", err
	}

	created, err := p.createPayment(ctx, p.buildPayment(ppCart, hint)).Await()
	if err != nil {
		return "", err
	}

	return approvalURL(created)
}

func (p *Provider) buildPayment(cart *Cart, hint provider.CustomerHint) *payment {
	custom, _ := json.Marshal(hint)

	return &payment{
		Intent: "sale",
		Payer:  payer{PaymentMethod: "paypal"},
		RedirectURLs: &redirectURLs{
			ReturnURL: p.config.SuccessURL,
			CancelURL: p.config.CancelURL,
		},
		Transactions: []transaction{
			{
				ItemList:    itemList{Items: cart.Items},
				Amount:      amount{Currency: cart.Currency, Total: cart.Total},
				Description: p.config.StoreName + " order",
				Custom:      string(custom),
			},
		},
	}
}

type paymentResult struct {
	payment *payment
	err     error
}

// pendingPayment resolves once the remote create call has finished
type pendingPayment <-chan paymentResult

// Await blocks until the call completes
func (f pendingPayment) Await() (*payment, error) {
	res := <-f
	return res.payment, res.err
}

// createPayment starts the remote call. A checkout that has begun is not cancelled
// when the storefront client goes away.
func (p *Provider) createPayment(ctx context.Context, body *payment) pendingPayment {
	done := make(chan paymentResult, 1)
	callCtx := context.WithoutCancel(ctx)

	go func() {
		resp, err := p.client.SendJSON(callCtx, &provider.HTTPRequest{
			Method:   http.MethodPost,
			Endpoint: endpointPayment,
			Headers:  map[string]string{"PayPal-Request-Id": uuid.NewString()},
			Body:     body,
		})
		if err != nil {
			done <- paymentResult{err: callError(resp, err)}
			return
		}

		var created payment
		if err := p.client.ParseJSONResponse(resp, &created); err != nil {
			done <- paymentResult{err: &provider.ProviderCallError{Provider: provider.PayPal, StatusCode: resp.StatusCode, Err: err}}
			return
		}

		done <- paymentResult{payment: &created}
	}()

	return done
}

// callError prefers the API message, then its error name, then the transport error text
func callError(resp *provider.HTTPResponse, err error) error {
	callErr := &provider.ProviderCallError{Provider: provider.PayPal, Err: err}

	var statusErr *provider.HTTPStatusError
	if !errors.As(err, &statusErr) || resp == nil {
		return callErr
	}

	callErr.StatusCode = statusErr.StatusCode

	var body apiError
	if json.Unmarshal(resp.Body, &body) == nil {
		switch {
		case body.Message != "":
			callErr.Message = body.Message
		case body.Name != "":
			callErr.Message = body.Name
		}
	}

	return callErr
}

func approvalURL(created *payment) (string, error) {
	for _, l := range created.Links {
		if l.Rel == relApproval && l.Href != "" {
			return l.Href, nil
		}
	}

	return "", &provider.MissingApprovalLinkError{Provider: provider.PayPal, Rel: relApproval}
}
