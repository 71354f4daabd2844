package provider

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedProvider = errors.New("unsupported payment provider")
	ErrEmptyCart           = errors.New("Cart is empty or invalid")
)

// InvalidCartError reports a malformed or empty cart. Always a client error.
type InvalidCartError struct {
	Field  string
	Reason string
}

func (e *InvalidCartError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

func newEmptyCartError() *InvalidCartError {
	return &InvalidCartError{Reason: ErrEmptyCart.Error()}
}

// ProviderCallError wraps a rejection from the remote provider. Message is shown to the client.
type ProviderCallError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderCallError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Provider + " request failed"
}

func (e *ProviderCallError) Unwrap() error {
	return e.Err
}

// MissingApprovalLinkError means the provider accepted the payment but returned no redirect
type MissingApprovalLinkError struct {
	Provider string
	Rel      string
}

func (e *MissingApprovalLinkError) Error() string {
	return fmt.Sprintf("No %s from %s", e.Rel, displayName(e.Provider))
}

// SignatureVerificationError is returned when a webhook body does not match its signature
type SignatureVerificationError struct {
	Provider string
	Err      error
}

func (e *SignatureVerificationError) Error() string {
	if e.Err == nil {
		return "Webhook Error: signature verification failed"
	}
	return "Webhook Error: " + e.Err.Error()
}

func (e *SignatureVerificationError) Unwrap() error {
	return e.Err
}

// InvalidWebhookError is an authentic or unauthenticated callback whose body could not be read
type InvalidWebhookError struct {
	Provider string
	Err      error
}

func (e *InvalidWebhookError) Error() string {
	return fmt.Sprintf("%s webhook: invalid payload: %v", e.Provider, e.Err)
}

func (e *InvalidWebhookError) Unwrap() error {
	return e.Err
}

// NotificationDeliveryError is logged by the dispatcher and never reaches a webhook response
type NotificationDeliveryError struct {
	Transport string
	Err       error
}

func (e *NotificationDeliveryError) Error() string {
	return fmt.Sprintf("owner notification via %s failed: %v", e.Transport, e.Err)
}

func (e *NotificationDeliveryError) Unwrap() error {
	return e.Err
}

func displayName(name string) string {
	switch name {
	case Stripe:
		return string(MethodStripe)
	case PayPal:
		return string(MethodPayPal)
	default:
		return name
	}
}
