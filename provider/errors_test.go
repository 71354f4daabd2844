package provider

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	cause := errors.New("boom")

	assert.Equal(t, "No approval_url from PayPal", (&MissingApprovalLinkError{Provider: PayPal, Rel: "approval_url"}).Error())
	assert.Equal(t, "Webhook Error: boom", (&SignatureVerificationError{Provider: Stripe, Err: cause}).Error())
	assert.Equal(t, "Webhook Error: signature verification failed", (&SignatureVerificationError{}).Error())
	assert.Equal(t, "owner notification via smtp failed: boom", (&NotificationDeliveryError{Transport: "smtp", Err: cause}).Error())
	assert.Equal(t, "paypal webhook: invalid payload: boom", (&InvalidWebhookError{Provider: PayPal, Err: cause}).Error())
}

func TestProviderCallError(t *testing.T) {
	cause := errors.New("connection refused")

	assert.Equal(t, "Invalid request", (&ProviderCallError{Provider: PayPal, Message: "Invalid request", Err: cause}).Error())
	assert.Equal(t, "connection refused", (&ProviderCallError{Provider: PayPal, Err: cause}).Error())
	assert.Equal(t, "stripe request failed", (&ProviderCallError{Provider: Stripe}).Error())
	assert.ErrorIs(t, &ProviderCallError{Err: cause}, cause)
}
