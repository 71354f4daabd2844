// Package provider holds the checkout domain shared by every payment provider.
//
// # Core Concepts
//
//   - Cart and LineItem: the storefront cart, amounts in minor currency units
//   - CheckoutProvider: implemented by each provider, creates a checkout and verifies webhooks
//   - Registry: the configured providers keyed by route name
//   - CheckoutService: validates the cart, then makes exactly one provider call
//   - WebhookService: verifies a callback and forwards confirmed payments to a Notifier
//
// # Basic Usage
//
//	registry := provider.NewRegistry(stripeProvider, paypalProvider)
//	checkouts := provider.NewCheckoutService(registry, metrics)
//
//	checkout, err := checkouts.CreateCheckout(ctx, "stripe", rawLineItems, nil)
//	if err != nil {
//	    // InvalidCartError, ProviderCallError, MissingApprovalLinkError
//	    // or ErrUnsupportedProvider
//	}
//	redirect(checkout.CheckoutURL)
//
// # Errors
//
// Cart validation always runs before the provider lookup, so an invalid cart never
// reaches a remote API. Webhook verification distinguishes authentic callbacks that
// are not completed payments (nil event, nil error) from rejected signatures
// (SignatureVerificationError).
//
// # Adding a Provider
//
// A provider lives in its own sub-package, implements CheckoutProvider and exposes
// GetRequiredConfig so New can check its credentials with ValidateConfigFields.
package provider
