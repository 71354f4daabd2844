// Package handler provides the HTTP handlers of the checkout gateway.
//
// # Checkout
//
// CheckoutHandler accepts a storefront cart and answers with the unified
// checkout contract regardless of the provider:
//
//	POST /api/checkout/stripe
//	{"line_items":[{"name":"Shine Serum","unit_amount":2450,"quantity":2,"currency":"eur"}]}
//
//	200 {"ok":true,"provider":"stripe","checkout_url":"https://checkout.stripe.com/..."}
//	400 {"ok":false,"error":"Cart is empty or invalid"}
//
// An optional customer_hint object (name, email, instagram, phone) is attached
// to the provider checkout as metadata.
//
// # Webhooks
//
// WebhookHandler reads the raw body (capped at 64 KiB) and hands it to the
// provider for verification. Signature failures are answered with 400 and a
// plain text reason, everything else with {"received":true}. Owner
// notification failures never change the answer.
//
// # Operations
//
// NotifyHandler sends a synthetic order through the dispatcher and is the only
// endpoint that reports delivery errors. HealthHandler lists the registered
// providers and the notification transport.
package handler
