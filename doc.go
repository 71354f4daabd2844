// Package paybridge is a checkout gateway between a storefront and two payment
// providers with different integration models.
//
// # Overview
//
// The storefront posts a cart, the gateway turns it into a provider checkout and
// answers with a redirect URL. Later the provider calls back with a payment
// confirmation, the gateway verifies it and notifies the store owner.
//
// # Architecture
//
// The payment flow follows this pattern:
//
//	┌─────────────────┐    ┌─────────────────┐    ┌─────────────────┐
//	│                 │    │                 │    │                 │
//	│   Storefront    │◄──►│    PayBridge    │◄──►│  Stripe/PayPal  │
//	│                 │    │                 │    │                 │
//	└─────────────────┘    └────────┬────────┘    └─────────────────┘
//	                                │
//	                                ▼
//	                       ┌─────────────────┐
//	                       │  Store owner    │
//	                       │  (smtp/sns/log) │
//	                       └─────────────────┘
//
// # Supported Providers
//
//   - Stripe: hosted Checkout Session, signed webhooks
//   - PayPal: REST payment with an approval link, unsigned webhooks
//
// A provider is registered only when its credentials are configured.
//
// # Endpoints
//
//	POST /api/checkout/{provider}   create a checkout, returns {ok, provider, checkout_url}
//	POST /webhook/{provider}        provider callbacks, returns {received:true}
//	POST /api/notify/test           send a synthetic owner notification (bearer NOTIFY_API_KEY)
//	GET  /health                    registered providers and notification transport
//	GET  /metrics                   Prometheus counters
//
// # Configuration
//
// Configuration is read from the environment, optionally seeded from a .env file:
//
//	APP_PORT=5000
//	FRONTEND_URL=http://localhost:5173
//	STRIPE_SECRET_KEY=sk_test_...
//	STRIPE_WEBHOOK_SECRET=whsec_...
//	PAYPAL_CLIENT_ID=...
//	PAYPAL_CLIENT_SECRET=...
//	PAYPAL_MODE=sandbox
//	SMTP_HOST=smtp.example.com
//	OWNER_EMAIL=owner@example.com
//
// See infra/config for the full list.
package paybridge
