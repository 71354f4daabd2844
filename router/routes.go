package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/mstgnz/paybridge/handler"
	"github.com/mstgnz/paybridge/infra/metrics"
	"github.com/mstgnz/paybridge/infra/middle"
	"github.com/mstgnz/paybridge/infra/response"
)

// Handlers groups the endpoint handlers mounted by Routes
type Handlers struct {
	Checkout *handler.CheckoutHandler
	Webhook  *handler.WebhookHandler
	Notify   *handler.NotifyHandler
	Health   *handler.HealthHandler
}

// Options carries the cross-cutting pieces of the route table
type Options struct {
	FrontendURL  string
	NotifyAPIKey string
	RateLimiter  *middle.RateLimiter
	// ActivityLog is nil when the OpenSearch sink is disabled
	ActivityLog middle.ActivityLogger
	Metrics     *metrics.GatewayMetrics
}

func Routes(r chi.Router, h Handlers, opts Options) {
	r.Use(middle.RequestIDMiddleware)
	r.Use(middle.PanicRecoveryMiddleware())
	r.Use(middle.SecurityHeadersMiddleware())
	r.Use(middle.RequestLoggingMiddleware)
	if opts.ActivityLog != nil {
		r.Use(middle.ActivityLogMiddleware(opts.ActivityLog))
	}

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{opts.FrontendURL},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300, // Preflight cache time (second)
	}))

	r.Get("/health", h.Health.CheckHealth)
	r.Handle("/metrics", opts.Metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if opts.RateLimiter != nil {
				r.Use(middle.RateLimitMiddleware(opts.RateLimiter))
			}
			r.Post("/checkout/{provider}", h.Checkout.CreateCheckout)
		})

		r.With(middle.AuthMiddleware(opts.NotifyAPIKey)).Post("/notify/test", h.Notify.SendTest)
	})

	// webhooks are never rate limited
	r.Post("/webhook/{provider}", h.Webhook.HandleWebhook)

	// Not Found
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotFound, "Not Found", nil)
	})
}
