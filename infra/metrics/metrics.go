package metrics

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Webhook outcomes
const (
	WebhookNormalized = "normalized"
	WebhookIgnored    = "ignored"
	WebhookRejected   = "rejected"
	WebhookInvalid    = "invalid"
)

// Notification outcomes
const (
	NotificationSent   = "sent"
	NotificationFailed = "failed"
)

type Config struct {
	ServiceName string
	Environment string
}

// GatewayMetrics counts checkout, webhook and notification outcomes.
// A nil *GatewayMetrics is valid and records nothing.
type GatewayMetrics struct {
	registry           *prometheus.Registry
	checkoutRequests   *prometheus.CounterVec
	webhookEvents      *prometheus.CounterVec
	ownerNotifications *prometheus.CounterVec
}

// New registers the gateway collectors on a private registry
func New(cfg Config) *GatewayMetrics {
	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "paybridge"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}

	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	m := &GatewayMetrics{
		registry: prometheus.NewRegistry(),
		checkoutRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "checkout_requests_total",
				Help:        "Checkout requests by provider and outcome.",
				ConstLabels: constLabels,
			},
			[]string{"provider", "outcome"}, // ok | invalid_cart | provider_error | missing_link | unsupported | error
		),
		webhookEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "webhook_events_total",
				Help:        "Inbound provider callbacks by provider and outcome.",
				ConstLabels: constLabels,
			},
			[]string{"provider", "outcome"}, // normalized | ignored | rejected | invalid
		),
		ownerNotifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "owner_notifications_total",
				Help:        "Owner notification attempts by outcome.",
				ConstLabels: constLabels,
			},
			[]string{"outcome"}, // sent | failed
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.checkoutRequests,
		m.webhookEvents,
		m.ownerNotifications,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *GatewayMetrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests that gather samples directly
func (m *GatewayMetrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *GatewayMetrics) ObserveCheckout(provider, outcome string) {
	if m == nil {
		return
	}
	m.checkoutRequests.WithLabelValues(provider, outcome).Inc()
}

func (m *GatewayMetrics) ObserveWebhook(provider, outcome string) {
	if m == nil {
		return
	}
	m.webhookEvents.WithLabelValues(provider, outcome).Inc()
}

func (m *GatewayMetrics) ObserveNotification(outcome string) {
	if m == nil {
		return
	}
	m.ownerNotifications.WithLabelValues(outcome).Inc()
}
