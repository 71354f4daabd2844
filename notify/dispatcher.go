package notify

import (
	"context"
	"fmt"
	"text/template"

	"github.com/mstgnz/paybridge/infra/logger"
	"github.com/mstgnz/paybridge/infra/metrics"
	"github.com/mstgnz/paybridge/provider"
)

// Sender delivers a rendered message over one transport
type Sender interface {
	Send(ctx context.Context, msg *Message) error
	Transport() string
}

// Options for NewDispatcher
type Options struct {
	StoreName  string
	OwnerEmail string
}

// Dispatcher turns payment events into owner notifications
type Dispatcher struct {
	sender  Sender
	opts    Options
	tmpl    *template.Template
	metrics *metrics.GatewayMetrics
}

var _ provider.Notifier = (*Dispatcher)(nil)

func NewDispatcher(sender Sender, opts Options, m *metrics.GatewayMetrics) (*Dispatcher, error) {
	if sender == nil {
		return nil, fmt.Errorf("notify: sender is required")
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("notify: parse templates: %w", err)
	}

	return &Dispatcher{
		sender:  sender,
		opts:    opts,
		tmpl:    tmpl,
		metrics: m,
	}, nil
}

// Transport names the configured delivery channel
func (d *Dispatcher) Transport() string {
	return d.sender.Transport()
}

// NotifyOwner delivers best-effort. Failures are logged and counted, never returned.
func (d *Dispatcher) NotifyOwner(ctx context.Context, event *provider.WebhookEvent) {
	if event == nil {
		logger.Warn("Owner notification skipped: no event")
		return
	}
	if err := d.Send(ctx, event); err != nil {
		logger.Error("Owner notification failed", err, logger.LogContext{
			Provider: event.Provider,
			Fields: map[string]any{
				"reference": event.Reference,
				"transport": d.sender.Transport(),
			},
		})
	}
}

// Send renders and delivers one notification, returning the delivery error
func (d *Dispatcher) Send(ctx context.Context, event *provider.WebhookEvent) error {
	if event == nil {
		return fmt.Errorf("notify: nil event")
	}

	msg, err := render(d.tmpl, d.opts.OwnerEmail, d.opts.StoreName, event)
	if err != nil {
		d.metrics.ObserveNotification(metrics.NotificationFailed)
		return fmt.Errorf("notify: render message: %w", err)
	}

	if err := d.sender.Send(ctx, msg); err != nil {
		d.metrics.ObserveNotification(metrics.NotificationFailed)
		return &provider.NotificationDeliveryError{Transport: d.sender.Transport(), Err: err}
	}

	d.metrics.ObserveNotification(metrics.NotificationSent)
	logger.Info("Owner notified", logger.LogContext{
		Provider: event.Provider,
		Fields: map[string]any{
			"reference": event.Reference,
			"transport": d.sender.Transport(),
			"total":     event.Total,
		},
	})

	return nil
}

// SampleEvent is the synthetic order used by the manual trigger
func SampleEvent() *provider.WebhookEvent {
	return &provider.WebhookEvent{
		Provider:  provider.PayPal,
		Method:    provider.MethodPayPal,
		Reference: "TEST-ORDER",
		Total:     "49.00",
		Currency:  "EUR",
		Items: []provider.EventItem{
			{Name: "Shine Serum", Quantity: 2, Price: "24.50"},
		},
		CustomerEmail: "test@example.com",
	}
}
