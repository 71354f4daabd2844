package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/mstgnz/paybridge/handler"
	"github.com/mstgnz/paybridge/infra/config"
	"github.com/mstgnz/paybridge/infra/logger"
	"github.com/mstgnz/paybridge/infra/metrics"
	"github.com/mstgnz/paybridge/infra/middle"
	"github.com/mstgnz/paybridge/infra/opensearch"
	"github.com/mstgnz/paybridge/notify"
	"github.com/mstgnz/paybridge/provider"
	"github.com/mstgnz/paybridge/provider/paypal"
	"github.com/mstgnz/paybridge/provider/stripe"
	"github.com/mstgnz/paybridge/router"
)

const (
	serviceName     = "paybridge"
	version         = "1.0.0"
	shutdownTimeout = 20 * time.Second
)

func main() {
	// Load Env, a missing .env is fine
	_ = godotenv.Load(".env")

	cfg := config.Load()

	if err := logger.InitGlobalLogger(logger.SystemLoggerConfig{
		Service:     serviceName,
		Version:     version,
		Environment: cfg.Environment,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "logger init: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Fatal("Server stopped with error", err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	m := metrics.New(metrics.Config{ServiceName: serviceName, Environment: cfg.Environment})

	registry, err := buildProviders(cfg)
	if err != nil {
		return err
	}

	sender, err := notify.NewSender(ctx, cfg.Notify)
	if err != nil {
		return err
	}

	dispatcher, err := notify.NewDispatcher(sender, notify.Options{
		StoreName:  cfg.StoreName,
		OwnerEmail: cfg.Notify.OwnerEmail,
	}, m)
	if err != nil {
		return err
	}

	var activityLog middle.ActivityLogger
	if cfg.OpenSearch.Enabled {
		osClient, err := opensearch.NewClient(ctx, cfg.OpenSearch)
		if err != nil {
			logger.Warn("OpenSearch unavailable, continuing without activity logging", logger.LogContext{
				Fields: map[string]any{"error": err.Error()},
			})
		} else {
			activityLog = opensearch.NewLogger(osClient)
			logger.Info("OpenSearch activity logging enabled")
		}
	}

	limiter := middle.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)
	defer limiter.Stop()

	r := chi.NewRouter()
	router.Routes(r, router.Handlers{
		Checkout: handler.NewCheckoutHandler(provider.NewCheckoutService(registry, m)),
		Webhook:  handler.NewWebhookHandler(provider.NewWebhookService(registry, dispatcher, m)),
		Notify:   handler.NewNotifyHandler(dispatcher),
		Health:   handler.NewHealthHandler(registry.Names, dispatcher.Transport()),
	}, router.Options{
		FrontendURL:  cfg.FrontendURL,
		NotifyAPIKey: cfg.Notify.APIKey,
		RateLimiter:  limiter,
		ActivityLog:  activityLog,
		Metrics:      m,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	logger.Info("Payments server running", logger.LogContext{
		Fields: map[string]any{
			"port":             cfg.Port,
			"providers":        registry.Names(),
			"notify_transport": dispatcher.Transport(),
		},
	})

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

// buildProviders registers every provider that has credentials
func buildProviders(cfg *config.Config) (*provider.Registry, error) {
	registry := provider.NewRegistry()

	if cfg.StripeEnabled() {
		p, err := stripe.New(stripe.Config{
			SecretKey:     cfg.Stripe.SecretKey,
			WebhookSecret: cfg.Stripe.WebhookSecret,
			SuccessURL:    cfg.SuccessURL(),
			CancelURL:     cfg.CancelURL(),
		})
		if err != nil {
			return nil, fmt.Errorf("stripe: %w", err)
		}
		registry.Register(p)
	}

	if cfg.PayPalEnabled() {
		p, err := paypal.New(paypal.Config{
			ClientID:     cfg.PayPal.ClientID,
			ClientSecret: cfg.PayPal.ClientSecret,
			Mode:         cfg.PayPal.Mode,
			SuccessURL:   cfg.SuccessURL(),
			CancelURL:    cfg.CancelURL(),
			StoreName:    cfg.StoreName,
		})
		if err != nil {
			return nil, fmt.Errorf("paypal: %w", err)
		}
		registry.Register(p)
	}

	for _, name := range registry.Names() {
		logger.Info("Registered payment provider", logger.LogContext{Provider: name})
	}

	return registry, nil
}
