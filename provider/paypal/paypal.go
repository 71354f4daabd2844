package paypal

import (
	"context"
	"strings"
	"time"

	"github.com/mstgnz/paybridge/provider"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	apiSandboxURL    = "https://api-m.sandbox.paypal.com"
	apiProductionURL = "https://api-m.paypal.com"

	endpointToken   = "/v1/oauth2/token"
	endpointPayment = "/v1/payments/payment"

	relApproval = "approval_url"

	defaultTimeout = 30 * time.Second
)

// Config holds what the PayPal provider needs at start-up
type Config struct {
	ClientID     string
	ClientSecret string
	Mode         string
	SuccessURL   string
	CancelURL    string
	StoreName    string
	// BaseURL overrides the mode derived API host
	BaseURL string
}

// Provider creates payments with an approval link and reads sale webhooks
type Provider struct {
	config Config
	client *provider.ProviderHTTPClient
}

// GetRequiredConfig returns the credentials checked by New
func GetRequiredConfig() []provider.ConfigField {
	return []provider.ConfigField{
		{Key: "clientId", Required: true, Description: "REST app client id", MinLength: 8},
		{Key: "clientSecret", Required: true, Description: "REST app secret", MinLength: 8},
		{Key: "mode", Required: true, Description: "API environment", Example: "sandbox", OneOf: []string{"sandbox", "live"}},
		{Key: "successURL", Required: true, Description: "Redirect after approval"},
		{Key: "cancelURL", Required: true, Description: "Redirect after cancel"},
	}
}

// New creates a provider whose HTTP client fetches and refreshes OAuth2 tokens on its own
func New(cfg Config) (*Provider, error) {
	cfg.Mode = strings.ToLower(cfg.Mode)
	if cfg.Mode == "" {
		cfg.Mode = "sandbox"
	}

	err := provider.ValidateConfigFields(provider.PayPal, map[string]string{
		"clientId":     cfg.ClientID,
		"clientSecret": cfg.ClientSecret,
		"mode":         cfg.Mode,
		"successURL":   cfg.SuccessURL,
		"cancelURL":    cfg.CancelURL,
	}, GetRequiredConfig())
	if err != nil {
		return nil, err
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = apiSandboxURL
		if cfg.Mode == "live" {
			cfg.BaseURL = apiProductionURL
		}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	credentials := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.BaseURL + endpointToken,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	// tokens outlive any single request
	httpClient := credentials.Client(context.Background())

	return &Provider{
		config: cfg,
		client: provider.NewProviderHTTPClient(provider.CreateHTTPClientConfig(cfg.BaseURL, httpClient, defaultTimeout)),
	}, nil
}

func (p *Provider) Name() string {
	return provider.PayPal
}
