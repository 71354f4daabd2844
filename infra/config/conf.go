package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

const (
	ModeSandbox = "sandbox"
	ModeLive    = "live"

	TransportSMTP = "smtp"
	TransportSNS  = "sns"
	TransportLog  = "log"
)

// Config is built once at start-up and passed by reference to every component
// that needs it. Nothing in it is mutated after Load returns.
type Config struct {
	Port        string
	Environment string
	FrontendURL string
	StoreName   string

	Stripe StripeConfig
	PayPal PayPalConfig
	Notify NotifyConfig

	RateLimitPerSecond float64
	RateLimitBurst     int

	OpenSearch OpenSearchConfig
}

// StripeConfig holds provider A credentials
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

// PayPalConfig holds provider B credentials
type PayPalConfig struct {
	ClientID     string
	ClientSecret string
	Mode         string
}

// NotifyConfig describes how the store owner is reached
type NotifyConfig struct {
	Transport   string
	OwnerEmail  string
	SMTPHost    string
	SMTPPort    int
	SMTPUser    string
	SMTPPass    string
	SMTPFrom    string
	SNSTopicARN string
	APIKey      string
}

// OpenSearchConfig controls the optional activity log sink
type OpenSearchConfig struct {
	Enabled  bool
	URL      string
	Username string
	Password string
}

// Load reads the process environment. Call godotenv before it if a .env file is used.
func Load() *Config {
	cfg := &Config{
		Port:        GetEnv("APP_PORT", GetEnv("PORT", "5000")),
		Environment: GetEnv("APP_ENV", "development"),
		FrontendURL: strings.TrimRight(GetEnv("FRONTEND_URL", "http://localhost:5173"), "/"),
		StoreName:   GetEnv("STORE_NAME", "IZ HAIR TREND"),
		Stripe: StripeConfig{
			SecretKey:     GetEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: GetEnv("STRIPE_WEBHOOK_SECRET", ""),
		},
		PayPal: PayPalConfig{
			ClientID:     GetEnv("PAYPAL_CLIENT_ID", ""),
			ClientSecret: GetEnv("PAYPAL_CLIENT_SECRET", ""),
			Mode:         strings.ToLower(GetEnv("PAYPAL_MODE", ModeSandbox)),
		},
		Notify: NotifyConfig{
			OwnerEmail:  GetEnv("OWNER_EMAIL", ""),
			SMTPHost:    GetEnv("SMTP_HOST", ""),
			SMTPPort:    GetIntEnv("SMTP_PORT", 587),
			SMTPUser:    GetEnv("SMTP_USER", ""),
			SMTPPass:    GetEnv("SMTP_PASS", ""),
			SNSTopicARN: GetEnv("SNS_TOPIC_ARN", ""),
			APIKey:      GetEnv("NOTIFY_API_KEY", ""),
		},
		RateLimitPerSecond: GetFloatEnv("RATE_LIMIT_PER_SECOND", 5),
		RateLimitBurst:     GetIntEnv("RATE_LIMIT_BURST", 20),
		OpenSearch: OpenSearchConfig{
			Enabled:  GetBoolEnv("ENABLE_OPENSEARCH_LOGGING", false),
			URL:      GetEnv("OPENSEARCH_URL", "http://localhost:9200"),
			Username: GetEnv("OPENSEARCH_USER", ""),
			Password: GetEnv("OPENSEARCH_PASSWORD", ""),
		},
	}

	cfg.Notify.SMTPFrom = GetEnv("SMTP_FROM", cfg.Notify.SMTPUser)

	defaultTransport := TransportLog
	if cfg.Notify.SMTPHost != "" {
		defaultTransport = TransportSMTP
	}
	cfg.Notify.Transport = strings.ToLower(GetEnv("NOTIFY_TRANSPORT", defaultTransport))

	return cfg
}

// Validate reports configuration that makes the gateway unusable
func (c *Config) Validate() error {
	if !c.StripeEnabled() && !c.PayPalEnabled() {
		return errors.New("no payment provider configured: set STRIPE_SECRET_KEY or PAYPAL_CLIENT_ID/PAYPAL_CLIENT_SECRET")
	}

	if c.PayPal.Mode != ModeSandbox && c.PayPal.Mode != ModeLive {
		return errors.New("PAYPAL_MODE must be 'sandbox' or 'live'")
	}

	switch c.Notify.Transport {
	case TransportSMTP:
		if c.Notify.SMTPHost == "" || c.Notify.OwnerEmail == "" {
			return errors.New("smtp transport requires SMTP_HOST and OWNER_EMAIL")
		}
	case TransportSNS:
		if c.Notify.SNSTopicARN == "" {
			return errors.New("sns transport requires SNS_TOPIC_ARN")
		}
	case TransportLog:
	default:
		return errors.New("NOTIFY_TRANSPORT must be one of smtp, sns, log")
	}

	return nil
}

// StripeEnabled reports whether provider A has credentials
func (c *Config) StripeEnabled() bool {
	return c.Stripe.SecretKey != ""
}

// PayPalEnabled reports whether provider B has credentials
func (c *Config) PayPalEnabled() bool {
	return c.PayPal.ClientID != "" && c.PayPal.ClientSecret != ""
}

func (c *Config) SuccessURL() string {
	return c.FrontendURL + "/success"
}

func (c *Config) CancelURL() string {
	return c.FrontendURL + "/cancel"
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// GetEnv returns the value of an environment variable or a default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetBoolEnv returns the boolean value of an environment variable or a default value
func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// GetIntEnv returns the integer value of an environment variable or a default value
func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// GetFloatEnv returns the float value of an environment variable or a default value
func GetFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
