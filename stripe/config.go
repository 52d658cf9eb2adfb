package stripe

import (
	"fmt"
	"os"
)

// Config holds the complete Stripe configuration.
type Config struct {
	APIKey        string `yaml:"api_key" json:"api_key"`
	WebhookSecret string `yaml:"webhook_secret" json:"webhook_secret"`
	// WebAppURL is the frontend base URL used to build the checkout
	// success and cancel redirect targets.
	WebAppURL string `yaml:"web_app_url" json:"web_app_url"`
	// Currency is the ISO currency code used for one-time inline prices.
	Currency string              `yaml:"currency" json:"currency"`
	Tiers    map[Tier]TierConfig `yaml:"tiers" json:"tiers"`
}

// NewConfig creates a new Stripe configuration from environment variables.
func NewConfig() (*Config, error) {
	apiKey := os.Getenv("HELPINGHUB_STRIPEAPISECRET")
	if apiKey == "" {
		return nil, fmt.Errorf("HELPINGHUB_STRIPEAPISECRET environment variable is required")
	}

	webhookSecret := os.Getenv("HELPINGHUB_STRIPEWEBHOOKSECRET")
	if webhookSecret == "" {
		return nil, fmt.Errorf("HELPINGHUB_STRIPEWEBHOOKSECRET environment variable is required")
	}

	return &Config{
		APIKey:        apiKey,
		WebhookSecret: webhookSecret,
		WebAppURL:     getEnvOrDefault("HELPINGHUB_WEBAPPURL", "http://localhost:3000"),
		Currency:      getEnvOrDefault("HELPINGHUB_CURRENCY", DefaultCurrency),
		Tiers:         DefaultTiers(),
	}, nil
}

// getEnvOrDefault returns the environment variable value or a default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
