// Package config provides typed configuration loaders for the application.
//
// Every loader follows the same precedence:
//  1. Viper configuration (from config file or LOCKSUM_ env vars)
//  2. Direct environment variables (PLAID_*, STRIPE_*, JWT_SECRET, ...)
//  3. Default values
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/locksum/locksum/internal/auth"
	"github.com/locksum/locksum/internal/billing"
	"github.com/locksum/locksum/internal/plaid"
)

// ServerConfig holds HTTP server and database settings.
type ServerConfig struct {
	ListenAddr   string
	DatabasePath string
	// FrontendBaseURL is allowed as a CORS origin and used for redirects.
	FrontendBaseURL string
}

// LoadServerConfig loads server settings with sensible local defaults.
func LoadServerConfig() ServerConfig {
	cfg := ServerConfig{
		ListenAddr:      ":8000",
		DatabasePath:    "locksum.db",
		FrontendBaseURL: "http://localhost:5173",
	}

	if v := viper.GetString("server.listen_addr"); v != "" {
		cfg.ListenAddr = v
	}
	if v := viper.GetString("server.database_path"); v != "" {
		cfg.DatabasePath = ExpandPath(v)
	}
	if v := viper.GetString("server.frontend_base_url"); v != "" {
		cfg.FrontendBaseURL = v
	}

	if v := os.Getenv("LOCKSUM_DATABASE_PATH"); v != "" {
		cfg.DatabasePath = ExpandPath(v)
	}
	if v := os.Getenv("FRONTEND_BASE_URL"); v != "" {
		cfg.FrontendBaseURL = v
	}

	return cfg
}

// LoadAuthConfig loads JWT signing settings and builds a token issuer.
func LoadAuthConfig() (*auth.TokenIssuer, error) {
	secret := viper.GetString("auth.jwt_secret")
	if secret == "" {
		secret = os.Getenv("JWT_SECRET")
	}

	ttl := viper.GetDuration("auth.token_ttl")
	if ttl <= 0 {
		ttl = auth.DefaultTokenTTL
	}

	return auth.NewTokenIssuer(secret, ttl)
}

// LoadPlaidConfig loads Plaid API configuration.
func LoadPlaidConfig() (*plaid.Config, error) {
	config := plaid.Config{
		Environment: "sandbox",
	}

	// Load from Viper first
	if v := viper.GetString("plaid.client_id"); v != "" {
		config.ClientID = v
	}
	if v := viper.GetString("plaid.secret"); v != "" {
		config.Secret = v
	}
	if v := viper.GetString("plaid.environment"); v != "" {
		config.Environment = v
	}
	if v := viper.GetString("plaid.redirect_uri"); v != "" {
		config.RedirectURI = v
	}

	// Override with direct environment variables if not set
	if config.ClientID == "" {
		config.ClientID = os.Getenv("PLAID_CLIENT_ID")
	}
	if config.Secret == "" {
		config.Secret = os.Getenv("PLAID_SECRET")
	}
	if v := os.Getenv("PLAID_ENV"); v != "" && viper.GetString("plaid.environment") == "" {
		config.Environment = v
	}
	if config.RedirectURI == "" {
		config.RedirectURI = os.Getenv("PLAID_REDIRECT_URI")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadStripeConfig loads Stripe billing configuration.
func LoadStripeConfig(frontendBaseURL string) (*billing.Config, error) {
	config := billing.Config{
		FrontendBaseURL: frontendBaseURL,
	}

	if v := viper.GetString("stripe.secret_key"); v != "" {
		config.SecretKey = v
	}
	if v := viper.GetString("stripe.webhook_secret"); v != "" {
		config.WebhookSecret = v
	}
	if v := viper.GetString("stripe.price_id_plus_monthly"); v != "" {
		config.PriceIDPlusMonthly = v
	}
	if v := viper.GetString("stripe.price_id_plus_yearly"); v != "" {
		config.PriceIDPlusYearly = v
	}
	if v := viper.GetString("stripe.price_id_pro_monthly"); v != "" {
		config.PriceIDProMonthly = v
	}
	if v := viper.GetString("stripe.price_id_pro_yearly"); v != "" {
		config.PriceIDProYearly = v
	}

	if config.SecretKey == "" {
		config.SecretKey = os.Getenv("STRIPE_SECRET")
	}
	if config.WebhookSecret == "" {
		config.WebhookSecret = os.Getenv("STRIPE_WEBHOOK_SECRET")
	}
	if config.PriceIDPlusMonthly == "" {
		config.PriceIDPlusMonthly = os.Getenv("STRIPE_PRICE_ID_PLUS_MONTHLY")
	}
	if config.PriceIDPlusYearly == "" {
		config.PriceIDPlusYearly = os.Getenv("STRIPE_PRICE_ID_PLUS_YEARLY")
	}
	if config.PriceIDProMonthly == "" {
		config.PriceIDProMonthly = os.Getenv("STRIPE_PRICE_ID_PRO_MONTHLY")
	}
	if config.PriceIDProYearly == "" {
		config.PriceIDProYearly = os.Getenv("STRIPE_PRICE_ID_PRO_YEARLY")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
