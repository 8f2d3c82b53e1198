// Package billing integrates with Stripe for subscription checkout and
// webhook-driven plan updates.
package billing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"github.com/locksum/locksum/internal/common"
	"github.com/locksum/locksum/internal/model"
	"github.com/locksum/locksum/internal/service"
)

// Config holds Stripe API configuration.
type Config struct {
	SecretKey     string
	WebhookSecret string

	PriceIDPlusMonthly string
	PriceIDPlusYearly  string
	PriceIDProMonthly  string
	PriceIDProYearly   string

	// FrontendBaseURL is where checkout redirects land.
	FrontendBaseURL string
}

// Validate ensures all required fields are present.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("%w: stripe secret key", common.ErrMissingConfig)
	}
	if c.FrontendBaseURL == "" {
		return fmt.Errorf("%w: frontend base URL", common.ErrMissingConfig)
	}
	return nil
}

// priceFor maps a plan and billing interval to a configured Stripe price ID.
// Returns the empty string when the combination is not sold.
func (c *Config) priceFor(plan model.Plan, interval string) string {
	switch {
	case plan == model.PlanPlus && interval == "monthly":
		return c.PriceIDPlusMonthly
	case plan == model.PlanPlus && interval == "yearly":
		return c.PriceIDPlusYearly
	case plan == model.PlanPro && interval == "monthly":
		return c.PriceIDProMonthly
	case plan == model.PlanPro && interval == "yearly":
		return c.PriceIDProYearly
	}
	return ""
}

// planForPrice maps a Stripe price ID back to the plan it sells.
// Unknown prices map to the free plan.
func (c *Config) planForPrice(priceID string) model.Plan {
	switch priceID {
	case c.PriceIDPlusMonthly, c.PriceIDPlusYearly:
		return model.PlanPlus
	case c.PriceIDProMonthly, c.PriceIDProYearly:
		return model.PlanPro
	}
	return model.PlanFree
}

// Gateway is the billing surface the HTTP layer depends on.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, user *model.User, plan model.Plan, interval string) (string, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

// Client implements Gateway against the Stripe API.
type Client struct {
	api     *client.API
	storage service.Storage
	logger  *slog.Logger
	cfg     Config
}

// NewClient creates a Stripe billing client.
func NewClient(cfg Config, storage service.Storage) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if storage == nil {
		return nil, fmt.Errorf("storage cannot be nil")
	}

	api := &client.API{}
	api.Init(cfg.SecretKey, nil)

	return &Client{
		api:     api,
		storage: storage,
		logger:  slog.Default().With("component", "billing"),
		cfg:     cfg,
	}, nil
}

// CreateCheckoutSession creates a subscription checkout session for the user,
// creating a Stripe customer first if they don't have one yet.
func (c *Client) CreateCheckoutSession(ctx context.Context, user *model.User, plan model.Plan, interval string) (string, error) {
	priceID := c.cfg.priceFor(plan, interval)
	if priceID == "" {
		return "", common.NewUserError("Invalid plan or interval",
			fmt.Errorf("no price for plan %q interval %q", plan, interval))
	}

	customerID := user.StripeCustomerID
	if customerID == "" {
		params := &stripe.CustomerParams{
			Email: stripe.String(user.Email),
		}
		params.Context = ctx
		params.AddMetadata("user_id", fmt.Sprintf("%d", user.ID))

		customer, err := c.api.Customers.New(params)
		if err != nil {
			return "", fmt.Errorf("failed to create stripe customer: %w", err)
		}
		customerID = customer.ID

		if err := c.storage.UpdateUserBilling(ctx, user.ID, customerID, user.SubscriptionStatus, user.Plan); err != nil {
			return "", fmt.Errorf("failed to save stripe customer ID: %w", err)
		}
		user.StripeCustomerID = customerID
	}

	params := &stripe.CheckoutSessionParams{
		Customer:   stripe.String(customerID),
		SuccessURL: stripe.String(c.cfg.FrontendBaseURL + "/billing/success"),
		CancelURL:  stripe.String(c.cfg.FrontendBaseURL + "/billing/cancel"),
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx

	session, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	c.logger.Info("Created checkout session",
		"user_id", user.ID,
		"plan", plan,
		"interval", interval)

	return session.URL, nil
}

// Ensure Client implements Gateway interface.
var _ Gateway = (*Client)(nil)
