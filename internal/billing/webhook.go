package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/locksum/locksum/internal/common"
)

// HandleWebhook verifies and applies a Stripe webhook event. Subscription
// lifecycle events update the user's plan and subscription status; all other
// event types are acknowledged and ignored.
func (c *Client) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	var event stripe.Event

	if c.cfg.WebhookSecret != "" {
		verified, err := webhook.ConstructEvent(payload, signature, c.cfg.WebhookSecret)
		if err != nil {
			return common.NewUserError("Invalid signature", err)
		}
		event = verified
	} else {
		// No webhook secret configured (local development); trust the payload.
		if err := json.Unmarshal(payload, &event); err != nil {
			return common.NewUserError("Invalid payload", err)
		}
	}

	if !strings.HasPrefix(string(event.Type), "customer.subscription.") {
		c.logger.Debug("Ignoring webhook event", "type", event.Type)
		return nil
	}

	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("failed to parse subscription event: %w", err)
	}
	if sub.Customer == nil || sub.Customer.ID == "" {
		return fmt.Errorf("subscription event missing customer")
	}

	status := string(sub.Status)
	priceID := ""
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		priceID = sub.Items.Data[0].Price.ID
	}
	plan := c.cfg.planForPrice(priceID)

	user, err := c.storage.GetUserByStripeCustomerID(ctx, sub.Customer.ID)
	if err != nil {
		// Webhooks can arrive for customers we never created (e.g. a shared
		// Stripe account); acknowledge rather than force Stripe to retry.
		c.logger.Warn("Webhook for unknown customer",
			"customer_id", sub.Customer.ID,
			"error", err)
		return nil
	}

	if err := c.storage.UpdateUserBilling(ctx, user.ID, sub.Customer.ID, status, plan); err != nil {
		return fmt.Errorf("failed to update user billing: %w", err)
	}

	c.logger.Info("Applied subscription update",
		"user_id", user.ID,
		"status", status,
		"plan", plan)

	return nil
}
