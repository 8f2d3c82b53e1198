package billing

import (
	"context"

	"github.com/locksum/locksum/internal/model"
)

// MockGateway is a mock implementation of Gateway for testing.
type MockGateway struct {
	// Functions that can be set by tests to control behavior
	CreateCheckoutSessionFn func(ctx context.Context, user *model.User, plan model.Plan, interval string) (string, error)
	HandleWebhookFn         func(ctx context.Context, payload []byte, signature string) error

	// Call tracking
	CheckoutCalls []CheckoutCall
	WebhookCalls  int
}

// CheckoutCall records the parameters of a CreateCheckoutSession call.
type CheckoutCall struct {
	User     *model.User
	Plan     model.Plan
	Interval string
}

// NewMockGateway creates a new mock billing gateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

// CreateCheckoutSession implements Gateway.CreateCheckoutSession.
func (m *MockGateway) CreateCheckoutSession(ctx context.Context, user *model.User, plan model.Plan, interval string) (string, error) {
	m.CheckoutCalls = append(m.CheckoutCalls, CheckoutCall{User: user, Plan: plan, Interval: interval})
	if m.CreateCheckoutSessionFn != nil {
		return m.CreateCheckoutSessionFn(ctx, user, plan, interval)
	}
	return "https://checkout.stripe.com/test-session", nil
}

// HandleWebhook implements Gateway.HandleWebhook.
func (m *MockGateway) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	m.WebhookCalls++
	if m.HandleWebhookFn != nil {
		return m.HandleWebhookFn(ctx, payload, signature)
	}
	return nil
}

// Ensure MockGateway implements Gateway interface.
var _ Gateway = (*MockGateway)(nil)
