package model

import "time"

// Plan identifies a subscription tier.
type Plan string

const (
	// PlanFree is the default tier for new accounts.
	PlanFree Plan = "free"
	// PlanPlus unlocks the advisory endpoints.
	PlanPlus Plan = "plus"
	// PlanPro is the highest tier.
	PlanPro Plan = "pro"
)

// planOrder ranks plans for minimum-plan checks.
var planOrder = map[Plan]int{
	PlanFree: 0,
	PlanPlus: 1,
	PlanPro:  2,
}

// AtLeast reports whether p meets or exceeds the required plan.
// Unknown plans rank as free.
func (p Plan) AtLeast(required Plan) bool {
	return planOrder[p] >= planOrder[required]
}

// User represents an account holder.
type User struct {
	CreatedAt          time.Time
	Email              string
	PasswordHash       string
	StripeCustomerID   string
	SubscriptionStatus string
	Plan               Plan
	ID                 int64
}

// HasActiveSubscription reports whether the user's Stripe subscription
// entitles them to paid features.
func (u *User) HasActiveSubscription() bool {
	return u.SubscriptionStatus == "active" || u.SubscriptionStatus == "trialing"
}
