package domain

import "time"

// DefaultTokenBalance is granted once, when the account row is first created.
const DefaultTokenBalance = 3

// User represents an authenticated account within the platform. Accounts are
// created idempotently on first sign-in; the token balance is the consumable
// credit spent by the creation pipeline and refilled by the payment webhook.
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	Tokens           int       `json:"tokens"`
	SubscriptionPlan int       `json:"subscription_plan"`
	CreatedAt        time.Time `json:"created_at"`
}

// HasTokens reports whether the user still has credit to spend.
func (u User) HasTokens() bool {
	return u.Tokens > 0
}
