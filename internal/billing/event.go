// AngelaMos | 2026
// event.go

package billing

import "time"

// Event is the decoded form of a verified webhook. One struct per
// recognized kind; unrecognized provider events never become an Event.
type Event interface {
	eventKind() string
}

// PaymentSucceeded carries the full target subscription state. Applying
// it is idempotent: replays produce the same tenant fields.
type PaymentSucceeded struct {
	SubscriptionID string
	CustomerID     string
	CompanyID      string
	Status         string
	PlanType       string
	Interval       string
	PeriodStart    time.Time
	PeriodEnd      time.Time
}

// InvoicePaid confirms a renewal for an existing subscription.
type InvoicePaid struct {
	SubscriptionID string
	CustomerID     string
	Status         string
	PeriodStart    time.Time
	PeriodEnd      time.Time
}

// InvoiceFailed means the renewal could not be collected; the
// subscription is abandoned at the provider and locally.
type InvoiceFailed struct {
	SubscriptionID string
	CustomerID     string
}

// PaymentAttemptFailed is observational only; no state changes.
type PaymentAttemptFailed struct {
	CustomerID string
}

// PromotionCreated notifies the owning tenant about a new code.
type PromotionCreated struct {
	Code string
}

func (PaymentSucceeded) eventKind() string     { return "payment_succeeded" }
func (InvoicePaid) eventKind() string          { return "invoice_paid" }
func (InvoiceFailed) eventKind() string        { return "invoice_failed" }
func (PaymentAttemptFailed) eventKind() string { return "payment_attempt_failed" }
func (PromotionCreated) eventKind() string     { return "promotion_created" }
