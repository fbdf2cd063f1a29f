// AngelaMos | 2026
// provider.go

package billing

import (
	"context"
	"errors"
	"time"
)

// Billing state sentinels, distinct from the core taxonomy so handlers
// can map each to its own response.
var (
	ErrNoSubscription       = errors.New("no subscription on record")
	ErrAlreadyCanceled      = errors.New("subscription already canceled")
	ErrSubscriptionMismatch = errors.New("recorded subscription does not match provider state")
	ErrUnknownPlan          = errors.New("unknown plan type")
)

const (
	PlanGold   = "goldPlan"
	PlanSilver = "silverPlan"
	PlanBronze = "bronzePlan"
)

const (
	IntervalMonth = "month"
	IntervalYear  = "year"
)

// Subscription status values as reported by the provider.
const (
	StatusIncomplete = "incomplete"
	StatusActive     = "active"
	StatusPastDue    = "past_due"
	StatusCanceled   = "canceled"
)

type Subscription struct {
	ID           string
	CustomerID   string
	Status       string
	ProductID    string
	PriceID      string
	Interval     string
	ClientSecret string
	PeriodStart  time.Time
	PeriodEnd    time.Time
	CanceledAt   time.Time
	Created      time.Time
	AmountCents  int64
	Metadata     map[string]string
}

type Price struct {
	ID          string
	ProductID   string
	UnitAmount  int64
	Currency    string
	Interval    string
	Nickname    string
	Active      bool
	IsDefault   bool
}

type Customer struct {
	ID    string
	Email string
	Name  string
}

type PromotionCode struct {
	ID             string
	Code           string
	Active         bool
	PercentOff     float64
	AmountOffCents int64
	Created        time.Time
}

// WebhookEvent is the provider-verified envelope before domain decoding.
type WebhookEvent struct {
	ID             string
	Type           string
	ObjectID       string
	InvoiceID      string
	SubscriptionID string
	CustomerID     string
	PromotionCode  string
}

// Provider abstracts the payment backend. Every error returned wraps
// core.ErrUpstream so callers can distinguish provider outages from
// domain failures.
type Provider interface {
	CreateCustomer(
		ctx context.Context,
		email, name, description string,
	) (string, error)
	GetCustomer(ctx context.Context, customerID string) (*Customer, error)

	CreateSubscription(
		ctx context.Context,
		customerID, priceID string,
		metadata map[string]string,
	) (*Subscription, error)
	GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error)
	// ResolveInvoiceSubscription maps an invoice to the subscription it
	// bills. Empty when the invoice is not subscription-backed.
	ResolveInvoiceSubscription(ctx context.Context, invoiceID string) (string, error)
	CancelSubscription(ctx context.Context, subscriptionID string) error
	ActiveSubscriptionForCustomer(
		ctx context.Context,
		customerID string,
	) (*Subscription, error)
	ListSubscriptions(ctx context.Context) ([]Subscription, error)

	FindPrice(ctx context.Context, productID, interval string) (*Price, error)
	ListPrices(ctx context.Context, productID string) ([]Price, error)
	CreatePrice(
		ctx context.Context,
		productID, interval, nickname string,
		unitAmount int64,
		currency string,
	) (*Price, error)
	SetDefaultPrice(ctx context.Context, productID, priceID string) error
	ArchivePrice(ctx context.Context, priceID string) error

	ListPromotionCodes(ctx context.Context) ([]PromotionCode, error)

	VerifyWebhook(payload []byte, sigHeader string) (*WebhookEvent, error)
}
