// AngelaMos | 2026
// service.go

package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/carterperez-dev/stillmind/internal/company"
	"github.com/carterperez-dev/stillmind/internal/config"
	"github.com/carterperez-dev/stillmind/internal/core"
)

// Stripe event types the reconciler recognizes. Anything else is acked
// and dropped.
const (
	eventPaymentIntentSucceeded  = "payment_intent.succeeded"
	eventInvoicePaymentSucceeded = "invoice.payment_succeeded"
	eventInvoicePaymentFailed    = "invoice.payment_failed"
	eventPaymentIntentFailed     = "payment_intent.payment_failed"
	eventPaymentIntentCanceled   = "payment_intent.canceled"
	eventPromotionCodeCreated    = "promotion_code.created"
)

const companyIDMetadataKey = "companyId"

// TenantStore is the slice of the company repository the reconciler
// writes through.
type TenantStore interface {
	GetByID(ctx context.Context, id string) (*company.Company, error)
	GetByPaymentCustomerID(
		ctx context.Context,
		customerID string,
	) (*company.Company, error)
	SetPaymentCustomerID(ctx context.Context, id, customerID string) error
	UpdateSubscription(
		ctx context.Context,
		id string,
		patch company.SubscriptionPatch,
	) error
	ClearSubscription(ctx context.Context, id string) error
}

// PromotionNotifier fans a new promotion code out to a tenant's users.
type PromotionNotifier interface {
	NotifyPromotion(ctx context.Context, companyID, code string) error
}

type Service struct {
	provider Provider
	tenants  TenantStore
	notifier PromotionNotifier
	cfg      config.BillingConfig
	logger   *slog.Logger
}

func NewService(
	provider Provider,
	tenants TenantStore,
	notifier PromotionNotifier,
	cfg config.BillingConfig,
	logger *slog.Logger,
) *Service {
	return &Service{
		provider: provider,
		tenants:  tenants,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
	}
}

func (s *Service) planProduct(planType string) (string, error) {
	switch planType {
	case PlanGold:
		return s.cfg.GoldProductID, nil
	case PlanSilver:
		return s.cfg.SilverProductID, nil
	case PlanBronze:
		return s.cfg.BronzeProductID, nil
	default:
		return "", fmt.Errorf("plan %q: %w", planType, ErrUnknownPlan)
	}
}

func (s *Service) productPlan(productID string) string {
	switch productID {
	case s.cfg.GoldProductID:
		return PlanGold
	case s.cfg.SilverProductID:
		return PlanSilver
	case s.cfg.BronzeProductID:
		return PlanBronze
	default:
		return ""
	}
}

type CreateSubscriptionResult struct {
	SubscriptionID string
	ClientSecret   string
}

// CreateSubscription starts an incomplete subscription for the tenant
// and hands back the client secret for payment confirmation. The
// billing customer is created lazily, exactly once, and persisted
// before the subscription call. An existing subscription is left alone;
// cancellation of a superseded one happens only when the new one is
// actually paid.
func (s *Service) CreateSubscription(
	ctx context.Context,
	companyID, planType, interval string,
) (*CreateSubscriptionResult, error) {
	productID, err := s.planProduct(planType)
	if err != nil {
		return nil, err
	}

	if interval != IntervalMonth && interval != IntervalYear {
		return nil, fmt.Errorf(
			"interval %q: %w", interval, core.ErrInvalidInput)
	}

	tenant, err := s.tenants.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	customerID := ""
	if tenant.HasCustomer() {
		customerID = *tenant.PaymentCustomerID
	} else {
		customerID, err = s.provider.CreateCustomer(
			ctx,
			tenant.Email,
			tenant.CompanyName,
			fmt.Sprintf("tenant %s", tenant.ID),
		)
		if err != nil {
			return nil, err
		}
		if err := s.tenants.SetPaymentCustomerID(ctx, tenant.ID, customerID); err != nil {
			return nil, err
		}
	}

	price, err := s.provider.FindPrice(ctx, productID, interval)
	if err != nil {
		return nil, err
	}

	sub, err := s.provider.CreateSubscription(ctx, customerID, price.ID,
		map[string]string{companyIDMetadataKey: tenant.ID})
	if err != nil {
		return nil, err
	}

	return &CreateSubscriptionResult{
		SubscriptionID: sub.ID,
		ClientSecret:   sub.ClientSecret,
	}, nil
}

// CancelSubscription cancels the tenant's recorded subscription. The
// provider's view is consulted first: an already-canceled subscription
// is rejected, and a mismatch between the recorded id and the
// provider's active subscription performs no mutation at all.
func (s *Service) CancelSubscription(ctx context.Context, companyID string) error {
	tenant, err := s.tenants.GetByID(ctx, companyID)
	if err != nil {
		return err
	}

	recorded := tenant.ActiveSubscriptionID()
	if recorded == "" {
		return fmt.Errorf("cancel subscription: %w", ErrNoSubscription)
	}

	sub, err := s.provider.GetSubscription(ctx, recorded)
	if err != nil {
		return err
	}
	if sub.Status == StatusCanceled {
		return fmt.Errorf("cancel subscription: %w", ErrAlreadyCanceled)
	}

	if tenant.HasCustomer() {
		active, actErr := s.provider.ActiveSubscriptionForCustomer(
			ctx, *tenant.PaymentCustomerID)
		if actErr != nil {
			return actErr
		}
		if active != nil && active.ID != recorded {
			return fmt.Errorf("cancel subscription: %w", ErrSubscriptionMismatch)
		}
	}

	if err := s.provider.CancelSubscription(ctx, recorded); err != nil {
		return err
	}

	return s.tenants.ClearSubscription(ctx, tenant.ID)
}

// HandleWebhook verifies, decodes and applies one provider event.
// Signature failure aborts before anything is read from the payload.
func (s *Service) HandleWebhook(
	ctx context.Context,
	payload []byte,
	sigHeader string,
) error {
	verified, err := s.provider.VerifyWebhook(payload, sigHeader)
	if err != nil {
		return err
	}

	event, tenant, err := s.decodeEvent(ctx, verified)
	if err != nil {
		return err
	}
	if event == nil {
		s.logger.Debug("webhook ignored", "type", verified.Type)
		return nil
	}

	effect := Apply(tenant, event)
	if effect.Empty() {
		s.logger.Info("webhook applied, no state change",
			"type", verified.Type,
		)
		return nil
	}

	return s.execute(ctx, tenant, effect)
}

//nolint:cyclop // one arm per recognized event type
func (s *Service) decodeEvent(
	ctx context.Context,
	verified *WebhookEvent,
) (Event, *company.Company, error) {
	switch verified.Type {
	case eventPaymentIntentSucceeded:
		// The commit point: invoice → subscription → tenant. Payment
		// intents without an invoice are one-off charges, not
		// subscription cycles.
		if verified.InvoiceID == "" {
			s.logger.Info("payment intent without invoice, skipping",
				"payment_intent_id", verified.ObjectID,
			)
			return nil, nil, nil
		}

		subscriptionID, err := s.provider.ResolveInvoiceSubscription(
			ctx, verified.InvoiceID)
		if err != nil {
			return nil, nil, err
		}
		if subscriptionID == "" {
			s.logger.Info("invoice not subscription-backed, skipping",
				"invoice_id", verified.InvoiceID,
			)
			return nil, nil, nil
		}

		sub, err := s.provider.GetSubscription(ctx, subscriptionID)
		if err != nil {
			return nil, nil, err
		}

		tenant, err := s.tenantForSubscription(ctx, sub)
		if err != nil {
			return nil, nil, err
		}

		return PaymentSucceeded{
			SubscriptionID: sub.ID,
			CustomerID:     sub.CustomerID,
			CompanyID:      tenant.ID,
			Status:         sub.Status,
			PlanType:       s.productPlan(sub.ProductID),
			Interval:       sub.Interval,
			PeriodStart:    sub.PeriodStart,
			PeriodEnd:      sub.PeriodEnd,
		}, tenant, nil

	case eventInvoicePaymentSucceeded:
		// Re-sync only: status and period bounds for the tenant owning
		// the billing customer. Adoption happens on the payment intent.
		tenant, err := s.tenants.GetByPaymentCustomerID(ctx, verified.CustomerID)
		if err != nil {
			return nil, nil, err
		}

		sub, err := s.provider.GetSubscription(ctx, verified.SubscriptionID)
		if err != nil {
			return nil, nil, err
		}

		return InvoicePaid{
			SubscriptionID: sub.ID,
			CustomerID:     sub.CustomerID,
			Status:         sub.Status,
			PeriodStart:    sub.PeriodStart,
			PeriodEnd:      sub.PeriodEnd,
		}, tenant, nil

	case eventInvoicePaymentFailed:
		tenant, err := s.tenants.GetByPaymentCustomerID(ctx, verified.CustomerID)
		if err != nil {
			return nil, nil, err
		}

		return InvoiceFailed{
			SubscriptionID: verified.SubscriptionID,
			CustomerID:     verified.CustomerID,
		}, tenant, nil

	case eventPaymentIntentFailed, eventPaymentIntentCanceled:
		s.logger.Warn("payment attempt did not complete",
			"type", verified.Type,
			"customer_id", verified.CustomerID,
		)

		tenant, err := s.tenants.GetByPaymentCustomerID(ctx, verified.CustomerID)
		if err != nil {
			return nil, nil, err
		}

		return PaymentAttemptFailed{CustomerID: verified.CustomerID}, tenant, nil

	case eventPromotionCodeCreated:
		if verified.CustomerID == "" {
			s.logger.Info("promotion code without customer restriction, skipping",
				"code", verified.PromotionCode,
			)
			return nil, nil, nil
		}

		tenant, err := s.tenants.GetByPaymentCustomerID(ctx, verified.CustomerID)
		if err != nil {
			return nil, nil, err
		}

		return PromotionCreated{Code: verified.PromotionCode}, tenant, nil

	default:
		return nil, nil, nil
	}
}

func (s *Service) tenantForSubscription(
	ctx context.Context,
	sub *Subscription,
) (*company.Company, error) {
	if companyID := sub.Metadata[companyIDMetadataKey]; companyID != "" {
		tenant, err := s.tenants.GetByID(ctx, companyID)
		if err == nil {
			return tenant, nil
		}
		if !errors.Is(err, core.ErrNotFound) {
			return nil, err
		}
	}

	return s.tenants.GetByPaymentCustomerID(ctx, sub.CustomerID)
}

func (s *Service) execute(
	ctx context.Context,
	tenant *company.Company,
	effect Effect,
) error {
	if effect.SupersededSubscriptionID != "" {
		if err := s.provider.CancelSubscription(
			ctx, effect.SupersededSubscriptionID,
		); err != nil {
			s.logger.Error("superseded subscription cancel failed",
				"subscription_id", effect.SupersededSubscriptionID,
				"company_id", tenant.ID,
				"error", err,
			)
		}
	}

	if effect.CancelSubscriptionID != "" {
		if err := s.provider.CancelSubscription(
			ctx, effect.CancelSubscriptionID,
		); err != nil {
			s.logger.Error("subscription cancel failed",
				"subscription_id", effect.CancelSubscriptionID,
				"company_id", tenant.ID,
				"error", err,
			)
		}
	}

	if effect.Patch != nil {
		if err := s.tenants.UpdateSubscription(ctx, tenant.ID, *effect.Patch); err != nil {
			return err
		}
	}

	if effect.Clear && effect.Patch == nil {
		if err := s.tenants.ClearSubscription(ctx, tenant.ID); err != nil {
			return err
		}
	}

	if effect.NotifyPromotion != "" {
		if err := s.notifier.NotifyPromotion(
			ctx, tenant.ID, effect.NotifyPromotion,
		); err != nil {
			s.logger.Error("promotion notification failed",
				"company_id", tenant.ID,
				"error", err,
			)
		}
	}

	return nil
}

// PlanPrices groups a plan's active prices for the admin surface.
type PlanPrices struct {
	PlanType string
	Prices   []Price
}

func (s *Service) GetPrices(ctx context.Context) ([]PlanPrices, error) {
	plans := []string{PlanGold, PlanSilver, PlanBronze}

	out := make([]PlanPrices, 0, len(plans))
	for _, plan := range plans {
		productID, err := s.planProduct(plan)
		if err != nil {
			return nil, err
		}

		prices, err := s.provider.ListPrices(ctx, productID)
		if err != nil {
			return nil, err
		}

		out = append(out, PlanPrices{PlanType: plan, Prices: prices})
	}

	return out, nil
}

// UpdatePlanPrice creates a new price for the plan's product, makes it
// the default, and archives stale active prices of the same interval.
func (s *Service) UpdatePlanPrice(
	ctx context.Context,
	planType, interval, currency string,
	unitAmount int64,
) (*Price, error) {
	productID, err := s.planProduct(planType)
	if err != nil {
		return nil, err
	}

	if interval != IntervalMonth && interval != IntervalYear {
		return nil, fmt.Errorf("interval %q: %w", interval, core.ErrInvalidInput)
	}

	existing, err := s.provider.ListPrices(ctx, productID)
	if err != nil {
		return nil, err
	}

	nickname := fmt.Sprintf("%s-%s", planType, interval)
	price, err := s.provider.CreatePrice(
		ctx, productID, interval, nickname, unitAmount, currency)
	if err != nil {
		return nil, err
	}

	if err := s.provider.SetDefaultPrice(ctx, productID, price.ID); err != nil {
		return nil, err
	}

	for _, old := range existing {
		if !old.Active || old.Interval != interval {
			continue
		}
		if archErr := s.provider.ArchivePrice(ctx, old.ID); archErr != nil {
			s.logger.Warn("archive stale price failed",
				"price_id", old.ID,
				"error", archErr,
			)
		}
	}

	return price, nil
}

// SubscriptionDetail joins provider state with the owning tenant where
// one can be resolved, plus the provider's view of the customer.
type SubscriptionDetail struct {
	Subscription  Subscription
	CompanyID     string
	CompanyName   string
	CustomerEmail string
	CustomerName  string
}

func (s *Service) ListSubscriptions(ctx context.Context) ([]SubscriptionDetail, error) {
	subs, err := s.provider.ListSubscriptions(ctx)
	if err != nil {
		return nil, err
	}

	details := make([]SubscriptionDetail, 0, len(subs))
	for _, sub := range subs {
		detail := SubscriptionDetail{Subscription: sub}
		if tenant, tenantErr := s.tenants.GetByPaymentCustomerID(
			ctx, sub.CustomerID,
		); tenantErr == nil {
			detail.CompanyID = tenant.ID
			detail.CompanyName = tenant.CompanyName
		}

		customer, custErr := s.provider.GetCustomer(ctx, sub.CustomerID)
		if custErr != nil {
			s.logger.Warn("customer detail lookup failed",
				"customer_id", sub.CustomerID,
				"error", custErr,
			)
		} else {
			detail.CustomerEmail = customer.Email
			detail.CustomerName = customer.Name
		}

		details = append(details, detail)
	}

	return details, nil
}

func (s *Service) GetSubscriptionByID(
	ctx context.Context,
	subscriptionID string,
) (*Subscription, error) {
	return s.provider.GetSubscription(ctx, subscriptionID)
}

func (s *Service) ListPromotionCodes(ctx context.Context) ([]PromotionCode, error) {
	return s.provider.ListPromotionCodes(ctx)
}

// ExpiringWithin lists active subscriptions whose period ends inside
// the window.
func (s *Service) ExpiringWithin(
	ctx context.Context,
	window time.Duration,
) ([]SubscriptionDetail, error) {
	details, err := s.ListSubscriptions(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().Add(window)
	out := make([]SubscriptionDetail, 0, len(details))
	for _, detail := range details {
		sub := detail.Subscription
		if sub.Status != StatusActive {
			continue
		}
		if sub.PeriodEnd.After(time.Now()) && sub.PeriodEnd.Before(cutoff) {
			out = append(out, detail)
		}
	}

	return out, nil
}

// CountPaymentsToday counts active subscriptions whose current period
// started today, which covers both new subscriptions and renewals.
func (s *Service) CountPaymentsToday(ctx context.Context) (int, error) {
	subs, err := s.provider.ListSubscriptions(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	count := 0
	for _, sub := range subs {
		if sub.Status == StatusActive && !sub.PeriodStart.Before(dayStart) {
			count++
		}
	}

	return count, nil
}
