// AngelaMos | 2026
// reconcile.go

package billing

import (
	"github.com/carterperez-dev/stillmind/internal/company"
)

// Effect is the complete set of state changes an event requires. Apply
// computes it without touching storage or the provider, so the decision
// logic is testable in isolation and every observable outcome is a
// field, not a log line.
type Effect struct {
	// Patch, when set, replaces the tenant's subscription fields in one
	// write.
	Patch *company.SubscriptionPatch
	// Clear wipes the tenant's subscription fields.
	Clear bool
	// SupersededSubscriptionID is a previous subscription that must be
	// canceled at the provider now that a different one has been paid.
	SupersededSubscriptionID string
	// CancelSubscriptionID is a subscription to cancel at the provider
	// because collection failed.
	CancelSubscriptionID string
	// NotifyPromotion carries a promotion code to announce to the
	// tenant's users.
	NotifyPromotion string
}

func (e Effect) Empty() bool {
	return e.Patch == nil &&
		!e.Clear &&
		e.SupersededSubscriptionID == "" &&
		e.CancelSubscriptionID == "" &&
		e.NotifyPromotion == ""
}

// Apply reconciles a tenant's recorded subscription state with a
// decoded provider event.
func Apply(c *company.Company, event Event) Effect {
	switch ev := event.(type) {
	case PaymentSucceeded:
		return applyPaymentSucceeded(c, ev)
	case InvoicePaid:
		return applyInvoicePaid(c, ev)
	case InvoiceFailed:
		return applyInvoiceFailed(c, ev)
	case PaymentAttemptFailed:
		return Effect{}
	case PromotionCreated:
		return Effect{NotifyPromotion: ev.Code}
	default:
		return Effect{}
	}
}

func applyPaymentSucceeded(c *company.Company, ev PaymentSucceeded) Effect {
	effect := Effect{
		Patch: &company.SubscriptionPatch{
			SubscriptionID: ev.SubscriptionID,
			Status:         ev.Status,
			PlanType:       ev.PlanType,
			Interval:       ev.Interval,
			Start:          ev.PeriodStart,
			End:            ev.PeriodEnd,
		},
	}

	// A previously recorded subscription that differs from the one just
	// paid is superseded: it gets canceled at the provider rather than
	// left running in parallel. A replay of the same event sees the new
	// id already recorded and produces no second cancel.
	if recorded := c.ActiveSubscriptionID(); recorded != "" &&
		recorded != ev.SubscriptionID {
		effect.SupersededSubscriptionID = recorded
	}

	return effect
}

func applyInvoicePaid(c *company.Company, ev InvoicePaid) Effect {
	if ev.Status != StatusActive {
		return Effect{Clear: true}
	}

	patch := &company.SubscriptionPatch{
		SubscriptionID: ev.SubscriptionID,
		Status:         ev.Status,
		Start:          ev.PeriodStart,
		End:            ev.PeriodEnd,
	}

	// Renewals do not change the plan; carry the recorded values.
	if c.SubscriptionPlanType != nil {
		patch.PlanType = *c.SubscriptionPlanType
	}
	if c.SubscriptionInterval != nil {
		patch.Interval = *c.SubscriptionInterval
	}

	return Effect{Patch: patch}
}

func applyInvoiceFailed(c *company.Company, ev InvoiceFailed) Effect {
	effect := Effect{Clear: true}

	if ev.SubscriptionID != "" {
		effect.CancelSubscriptionID = ev.SubscriptionID
	} else if recorded := c.ActiveSubscriptionID(); recorded != "" {
		effect.CancelSubscriptionID = recorded
	}

	return effect
}
