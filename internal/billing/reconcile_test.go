// AngelaMos | 2026
// reconcile_test.go

package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/stillmind/internal/company"
)

func strptr(s string) *string { return &s }

func tenantWithSubscription(subscriptionID string) *company.Company {
	return &company.Company{
		ID:                   "comp-1",
		SubscriptionID:       strptr(subscriptionID),
		SubscriptionStatus:   strptr(StatusActive),
		SubscriptionPlanType: strptr(PlanGold),
		SubscriptionInterval: strptr(IntervalMonth),
	}
}

func TestApplyPaymentSucceededPatchesAllFields(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	tenant := &company.Company{ID: "comp-1"}
	effect := Apply(tenant, PaymentSucceeded{
		SubscriptionID: "sub-new",
		Status:         StatusActive,
		PlanType:       PlanSilver,
		Interval:       IntervalMonth,
		PeriodStart:    start,
		PeriodEnd:      end,
	})

	require.NotNil(t, effect.Patch)
	assert.Equal(t, "sub-new", effect.Patch.SubscriptionID)
	assert.Equal(t, StatusActive, effect.Patch.Status)
	assert.Equal(t, PlanSilver, effect.Patch.PlanType)
	assert.Equal(t, IntervalMonth, effect.Patch.Interval)
	assert.Equal(t, start, effect.Patch.Start)
	assert.Equal(t, end, effect.Patch.End)
	assert.Empty(t, effect.SupersededSubscriptionID)
	assert.False(t, effect.Clear)
}

func TestApplyPaymentSucceededSupersedesRecordedSubscription(t *testing.T) {
	tenant := tenantWithSubscription("sub-old")

	effect := Apply(tenant, PaymentSucceeded{
		SubscriptionID: "sub-new",
		Status:         StatusActive,
		PlanType:       PlanGold,
		Interval:       IntervalMonth,
	})

	assert.Equal(t, "sub-old", effect.SupersededSubscriptionID)
}

func TestApplyPaymentSucceededReplayIsIdempotent(t *testing.T) {
	// After the first application the tenant records the new id, so a
	// replay of the same event must not produce a second cancel and
	// must patch identical fields.
	event := PaymentSucceeded{
		SubscriptionID: "sub-new",
		Status:         StatusActive,
		PlanType:       PlanGold,
		Interval:       IntervalYear,
		PeriodStart:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:      time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	first := Apply(tenantWithSubscription("sub-old"), event)
	require.NotNil(t, first.Patch)
	assert.Equal(t, "sub-old", first.SupersededSubscriptionID)

	replayed := Apply(tenantWithSubscription("sub-new"), event)
	require.NotNil(t, replayed.Patch)
	assert.Equal(t, *first.Patch, *replayed.Patch)
	assert.Empty(t, replayed.SupersededSubscriptionID)
}

func TestApplyInvoicePaidCarriesRecordedPlan(t *testing.T) {
	tenant := tenantWithSubscription("sub-1")

	effect := Apply(tenant, InvoicePaid{
		SubscriptionID: "sub-1",
		Status:         StatusActive,
		PeriodStart:    time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:      time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	})

	require.NotNil(t, effect.Patch)
	assert.Equal(t, PlanGold, effect.Patch.PlanType)
	assert.Equal(t, IntervalMonth, effect.Patch.Interval)
	assert.False(t, effect.Clear)
}

func TestApplyInvoicePaidNonActiveClears(t *testing.T) {
	tenant := tenantWithSubscription("sub-1")

	effect := Apply(tenant, InvoicePaid{
		SubscriptionID: "sub-1",
		Status:         StatusPastDue,
	})

	assert.Nil(t, effect.Patch)
	assert.True(t, effect.Clear)
}

func TestApplyInvoiceFailedClearsAndCancels(t *testing.T) {
	tenant := tenantWithSubscription("sub-1")

	effect := Apply(tenant, InvoiceFailed{SubscriptionID: "sub-1"})

	assert.True(t, effect.Clear)
	assert.Equal(t, "sub-1", effect.CancelSubscriptionID)
}

func TestApplyInvoiceFailedFallsBackToRecordedID(t *testing.T) {
	tenant := tenantWithSubscription("sub-recorded")

	effect := Apply(tenant, InvoiceFailed{})

	assert.Equal(t, "sub-recorded", effect.CancelSubscriptionID)
}

func TestApplyPaymentAttemptFailedIsObservationalOnly(t *testing.T) {
	tenant := tenantWithSubscription("sub-1")

	effect := Apply(tenant, PaymentAttemptFailed{CustomerID: "cus-1"})

	assert.True(t, effect.Empty())
}

func TestApplyPromotionCreatedNotifies(t *testing.T) {
	tenant := &company.Company{ID: "comp-1"}

	effect := Apply(tenant, PromotionCreated{Code: "SUMMER20"})

	assert.Equal(t, "SUMMER20", effect.NotifyPromotion)
	assert.Nil(t, effect.Patch)
	assert.False(t, effect.Clear)
}
