// AngelaMos | 2026
// service_test.go

package billing

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/stillmind/internal/company"
	"github.com/carterperez-dev/stillmind/internal/config"
	"github.com/carterperez-dev/stillmind/internal/core"
)

type fakeProvider struct {
	customers            map[string]Customer
	subscriptions        map[string]*Subscription
	invoiceSubscriptions map[string]string
	prices               []Price
	canceled             []string
	createdCustomers     int
	verifiedEvent        *WebhookEvent
	verifyErr            error
	activeForCustomer    *Subscription
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		customers:            make(map[string]Customer),
		subscriptions:        make(map[string]*Subscription),
		invoiceSubscriptions: make(map[string]string),
	}
}

func (p *fakeProvider) CreateCustomer(
	_ context.Context,
	email, name, _ string,
) (string, error) {
	p.createdCustomers++
	id := fmt.Sprintf("cus-%d", p.createdCustomers)
	p.customers[id] = Customer{ID: id, Email: email, Name: name}
	return id, nil
}

func (p *fakeProvider) GetCustomer(
	_ context.Context,
	customerID string,
) (*Customer, error) {
	c, ok := p.customers[customerID]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &c, nil
}

func (p *fakeProvider) CreateSubscription(
	_ context.Context,
	customerID, priceID string,
	metadata map[string]string,
) (*Subscription, error) {
	sub := &Subscription{
		ID:           fmt.Sprintf("sub-%d", len(p.subscriptions)+1),
		CustomerID:   customerID,
		Status:       StatusIncomplete,
		PriceID:      priceID,
		ClientSecret: "secret",
		Metadata:     metadata,
	}
	p.subscriptions[sub.ID] = sub
	return sub, nil
}

func (p *fakeProvider) GetSubscription(
	_ context.Context,
	subscriptionID string,
) (*Subscription, error) {
	sub, ok := p.subscriptions[subscriptionID]
	if !ok {
		return nil, core.ErrNotFound
	}
	return sub, nil
}

func (p *fakeProvider) ResolveInvoiceSubscription(
	_ context.Context,
	invoiceID string,
) (string, error) {
	return p.invoiceSubscriptions[invoiceID], nil
}

func (p *fakeProvider) CancelSubscription(
	_ context.Context,
	subscriptionID string,
) error {
	p.canceled = append(p.canceled, subscriptionID)
	if sub, ok := p.subscriptions[subscriptionID]; ok {
		sub.Status = StatusCanceled
	}
	return nil
}

func (p *fakeProvider) ActiveSubscriptionForCustomer(
	_ context.Context,
	_ string,
) (*Subscription, error) {
	return p.activeForCustomer, nil
}

func (p *fakeProvider) ListSubscriptions(_ context.Context) ([]Subscription, error) {
	out := make([]Subscription, 0, len(p.subscriptions))
	for _, sub := range p.subscriptions {
		out = append(out, *sub)
	}
	return out, nil
}

func (p *fakeProvider) FindPrice(
	_ context.Context,
	productID, interval string,
) (*Price, error) {
	for _, price := range p.prices {
		if price.ProductID == productID && price.Interval == interval && price.Active {
			return &price, nil
		}
	}
	return nil, core.ErrNotFound
}

func (p *fakeProvider) ListPrices(
	_ context.Context,
	productID string,
) ([]Price, error) {
	var out []Price
	for _, price := range p.prices {
		if price.ProductID == productID {
			out = append(out, price)
		}
	}
	return out, nil
}

func (p *fakeProvider) CreatePrice(
	_ context.Context,
	productID, interval, nickname string,
	unitAmount int64,
	currency string,
) (*Price, error) {
	price := Price{
		ID:         fmt.Sprintf("price-%d", len(p.prices)+1),
		ProductID:  productID,
		UnitAmount: unitAmount,
		Currency:   currency,
		Interval:   interval,
		Nickname:   nickname,
		Active:     true,
	}
	p.prices = append(p.prices, price)
	return &price, nil
}

func (p *fakeProvider) SetDefaultPrice(_ context.Context, _, priceID string) error {
	for i := range p.prices {
		p.prices[i].IsDefault = p.prices[i].ID == priceID
	}
	return nil
}

func (p *fakeProvider) ArchivePrice(_ context.Context, priceID string) error {
	for i := range p.prices {
		if p.prices[i].ID == priceID {
			p.prices[i].Active = false
		}
	}
	return nil
}

func (p *fakeProvider) ListPromotionCodes(_ context.Context) ([]PromotionCode, error) {
	return nil, nil
}

func (p *fakeProvider) VerifyWebhook(
	_ []byte,
	_ string,
) (*WebhookEvent, error) {
	if p.verifyErr != nil {
		return nil, p.verifyErr
	}
	return p.verifiedEvent, nil
}

type fakeTenants struct {
	tenants map[string]*company.Company
	patches []company.SubscriptionPatch
	clears  int
}

func newFakeTenants(tenants ...*company.Company) *fakeTenants {
	f := &fakeTenants{tenants: make(map[string]*company.Company)}
	for _, tenant := range tenants {
		f.tenants[tenant.ID] = tenant
	}
	return f
}

func (f *fakeTenants) GetByID(_ context.Context, id string) (*company.Company, error) {
	tenant, ok := f.tenants[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return tenant, nil
}

func (f *fakeTenants) GetByPaymentCustomerID(
	_ context.Context,
	customerID string,
) (*company.Company, error) {
	for _, tenant := range f.tenants {
		if tenant.PaymentCustomerID != nil && *tenant.PaymentCustomerID == customerID {
			return tenant, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeTenants) SetPaymentCustomerID(
	_ context.Context,
	id, customerID string,
) error {
	tenant, ok := f.tenants[id]
	if !ok {
		return core.ErrNotFound
	}
	tenant.PaymentCustomerID = &customerID
	return nil
}

func (f *fakeTenants) UpdateSubscription(
	_ context.Context,
	id string,
	patch company.SubscriptionPatch,
) error {
	tenant, ok := f.tenants[id]
	if !ok {
		return core.ErrNotFound
	}
	f.patches = append(f.patches, patch)
	tenant.SubscriptionID = &patch.SubscriptionID
	tenant.SubscriptionStatus = &patch.Status
	tenant.SubscriptionPlanType = &patch.PlanType
	tenant.SubscriptionInterval = &patch.Interval
	return nil
}

func (f *fakeTenants) ClearSubscription(_ context.Context, id string) error {
	tenant, ok := f.tenants[id]
	if !ok {
		return core.ErrNotFound
	}
	f.clears++
	tenant.SubscriptionID = nil
	tenant.SubscriptionStatus = nil
	tenant.SubscriptionPlanType = nil
	tenant.SubscriptionInterval = nil
	return nil
}

type fakeNotifier struct {
	notified []string
}

func (f *fakeNotifier) NotifyPromotion(_ context.Context, _, code string) error {
	f.notified = append(f.notified, code)
	return nil
}

func testBillingConfig() config.BillingConfig {
	return config.BillingConfig{
		GoldProductID:   "prod-gold",
		SilverProductID: "prod-silver",
		BronzeProductID: "prod-bronze",
	}
}

func newTestService(
	provider *fakeProvider,
	tenants *fakeTenants,
	notifier *fakeNotifier,
) *Service {
	return NewService(
		provider, tenants, notifier, testBillingConfig(), slog.Default())
}

func TestCreateSubscriptionProvisionsCustomerOnce(t *testing.T) {
	provider := newFakeProvider()
	provider.prices = []Price{{
		ID: "price-gold-month", ProductID: "prod-gold",
		Interval: IntervalMonth, Active: true,
	}}
	tenants := newFakeTenants(&company.Company{
		ID: "comp-1", Email: "t@example.com", CompanyName: "Acme",
	})
	svc := newTestService(provider, tenants, &fakeNotifier{})

	first, err := svc.CreateSubscription(
		context.Background(), "comp-1", PlanGold, IntervalMonth)
	require.NoError(t, err)
	assert.NotEmpty(t, first.SubscriptionID)
	assert.Equal(t, "secret", first.ClientSecret)

	_, err = svc.CreateSubscription(
		context.Background(), "comp-1", PlanGold, IntervalMonth)
	require.NoError(t, err)

	assert.Equal(t, 1, provider.createdCustomers)
	require.NotNil(t, tenants.tenants["comp-1"].PaymentCustomerID)
}

func TestCreateSubscriptionTagsCompanyMetadata(t *testing.T) {
	provider := newFakeProvider()
	provider.prices = []Price{{
		ID: "price-1", ProductID: "prod-silver",
		Interval: IntervalYear, Active: true,
	}}
	tenants := newFakeTenants(&company.Company{ID: "comp-1"})
	svc := newTestService(provider, tenants, &fakeNotifier{})

	result, err := svc.CreateSubscription(
		context.Background(), "comp-1", PlanSilver, IntervalYear)
	require.NoError(t, err)

	sub := provider.subscriptions[result.SubscriptionID]
	require.NotNil(t, sub)
	assert.Equal(t, "comp-1", sub.Metadata["companyId"])
}

func TestCreateSubscriptionRejectsUnknownPlan(t *testing.T) {
	svc := newTestService(
		newFakeProvider(), newFakeTenants(&company.Company{ID: "comp-1"}),
		&fakeNotifier{})

	_, err := svc.CreateSubscription(
		context.Background(), "comp-1", "platinumPlan", IntervalMonth)
	assert.ErrorIs(t, err, ErrUnknownPlan)
}

func TestCreateSubscriptionRejectsBadInterval(t *testing.T) {
	svc := newTestService(
		newFakeProvider(), newFakeTenants(&company.Company{ID: "comp-1"}),
		&fakeNotifier{})

	_, err := svc.CreateSubscription(
		context.Background(), "comp-1", PlanGold, "weekly")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestCancelSubscriptionWithoutRecordedID(t *testing.T) {
	svc := newTestService(
		newFakeProvider(), newFakeTenants(&company.Company{ID: "comp-1"}),
		&fakeNotifier{})

	err := svc.CancelSubscription(context.Background(), "comp-1")
	assert.ErrorIs(t, err, ErrNoSubscription)
}

func TestCancelSubscriptionAlreadyCanceled(t *testing.T) {
	provider := newFakeProvider()
	provider.subscriptions["sub-1"] = &Subscription{
		ID: "sub-1", Status: StatusCanceled,
	}
	tenants := newFakeTenants(tenantWithSubscription("sub-1"))
	svc := newTestService(provider, tenants, &fakeNotifier{})

	err := svc.CancelSubscription(context.Background(), "comp-1")
	assert.ErrorIs(t, err, ErrAlreadyCanceled)
}

func TestCancelSubscriptionMismatchMutatesNothing(t *testing.T) {
	provider := newFakeProvider()
	provider.subscriptions["sub-recorded"] = &Subscription{
		ID: "sub-recorded", Status: StatusActive,
	}
	provider.activeForCustomer = &Subscription{
		ID: "sub-other", Status: StatusActive,
	}

	tenant := tenantWithSubscription("sub-recorded")
	tenant.PaymentCustomerID = strptr("cus-1")
	tenants := newFakeTenants(tenant)
	svc := newTestService(provider, tenants, &fakeNotifier{})

	err := svc.CancelSubscription(context.Background(), "comp-1")
	assert.ErrorIs(t, err, ErrSubscriptionMismatch)
	assert.Empty(t, provider.canceled)
	assert.Zero(t, tenants.clears)
	assert.NotNil(t, tenant.SubscriptionID)
}

func TestCancelSubscriptionSuccess(t *testing.T) {
	provider := newFakeProvider()
	provider.subscriptions["sub-1"] = &Subscription{
		ID: "sub-1", Status: StatusActive,
	}
	provider.activeForCustomer = &Subscription{
		ID: "sub-1", Status: StatusActive,
	}

	tenant := tenantWithSubscription("sub-1")
	tenant.PaymentCustomerID = strptr("cus-1")
	tenants := newFakeTenants(tenant)
	svc := newTestService(provider, tenants, &fakeNotifier{})

	err := svc.CancelSubscription(context.Background(), "comp-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"sub-1"}, provider.canceled)
	assert.Equal(t, 1, tenants.clears)
	assert.Nil(t, tenant.SubscriptionID)
}

func TestHandleWebhookSignatureFailure(t *testing.T) {
	provider := newFakeProvider()
	provider.verifyErr = fmt.Errorf("bad signature: %w", core.ErrInvalidInput)
	svc := newTestService(provider, newFakeTenants(), &fakeNotifier{})

	err := svc.HandleWebhook(context.Background(), []byte("{}"), "t=1,v1=x")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestHandleWebhookPaymentSucceededPatchesAndSupersedes(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	provider := newFakeProvider()
	provider.subscriptions["sub-new"] = &Subscription{
		ID:          "sub-new",
		CustomerID:  "cus-1",
		Status:      StatusActive,
		ProductID:   "prod-gold",
		Interval:    IntervalMonth,
		PeriodStart: start,
		PeriodEnd:   start.AddDate(0, 1, 0),
		Metadata:    map[string]string{"companyId": "comp-1"},
	}
	provider.subscriptions["sub-old"] = &Subscription{
		ID: "sub-old", CustomerID: "cus-1", Status: StatusActive,
	}
	provider.invoiceSubscriptions["inv-1"] = "sub-new"
	provider.verifiedEvent = &WebhookEvent{
		Type:       "payment_intent.succeeded",
		InvoiceID:  "inv-1",
		CustomerID: "cus-1",
	}

	tenant := tenantWithSubscription("sub-old")
	tenant.PaymentCustomerID = strptr("cus-1")
	tenants := newFakeTenants(tenant)
	svc := newTestService(provider, tenants, &fakeNotifier{})

	err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")
	require.NoError(t, err)

	require.Len(t, tenants.patches, 1)
	assert.Equal(t, "sub-new", tenants.patches[0].SubscriptionID)
	assert.Equal(t, PlanGold, tenants.patches[0].PlanType)
	assert.Equal(t, []string{"sub-old"}, provider.canceled)

	// Replay: the tenant now records sub-new, so no further cancel and
	// an identical patch.
	err = svc.HandleWebhook(context.Background(), []byte("{}"), "sig")
	require.NoError(t, err)
	require.Len(t, tenants.patches, 2)
	assert.Equal(t, tenants.patches[0], tenants.patches[1])
	assert.Equal(t, []string{"sub-old"}, provider.canceled)
}

func TestHandleWebhookPaymentSucceededAdoptsFirstSubscription(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	provider := newFakeProvider()
	provider.subscriptions["sub-1"] = &Subscription{
		ID:          "sub-1",
		CustomerID:  "cus-1",
		Status:      StatusActive,
		ProductID:   "prod-gold",
		Interval:    IntervalMonth,
		PeriodStart: start,
		PeriodEnd:   start.AddDate(0, 1, 0),
		Metadata:    map[string]string{"companyId": "comp-1"},
	}
	provider.invoiceSubscriptions["inv-1"] = "sub-1"
	provider.verifiedEvent = &WebhookEvent{
		Type:       "payment_intent.succeeded",
		InvoiceID:  "inv-1",
		CustomerID: "cus-1",
	}

	tenant := &company.Company{ID: "comp-1", PaymentCustomerID: strptr("cus-1")}
	tenants := newFakeTenants(tenant)
	svc := newTestService(provider, tenants, &fakeNotifier{})

	err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")
	require.NoError(t, err)

	require.Len(t, tenants.patches, 1,
		"first paid subscription must be adopted onto the tenant")
	assert.Equal(t, "sub-1", tenants.patches[0].SubscriptionID)
	assert.Equal(t, StatusActive, tenants.patches[0].Status)
	assert.Empty(t, provider.canceled, "nothing to supersede on first adoption")
}

func TestHandleWebhookPaymentSucceededWithoutInvoiceIsSkipped(t *testing.T) {
	provider := newFakeProvider()
	provider.verifiedEvent = &WebhookEvent{
		Type:       "payment_intent.succeeded",
		CustomerID: "cus-1",
	}

	tenant := &company.Company{ID: "comp-1", PaymentCustomerID: strptr("cus-1")}
	tenants := newFakeTenants(tenant)
	svc := newTestService(provider, tenants, &fakeNotifier{})

	err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")
	require.NoError(t, err)
	assert.Empty(t, tenants.patches)
	assert.Zero(t, tenants.clears)
}

func TestHandleWebhookInvoicePaymentSucceededResyncsPeriod(t *testing.T) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	provider := newFakeProvider()
	provider.subscriptions["sub-1"] = &Subscription{
		ID:          "sub-1",
		CustomerID:  "cus-1",
		Status:      StatusActive,
		PeriodStart: start,
		PeriodEnd:   start.AddDate(0, 1, 0),
	}
	provider.verifiedEvent = &WebhookEvent{
		Type:           "invoice.payment_succeeded",
		SubscriptionID: "sub-1",
		CustomerID:     "cus-1",
	}

	tenant := tenantWithSubscription("sub-1")
	tenant.PaymentCustomerID = strptr("cus-1")
	tenants := newFakeTenants(tenant)
	svc := newTestService(provider, tenants, &fakeNotifier{})

	err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")
	require.NoError(t, err)

	require.Len(t, tenants.patches, 1)
	assert.Equal(t, start.AddDate(0, 1, 0), tenants.patches[0].End)
	assert.Equal(t, PlanGold, tenants.patches[0].PlanType,
		"renewal carries the recorded plan")
	assert.Empty(t, provider.canceled)
}

func TestHandleWebhookInvoicePaymentSucceededClearsWhenNotActive(t *testing.T) {
	provider := newFakeProvider()
	provider.subscriptions["sub-1"] = &Subscription{
		ID:         "sub-1",
		CustomerID: "cus-1",
		Status:     StatusPastDue,
	}
	provider.verifiedEvent = &WebhookEvent{
		Type:           "invoice.payment_succeeded",
		SubscriptionID: "sub-1",
		CustomerID:     "cus-1",
	}

	tenant := tenantWithSubscription("sub-1")
	tenant.PaymentCustomerID = strptr("cus-1")
	tenants := newFakeTenants(tenant)
	svc := newTestService(provider, tenants, &fakeNotifier{})

	err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")
	require.NoError(t, err)

	assert.Empty(t, tenants.patches,
		"a non-active status must not be recorded onto the tenant")
	assert.Equal(t, 1, tenants.clears)
}

func TestHandleWebhookPaymentIntentCanceledMutatesNothing(t *testing.T) {
	provider := newFakeProvider()
	provider.verifiedEvent = &WebhookEvent{
		Type:       "payment_intent.canceled",
		CustomerID: "cus-1",
	}

	tenant := tenantWithSubscription("sub-1")
	tenant.PaymentCustomerID = strptr("cus-1")
	tenants := newFakeTenants(tenant)
	svc := newTestService(provider, tenants, &fakeNotifier{})

	err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")
	require.NoError(t, err)
	assert.Empty(t, tenants.patches)
	assert.Zero(t, tenants.clears)
	assert.Empty(t, provider.canceled)
}

func TestHandleWebhookInvoiceFailedClearsAndCancels(t *testing.T) {
	provider := newFakeProvider()
	provider.subscriptions["sub-1"] = &Subscription{
		ID: "sub-1", Status: StatusActive,
	}
	provider.verifiedEvent = &WebhookEvent{
		Type:           "invoice.payment_failed",
		SubscriptionID: "sub-1",
		CustomerID:     "cus-1",
	}

	tenant := tenantWithSubscription("sub-1")
	tenant.PaymentCustomerID = strptr("cus-1")
	tenants := newFakeTenants(tenant)
	svc := newTestService(provider, tenants, &fakeNotifier{})

	err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")
	require.NoError(t, err)
	assert.Equal(t, 1, tenants.clears)
	assert.Equal(t, []string{"sub-1"}, provider.canceled)
}

func TestHandleWebhookPromotionNotifiesTenant(t *testing.T) {
	provider := newFakeProvider()
	provider.verifiedEvent = &WebhookEvent{
		Type:          "promotion_code.created",
		CustomerID:    "cus-1",
		PromotionCode: "SUMMER20",
	}

	tenant := &company.Company{ID: "comp-1", PaymentCustomerID: strptr("cus-1")}
	tenants := newFakeTenants(tenant)
	notifier := &fakeNotifier{}
	svc := newTestService(provider, tenants, notifier)

	err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")
	require.NoError(t, err)
	assert.Equal(t, []string{"SUMMER20"}, notifier.notified)
}

func TestHandleWebhookUnrecognizedTypeIsAcked(t *testing.T) {
	provider := newFakeProvider()
	provider.verifiedEvent = &WebhookEvent{Type: "customer.updated"}
	svc := newTestService(provider, newFakeTenants(), &fakeNotifier{})

	err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")
	assert.NoError(t, err)
}

func TestUpdatePlanPriceArchivesStalePrices(t *testing.T) {
	provider := newFakeProvider()
	provider.prices = []Price{
		{ID: "price-old", ProductID: "prod-gold", Interval: IntervalMonth, Active: true},
		{ID: "price-year", ProductID: "prod-gold", Interval: IntervalYear, Active: true},
	}
	svc := newTestService(provider, newFakeTenants(), &fakeNotifier{})

	price, err := svc.UpdatePlanPrice(
		context.Background(), PlanGold, IntervalMonth, "dkk", 9900)
	require.NoError(t, err)

	var oldActive, yearActive, newDefault bool
	for _, p := range provider.prices {
		switch p.ID {
		case "price-old":
			oldActive = p.Active
		case "price-year":
			yearActive = p.Active
		case price.ID:
			newDefault = p.IsDefault
		}
	}

	assert.False(t, oldActive)
	assert.True(t, yearActive, "other interval must stay active")
	assert.True(t, newDefault)
}

func TestListSubscriptionsEnrichesCustomerDetail(t *testing.T) {
	provider := newFakeProvider()
	provider.customers["cus-1"] = Customer{
		ID: "cus-1", Email: "t@example.com", Name: "Acme",
	}
	provider.subscriptions["sub-1"] = &Subscription{
		ID:         "sub-1",
		CustomerID: "cus-1",
		Status:     StatusActive,
	}
	provider.subscriptions["sub-2"] = &Subscription{
		ID:         "sub-2",
		CustomerID: "cus-gone",
		Status:     StatusActive,
	}

	tenant := &company.Company{
		ID: "comp-1", CompanyName: "Acme", PaymentCustomerID: strptr("cus-1"),
	}
	svc := newTestService(provider, newFakeTenants(tenant), &fakeNotifier{})

	details, err := svc.ListSubscriptions(context.Background())
	require.NoError(t, err)
	require.Len(t, details, 2)

	byID := make(map[string]SubscriptionDetail, len(details))
	for _, detail := range details {
		byID[detail.Subscription.ID] = detail
	}

	assert.Equal(t, "t@example.com", byID["sub-1"].CustomerEmail)
	assert.Equal(t, "Acme", byID["sub-1"].CustomerName)
	assert.Equal(t, "comp-1", byID["sub-1"].CompanyID)

	// A failed lookup leaves the detail unenriched, not the listing failed.
	assert.Empty(t, byID["sub-2"].CustomerEmail)
}
