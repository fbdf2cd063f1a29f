// AngelaMos | 2026
// stripe.go

package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/carterperez-dev/stillmind/internal/config"
	"github.com/carterperez-dev/stillmind/internal/core"
)

type stripeProvider struct {
	sc            *client.API
	webhookSecret string
}

func NewStripeProvider(cfg config.BillingConfig) Provider {
	sc := &client.API{}
	sc.Init(cfg.SecretKey, nil)

	return &stripeProvider{
		sc:            sc,
		webhookSecret: cfg.WebhookSecret,
	}
}

func (p *stripeProvider) CreateCustomer(
	ctx context.Context,
	email, name, description string,
) (string, error) {
	params := &stripe.CustomerParams{
		Email:       stripe.String(email),
		Name:        stripe.String(name),
		Description: stripe.String(description),
	}
	params.Context = ctx

	customer, err := p.sc.Customers.New(params)
	if err != nil {
		return "", upstream("create customer", err)
	}

	return customer.ID, nil
}

func (p *stripeProvider) GetCustomer(
	ctx context.Context,
	customerID string,
) (*Customer, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx

	customer, err := p.sc.Customers.Get(customerID, params)
	if err != nil {
		return nil, upstream("get customer", err)
	}

	return &Customer{
		ID:    customer.ID,
		Email: customer.Email,
		Name:  customer.Name,
	}, nil
}

func (p *stripeProvider) CreateSubscription(
	ctx context.Context,
	customerID, priceID string,
	metadata map[string]string,
) (*Subscription, error) {
	params := &stripe.SubscriptionParams{
		Customer: stripe.String(customerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(priceID)},
		},
		PaymentBehavior: stripe.String("default_incomplete"),
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	params.AddExpand("latest_invoice.payment_intent")

	sub, err := p.sc.Subscriptions.New(params)
	if err != nil {
		return nil, upstream("create subscription", err)
	}

	return toSubscription(sub), nil
}

func (p *stripeProvider) GetSubscription(
	ctx context.Context,
	subscriptionID string,
) (*Subscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	sub, err := p.sc.Subscriptions.Get(subscriptionID, params)
	if err != nil {
		return nil, upstream("get subscription", err)
	}

	return toSubscription(sub), nil
}

func (p *stripeProvider) ResolveInvoiceSubscription(
	ctx context.Context,
	invoiceID string,
) (string, error) {
	params := &stripe.InvoiceParams{}
	params.Context = ctx

	inv, err := p.sc.Invoices.Get(invoiceID, params)
	if err != nil {
		return "", upstream("get invoice", err)
	}

	if inv.Subscription == nil {
		return "", nil
	}

	return inv.Subscription.ID, nil
}

func (p *stripeProvider) CancelSubscription(
	ctx context.Context,
	subscriptionID string,
) error {
	params := &stripe.SubscriptionCancelParams{}
	params.Context = ctx

	if _, err := p.sc.Subscriptions.Cancel(subscriptionID, params); err != nil {
		return upstream("cancel subscription", err)
	}

	return nil
}

func (p *stripeProvider) ActiveSubscriptionForCustomer(
	ctx context.Context,
	customerID string,
) (*Subscription, error) {
	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String(string(stripe.SubscriptionStatusActive)),
	}
	params.Context = ctx

	iter := p.sc.Subscriptions.List(params)
	for iter.Next() {
		return toSubscription(iter.Subscription()), nil
	}
	if err := iter.Err(); err != nil {
		return nil, upstream("list subscriptions", err)
	}

	return nil, nil
}

func (p *stripeProvider) ListSubscriptions(
	ctx context.Context,
) ([]Subscription, error) {
	params := &stripe.SubscriptionListParams{
		Status: stripe.String("all"),
	}
	params.Context = ctx

	var subs []Subscription
	iter := p.sc.Subscriptions.List(params)
	for iter.Next() {
		subs = append(subs, *toSubscription(iter.Subscription()))
	}
	if err := iter.Err(); err != nil {
		return nil, upstream("list subscriptions", err)
	}

	return subs, nil
}

func (p *stripeProvider) FindPrice(
	ctx context.Context,
	productID, interval string,
) (*Price, error) {
	prices, err := p.ListPrices(ctx, productID)
	if err != nil {
		return nil, err
	}

	var match *Price
	for i := range prices {
		price := &prices[i]
		if !price.Active || price.Interval != interval {
			continue
		}
		if price.IsDefault {
			return price, nil
		}
		if match == nil {
			match = price
		}
	}

	if match == nil {
		return nil, fmt.Errorf(
			"find price: no active %s price for product %s: %w",
			interval, productID, core.ErrNotFound,
		)
	}

	return match, nil
}

func (p *stripeProvider) ListPrices(
	ctx context.Context,
	productID string,
) ([]Price, error) {
	productParams := &stripe.ProductParams{}
	productParams.Context = ctx

	product, err := p.sc.Products.Get(productID, productParams)
	if err != nil {
		return nil, upstream("get product", err)
	}

	defaultPriceID := ""
	if product.DefaultPrice != nil {
		defaultPriceID = product.DefaultPrice.ID
	}

	params := &stripe.PriceListParams{
		Product: stripe.String(productID),
	}
	params.Context = ctx

	var prices []Price
	iter := p.sc.Prices.List(params)
	for iter.Next() {
		price := iter.Price()
		interval := ""
		if price.Recurring != nil {
			interval = string(price.Recurring.Interval)
		}
		prices = append(prices, Price{
			ID:         price.ID,
			ProductID:  productID,
			UnitAmount: price.UnitAmount,
			Currency:   string(price.Currency),
			Interval:   interval,
			Nickname:   price.Nickname,
			Active:     price.Active,
			IsDefault:  price.ID == defaultPriceID,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, upstream("list prices", err)
	}

	return prices, nil
}

func (p *stripeProvider) CreatePrice(
	ctx context.Context,
	productID, interval, nickname string,
	unitAmount int64,
	currency string,
) (*Price, error) {
	params := &stripe.PriceParams{
		Product:    stripe.String(productID),
		UnitAmount: stripe.Int64(unitAmount),
		Currency:   stripe.String(currency),
		Nickname:   stripe.String(nickname),
		Recurring: &stripe.PriceRecurringParams{
			Interval: stripe.String(interval),
		},
	}
	params.Context = ctx

	price, err := p.sc.Prices.New(params)
	if err != nil {
		return nil, upstream("create price", err)
	}

	return &Price{
		ID:         price.ID,
		ProductID:  productID,
		UnitAmount: price.UnitAmount,
		Currency:   string(price.Currency),
		Interval:   interval,
		Nickname:   price.Nickname,
		Active:     price.Active,
	}, nil
}

func (p *stripeProvider) SetDefaultPrice(
	ctx context.Context,
	productID, priceID string,
) error {
	params := &stripe.ProductParams{
		DefaultPrice: stripe.String(priceID),
	}
	params.Context = ctx

	if _, err := p.sc.Products.Update(productID, params); err != nil {
		return upstream("set default price", err)
	}

	return nil
}

func (p *stripeProvider) ArchivePrice(ctx context.Context, priceID string) error {
	params := &stripe.PriceParams{
		Active: stripe.Bool(false),
	}
	params.Context = ctx

	if _, err := p.sc.Prices.Update(priceID, params); err != nil {
		return upstream("archive price", err)
	}

	return nil
}

func (p *stripeProvider) ListPromotionCodes(
	ctx context.Context,
) ([]PromotionCode, error) {
	params := &stripe.PromotionCodeListParams{}
	params.Context = ctx

	var codes []PromotionCode
	iter := p.sc.PromotionCodes.List(params)
	for iter.Next() {
		code := iter.PromotionCode()
		pc := PromotionCode{
			ID:      code.ID,
			Code:    code.Code,
			Active:  code.Active,
			Created: time.Unix(code.Created, 0).UTC(),
		}
		if code.Coupon != nil {
			pc.PercentOff = code.Coupon.PercentOff
			pc.AmountOffCents = code.Coupon.AmountOff
		}
		codes = append(codes, pc)
	}
	if err := iter.Err(); err != nil {
		return nil, upstream("list promotion codes", err)
	}

	return codes, nil
}

// VerifyWebhook checks the signature before anything in the payload is
// trusted. A bad signature wraps core.ErrInvalidInput so the handler
// answers 400, not 502.
func (p *stripeProvider) VerifyWebhook(
	payload []byte,
	sigHeader string,
) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, p.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("verify webhook: %w", core.ErrInvalidInput)
	}

	var object struct {
		ID           string `json:"id"`
		Invoice      string `json:"invoice"`
		Subscription string `json:"subscription"`
		Customer     string `json:"customer"`
		Code         string `json:"code"`
	}
	if err := json.Unmarshal(event.Data.Raw, &object); err != nil {
		return nil, fmt.Errorf("decode webhook object: %w", core.ErrInvalidInput)
	}

	return &WebhookEvent{
		ID:             event.ID,
		Type:           string(event.Type),
		ObjectID:       object.ID,
		InvoiceID:      object.Invoice,
		SubscriptionID: object.Subscription,
		CustomerID:     object.Customer,
		PromotionCode:  object.Code,
	}, nil
}

func toSubscription(sub *stripe.Subscription) *Subscription {
	out := &Subscription{
		ID:          sub.ID,
		Status:      string(sub.Status),
		PeriodStart: time.Unix(sub.CurrentPeriodStart, 0).UTC(),
		PeriodEnd:   time.Unix(sub.CurrentPeriodEnd, 0).UTC(),
		Created:     time.Unix(sub.Created, 0).UTC(),
		Metadata:    sub.Metadata,
	}

	if sub.Customer != nil {
		out.CustomerID = sub.Customer.ID
	}
	if sub.CanceledAt > 0 {
		out.CanceledAt = time.Unix(sub.CanceledAt, 0).UTC()
	}

	if sub.Items != nil && len(sub.Items.Data) > 0 {
		price := sub.Items.Data[0].Price
		if price != nil {
			out.PriceID = price.ID
			out.AmountCents = price.UnitAmount
			if price.Product != nil {
				out.ProductID = price.Product.ID
			}
			if price.Recurring != nil {
				out.Interval = string(price.Recurring.Interval)
			}
		}
	}

	if sub.LatestInvoice != nil && sub.LatestInvoice.PaymentIntent != nil {
		out.ClientSecret = sub.LatestInvoice.PaymentIntent.ClientSecret
	}

	return out
}

func upstream(op string, err error) error {
	return fmt.Errorf("%s: %s: %w", op, err, core.ErrUpstream)
}
