// AngelaMos | 2026
// dto.go

package billing

import "time"

type CreateSubscriptionRequest struct {
	PlanType string `json:"planType" validate:"required,oneof=goldPlan silverPlan bronzePlan"`
	Interval string `json:"interval" validate:"required,oneof=month year"`
}

type CreateSubscriptionResponse struct {
	SubscriptionID string `json:"subscriptionId"`
	ClientSecret   string `json:"clientSecret"`
}

type UpdatePriceRequest struct {
	PlanType   string `json:"planType"   validate:"required,oneof=goldPlan silverPlan bronzePlan"`
	Interval   string `json:"interval"   validate:"required,oneof=month year"`
	Currency   string `json:"currency"   validate:"required,iso4217"`
	UnitAmount int64  `json:"unitAmount" validate:"required,gt=0"`
}

type PriceResponse struct {
	ID         string `json:"id"`
	ProductID  string `json:"productId"`
	UnitAmount int64  `json:"unitAmount"`
	Currency   string `json:"currency"`
	Interval   string `json:"interval"`
	Nickname   string `json:"nickname,omitempty"`
	Active     bool   `json:"active"`
	IsDefault  bool   `json:"isDefault"`
}

type PlanPricesResponse struct {
	PlanType string          `json:"planType"`
	Prices   []PriceResponse `json:"prices"`
}

type SubscriptionResponse struct {
	ID            string     `json:"id"`
	CustomerID    string     `json:"customerId"`
	Status        string     `json:"status"`
	Interval      string     `json:"interval"`
	AmountCents   int64      `json:"amountCents"`
	PeriodStart   time.Time  `json:"periodStart"`
	PeriodEnd     time.Time  `json:"periodEnd"`
	CanceledAt    *time.Time `json:"canceledAt,omitempty"`
	Created       time.Time  `json:"created"`
	CompanyID     string     `json:"companyId,omitempty"`
	CompanyName   string     `json:"companyName,omitempty"`
	CustomerEmail string     `json:"customerEmail,omitempty"`
	CustomerName  string     `json:"customerName,omitempty"`
}

type PromotionCodeResponse struct {
	ID             string  `json:"id"`
	Code           string  `json:"code"`
	Active         bool    `json:"active"`
	PercentOff     float64 `json:"percentOff,omitempty"`
	AmountOffCents int64   `json:"amountOffCents,omitempty"`
}

func ToPriceResponse(p Price) PriceResponse {
	return PriceResponse{
		ID:         p.ID,
		ProductID:  p.ProductID,
		UnitAmount: p.UnitAmount,
		Currency:   p.Currency,
		Interval:   p.Interval,
		Nickname:   p.Nickname,
		Active:     p.Active,
		IsDefault:  p.IsDefault,
	}
}

func ToPlanPricesResponse(pp PlanPrices) PlanPricesResponse {
	prices := make([]PriceResponse, 0, len(pp.Prices))
	for _, p := range pp.Prices {
		prices = append(prices, ToPriceResponse(p))
	}

	return PlanPricesResponse{PlanType: pp.PlanType, Prices: prices}
}

func ToSubscriptionResponse(detail SubscriptionDetail) SubscriptionResponse {
	sub := detail.Subscription

	var canceledAt *time.Time
	if !sub.CanceledAt.IsZero() {
		canceledAt = &sub.CanceledAt
	}

	return SubscriptionResponse{
		ID:            sub.ID,
		CustomerID:    sub.CustomerID,
		Status:        sub.Status,
		Interval:      sub.Interval,
		AmountCents:   sub.AmountCents,
		PeriodStart:   sub.PeriodStart,
		PeriodEnd:     sub.PeriodEnd,
		CanceledAt:    canceledAt,
		Created:       sub.Created,
		CompanyID:     detail.CompanyID,
		CompanyName:   detail.CompanyName,
		CustomerEmail: detail.CustomerEmail,
		CustomerName:  detail.CustomerName,
	}
}

func ToPromotionCodeResponse(pc PromotionCode) PromotionCodeResponse {
	return PromotionCodeResponse{
		ID:             pc.ID,
		Code:           pc.Code,
		Active:         pc.Active,
		PercentOff:     pc.PercentOff,
		AmountOffCents: pc.AmountOffCents,
	}
}
