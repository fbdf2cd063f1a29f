// AngelaMos | 2026
// entity.go

package company

import (
	"time"
)

// Company is the tenant record. Subscription state lives directly on
// the row and is only ever written as a whole patch or cleared, so a
// partially reconciled subscription is never observable.
type Company struct {
	ID                    string     `db:"id"`
	Email                 string     `db:"email"`
	PasswordHash          string     `db:"password_hash"`
	CompanyName           string     `db:"company_name"`
	PhoneNumber           string     `db:"phone_number"`
	EmailVerified         bool       `db:"email_verified"`
	IsBlocked             bool       `db:"is_blocked"`
	IsActive              bool       `db:"is_active"`
	VerificationTokenHash *string    `db:"verification_token_hash"`
	VerificationExpires   *time.Time `db:"verification_expires"`
	PaymentCustomerID     *string    `db:"payment_customer_id"`
	SubscriptionID        *string    `db:"subscription_id"`
	SubscriptionStatus    *string    `db:"subscription_status"`
	SubscriptionPlanType  *string    `db:"subscription_plan_type"`
	SubscriptionInterval  *string    `db:"subscription_interval"`
	SubscriptionStart     *time.Time `db:"subscription_start"`
	SubscriptionEnd       *time.Time `db:"subscription_end"`
	CreatedAt             time.Time  `db:"created_at"`
	UpdatedAt             time.Time  `db:"updated_at"`
}

func (c *Company) HasCustomer() bool {
	return c.PaymentCustomerID != nil && *c.PaymentCustomerID != ""
}

func (c *Company) ActiveSubscriptionID() string {
	if c.SubscriptionID == nil {
		return ""
	}
	return *c.SubscriptionID
}

// SubscriptionPatch is the full set of subscription fields written in a
// single UPDATE during reconciliation.
type SubscriptionPatch struct {
	SubscriptionID string
	Status         string
	PlanType       string
	Interval       string
	Start          time.Time
	End            time.Time
}

// JoinRequest is a tenant's pending application, resolved by a platform
// admin.
type JoinRequest struct {
	ID         string     `db:"id"`
	CompanyID  string     `db:"company_id"`
	Status     string     `db:"status"`
	ResolvedBy *string    `db:"resolved_by"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}

const (
	JoinStatusPending  = "pending"
	JoinStatusApproved = "approved"
	JoinStatusDenied   = "denied"
)

const RoleCompany = "company"
