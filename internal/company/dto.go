// AngelaMos | 2026
// dto.go

package company

import "time"

type SignupRequest struct {
	Email       string `json:"email"       validate:"required,email,max=255"`
	Password    string `json:"password"    validate:"required,min=8,max=128"`
	CompanyName string `json:"companyName" validate:"required,min=1,max=100"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,max=20"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
	OTP   string `json:"otp"   validate:"required,min=4,max=10"`
}

type AdminCreateRequest struct {
	Email       string `json:"email"       validate:"required,email,max=255"`
	Password    string `json:"password"    validate:"required,min=8,max=128"`
	CompanyName string `json:"companyName" validate:"required,min=1,max=100"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,max=20"`
}

type UpdateRequest struct {
	CompanyName *string `json:"companyName,omitempty" validate:"omitempty,min=1,max=100"`
	PhoneNumber *string `json:"phoneNumber,omitempty" validate:"omitempty,max=20"`
}

type BlockRequest struct {
	Blocked bool `json:"blocked"`
}

type CompanyResponse struct {
	ID                   string     `json:"id"`
	Email                string     `json:"email"`
	CompanyName          string     `json:"companyName"`
	PhoneNumber          string     `json:"phoneNumber,omitempty"`
	EmailVerified        bool       `json:"emailVerified"`
	IsBlocked            bool       `json:"isBlocked"`
	IsActive             bool       `json:"isActive"`
	SubscriptionID       *string    `json:"subscriptionId,omitempty"`
	SubscriptionStatus   *string    `json:"subscriptionStatus,omitempty"`
	SubscriptionPlanType *string    `json:"subscriptionPlanType,omitempty"`
	SubscriptionInterval *string    `json:"subscriptionInterval,omitempty"`
	SubscriptionStart    *time.Time `json:"subscriptionStart,omitempty"`
	SubscriptionEnd      *time.Time `json:"subscriptionEnd,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
}

type JoinRequestResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"companyId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type DashboardResponse struct {
	Company   CompanyResponse `json:"company"`
	UserCount int             `json:"userCount"`
}

func ToCompanyResponse(c *Company) CompanyResponse {
	return CompanyResponse{
		ID:                   c.ID,
		Email:                c.Email,
		CompanyName:          c.CompanyName,
		PhoneNumber:          c.PhoneNumber,
		EmailVerified:        c.EmailVerified,
		IsBlocked:            c.IsBlocked,
		IsActive:             c.IsActive,
		SubscriptionID:       c.SubscriptionID,
		SubscriptionStatus:   c.SubscriptionStatus,
		SubscriptionPlanType: c.SubscriptionPlanType,
		SubscriptionInterval: c.SubscriptionInterval,
		SubscriptionStart:    c.SubscriptionStart,
		SubscriptionEnd:      c.SubscriptionEnd,
		CreatedAt:            c.CreatedAt,
	}
}

func ToCompanyResponseList(companies []Company) []CompanyResponse {
	responses := make([]CompanyResponse, 0, len(companies))
	for _, c := range companies {
		responses = append(responses, ToCompanyResponse(&c))
	}
	return responses
}

func ToJoinRequestResponse(j *JoinRequest) JoinRequestResponse {
	return JoinRequestResponse{
		ID:        j.ID,
		CompanyID: j.CompanyID,
		Status:    j.Status,
		CreatedAt: j.CreatedAt,
	}
}

func ToJoinRequestResponseList(reqs []JoinRequest) []JoinRequestResponse {
	responses := make([]JoinRequestResponse, 0, len(reqs))
	for _, j := range reqs {
		responses = append(responses, ToJoinRequestResponse(&j))
	}
	return responses
}

func ToDashboardResponse(c *Company, userCount int) *DashboardResponse {
	return &DashboardResponse{
		Company:   ToCompanyResponse(c),
		UserCount: userCount,
	}
}
