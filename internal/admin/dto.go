// AngelaMos | 2026
// dto.go

package admin

import "time"

type CreateAdminRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
	Name        string `json:"name" validate:"required,min=2,max=100"`
	PhoneNumber string `json:"phoneNumber,omitempty" validate:"omitempty,e164"`
}

type BlockRequest struct {
	Blocked bool `json:"blocked"`
}

type AdminResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	IsBlocked   bool      `json:"isBlocked"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

type AnalyticsResponse struct {
	TotalUsers           int `json:"totalUsers"`
	ActiveUsers          int `json:"activeUsers"`
	NewUsersLastWeek     int `json:"newUsersLastWeek"`
	PaymentsToday        int `json:"paymentsToday"`
	SubsExpiringTomorrow int `json:"subscriptionsExpiringTomorrow"`
}

func ToAdminResponse(a *Admin) AdminResponse {
	return AdminResponse{
		ID:          a.ID,
		Email:       a.Email,
		Name:        a.Name,
		PhoneNumber: a.PhoneNumber,
		IsBlocked:   a.IsBlocked,
		IsActive:    a.IsActive,
		CreatedAt:   a.CreatedAt,
	}
}
