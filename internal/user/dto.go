// AngelaMos | 2026
// dto.go

package user

import "time"

type SignupRequest struct {
	Email       string `json:"email"       validate:"required,email,max=255"`
	Password    string `json:"password"    validate:"required,min=8,max=128"`
	Name        string `json:"name"        validate:"required,min=1,max=100"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,max=20"`
	CompanyName string `json:"companyName" validate:"required,min=1,max=100"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
	OTP   string `json:"otp"   validate:"required,min=4,max=10"`
}

type CreateUserRequest struct {
	Email       string `json:"email"       validate:"required,email,max=255"`
	Password    string `json:"password"    validate:"required,min=8,max=128"`
	Name        string `json:"name"        validate:"required,min=1,max=100"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,max=20"`
}

type UpdateUserRequest struct {
	Name        *string `json:"name,omitempty"        validate:"omitempty,min=1,max=100"`
	PhoneNumber *string `json:"phoneNumber,omitempty" validate:"omitempty,max=20"`
}

type ActiveRequest struct {
	Active bool `json:"active"`
}

type BlockRequest struct {
	Blocked bool `json:"blocked"`
}

type AudioHistoryRequest struct {
	AudioID       string `json:"audioId" validate:"required,uuid4"`
	HasListened   bool   `json:"hasListened"`
	HasDownloaded bool   `json:"hasDownloaded"`
}

type UserResponse struct {
	ID                  string    `json:"id"`
	Email               string    `json:"email"`
	Name                string    `json:"name"`
	PhoneNumber         string    `json:"phoneNumber,omitempty"`
	CompanyID           string    `json:"companyId"`
	EmailVerified       bool      `json:"emailVerified"`
	IsVerifiedByCompany bool      `json:"isVerifiedByCompany"`
	IsBlocked           bool      `json:"isBlocked"`
	IsActive            bool      `json:"isActive"`
	CreatedAt           time.Time `json:"createdAt"`
}

type JoinRequestResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	CompanyID string    `json:"companyId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type AudioHistoryResponse struct {
	AudioID       string    `json:"audioId"`
	HasListened   bool      `json:"hasListened"`
	HasDownloaded bool      `json:"hasDownloaded"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:                  u.ID,
		Email:               u.Email,
		Name:                u.Name,
		PhoneNumber:         u.PhoneNumber,
		CompanyID:           u.CompanyID,
		EmailVerified:       u.EmailVerified,
		IsVerifiedByCompany: u.IsVerifiedByCompany,
		IsBlocked:           u.IsBlocked,
		IsActive:            u.IsActive,
		CreatedAt:           u.CreatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, ToUserResponse(&u))
	}
	return responses
}

func ToJoinRequestResponse(j *JoinRequest) JoinRequestResponse {
	return JoinRequestResponse{
		ID:        j.ID,
		UserID:    j.UserID,
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

func ToAudioHistoryResponse(a *AudioHistory) AudioHistoryResponse {
	return AudioHistoryResponse{
		AudioID:       a.AudioID,
		HasListened:   a.HasListened,
		HasDownloaded: a.HasDownloaded,
		UpdatedAt:     a.UpdatedAt,
	}
}

func ToAudioHistoryResponseList(entries []AudioHistory) []AudioHistoryResponse {
	responses := make([]AudioHistoryResponse, 0, len(entries))
	for _, a := range entries {
		responses = append(responses, ToAudioHistoryResponse(&a))
	}
	return responses
}
