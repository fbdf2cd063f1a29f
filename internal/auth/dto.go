// AngelaMos | 2026
// dto.go

package auth

// The email field carries the login identifier and may hold a phone
// number; dispatch happens on its shape.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,max=255"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,max=255"`
	OTP   string `json:"otp"   validate:"required,min=4,max=10"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"       validate:"required,max=255"`
	OTP         string `json:"otp"         validate:"required,min=4,max=10"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=128"`
}

type LoginResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	AccountType string `json:"accountType"`
	CompanyName string `json:"companyName,omitempty"`
	Token       string `json:"token,omitempty"`
}

func ToLoginResponse(result *LoginResult) LoginResponse {
	return LoginResponse{
		ID:          result.Account.ID,
		Email:       result.Account.Email,
		Role:        result.Account.Role,
		AccountType: string(result.Account.Kind),
		CompanyName: result.Account.CompanyName,
		Token:       result.Token,
	}
}
