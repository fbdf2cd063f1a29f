// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/stillmind/internal/core"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.Login)
	r.Post("/forgot-password", h.ForgotPassword)
	r.Post("/verify-otp", h.VerifyOTP)
	r.Patch("/otp-new-password-verification", h.ResetPassword)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	clientType := r.Header.Get("x-client-type")

	result, err := h.service.Login(r.Context(), req.Email, req.Password, clientType)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			core.Unauthorized(w, "invalid credentials")
		case errors.Is(err, ErrEmailNotVerified):
			core.Forbidden(w, "email not verified")
		case errors.Is(err, ErrAccountBlocked):
			core.Forbidden(w, "account is blocked")
		case errors.Is(err, ErrAccountInactive):
			core.Forbidden(w, "account is deactivated")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, ToLoginResponse(result))
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if err := h.service.RequestPasswordReset(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "account")
		case errors.Is(err, core.ErrUpstream):
			core.JSONError(w, core.UpstreamError("could not deliver reset code"))
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, map[string]string{"message": "reset code sent"})
}

func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if err := h.service.VerifyOTP(r.Context(), req.Email, req.OTP); err != nil {
		h.writeOTPError(w, err)
		return
	}

	core.OK(w, map[string]string{"message": "code verified"})
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	err := h.service.ResetPassword(r.Context(), req.Email, req.OTP, req.NewPassword)
	if err != nil {
		h.writeOTPError(w, err)
		return
	}

	core.OK(w, map[string]string{"message": "password updated"})
}

func (h *Handler) writeOTPError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "account")
	case errors.Is(err, ErrOTPExpired):
		core.BadRequest(w, "code has expired")
	case errors.Is(err, ErrOTPInvalid):
		core.BadRequest(w, "code is invalid")
	default:
		core.InternalServerError(w, err)
	}
}
