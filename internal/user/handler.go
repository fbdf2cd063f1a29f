// AngelaMos | 2026
// handler.go

package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/stillmind/internal/core"
	"github.com/carterperez-dev/stillmind/internal/middleware"
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

// RegisterPublicRoutes mounts the unauthenticated signup endpoints.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/signup", h.Signup)
	r.Post("/verify-email", h.VerifyEmail)
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/users", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/me", h.GetMe)
		r.Put("/me", h.UpdateMe)
		r.Post("/audio-history", h.RecordAudioHistory)
		r.Get("/audio-history", h.ListAudioHistory)
	})
}

// RegisterCompanyRoutes mounts the tenant-side user management surface.
// The acting company is identified by its own account id.
func (h *Handler) RegisterCompanyRoutes(
	r chi.Router,
	authenticator, companyOnly func(http.Handler) http.Handler,
) {
	r.Route("/company/users", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(companyOnly)

		r.Get("/", h.ListCompanyUsers)
		r.Post("/", h.CreateCompanyUser)
		r.Get("/blocked", h.ListBlockedUsers)
		r.Put("/{userID}", h.UpdateUser)
		r.Put("/{userID}/active", h.SetActive)
		r.Put("/{userID}/block", h.SetBlocked)
		r.Delete("/{userID}", h.DeleteUser)
	})

	r.Route("/company/join-requests", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(companyOnly)

		r.Get("/", h.ListJoinRequests)
		r.Post("/{requestID}/approve", h.ApproveJoinRequest)
		r.Post("/{requestID}/deny", h.DenyJoinRequest)
	})
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, err := h.service.Signup(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrDuplicateKey):
			core.JSONError(w, core.DuplicateError("email"))
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "company")
		case errors.Is(err, core.ErrUpstream):
			core.JSONError(w, core.UpstreamError("could not send verification mail"))
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, ToUserResponse(user))
}

func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req VerifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if err := h.service.VerifyEmail(r.Context(), req.Email, req.OTP); err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "user")
		case errors.Is(err, core.ErrTokenExpired):
			core.BadRequest(w, "verification code has expired")
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "verification code is invalid")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, map[string]string{"message": "email verified"})
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetAccountID(r.Context())

	user, err := h.service.GetMe(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetAccountID(r.Context())

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, err := h.service.Update(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) RecordAudioHistory(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetAccountID(r.Context())

	var req AudioHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	entry, err := h.service.RecordAudioHistory(r.Context(), userID, req)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToAudioHistoryResponse(entry))
}

func (h *Handler) ListAudioHistory(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetAccountID(r.Context())

	entries, err := h.service.ListAudioHistory(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToAudioHistoryResponseList(entries))
}

func (h *Handler) ListCompanyUsers(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetAccountID(r.Context())

	users, err := h.service.ListByCompany(r.Context(), companyID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToUserResponseList(users))
}

func (h *Handler) CreateCompanyUser(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetAccountID(r.Context())

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, err := h.service.CreateByCompany(r.Context(), companyID, req)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.JSONError(w, core.DuplicateError("email"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToUserResponse(user))
}

func (h *Handler) ListBlockedUsers(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetAccountID(r.Context())

	users, err := h.service.ListBlockedByCompany(r.Context(), companyID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToUserResponseList(users))
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, err := h.service.Update(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req ActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.service.SetActive(r.Context(), userID, req.Active); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, map[string]bool{"active": req.Active})
}

func (h *Handler) SetBlocked(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req BlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.service.SetBlocked(r.Context(), userID, req.Blocked); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, map[string]bool{"blocked": req.Blocked})
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	if err := h.service.Delete(r.Context(), userID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListJoinRequests(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetAccountID(r.Context())
	status := r.URL.Query().Get("status")

	reqs, err := h.service.ListJoinRequests(r.Context(), companyID, status)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToJoinRequestResponseList(reqs))
}

func (h *Handler) ApproveJoinRequest(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestID")
	resolverID := middleware.GetAccountID(r.Context())

	if err := h.service.ApproveJoinRequest(r.Context(), requestID, resolverID); err != nil {
		h.writeJoinError(w, err)
		return
	}

	core.OK(w, map[string]string{"status": JoinStatusApproved})
}

func (h *Handler) DenyJoinRequest(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestID")
	resolverID := middleware.GetAccountID(r.Context())

	if err := h.service.DenyJoinRequest(r.Context(), requestID, resolverID); err != nil {
		h.writeJoinError(w, err)
		return
	}

	core.OK(w, map[string]string{"status": JoinStatusDenied})
}

func (h *Handler) writeJoinError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "join request")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, "join request already resolved")
	default:
		core.InternalServerError(w, err)
	}
}
