// AngelaMos | 2026
// handler.go

package company

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

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

// RegisterPublicRoutes mounts the unauthenticated tenant endpoints.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/company/signup", h.Signup)
	r.Post("/company/verify-email", h.VerifyEmail)
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/company/{companyID}", h.Get)
		r.Get("/company/dashboard/{companyID}", h.Dashboard)
	})
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/companies", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.List)
		r.Post("/", h.AdminCreate)
		r.Get("/{companyID}", h.Get)
		r.Put("/{companyID}", h.Update)
		r.Put("/{companyID}/block", h.SetBlocked)
		r.Delete("/{companyID}", h.Delete)
	})

	r.Route("/admin/company-join-requests", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

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

	company, err := h.service.Signup(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrDuplicateKey):
			core.JSONError(w, core.DuplicateError("email or company name"))
		case errors.Is(err, core.ErrUpstream):
			core.JSONError(w, core.UpstreamError("could not send verification mail"))
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, ToCompanyResponse(company))
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
			core.NotFound(w, "company")
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

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")

	company, err := h.service.GetByID(r.Context(), companyID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "company")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToCompanyResponse(company))
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")

	dashboard, err := h.service.Dashboard(r.Context(), companyID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "company")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, dashboard)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := parseIntQuery(r, "page", 1)
	pageSize := parseIntQuery(r, "page_size", 20)

	companies, total, err := h.service.List(r.Context(), page, pageSize)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, ToCompanyResponseList(companies), page, pageSize, total)
}

func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	var req AdminCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	company, err := h.service.AdminCreate(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrDuplicateKey):
			core.JSONError(w, core.DuplicateError("email or company name"))
		case errors.Is(err, core.ErrUpstream):
			core.JSONError(w, core.UpstreamError("billing customer creation failed"))
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, ToCompanyResponse(company))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	company, err := h.service.Update(r.Context(), companyID, req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "company")
		case errors.Is(err, core.ErrDuplicateKey):
			core.JSONError(w, core.DuplicateError("company name"))
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, ToCompanyResponse(company))
}

func (h *Handler) SetBlocked(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")

	var req BlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.service.SetBlocked(r.Context(), companyID, req.Blocked); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "company")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, map[string]bool{"blocked": req.Blocked})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")

	if err := h.service.Delete(r.Context(), companyID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "company")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListJoinRequests(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	reqs, err := h.service.ListJoinRequests(r.Context(), status)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToJoinRequestResponseList(reqs))
}

func (h *Handler) ApproveJoinRequest(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestID")
	adminID := middleware.GetAccountID(r.Context())

	company, err := h.service.ApproveJoinRequest(r.Context(), requestID, adminID)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "join request")
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "join request already resolved")
		case errors.Is(err, core.ErrUpstream):
			core.JSONError(w, core.UpstreamError("billing customer creation failed"))
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, ToCompanyResponse(company))
}

func (h *Handler) DenyJoinRequest(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestID")
	adminID := middleware.GetAccountID(r.Context())

	if err := h.service.DenyJoinRequest(r.Context(), requestID, adminID); err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "join request")
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "join request already resolved")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.NoContent(w)
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
