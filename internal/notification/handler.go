// AngelaMos | 2026
// handler.go

package notification

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

// RegisterRoutes mounts the recipient-facing endpoints. The acting user
// is always the authenticated account.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/users/notifications", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Get("/unread-count", h.UnreadCount)
		r.Post("/{notificationID}/read", h.MarkRead)
		r.Post("/read-all", h.MarkAllRead)
	})
}

// RegisterCompanyRoutes mounts the dispatch endpoint for tenants. An
// empty userIds list fans out to every user of the acting company.
func (h *Handler) RegisterCompanyRoutes(
	r chi.Router,
	authenticator, companyOnly func(http.Handler) http.Handler,
) {
	r.Route("/company/notifications", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(companyOnly)

		r.Post("/", h.Create)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	companyID := middleware.GetAccountID(r.Context())

	var (
		notification *Notification
		err          error
	)
	if len(req.UserIDs) > 0 {
		notification, err = h.service.CreateForUsers(
			r.Context(), req.Title, req.Message, req.UserIDs)
	} else {
		notification, err = h.service.CreateForCompany(
			r.Context(), companyID, req.Title, req.Message)
	}
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToNotificationResponse(notification))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetAccountID(r.Context())

	notifications, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	out := make([]UserNotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, ToUserNotificationResponse(n))
	}

	core.OK(w, out)
}

func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetAccountID(r.Context())

	count, err := h.service.CountUnread(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, UnreadCountResponse{Unread: count})
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetAccountID(r.Context())
	notificationID := chi.URLParam(r, "notificationID")

	if err := h.service.MarkRead(r.Context(), userID, notificationID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "notification")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetAccountID(r.Context())

	if err := h.service.MarkAllRead(r.Context(), userID); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}
