// AngelaMos | 2026
// handler.go

package billing

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/stillmind/internal/core"
)

// webhookBodyLimit bounds the raw payload read before signature
// verification.
const webhookBodyLimit = 1 << 20

const expiringWindow = 7 * 24 * time.Hour

type Handler struct {
	service   *Service
	validator *validator.Validate
	logger    *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
		logger:    logger,
	}
}

// RegisterWebhookRoutes mounts the provider callback endpoints. These
// stay outside the session middleware; authentication is the webhook
// signature itself.
func (h *Handler) RegisterWebhookRoutes(r chi.Router) {
	r.Post("/company/webhook", h.Webhook)
	r.Get("/company/webhook", h.WebhookLiveness)
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/company/create-subscription/{companyID}", h.CreateSubscription)
		r.Post("/company/cancel-subscription/{companyID}", h.CancelSubscription)
	})
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/billing", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/prices", h.GetPrices)
		r.Put("/prices", h.UpdatePrice)
		r.Get("/subscriptions", h.ListSubscriptions)
		r.Get("/subscriptions/{subscriptionID}", h.GetSubscription)
		r.Get("/coupons", h.ListCoupons)
		r.Get("/expiring", h.ListExpiring)
	})
}

func (h *Handler) CreateSubscription(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")

	var req CreateSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	result, err := h.service.CreateSubscription(
		r.Context(), companyID, req.PlanType, req.Interval)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownPlan):
			core.BadRequest(w, "unknown plan type")
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "invalid billing interval")
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "company")
		case errors.Is(err, core.ErrUpstream):
			core.JSONError(w, core.UpstreamError("payment provider unavailable"))
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, CreateSubscriptionResponse{
		SubscriptionID: result.SubscriptionID,
		ClientSecret:   result.ClientSecret,
	})
}

func (h *Handler) CancelSubscription(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")

	err := h.service.CancelSubscription(r.Context(), companyID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoSubscription):
			core.NotFound(w, "subscription")
		case errors.Is(err, ErrAlreadyCanceled):
			core.BadRequest(w, "subscription is already canceled")
		case errors.Is(err, ErrSubscriptionMismatch):
			core.JSONError(w, core.NewAppError(
				err,
				"recorded subscription does not match provider state",
				http.StatusConflict,
				"SUBSCRIPTION_MISMATCH",
			))
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "company")
		case errors.Is(err, core.ErrUpstream):
			core.JSONError(w, core.UpstreamError("payment provider unavailable"))
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, map[string]string{"status": "canceled"})
}

// Webhook consumes provider callbacks. The raw body is read before any
// parsing so the signature covers exactly the delivered bytes.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, webhookBodyLimit))
	if err != nil {
		core.BadRequest(w, "could not read payload")
		return
	}

	sigHeader := r.Header.Get("Stripe-Signature")

	if err := h.service.HandleWebhook(r.Context(), payload, sigHeader); err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "webhook signature verification failed")
		case errors.Is(err, core.ErrNotFound):
			// No tenant for this event; ack so the provider stops
			// retrying.
			h.logger.Warn("webhook for unknown tenant", "error", err)
			core.OK(w, map[string]bool{"received": true})
		case errors.Is(err, core.ErrUpstream):
			core.JSONError(w, core.UpstreamError("payment provider unavailable"))
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, map[string]bool{"received": true})
}

func (h *Handler) WebhookLiveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("webhook endpoint is live")) //nolint:errcheck // nothing to do on write failure
}

func (h *Handler) GetPrices(w http.ResponseWriter, r *http.Request) {
	plans, err := h.service.GetPrices(r.Context())
	if err != nil {
		h.writeProviderError(w, err)
		return
	}

	out := make([]PlanPricesResponse, 0, len(plans))
	for _, plan := range plans {
		out = append(out, ToPlanPricesResponse(plan))
	}

	core.OK(w, out)
}

func (h *Handler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	var req UpdatePriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	price, err := h.service.UpdatePlanPrice(
		r.Context(), req.PlanType, req.Interval, req.Currency, req.UnitAmount)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownPlan):
			core.BadRequest(w, "unknown plan type")
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "invalid billing interval")
		default:
			h.writeProviderError(w, err)
		}
		return
	}

	core.Created(w, ToPriceResponse(*price))
}

func (h *Handler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	details, err := h.service.ListSubscriptions(r.Context())
	if err != nil {
		h.writeProviderError(w, err)
		return
	}

	out := make([]SubscriptionResponse, 0, len(details))
	for _, detail := range details {
		out = append(out, ToSubscriptionResponse(detail))
	}

	core.OK(w, out)
}

func (h *Handler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	subscriptionID := chi.URLParam(r, "subscriptionID")

	sub, err := h.service.GetSubscriptionByID(r.Context(), subscriptionID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "subscription")
			return
		}
		h.writeProviderError(w, err)
		return
	}

	core.OK(w, ToSubscriptionResponse(SubscriptionDetail{Subscription: *sub}))
}

func (h *Handler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	codes, err := h.service.ListPromotionCodes(r.Context())
	if err != nil {
		h.writeProviderError(w, err)
		return
	}

	out := make([]PromotionCodeResponse, 0, len(codes))
	for _, code := range codes {
		out = append(out, ToPromotionCodeResponse(code))
	}

	core.OK(w, out)
}

func (h *Handler) ListExpiring(w http.ResponseWriter, r *http.Request) {
	details, err := h.service.ExpiringWithin(r.Context(), expiringWindow)
	if err != nil {
		h.writeProviderError(w, err)
		return
	}

	out := make([]SubscriptionResponse, 0, len(details))
	for _, detail := range details {
		out = append(out, ToSubscriptionResponse(detail))
	}

	core.OK(w, out)
}

func (h *Handler) writeProviderError(w http.ResponseWriter, err error) {
	if errors.Is(err, core.ErrUpstream) {
		core.JSONError(w, core.UpstreamError("payment provider unavailable"))
		return
	}
	core.InternalServerError(w, err)
}
