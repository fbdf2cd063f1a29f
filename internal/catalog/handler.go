// AngelaMos | 2026
// handler.go

package catalog

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

// RegisterAdminRoutes mounts the content management endpoints. Catalog
// writes are admin-only; there is no public listing surface here.
func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/catalog", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Post("/levels", h.CreateLevel)
		r.Get("/levels/{levelID}", h.GetLevel)
		r.Put("/levels/{levelID}", h.UpdateLevel)
		r.Delete("/levels/{levelID}", h.DeleteLevel)

		r.Post("/best-fors", h.CreateBestFor)
		r.Get("/best-fors/{bestForID}", h.GetBestFor)
		r.Put("/best-fors/{bestForID}", h.UpdateBestFor)
		r.Delete("/best-fors/{bestForID}", h.DeleteBestFor)

		r.Post("/collections", h.CreateCollection)
		r.Get("/collections/{collectionID}", h.GetCollection)
		r.Put("/collections/{collectionID}", h.UpdateCollection)
		r.Delete("/collections/{collectionID}", h.DeleteCollection)

		r.Post("/audios", h.CreateAudio)
		r.Get("/audios/{audioID}", h.GetAudio)
		r.Put("/audios/{audioID}", h.UpdateAudio)
		r.Delete("/audios/{audioID}", h.DeleteAudio)
	})
}

func (h *Handler) CreateLevel(w http.ResponseWriter, r *http.Request) {
	var req CreateLevelRequest
	if !h.decode(w, r, &req) {
		return
	}

	level, err := h.service.CreateLevel(r.Context(), req)
	if err != nil {
		h.writeError(w, err, "level")
		return
	}

	core.Created(w, ToLevelResponse(level))
}

func (h *Handler) GetLevel(w http.ResponseWriter, r *http.Request) {
	level, err := h.service.GetLevel(r.Context(), chi.URLParam(r, "levelID"))
	if err != nil {
		h.writeError(w, err, "level")
		return
	}

	core.OK(w, ToLevelResponse(level))
}

func (h *Handler) UpdateLevel(w http.ResponseWriter, r *http.Request) {
	var req UpdateLevelRequest
	if !h.decode(w, r, &req) {
		return
	}

	level, err := h.service.UpdateLevel(
		r.Context(), chi.URLParam(r, "levelID"), req)
	if err != nil {
		h.writeError(w, err, "level")
		return
	}

	core.OK(w, ToLevelResponse(level))
}

func (h *Handler) DeleteLevel(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteLevel(
		r.Context(), chi.URLParam(r, "levelID"),
	); err != nil {
		h.writeError(w, err, "level")
		return
	}

	core.NoContent(w)
}

func (h *Handler) CreateBestFor(w http.ResponseWriter, r *http.Request) {
	var req CreateBestForRequest
	if !h.decode(w, r, &req) {
		return
	}

	bestFor, err := h.service.CreateBestFor(r.Context(), req)
	if err != nil {
		h.writeError(w, err, "best-for")
		return
	}

	core.Created(w, ToBestForResponse(bestFor))
}

func (h *Handler) GetBestFor(w http.ResponseWriter, r *http.Request) {
	bestFor, err := h.service.GetBestFor(
		r.Context(), chi.URLParam(r, "bestForID"))
	if err != nil {
		h.writeError(w, err, "best-for")
		return
	}

	core.OK(w, ToBestForResponse(bestFor))
}

func (h *Handler) UpdateBestFor(w http.ResponseWriter, r *http.Request) {
	var req UpdateBestForRequest
	if !h.decode(w, r, &req) {
		return
	}

	bestFor, err := h.service.UpdateBestFor(
		r.Context(), chi.URLParam(r, "bestForID"), req)
	if err != nil {
		h.writeError(w, err, "best-for")
		return
	}

	core.OK(w, ToBestForResponse(bestFor))
}

func (h *Handler) DeleteBestFor(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteBestFor(
		r.Context(), chi.URLParam(r, "bestForID"),
	); err != nil {
		h.writeError(w, err, "best-for")
		return
	}

	core.NoContent(w)
}

func (h *Handler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	var req CreateCollectionRequest
	if !h.decode(w, r, &req) {
		return
	}

	collection, err := h.service.CreateCollection(r.Context(), req)
	if err != nil {
		h.writeError(w, err, "collection")
		return
	}

	core.Created(w, ToCollectionResponse(collection))
}

func (h *Handler) GetCollection(w http.ResponseWriter, r *http.Request) {
	collection, err := h.service.GetCollection(
		r.Context(), chi.URLParam(r, "collectionID"))
	if err != nil {
		h.writeError(w, err, "collection")
		return
	}

	core.OK(w, ToCollectionResponse(collection))
}

func (h *Handler) UpdateCollection(w http.ResponseWriter, r *http.Request) {
	var req UpdateCollectionRequest
	if !h.decode(w, r, &req) {
		return
	}

	collection, err := h.service.UpdateCollection(
		r.Context(), chi.URLParam(r, "collectionID"), req)
	if err != nil {
		h.writeError(w, err, "collection")
		return
	}

	core.OK(w, ToCollectionResponse(collection))
}

func (h *Handler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCollection(
		r.Context(), chi.URLParam(r, "collectionID"),
	); err != nil {
		h.writeError(w, err, "collection")
		return
	}

	core.NoContent(w)
}

func (h *Handler) CreateAudio(w http.ResponseWriter, r *http.Request) {
	var req CreateAudioRequest
	if !h.decode(w, r, &req) {
		return
	}

	audio, err := h.service.CreateAudio(r.Context(), req)
	if err != nil {
		h.writeError(w, err, "audio")
		return
	}

	core.Created(w, ToAudioResponse(audio))
}

func (h *Handler) GetAudio(w http.ResponseWriter, r *http.Request) {
	audio, err := h.service.GetAudio(r.Context(), chi.URLParam(r, "audioID"))
	if err != nil {
		h.writeError(w, err, "audio")
		return
	}

	core.OK(w, ToAudioResponse(audio))
}

func (h *Handler) UpdateAudio(w http.ResponseWriter, r *http.Request) {
	var req UpdateAudioRequest
	if !h.decode(w, r, &req) {
		return
	}

	audio, err := h.service.UpdateAudio(
		r.Context(), chi.URLParam(r, "audioID"), req)
	if err != nil {
		h.writeError(w, err, "audio")
		return
	}

	core.OK(w, ToAudioResponse(audio))
}

func (h *Handler) DeleteAudio(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteAudio(
		r.Context(), chi.URLParam(r, "audioID"),
	); err != nil {
		h.writeError(w, err, "audio")
		return
	}

	core.NoContent(w)
}

func (h *Handler) decode(
	w http.ResponseWriter,
	r *http.Request,
	req any,
) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		core.BadRequest(w, "invalid request body")
		return false
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return false
	}

	return true
}

func (h *Handler) writeError(w http.ResponseWriter, err error, resource string) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, resource)
	case errors.Is(err, core.ErrDuplicateKey):
		core.JSONError(w, core.DuplicateError("name"))
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, "duration must be formatted as HH:mm:ss")
	default:
		core.InternalServerError(w, err)
	}
}
