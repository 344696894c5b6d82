package anime

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/animes/internal/platform/apperr"
	"github.com/taibuivan/animes/internal/platform/ctxutil"
	"github.com/taibuivan/animes/internal/platform/middleware"
	requestutil "github.com/taibuivan/animes/internal/platform/request"
	"github.com/taibuivan/animes/internal/platform/respond"
	"github.com/taibuivan/animes/internal/platform/sec"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the anime router, meant to be mounted at /animes.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Readers
	router.Group(func(readRoute chi.Router) {
		readRoute.Use(middleware.RequireRole(sec.RoleUser))

		readRoute.Get("/", handler.listAnimes)
		readRoute.Get("/{id}", handler.getAnime)
	})

	// Admin only
	router.Group(func(adminRoute chi.Router) {
		adminRoute.Use(middleware.RequireRole(sec.RoleAdmin))

		adminRoute.Post("/", handler.createAnime)
		adminRoute.Post("/batch", handler.createAnimes)
		adminRoute.Put("/{id}", handler.updateAnime)
		adminRoute.Delete("/{id}", handler.deleteAnime)
	})
}

func (handler *Handler) listAnimes(writer http.ResponseWriter, request *http.Request) {
	animes := []*Anime{}

	for anime, err := range handler.service.ListAll(request.Context()) {
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		animes = append(animes, anime)
	}

	respond.OK(writer, animes)
}

func (handler *Handler) getAnime(writer http.ResponseWriter, request *http.Request) {
	animeID, err := requestutil.IntID(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	anime, err := handler.service.FindByID(request.Context(), animeID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, anime)
}

func (handler *Handler) createAnime(writer http.ResponseWriter, request *http.Request) {
	var input Anime
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.ID != nil {
		respond.Error(writer, request, errIDNotAllowed())
		return
	}

	saved, err := handler.service.Save(request.Context(), &input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, saved)
}

// createAnimes buffers the batch so the status line reflects the outcome.
// Records persisted before a failure stay persisted and are logged.
func (handler *Handler) createAnimes(writer http.ResponseWriter, request *http.Request) {
	var input []*Anime
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	for _, anime := range input {
		if anime != nil && anime.ID != nil {
			respond.Error(writer, request, errIDNotAllowed())
			return
		}
	}

	saved := make([]*Anime, 0, len(input))
	for anime, err := range handler.service.SaveAll(request.Context(), input) {
		if err != nil {
			ctxutil.Logger(request.Context()).WarnContext(request.Context(), "anime_batch_failed",
				slog.Int("persisted", len(saved)),
				slog.Int("requested", len(input)),
				slog.String("error", err.Error()),
			)
			respond.Error(writer, request, err)
			return
		}
		saved = append(saved, anime)
	}

	respond.Created(writer, saved)
}

func (handler *Handler) updateAnime(writer http.ResponseWriter, request *http.Request) {
	animeID, err := requestutil.IntID(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Anime
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Update(request.Context(), &input, animeID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) deleteAnime(writer http.ResponseWriter, request *http.Request) {
	animeID, err := requestutil.IntID(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), animeID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func errIDNotAllowed() error {
	return apperr.InvalidArgument("Anime id must not be set", apperr.FieldError{
		Field:   FieldID,
		Message: "Assigned by the server",
	})
}
