package locations

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/placereview-go/render"
)

// LocationHandlers serves /api/v1/locations.
type LocationHandlers struct {
	service *LocationService
}

// NewLocationHandlers creates new LocationHandlers backed by service.
func NewLocationHandlers(service *LocationService) *LocationHandlers {
	return &LocationHandlers{service: service}
}

// RegisterRoutes mounts the location routes on a router scoped to /locations.
func (h *LocationHandlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleIndex())
	r.Post("/", h.HandleCreate())
	r.Get("/{id}", h.HandleShow())
}

// HandleIndex godoc
// @Summary List locations
// @Tags locations
// @Produce json
// @Success 200 {array} Location
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /locations [get]
func (h *LocationHandlers) HandleIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := h.service.List(r.Context())
		if err != nil {
			render.Error(w, r, err)
			return
		}
		render.JSON(w, r, http.StatusOK, list)
	}
}

// HandleShow godoc
// @Summary Get a location
// @Tags locations
// @Produce json
// @Param id path int true "Location ID"
// @Success 200 {object} Location
// @Failure 404 {object} apperror.ErrorResponse "Not Found"
// @Router /locations/{id} [get]
func (h *LocationHandlers) HandleShow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := render.IDParam(r, "location")
		if err != nil {
			render.Error(w, r, err)
			return
		}
		l, err := h.service.Get(r.Context(), id)
		if err != nil {
			render.Error(w, r, err)
			return
		}
		render.JSON(w, r, http.StatusOK, l)
	}
}

// HandleCreate godoc
// @Summary Create a location
// @Tags locations
// @Accept json
// @Produce json
// @Param location body CreateLocationRequest true "Location attributes"
// @Success 201 {object} Location
// @Failure 400 {object} apperror.ErrorResponse "Bad Request"
// @Failure 422 {object} apperror.ErrorResponse "Unprocessable Entity"
// @Router /locations [post]
func (h *LocationHandlers) HandleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateLocationRequest
		if err := render.Decode(r, "location", &req); err != nil {
			render.Error(w, r, err)
			return
		}
		l, err := h.service.Create(r.Context(), req)
		if err != nil {
			render.Error(w, r, err)
			return
		}
		render.JSON(w, r, http.StatusCreated, l)
	}
}
