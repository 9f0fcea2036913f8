package reviews

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/user/placereview-go/apperror"
	"github.com/user/placereview-go/render"
)

// ReviewHandlers serves /api/v1/reviews.
type ReviewHandlers struct {
	service *ReviewService
}

// NewReviewHandlers creates new ReviewHandlers backed by service.
func NewReviewHandlers(service *ReviewService) *ReviewHandlers {
	return &ReviewHandlers{service: service}
}

// RegisterRoutes mounts the review routes on a router scoped to /reviews.
// Reviews can be created and read; there are no update or delete routes.
func (h *ReviewHandlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleIndex())
	r.Post("/", h.HandleCreate())
	r.Get("/{id}", h.HandleShow())
}

// HandleIndex godoc
// @Summary List reviews
// @Tags reviews
// @Produce json
// @Param user_id query int false "Only reviews by this user"
// @Param location_id query int false "Only reviews of this location"
// @Success 200 {array} Review
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - invalid filter"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /reviews [get]
func (h *ReviewHandlers) HandleIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var f ReviewFilter
		var err error
		if f.UserID, err = queryID(r, "user_id"); err != nil {
			render.Error(w, r, err)
			return
		}
		if f.LocationID, err = queryID(r, "location_id"); err != nil {
			render.Error(w, r, err)
			return
		}

		list, err := h.service.List(r.Context(), f)
		if err != nil {
			render.Error(w, r, err)
			return
		}
		render.JSON(w, r, http.StatusOK, list)
	}
}

// HandleShow godoc
// @Summary Get a review
// @Tags reviews
// @Produce json
// @Param id path int true "Review ID"
// @Success 200 {object} Review
// @Failure 404 {object} apperror.ErrorResponse "Not Found"
// @Router /reviews/{id} [get]
func (h *ReviewHandlers) HandleShow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := render.IDParam(r, "review")
		if err != nil {
			render.Error(w, r, err)
			return
		}
		rev, err := h.service.Get(r.Context(), id)
		if err != nil {
			render.Error(w, r, err)
			return
		}
		render.JSON(w, r, http.StatusOK, rev)
	}
}

// HandleCreate godoc
// @Summary Create a review
// @Description Comment must not be blank, rating must be 1..10, and the user and location must exist.
// @Tags reviews
// @Accept json
// @Produce json
// @Param review body CreateReviewRequest true "Review attributes"
// @Success 201 {object} Review
// @Failure 400 {object} apperror.ErrorResponse "Bad Request"
// @Failure 422 {object} apperror.ErrorResponse "Unprocessable Entity"
// @Router /reviews [post]
func (h *ReviewHandlers) HandleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateReviewRequest
		if err := render.Decode(r, "review", &req); err != nil {
			render.Error(w, r, err)
			return
		}
		rev, err := h.service.Create(r.Context(), req)
		if err != nil {
			render.Error(w, r, err)
			return
		}
		render.JSON(w, r, http.StatusCreated, rev)
	}
}

func queryID(r *http.Request, key string) (*int64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("invalid %s: %q", key, raw), err)
	}
	return &id, nil
}
