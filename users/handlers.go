package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/user/placereview-go/render"
)

// UserHandlers provides the HTTP handlers for the users resource.
type UserHandlers struct {
	service *UserService
}

// NewUserHandlers creates new UserHandlers.
func NewUserHandlers(service *UserService) *UserHandlers {
	return &UserHandlers{service: service}
}

// RegisterRoutes mounts the handlers on a router scoped to /users.
func (h *UserHandlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleIndex())
	r.Post("/", h.HandleCreate())
	r.Get("/{id}", h.HandleShow())
	r.Put("/{id}", h.HandleUpdate())
	r.Patch("/{id}", h.HandleUpdate())
	r.Delete("/{id}", h.HandleDestroy())
}

// HandleIndex godoc
// @Summary List users
// @Description Returns every user. Passwords and hashes are never included.
// @Tags users
// @Produce json
// @Success 200 {array} UserResponse
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /users [get]
func (h *UserHandlers) HandleIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := h.service.List(r.Context())
		if err != nil {
			render.Error(w, r, err)
			return
		}
		render.JSON(w, r, http.StatusOK, SerializeAll(list))
	}
}

// HandleShow godoc
// @Summary Get a user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} UserResponse
// @Failure 404 {object} apperror.ErrorResponse "Not Found"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /users/{id} [get]
func (h *UserHandlers) HandleShow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := render.IDParam(r, "user")
		if err != nil {
			render.Error(w, r, err)
			return
		}
		u, err := h.service.Get(r.Context(), id)
		if err != nil {
			render.Error(w, r, err)
			return
		}
		render.JSON(w, r, http.StatusOK, Serialize(u))
	}
}

// HandleCreate godoc
// @Summary Create a user
// @Description Accepts {"user": {...}} or the bare attribute object. The email is stored trimmed and lower-cased.
// @Tags users
// @Accept json
// @Produce json
// @Param user body CreateUserRequest true "User attributes"
// @Success 201 {object} UserResponse
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - malformed body"
// @Failure 422 {object} apperror.ErrorResponse "Unprocessable Entity - field errors"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /users [post]
func (h *UserHandlers) HandleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateUserRequest
		if err := render.Decode(r, "user", &req); err != nil {
			render.Error(w, r, err)
			return
		}

		u, err := h.service.Create(r.Context(), req)
		if err != nil {
			render.Error(w, r, err)
			return
		}

		hlog.FromRequest(r).Info().Int64("user_id", u.ID).Msg("user created")
		render.JSON(w, r, http.StatusCreated, Serialize(u))
	}
}

// HandleUpdate godoc
// @Summary Update a user
// @Description Partial update; omitted attributes keep their stored values. A new email is stored trimmed and lower-cased.
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param user body UpdateUserRequest true "Attributes to change"
// @Success 200 {object} UserResponse
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - malformed body"
// @Failure 404 {object} apperror.ErrorResponse "Not Found"
// @Failure 422 {object} apperror.ErrorResponse "Unprocessable Entity - field errors"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /users/{id} [put]
// @Router /users/{id} [patch]
func (h *UserHandlers) HandleUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := render.IDParam(r, "user")
		if err != nil {
			render.Error(w, r, err)
			return
		}

		var req UpdateUserRequest
		if err := render.Decode(r, "user", &req); err != nil {
			render.Error(w, r, err)
			return
		}

		u, err := h.service.Update(r.Context(), id, req)
		if err != nil {
			render.Error(w, r, err)
			return
		}
		render.JSON(w, r, http.StatusOK, Serialize(u))
	}
}

// HandleDestroy godoc
// @Summary Delete a user
// @Description Deletes the user together with the reviews they wrote.
// @Tags users
// @Param id path int true "User ID"
// @Success 204 "No Content"
// @Failure 404 {object} apperror.ErrorResponse "Not Found"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /users/{id} [delete]
func (h *UserHandlers) HandleDestroy() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := render.IDParam(r, "user")
		if err != nil {
			render.Error(w, r, err)
			return
		}
		if err := h.service.Destroy(r.Context(), id); err != nil {
			render.Error(w, r, err)
			return
		}

		hlog.FromRequest(r).Info().Int64("user_id", id).Msg("user destroyed")
		render.NoContent(w)
	}
}
