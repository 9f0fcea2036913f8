// Package server assembles the HTTP router: middleware, the health probe,
// Swagger UI and the /api/v1 resources.
package server

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/user/placereview-go/apperror"
	"github.com/user/placereview-go/config"
	"github.com/user/placereview-go/db"
	_ "github.com/user/placereview-go/docs" // registers the OpenAPI document
	"github.com/user/placereview-go/locations"
	"github.com/user/placereview-go/logger"
	"github.com/user/placereview-go/render"
	"github.com/user/placereview-go/reviews"
	"github.com/user/placereview-go/users"
)

const requestTimeout = 60 * time.Second

// Services bundles what the routes call into.
type Services struct {
	Users     *users.UserService
	Reviews   *reviews.ReviewService
	Locations *locations.LocationService
}

// NewServices wires the services over conn. Destroying a user also removes
// the user's reviews.
func NewServices(conn *sqlx.DB, userOpts ...users.Option) *Services {
	userOpts = append(userOpts, users.WithDestroyHook(reviews.DeleteForUser))
	return &Services{
		Users:     users.NewUserService(conn, userOpts...),
		Reviews:   reviews.NewReviewService(conn),
		Locations: locations.NewLocationService(conn),
	}
}

// NewRouter returns the fully wired handler.
func NewRouter(conn *sqlx.DB, svc *Services, log zerolog.Logger, cfg *config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	// Chi requires all middleware before any route.
	r.Use(logger.Middleware(log))
	r.Use(recoverJSON)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/healthz", handleHealth(conn))
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", users.NewUserHandlers(svc.Users).RegisterRoutes)
		r.Route("/reviews", reviews.NewReviewHandlers(svc.Reviews).RegisterRoutes)
		r.Route("/locations", locations.NewLocationHandlers(svc.Locations).RegisterRoutes)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.Error(w, r, apperror.NewNotFoundError("route not found", nil))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, http.StatusMethodNotAllowed, apperror.ErrorResponse{Error: "method not allowed"})
	})

	return r
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// handleHealth reports 503 when the database does not answer a ping.
func handleHealth(conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context(), conn); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Msg("health check failed")
			render.JSON(w, r, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
			return
		}
		render.JSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
	}
}

// recoverJSON turns a handler panic into a logged 500 with the standard error body.
func recoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}
			hlog.FromRequest(r).Error().
				Interface("panic", rvr).
				Bytes("stack", debug.Stack()).
				Msg("handler panicked")
			render.JSON(w, r, http.StatusInternalServerError,
				apperror.NewInternalError("internal server error", nil).ToResponse())
		}()
		next.ServeHTTP(w, r)
	})
}
