// Package logger builds the service's zerolog logger and the HTTP middleware
// that attaches it to every request.
package logger

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/user/placereview-go/config"
)

const serviceName = "placereview"

// New returns a logger writing to stdout in the configured format.
func New(cfg *config.LogConfig) zerolog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(cfg *config.LogConfig, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

// Middleware returns the handler chain that puts log into each request context,
// assigns a request id (echoed in X-Request-Id) and writes one access line per request.
func Middleware(log zerolog.Logger) func(http.Handler) http.Handler {
	withLogger := hlog.NewHandler(log)
	withRequestID := hlog.RequestIDHandler("req_id", "X-Request-Id")
	access := hlog.AccessHandler(AccessLog)

	return func(next http.Handler) http.Handler {
		return withLogger(withRequestID(access(next)))
	}
}

// AccessLog writes the access line; 5xx responses are logged at error level.
func AccessLog(r *http.Request, status, size int, duration time.Duration) {
	event := hlog.FromRequest(r).Info()
	if status >= http.StatusInternalServerError {
		event = hlog.FromRequest(r).Error()
	}
	event.
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("request")
}
