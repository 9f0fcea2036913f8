// Package render writes JSON responses and decodes JSON request bodies.
// All handlers go through it so that success and error payloads share one shape.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/user/placereview-go/apperror"
)

// maxBodyBytes caps request bodies read by Decode.
const maxBodyBytes = 1 << 20

// JSON serializes data and writes it with the given status.
func JSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent; all that is left is to record it.
		hlog.FromRequest(r).Error().Err(err).Msg("failed to encode response")
	}
}

// NoContent writes a 204 with an empty body.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error converts err into the standard error payload. Errors that are not
// *apperror.AppError become internal errors; 5xx errors are logged with their cause.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("an unexpected error occurred", err)
	}

	if appErr.StatusCode() >= http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(appErr).Msg("request failed")
	}

	JSON(w, r, appErr.StatusCode(), appErr.ToResponse())
}

// Decode reads a JSON object into dst. When the object has a member named
// envelope holding an object ({"user": {...}}), that member is decoded instead
// of the whole body, so both nested and bare attribute sets are accepted.
func Decode(r *http.Request, envelope string, dst interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return apperror.NewBadRequestError("failed to read request body", err)
	}
	if len(body) > maxBodyBytes {
		return apperror.NewBadRequestError("request body too large", nil)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return apperror.NewBadRequestError("request body is required", nil)
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(body, &members); err != nil {
		return apperror.NewBadRequestError("invalid request payload: "+err.Error(), err)
	}

	payload := body
	if inner, ok := members[envelope]; ok {
		if trimmed := bytes.TrimSpace(inner); len(trimmed) > 0 && trimmed[0] == '{' {
			payload = trimmed
		}
	}

	if err := json.Unmarshal(payload, dst); err != nil {
		return apperror.NewBadRequestError("invalid request payload: "+err.Error(), err)
	}
	return nil
}

// IDParam reads the {id} route parameter. Anything that is not a positive
// integer cannot name a stored record, so it yields a NotFoundError for resource.
func IDParam(r *http.Request, resource string) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NewNotFoundError(fmt.Sprintf("%s with ID %q not found", resource, raw), nil)
	}
	return id, nil
}
