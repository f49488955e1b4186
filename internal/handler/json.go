package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/msomdec/finledger/internal/domain"
)

const maxBodyBytes = 1 << 20

// envelope wraps every response body.
type envelope struct {
	Data       any    `json:"data"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Count      *int   `json:"count,omitempty"`
}

// writeJSON sends data in the response envelope with the given status code.
func writeJSON(w http.ResponseWriter, status int, message string, data any) {
	writeEnvelope(w, envelope{Data: data, Message: message, StatusCode: status})
}

// writeList is writeJSON for collections; it also reports the item count.
func writeList[T any](w http.ResponseWriter, message string, items []T) {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	writeEnvelope(w, envelope{Data: items, Message: message, StatusCode: http.StatusOK, Count: &n})
}

// writeError sends an envelope with no data.
func writeError(w http.ResponseWriter, status int, message string) {
	writeEnvelope(w, envelope{Message: message, StatusCode: status})
}

func writeEnvelope(w http.ResponseWriter, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(body.StatusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("write JSON response", "error", err)
	}
}

// writeServiceError maps a domain error to its HTTP status. Anything
// unrecognised is logged and reported as a 500 without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid email or password.")
	case errors.Is(err, domain.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "Authentication required.")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "You do not have access to this resource.")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Resource not found.")
	case errors.Is(err, domain.ErrEmailAlreadyRegistered):
		writeError(w, http.StatusConflict, "An account with that email already exists.")
	case errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, domain.ErrAlreadyDeleted),
		errors.Is(err, domain.ErrNotDeleted),
		errors.Is(err, domain.ErrInUse):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "Too many attempts. Please try again later.")
	default:
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
	}
}

// readJSON decodes the request body into dst. Decode failures are reported
// as domain.ErrInvalidInput.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// idParam parses the named chi path parameter as a positive id.
func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, name)
	}
	return id, nil
}
