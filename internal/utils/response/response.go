// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every handler in this application sends JSON back to the client.
// Rather than repeating the same three lines (set header, set status,
// encode JSON) in every handler, we centralise them here, together with
// the mapping from service errors to HTTP status codes.
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/course-registration-api/internal/service"
)

// ─────────────────────────────────────────────────────────────────────────────
// Response is the standard envelope returned for error cases.
//
// Success responses return the resource itself (a student, a list, …).
// Error responses always look like:
//
//	{ "status": "error", "error": "Already registered" }
//
// ─────────────────────────────────────────────────────────────────────────────
type Response struct {
	Status string `json:"status"` // "ok" or "error"
	Error  string `json:"error,omitempty"`
}

// Status string constants — use these instead of raw string literals so
// a typo is caught by the compiler.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// GeneralError wraps any Go error into our standard Response shape.
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// ValidationError converts a slice of validator.FieldError values into
// a single human-readable Response, one sentence per failing field:
//
//	{ "status": "error", "error": "field name is required, field email must be a valid email address" }
//
// ─────────────────────────────────────────────────────────────────────────────
func ValidationError(errs validator.ValidationErrors) Response {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		case "notblank":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must not be blank", e.Field()))
		case "email":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be a valid email address", e.Field()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return Response{
		Status: StatusError,
		Error:  strings.Join(errMessages, ", "),
	}
}

// WriteError maps an error returned by a service onto an HTTP response:
//
//	*service.ValidationError → 422 Unprocessable Entity
//	*service.NotFoundError   → 404 Not Found
//	*service.ConflictError   → 400 Bad Request
//	anything else            → 500, logged, generic message
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *service.ValidationError
		notFoundErr   *service.NotFoundError
		conflictErr   *service.ConflictError
	)

	switch {
	case errors.As(err, &validationErr):
		WriteJSON(w, http.StatusUnprocessableEntity, ValidationError(validationErr.Fields))
	case errors.As(err, &notFoundErr):
		WriteJSON(w, http.StatusNotFound, GeneralError(notFoundErr))
	case errors.As(err, &conflictErr):
		WriteJSON(w, http.StatusBadRequest, GeneralError(conflictErr))
	default:
		slog.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
		WriteJSON(w, http.StatusInternalServerError,
			GeneralError(errors.New(http.StatusText(http.StatusInternalServerError))))
	}
}

// Unprocessable writes a 422 for requests that could not be decoded at
// all: empty or malformed bodies, wrong JSON types, non-integer path ids.
func Unprocessable(w http.ResponseWriter, err error) {
	WriteJSON(w, http.StatusUnprocessableEntity, GeneralError(err))
}
