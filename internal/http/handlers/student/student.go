// Package student contains all HTTP handlers related to the Student resource.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// Go's router expects handler functions with the signature:
//
//	func(http.ResponseWriter, *http.Request)
//
// That signature has no room for extra parameters like a service.
// Each exported function here is a factory: it receives the dependency
// once at startup and returns the handler that runs on every request.
//
//	router.HandleFunc("POST /students/{$}", student.New(svc))
package student

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/course-registration-api/internal/types"
	"github.com/aanand-mishra/course-registration-api/internal/utils/request"
	"github.com/aanand-mishra/course-registration-api/internal/utils/response"
)

// Service is what the handlers need from the student service.
type Service interface {
	Create(ctx context.Context, req types.CreateStudentRequest) (types.StudentResponse, error)
	List(ctx context.Context) ([]types.StudentResponse, error)
	Get(ctx context.Context, id int64) (types.StudentResponse, error)
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /students/
//
// Request body (JSON):
//
//	{ "name": "Ada", "email": "ada@example.com" }
//
// Success response (200 OK):
//
//	{ "id": 1, "name": "Ada", "email": "ada@example.com", "registeredCourses": [] }
//
// Error responses:
//
//	400 Bad Request          — email already registered
//	422 Unprocessable Entity — empty body, malformed JSON, or failed validation
//
// ─────────────────────────────────────────────────────────────────────────────
func New(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.InfoContext(r.Context(), "creating a student")

		var req types.CreateStudentRequest
		if err := request.DecodeJSON(w, r, &req); err != nil {
			response.Unprocessable(w, err)
			return
		}

		student, err := svc.Create(r.Context(), req)
		if err != nil {
			response.WriteError(w, r, err)
			return
		}

		slog.InfoContext(r.Context(), "student created", slog.Int64("id", student.ID))
		response.WriteJSON(w, http.StatusOK, student)
	}
}

// GetList handles GET /students/
// Returns every student, each with the list of courses they are registered
// for. An empty database yields [] (not null).
func GetList(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.InfoContext(r.Context(), "getting all students")

		students, err := svc.List(r.Context())
		if err != nil {
			response.WriteError(w, r, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// GetByID handles GET /students/{id}
func GetByID(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.Unprocessable(w, err)
			return
		}
		slog.InfoContext(r.Context(), "getting a student", slog.Int64("id", id))

		student, err := svc.Get(r.Context(), id)
		if err != nil {
			response.WriteError(w, r, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}
