// Package course contains the HTTP handlers for the Course resource.
package course

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/course-registration-api/internal/types"
	"github.com/aanand-mishra/course-registration-api/internal/utils/request"
	"github.com/aanand-mishra/course-registration-api/internal/utils/response"
)

// Service is what the handlers need from the course service.
type Service interface {
	Create(ctx context.Context, req types.CreateCourseRequest) (types.CourseResponse, error)
	List(ctx context.Context) ([]types.CourseResponse, error)
	Get(ctx context.Context, id int64) (types.CourseResponse, error)
}

// New handles POST /courses/
//
//	{ "title": "Algorithms", "code": "CS201", "units": 3 }
//
// Responds 200 with the stored course, or 422 when the body is invalid.
// Course codes are not unique, so there is no conflict case.
func New(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.InfoContext(r.Context(), "creating a course")

		var req types.CreateCourseRequest
		if err := request.DecodeJSON(w, r, &req); err != nil {
			response.Unprocessable(w, err)
			return
		}

		course, err := svc.Create(r.Context(), req)
		if err != nil {
			response.WriteError(w, r, err)
			return
		}

		slog.InfoContext(r.Context(), "course created", slog.Int64("id", course.ID))
		response.WriteJSON(w, http.StatusOK, course)
	}
}

// GetList handles GET /courses/
func GetList(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.InfoContext(r.Context(), "getting all courses")

		courses, err := svc.List(r.Context())
		if err != nil {
			response.WriteError(w, r, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, courses)
	}
}

// GetByID handles GET /courses/{id}
func GetByID(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.Unprocessable(w, err)
			return
		}
		slog.InfoContext(r.Context(), "getting a course", slog.Int64("id", id))

		course, err := svc.Get(r.Context(), id)
		if err != nil {
			response.WriteError(w, r, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, course)
	}
}
