// Package registration contains the HTTP handlers that enrol students in
// courses.
package registration

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/course-registration-api/internal/types"
	"github.com/aanand-mishra/course-registration-api/internal/utils/request"
	"github.com/aanand-mishra/course-registration-api/internal/utils/response"
)

// Service is what the handlers need from the registration service.
type Service interface {
	Register(ctx context.Context, req types.CreateRegistrationRequest) (types.RegistrationResponse, error)
	List(ctx context.Context) ([]types.RegistrationResponse, error)
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /registrations/
//
// Request body (JSON):
//
//	{ "student_id": 1, "course_id": 1 }
//
// Success response (200 OK):
//
//	{ "id": 1, "studentId": 1, "courseId": 1, "registeredAt": "...",
//	  "student": { ... }, "course": { ... } }
//
// Error responses:
//
//	404 Not Found            — student or course does not exist
//	400 Bad Request          — student already registered for the course
//	422 Unprocessable Entity — invalid body
//
// ─────────────────────────────────────────────────────────────────────────────
func New(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.CreateRegistrationRequest
		if err := request.DecodeJSON(w, r, &req); err != nil {
			response.Unprocessable(w, err)
			return
		}

		slog.InfoContext(r.Context(), "registering a student")

		reg, err := svc.Register(r.Context(), req)
		if err != nil {
			response.WriteError(w, r, err)
			return
		}

		slog.InfoContext(r.Context(), "student registered",
			slog.Int64("id", reg.ID),
			slog.Int64("student_id", reg.StudentID),
			slog.Int64("course_id", reg.CourseID))
		response.WriteJSON(w, http.StatusOK, reg)
	}
}

// GetList handles GET /registrations/
func GetList(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.InfoContext(r.Context(), "getting all registrations")

		regs, err := svc.List(r.Context())
		if err != nil {
			response.WriteError(w, r, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, regs)
	}
}
