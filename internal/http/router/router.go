// Package router wires services, handlers and middleware into a single
// http.Handler.
package router

import (
	"net/http"

	"github.com/aanand-mishra/course-registration-api/internal/http/handlers/course"
	"github.com/aanand-mishra/course-registration-api/internal/http/handlers/health"
	"github.com/aanand-mishra/course-registration-api/internal/http/handlers/registration"
	"github.com/aanand-mishra/course-registration-api/internal/http/handlers/student"
	"github.com/aanand-mishra/course-registration-api/internal/http/middleware"
	"github.com/aanand-mishra/course-registration-api/internal/service"
	"github.com/aanand-mishra/course-registration-api/internal/storage"
)

// New builds the route table over store.
//
// Route table:
//
//	POST /students/          → create a student
//	GET  /students/          → list students with their registered courses
//	GET  /students/{id}      → one student
//	POST /courses/           → create a course
//	GET  /courses/           → list courses
//	GET  /courses/{id}       → one course
//	POST /registrations/     → register a student for a course
//	GET  /registrations/     → list registrations
//	GET  /health             → store ping
//
// Collection routes answer with and without the trailing slash.
func New(store storage.Storage, allowedOrigins []string, opts ...service.Option) http.Handler {
	students := service.NewStudentService(store)
	courses := service.NewCourseService(store)
	registrations := service.NewRegistrationService(store, opts...)

	mux := http.NewServeMux()

	collection(mux, "POST", "/students", student.New(students))
	collection(mux, "GET", "/students", student.GetList(students))
	mux.HandleFunc("GET /students/{id}", student.GetByID(students))

	collection(mux, "POST", "/courses", course.New(courses))
	collection(mux, "GET", "/courses", course.GetList(courses))
	mux.HandleFunc("GET /courses/{id}", course.GetByID(courses))

	collection(mux, "POST", "/registrations", registration.New(registrations))
	collection(mux, "GET", "/registrations", registration.GetList(registrations))

	mux.HandleFunc("GET /health", health.New(store))

	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recover,
		middleware.CORS(allowedOrigins),
	)
}

// collection registers h for both "/path" and "/path/". {$} anchors the
// match so "/path/anything" is not swallowed by the collection route.
func collection(mux *http.ServeMux, method, path string, h http.HandlerFunc) {
	mux.HandleFunc(method+" "+path, h)
	mux.HandleFunc(method+" "+path+"/{$}", h)
}
