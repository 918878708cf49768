// Package types holds all shared data structures used across the
// application. Keeping them in one place prevents import cycles:
// handlers, services, and storage backends can all import types without
// depending on each other.
//
// There are three families of types here:
//
//  1. Records (Student, Course, Registration) — what the Data Store
//     persists and returns.
//  2. Requests (Create*Request) — inbound JSON payloads, carrying the
//     validate:"..." rules checked by go-playground/validator.
//  3. Responses (*Response) — outbound JSON shapes, built from records by
//     the mapping functions in mapping.go.
package types

import "time"

// Student is a persisted student row.
type Student struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Course is a persisted course row.
type Course struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Code  string `json:"code"`
	Units int    `json:"units"`
}

// Registration is a persisted join row linking one Student to one Course.
type Registration struct {
	ID           int64
	StudentID    int64
	CourseID     int64
	RegisteredAt time.Time
}

// CreateStudentRequest is the body of POST /students/.
type CreateStudentRequest struct {
	Name  string `json:"name"  validate:"required,notblank"`
	Email string `json:"email" validate:"required,email"`
}

// CreateCourseRequest is the body of POST /courses/.
//
// Units is a pointer so that "units": 0 is accepted while a missing
// "units" key is still reported as required.
type CreateCourseRequest struct {
	Title string `json:"title" validate:"required,notblank"`
	Code  string `json:"code"  validate:"required,notblank"`
	Units *int   `json:"units" validate:"required"`
}

// CreateRegistrationRequest is the body of POST /registrations/.
type CreateRegistrationRequest struct {
	StudentID *int64 `json:"student_id" validate:"required"`
	CourseID  *int64 `json:"course_id"  validate:"required"`
}
