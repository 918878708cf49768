package service

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports a malformed request. It is always returned
// before any store call is made.
type ValidationError struct {
	Fields validator.ValidationErrors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field())
	}
	return "validation failed: " + strings.Join(names, ", ")
}

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Detail string
}

func (e *NotFoundError) Error() string { return e.Detail }

// ConflictError reports a duplicate: an email already in use, or a
// student already registered for a course.
type ConflictError struct {
	Detail string
}

func (e *ConflictError) Error() string { return e.Detail }

// Details returned to clients.
const (
	msgEmailTaken        = "Email already registered"
	msgAlreadyRegistered = "Already registered"
	msgStudentNotFound   = "Student not found"
	msgCourseNotFound    = "Course not found"
	msgRegisterNotFound  = "Student or Course not found"
)
