// Package storage defines the Storage interface — the contract that any
// database backend must satisfy to work with this application.
//
// Services depend only on this interface. The SQLite, PostgreSQL and
// in-memory backends in the sub-packages all satisfy it, and the one in
// use is picked at startup from config.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/aanand-mishra/course-registration-api/internal/types"
)

var (
	// ErrNotFound is returned when a lookup matches no row, or when an
	// insert references a row that does not exist.
	ErrNotFound = errors.New("storage: not found")

	// ErrConflict is returned when an insert violates a uniqueness
	// constraint (student email, or the student/course registration pair).
	ErrConflict = errors.New("storage: conflict")
)

// Storage is the database contract.
//
// Lookups that match nothing return an error wrapping ErrNotFound.
// List methods return an empty slice (not nil) when there are no rows and
// order rows by id.
type Storage interface {
	// CreateStudent inserts a new student and returns its generated ID.
	// A duplicate email yields ErrConflict.
	CreateStudent(ctx context.Context, name, email string) (int64, error)
	GetStudentByID(ctx context.Context, id int64) (types.Student, error)
	GetStudentByEmail(ctx context.Context, email string) (types.Student, error)
	GetStudents(ctx context.Context) ([]types.Student, error)

	CreateCourse(ctx context.Context, title, code string, units int) (int64, error)
	GetCourseByID(ctx context.Context, id int64) (types.Course, error)
	GetCourses(ctx context.Context) ([]types.Course, error)

	// CreateRegistration inserts a registration row. A repeated
	// (studentID, courseID) pair yields ErrConflict; a missing student or
	// course yields ErrNotFound.
	CreateRegistration(ctx context.Context, studentID, courseID int64, registeredAt time.Time) (int64, error)

	// FindRegistration returns the registration for the given pair.
	FindRegistration(ctx context.Context, studentID, courseID int64) (types.Registration, error)
	GetRegistrations(ctx context.Context) ([]types.Registration, error)

	// GetRegisteredCourses returns the courses a student is registered
	// for, in registration order.
	GetRegisteredCourses(ctx context.Context, studentID int64) ([]types.Course, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	Close() error
}
