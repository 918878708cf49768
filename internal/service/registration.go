package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aanand-mishra/course-registration-api/internal/storage"
	"github.com/aanand-mishra/course-registration-api/internal/types"
)

// RegistrationService links students to courses.
type RegistrationService struct {
	store storage.Storage
	now   func() time.Time
}

// Option configures a RegistrationService.
type Option func(*RegistrationService)

// WithClock overrides the source of registration timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *RegistrationService) { s.now = now }
}

func NewRegistrationService(store storage.Storage, opts ...Option) *RegistrationService {
	s := &RegistrationService{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a registration after checking that both the student
// and the course exist and that the pair is not already registered.
// Nothing is written unless every check passes.
func (s *RegistrationService) Register(ctx context.Context, req types.CreateRegistrationRequest) (types.RegistrationResponse, error) {
	if err := validateStruct(req); err != nil {
		return types.RegistrationResponse{}, err
	}
	studentID, courseID := *req.StudentID, *req.CourseID

	student, err := s.store.GetStudentByID(ctx, studentID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return types.RegistrationResponse{}, fmt.Errorf("get student: %w", err)
	}
	studentFound := err == nil

	course, err := s.store.GetCourseByID(ctx, courseID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return types.RegistrationResponse{}, fmt.Errorf("get course: %w", err)
	}
	courseFound := err == nil

	if !studentFound || !courseFound {
		return types.RegistrationResponse{}, &NotFoundError{Detail: msgRegisterNotFound}
	}

	_, err = s.store.FindRegistration(ctx, studentID, courseID)
	switch {
	case err == nil:
		return types.RegistrationResponse{}, &ConflictError{Detail: msgAlreadyRegistered}
	case !errors.Is(err, storage.ErrNotFound):
		return types.RegistrationResponse{}, fmt.Errorf("find registration: %w", err)
	}

	// The checks above are advisory under concurrency; the store's unique
	// and foreign-key constraints decide, and map to the same errors.
	reg := types.Registration{
		StudentID:    studentID,
		CourseID:     courseID,
		RegisteredAt: s.now().UTC(),
	}
	reg.ID, err = s.store.CreateRegistration(ctx, studentID, courseID, reg.RegisteredAt)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			return types.RegistrationResponse{}, &ConflictError{Detail: msgAlreadyRegistered}
		case errors.Is(err, storage.ErrNotFound):
			return types.RegistrationResponse{}, &NotFoundError{Detail: msgRegisterNotFound}
		}
		return types.RegistrationResponse{}, fmt.Errorf("create registration: %w", err)
	}

	return types.NewRegistrationResponse(reg, student, course), nil
}

// List returns every registration with its student and course embedded.
func (s *RegistrationService) List(ctx context.Context) ([]types.RegistrationResponse, error) {
	regs, err := s.store.GetRegistrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	students := make(map[int64]types.Student)
	courses := make(map[int64]types.Course)

	out := make([]types.RegistrationResponse, 0, len(regs))
	for _, reg := range regs {
		student, ok := students[reg.StudentID]
		if !ok {
			if student, err = s.store.GetStudentByID(ctx, reg.StudentID); err != nil {
				return nil, fmt.Errorf("student of registration %d: %w", reg.ID, err)
			}
			students[reg.StudentID] = student
		}

		course, ok := courses[reg.CourseID]
		if !ok {
			if course, err = s.store.GetCourseByID(ctx, reg.CourseID); err != nil {
				return nil, fmt.Errorf("course of registration %d: %w", reg.ID, err)
			}
			courses[reg.CourseID] = course
		}

		out = append(out, types.NewRegistrationResponse(reg, student, course))
	}
	return out, nil
}
