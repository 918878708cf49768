package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aanand-mishra/course-registration-api/internal/storage"
	"github.com/aanand-mishra/course-registration-api/internal/types"
)

// StudentService creates and lists students.
type StudentService struct {
	store storage.Storage
}

func NewStudentService(store storage.Storage) *StudentService {
	return &StudentService{store: store}
}

// Create registers a new student. The email must not belong to an
// existing student.
func (s *StudentService) Create(ctx context.Context, req types.CreateStudentRequest) (types.StudentResponse, error) {
	if err := validateStruct(req); err != nil {
		return types.StudentResponse{}, err
	}

	_, err := s.store.GetStudentByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return types.StudentResponse{}, &ConflictError{Detail: msgEmailTaken}
	case !errors.Is(err, storage.ErrNotFound):
		return types.StudentResponse{}, fmt.Errorf("check email: %w", err)
	}

	// The lookup above is advisory; the unique index decides races.
	id, err := s.store.CreateStudent(ctx, req.Name, req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return types.StudentResponse{}, &ConflictError{Detail: msgEmailTaken}
		}
		return types.StudentResponse{}, fmt.Errorf("create student: %w", err)
	}

	student := types.Student{ID: id, Name: req.Name, Email: req.Email}
	return types.NewStudentResponse(student, nil), nil
}

// List returns every student with their registered courses.
func (s *StudentService) List(ctx context.Context) ([]types.StudentResponse, error) {
	students, err := s.store.GetStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}

	out := make([]types.StudentResponse, 0, len(students))
	for _, student := range students {
		courses, err := s.store.GetRegisteredCourses(ctx, student.ID)
		if err != nil {
			return nil, fmt.Errorf("courses of student %d: %w", student.ID, err)
		}
		out = append(out, types.NewStudentResponse(student, courses))
	}
	return out, nil
}

// Get returns one student with their registered courses.
func (s *StudentService) Get(ctx context.Context, id int64) (types.StudentResponse, error) {
	student, err := s.store.GetStudentByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return types.StudentResponse{}, &NotFoundError{Detail: msgStudentNotFound}
		}
		return types.StudentResponse{}, fmt.Errorf("get student: %w", err)
	}

	courses, err := s.store.GetRegisteredCourses(ctx, id)
	if err != nil {
		return types.StudentResponse{}, fmt.Errorf("courses of student %d: %w", id, err)
	}
	return types.NewStudentResponse(student, courses), nil
}
