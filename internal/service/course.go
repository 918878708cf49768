package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aanand-mishra/course-registration-api/internal/storage"
	"github.com/aanand-mishra/course-registration-api/internal/types"
)

// CourseService creates and lists courses. Course codes are not unique.
type CourseService struct {
	store storage.Storage
}

func NewCourseService(store storage.Storage) *CourseService {
	return &CourseService{store: store}
}

func (s *CourseService) Create(ctx context.Context, req types.CreateCourseRequest) (types.CourseResponse, error) {
	if err := validateStruct(req); err != nil {
		return types.CourseResponse{}, err
	}

	units := *req.Units
	id, err := s.store.CreateCourse(ctx, req.Title, req.Code, units)
	if err != nil {
		return types.CourseResponse{}, fmt.Errorf("create course: %w", err)
	}

	return types.NewCourseResponse(types.Course{
		ID:    id,
		Title: req.Title,
		Code:  req.Code,
		Units: units,
	}), nil
}

func (s *CourseService) List(ctx context.Context) ([]types.CourseResponse, error) {
	courses, err := s.store.GetCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	out := make([]types.CourseResponse, 0, len(courses))
	for _, c := range courses {
		out = append(out, types.NewCourseResponse(c))
	}
	return out, nil
}

func (s *CourseService) Get(ctx context.Context, id int64) (types.CourseResponse, error) {
	course, err := s.store.GetCourseByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return types.CourseResponse{}, &NotFoundError{Detail: msgCourseNotFound}
		}
		return types.CourseResponse{}, fmt.Errorf("get course: %w", err)
	}
	return types.NewCourseResponse(course), nil
}
