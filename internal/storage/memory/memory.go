// Package memory provides an in-process implementation of storage.Storage.
//
// It enforces the same constraints as the SQL schema (unique email,
// unique registration pair, existing foreign keys) so it can stand in
// for a real database in tests and in throwaway dev runs.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aanand-mishra/course-registration-api/internal/storage"
	"github.com/aanand-mishra/course-registration-api/internal/types"
)

type pair struct {
	studentID, courseID int64
}

// Memory is safe for concurrent use.
type Memory struct {
	mu sync.RWMutex

	students      []types.Student
	courses       []types.Course
	registrations []types.Registration

	emails map[string]int64
	pairs  map[pair]int64
}

var _ storage.Storage = (*Memory)(nil)

// New returns an empty store.
func New() *Memory {
	return &Memory{
		emails: make(map[string]int64),
		pairs:  make(map[pair]int64),
	}
}

func (m *Memory) CreateStudent(_ context.Context, name, email string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.emails[email]; ok {
		return 0, fmt.Errorf("CreateStudent: email %q: %w", email, storage.ErrConflict)
	}

	id := int64(len(m.students) + 1)
	m.students = append(m.students, types.Student{ID: id, Name: name, Email: email})
	m.emails[email] = id
	return id, nil
}

func (m *Memory) GetStudentByID(_ context.Context, id int64) (types.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if id < 1 || id > int64(len(m.students)) {
		return types.Student{}, fmt.Errorf("no student found with id %d: %w", id, storage.ErrNotFound)
	}
	return m.students[id-1], nil
}

func (m *Memory) GetStudentByEmail(_ context.Context, email string) (types.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.emails[email]
	if !ok {
		return types.Student{}, fmt.Errorf("no student found with email %q: %w", email, storage.ErrNotFound)
	}
	return m.students[id-1], nil
}

func (m *Memory) GetStudents(_ context.Context) ([]types.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.Student, len(m.students))
	copy(out, m.students)
	return out, nil
}

func (m *Memory) CreateCourse(_ context.Context, title, code string, units int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := int64(len(m.courses) + 1)
	m.courses = append(m.courses, types.Course{ID: id, Title: title, Code: code, Units: units})
	return id, nil
}

func (m *Memory) GetCourseByID(_ context.Context, id int64) (types.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if id < 1 || id > int64(len(m.courses)) {
		return types.Course{}, fmt.Errorf("no course found with id %d: %w", id, storage.ErrNotFound)
	}
	return m.courses[id-1], nil
}

func (m *Memory) GetCourses(_ context.Context) ([]types.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.Course, len(m.courses))
	copy(out, m.courses)
	return out, nil
}

func (m *Memory) CreateRegistration(_ context.Context, studentID, courseID int64, registeredAt time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Foreign keys.
	if studentID < 1 || studentID > int64(len(m.students)) ||
		courseID < 1 || courseID > int64(len(m.courses)) {
		return 0, fmt.Errorf("CreateRegistration: student %d / course %d: %w", studentID, courseID, storage.ErrNotFound)
	}

	key := pair{studentID, courseID}
	if _, ok := m.pairs[key]; ok {
		return 0, fmt.Errorf("CreateRegistration: student %d / course %d: %w", studentID, courseID, storage.ErrConflict)
	}

	id := int64(len(m.registrations) + 1)
	m.registrations = append(m.registrations, types.Registration{
		ID:           id,
		StudentID:    studentID,
		CourseID:     courseID,
		RegisteredAt: registeredAt,
	})
	m.pairs[key] = id
	return id, nil
}

func (m *Memory) FindRegistration(_ context.Context, studentID, courseID int64) (types.Registration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.pairs[pair{studentID, courseID}]
	if !ok {
		return types.Registration{}, fmt.Errorf("no registration for student %d / course %d: %w", studentID, courseID, storage.ErrNotFound)
	}
	return m.registrations[id-1], nil
}

func (m *Memory) GetRegistrations(_ context.Context) ([]types.Registration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.Registration, len(m.registrations))
	copy(out, m.registrations)
	return out, nil
}

func (m *Memory) GetRegisteredCourses(_ context.Context, studentID int64) ([]types.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	courses := make([]types.Course, 0)
	for _, r := range m.registrations {
		if r.StudentID == studentID {
			courses = append(courses, m.courses[r.CourseID-1])
		}
	}
	return courses, nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }
