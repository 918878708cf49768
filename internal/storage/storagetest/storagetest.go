// Package storagetest holds a behavioural test suite that every
// storage.Storage backend must pass.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/course-registration-api/internal/storage"
	"github.com/aanand-mishra/course-registration-api/internal/types"
)

// Run executes the suite. newStore must return an empty store; it is
// called once per subtest.
func Run(t *testing.T, newStore func(t *testing.T) storage.Storage) {
	t.Helper()

	t.Run("CreateAndGetStudent", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		id, err := s.CreateStudent(ctx, "Ada", "ada@example.com")
		require.NoError(t, err)
		require.Equal(t, int64(1), id)

		got, err := s.GetStudentByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, types.Student{ID: id, Name: "Ada", Email: "ada@example.com"}, got)

		byEmail, err := s.GetStudentByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, got, byEmail)
	})

	t.Run("DuplicateEmailConflicts", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.CreateStudent(ctx, "Ada", "ada@example.com")
		require.NoError(t, err)

		_, err = s.CreateStudent(ctx, "Other Ada", "ada@example.com")
		require.ErrorIs(t, err, storage.ErrConflict)

		students, err := s.GetStudents(ctx)
		require.NoError(t, err)
		assert.Len(t, students, 1)
	})

	t.Run("MissingRowsAreNotFound", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.GetStudentByID(ctx, 42)
		require.ErrorIs(t, err, storage.ErrNotFound)

		_, err = s.GetStudentByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, storage.ErrNotFound)

		_, err = s.GetCourseByID(ctx, 42)
		require.ErrorIs(t, err, storage.ErrNotFound)

		_, err = s.FindRegistration(ctx, 1, 1)
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("EmptyListsAreNotNil", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		students, err := s.GetStudents(ctx)
		require.NoError(t, err)
		assert.NotNil(t, students)
		assert.Empty(t, students)

		courses, err := s.GetCourses(ctx)
		require.NoError(t, err)
		assert.NotNil(t, courses)

		regs, err := s.GetRegistrations(ctx)
		require.NoError(t, err)
		assert.NotNil(t, regs)

		registered, err := s.GetRegisteredCourses(ctx, 1)
		require.NoError(t, err)
		assert.NotNil(t, registered)
	})

	t.Run("CoursesKeepInsertOrderAndAllowDuplicateCodes", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		first, err := s.CreateCourse(ctx, "Algorithms", "CS201", 3)
		require.NoError(t, err)
		second, err := s.CreateCourse(ctx, "Algorithms II", "CS201", 0)
		require.NoError(t, err)

		courses, err := s.GetCourses(ctx)
		require.NoError(t, err)
		require.Len(t, courses, 2)
		assert.Equal(t, types.Course{ID: first, Title: "Algorithms", Code: "CS201", Units: 3}, courses[0])
		assert.Equal(t, types.Course{ID: second, Title: "Algorithms II", Code: "CS201", Units: 0}, courses[1])
	})

	t.Run("RegistrationConstraints", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		at := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)

		studentID, err := s.CreateStudent(ctx, "Ada", "ada@example.com")
		require.NoError(t, err)
		courseID, err := s.CreateCourse(ctx, "Algorithms", "CS201", 3)
		require.NoError(t, err)

		_, err = s.CreateRegistration(ctx, studentID, courseID+100, at)
		require.ErrorIs(t, err, storage.ErrNotFound)
		_, err = s.CreateRegistration(ctx, studentID+100, courseID, at)
		require.ErrorIs(t, err, storage.ErrNotFound)

		id, err := s.CreateRegistration(ctx, studentID, courseID, at)
		require.NoError(t, err)

		_, err = s.CreateRegistration(ctx, studentID, courseID, at.Add(time.Minute))
		require.ErrorIs(t, err, storage.ErrConflict)

		reg, err := s.FindRegistration(ctx, studentID, courseID)
		require.NoError(t, err)
		assert.Equal(t, id, reg.ID)
		assert.Equal(t, studentID, reg.StudentID)
		assert.Equal(t, courseID, reg.CourseID)
		assert.True(t, at.Equal(reg.RegisteredAt), "registeredAt %v != %v", reg.RegisteredAt, at)

		regs, err := s.GetRegistrations(ctx)
		require.NoError(t, err)
		assert.Len(t, regs, 1)
	})

	t.Run("RegisteredCoursesAreFlattened", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		at := time.Now().UTC()

		ada, err := s.CreateStudent(ctx, "Ada", "ada@example.com")
		require.NoError(t, err)
		alan, err := s.CreateStudent(ctx, "Alan", "alan@example.com")
		require.NoError(t, err)
		algo, err := s.CreateCourse(ctx, "Algorithms", "CS201", 3)
		require.NoError(t, err)
		osCourse, err := s.CreateCourse(ctx, "Operating Systems", "CS301", 4)
		require.NoError(t, err)

		_, err = s.CreateRegistration(ctx, ada, osCourse, at)
		require.NoError(t, err)
		_, err = s.CreateRegistration(ctx, ada, algo, at)
		require.NoError(t, err)

		courses, err := s.GetRegisteredCourses(ctx, ada)
		require.NoError(t, err)
		require.Len(t, courses, 2)
		assert.Equal(t, "CS301", courses[0].Code)
		assert.Equal(t, "CS201", courses[1].Code)

		courses, err = s.GetRegisteredCourses(ctx, alan)
		require.NoError(t, err)
		assert.Empty(t, courses)
	})

	t.Run("Ping", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Ping(context.Background()))
	})
}
