// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// SQLite stores everything in a single file on disk. There is no network
// and no separate server process, which makes it the default backend for
// local runs.
//
// Importing go-sqlite3 registers the "sqlite3" driver with database/sql.
// The only thing used from it directly is its error type, to recognise
// constraint violations.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/aanand-mishra/course-registration-api/internal/config"
	"github.com/aanand-mishra/course-registration-api/internal/storage"
	"github.com/aanand-mishra/course-registration-api/internal/types"
)

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
// A single *sql.DB is safe for concurrent use by multiple goroutines.
type SQLite struct {
	Db *sql.DB
}

var _ storage.Storage = (*SQLite)(nil)

// New opens the SQLite database at cfg.Storage.Path, brings the schema
// up to date, and returns a ready-to-use *SQLite.
func New(cfg *config.Config) (*SQLite, error) {
	path := cfg.Storage.Path

	// The driver will create the file but not its directory.
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("sqlite.New: create dir: %w", err)
		}
	}

	// Foreign keys are off by default in SQLite; the registrations table
	// relies on them. busy_timeout makes concurrent writers wait instead
	// of failing with "database is locked".
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: %w", err)
	}

	return &SQLite{Db: db}, nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_busy_timeout=5000"
}

// constraintErr maps SQLite constraint violations onto the storage
// sentinels. Other errors are returned unchanged.
func constraintErr(err error) error {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}
	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return fmt.Errorf("%w: %v", storage.ErrConflict, err)
	case sqlite3.ErrConstraintForeignKey:
		return fmt.Errorf("%w: %v", storage.ErrNotFound, err)
	}
	return err
}

// ─────────────────────────────────────────────────────────────────────────────
// Students
// ─────────────────────────────────────────────────────────────────────────────

// CreateStudent inserts a new row into the students table.
// Placeholders (?) keep user input out of the SQL text.
func (s *SQLite) CreateStudent(ctx context.Context, name, email string) (int64, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"INSERT INTO students (name, email) VALUES (?, ?)",
	)
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, name, email)
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: exec: %w", constraintErr(err))
	}

	// LastInsertId returns the auto-generated primary key of the new row.
	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: last insert id: %w", err)
	}

	return lastID, nil
}

// GetStudentByID fetches exactly one student row matched by primary key.
func (s *SQLite) GetStudentByID(ctx context.Context, id int64) (types.Student, error) {
	var student types.Student

	err := s.Db.QueryRowContext(ctx,
		"SELECT id, name, email FROM students WHERE id = ? LIMIT 1", id,
	).Scan(&student.ID, &student.Name, &student.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Student{}, fmt.Errorf("no student found with id %d: %w", id, storage.ErrNotFound)
		}
		return types.Student{}, fmt.Errorf("GetStudentByID: scan: %w", err)
	}

	return student, nil
}

// GetStudentByEmail is the lookup behind the duplicate-email check.
func (s *SQLite) GetStudentByEmail(ctx context.Context, email string) (types.Student, error) {
	var student types.Student

	err := s.Db.QueryRowContext(ctx,
		"SELECT id, name, email FROM students WHERE email = ? LIMIT 1", email,
	).Scan(&student.ID, &student.Name, &student.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Student{}, fmt.Errorf("no student found with email %q: %w", email, storage.ErrNotFound)
		}
		return types.Student{}, fmt.Errorf("GetStudentByEmail: scan: %w", err)
	}

	return student, nil
}

// GetStudents returns all student rows as a slice.
func (s *SQLite) GetStudents(ctx context.Context) ([]types.Student, error) {
	rows, err := s.Db.QueryContext(ctx, "SELECT id, name, email FROM students ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("GetStudents: query: %w", err)
	}
	defer rows.Close()

	// Non-nil so the handler encodes [] rather than null.
	students := make([]types.Student, 0)

	for rows.Next() {
		var student types.Student
		if err := rows.Scan(&student.ID, &student.Name, &student.Email); err != nil {
			return nil, fmt.Errorf("GetStudents: scan row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetStudents: rows iteration: %w", err)
	}

	return students, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Courses
// ─────────────────────────────────────────────────────────────────────────────

func (s *SQLite) CreateCourse(ctx context.Context, title, code string, units int) (int64, error) {
	result, err := s.Db.ExecContext(ctx,
		"INSERT INTO courses (title, code, units) VALUES (?, ?, ?)",
		title, code, units,
	)
	if err != nil {
		return 0, fmt.Errorf("CreateCourse: exec: %w", constraintErr(err))
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("CreateCourse: last insert id: %w", err)
	}

	return lastID, nil
}

func (s *SQLite) GetCourseByID(ctx context.Context, id int64) (types.Course, error) {
	var course types.Course

	err := s.Db.QueryRowContext(ctx,
		"SELECT id, title, code, units FROM courses WHERE id = ? LIMIT 1", id,
	).Scan(&course.ID, &course.Title, &course.Code, &course.Units)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Course{}, fmt.Errorf("no course found with id %d: %w", id, storage.ErrNotFound)
		}
		return types.Course{}, fmt.Errorf("GetCourseByID: scan: %w", err)
	}

	return course, nil
}

func (s *SQLite) GetCourses(ctx context.Context) ([]types.Course, error) {
	rows, err := s.Db.QueryContext(ctx, "SELECT id, title, code, units FROM courses ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("GetCourses: query: %w", err)
	}
	defer rows.Close()

	return scanCourses(rows, "GetCourses")
}

func scanCourses(rows *sql.Rows, op string) ([]types.Course, error) {
	courses := make([]types.Course, 0)

	for rows.Next() {
		var course types.Course
		if err := rows.Scan(&course.ID, &course.Title, &course.Code, &course.Units); err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration: %w", op, err)
	}

	return courses, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Registrations
// ─────────────────────────────────────────────────────────────────────────────

// CreateRegistration relies on the UNIQUE(student_id, course_id) and
// REFERENCES constraints; their violations surface as ErrConflict and
// ErrNotFound respectively.
func (s *SQLite) CreateRegistration(ctx context.Context, studentID, courseID int64, registeredAt time.Time) (int64, error) {
	result, err := s.Db.ExecContext(ctx,
		"INSERT INTO registrations (student_id, course_id, registered_at) VALUES (?, ?, ?)",
		studentID, courseID, registeredAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("CreateRegistration: exec: %w", constraintErr(err))
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("CreateRegistration: last insert id: %w", err)
	}

	return lastID, nil
}

func (s *SQLite) FindRegistration(ctx context.Context, studentID, courseID int64) (types.Registration, error) {
	var reg types.Registration

	err := s.Db.QueryRowContext(ctx,
		`SELECT id, student_id, course_id, registered_at
		   FROM registrations
		  WHERE student_id = ? AND course_id = ?
		  LIMIT 1`,
		studentID, courseID,
	).Scan(&reg.ID, &reg.StudentID, &reg.CourseID, &reg.RegisteredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Registration{}, fmt.Errorf("no registration for student %d / course %d: %w",
				studentID, courseID, storage.ErrNotFound)
		}
		return types.Registration{}, fmt.Errorf("FindRegistration: scan: %w", err)
	}

	return reg, nil
}

func (s *SQLite) GetRegistrations(ctx context.Context) ([]types.Registration, error) {
	rows, err := s.Db.QueryContext(ctx,
		"SELECT id, student_id, course_id, registered_at FROM registrations ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("GetRegistrations: query: %w", err)
	}
	defer rows.Close()

	regs := make([]types.Registration, 0)
	for rows.Next() {
		var reg types.Registration
		if err := rows.Scan(&reg.ID, &reg.StudentID, &reg.CourseID, &reg.RegisteredAt); err != nil {
			return nil, fmt.Errorf("GetRegistrations: scan row: %w", err)
		}
		regs = append(regs, reg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetRegistrations: rows iteration: %w", err)
	}

	return regs, nil
}

// GetRegisteredCourses joins through registrations so callers get Course
// records directly instead of join rows.
func (s *SQLite) GetRegisteredCourses(ctx context.Context, studentID int64) ([]types.Course, error) {
	rows, err := s.Db.QueryContext(ctx,
		`SELECT c.id, c.title, c.code, c.units
		   FROM registrations r
		   JOIN courses c ON c.id = r.course_id
		  WHERE r.student_id = ?
		  ORDER BY r.id`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("GetRegisteredCourses: query: %w", err)
	}
	defer rows.Close()

	return scanCourses(rows, "GetRegisteredCourses")
}

func (s *SQLite) Ping(ctx context.Context) error {
	return s.Db.PingContext(ctx)
}

func (s *SQLite) Close() error {
	return s.Db.Close()
}
