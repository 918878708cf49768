// Package postgres provides a PostgreSQL-backed implementation of the
// storage.Storage interface on top of a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aanand-mishra/course-registration-api/internal/config"
	"github.com/aanand-mishra/course-registration-api/internal/storage"
	"github.com/aanand-mishra/course-registration-api/internal/types"
)

// SQLSTATE codes we translate into storage sentinels.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// Postgres implements storage.Storage.
type Postgres struct {
	Pool *pgxpool.Pool
}

var _ storage.Storage = (*Postgres)(nil)

// New connects to cfg.Storage.DatabaseURL, runs pending migrations and
// verifies the pool with a ping.
func New(ctx context.Context, cfg *config.Config) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.Storage.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse database url: %w", err)
	}

	poolCfg.MaxConns = cfg.Storage.MaxConns
	poolCfg.MaxConnLifetime = 5 * time.Minute
	poolCfg.MaxConnIdleTime = 2 * time.Minute
	poolCfg.HealthCheckPeriod = time.Minute
	poolCfg.ConnConfig.ConnectTimeout = 3 * time.Second

	if err := migrateUp(poolCfg.ConnConfig); err != nil {
		return nil, fmt.Errorf("postgres.New: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Postgres{Pool: pool}, nil
}

// constraintErr maps constraint violations onto the storage sentinels.
func constraintErr(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case uniqueViolation:
		return fmt.Errorf("%w: %s", storage.ErrConflict, pgErr.ConstraintName)
	case foreignKeyViolation:
		return fmt.Errorf("%w: %s", storage.ErrNotFound, pgErr.ConstraintName)
	}
	return err
}

func (p *Postgres) CreateStudent(ctx context.Context, name, email string) (int64, error) {
	var id int64
	err := p.Pool.QueryRow(ctx,
		"INSERT INTO students (name, email) VALUES ($1, $2) RETURNING id",
		name, email,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: %w", constraintErr(err))
	}
	return id, nil
}

func (p *Postgres) GetStudentByID(ctx context.Context, id int64) (types.Student, error) {
	var s types.Student
	err := p.Pool.QueryRow(ctx,
		"SELECT id, name, email FROM students WHERE id = $1", id,
	).Scan(&s.ID, &s.Name, &s.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Student{}, fmt.Errorf("no student found with id %d: %w", id, storage.ErrNotFound)
		}
		return types.Student{}, fmt.Errorf("GetStudentByID: %w", err)
	}
	return s, nil
}

func (p *Postgres) GetStudentByEmail(ctx context.Context, email string) (types.Student, error) {
	var s types.Student
	err := p.Pool.QueryRow(ctx,
		"SELECT id, name, email FROM students WHERE email = $1", email,
	).Scan(&s.ID, &s.Name, &s.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Student{}, fmt.Errorf("no student found with email %q: %w", email, storage.ErrNotFound)
		}
		return types.Student{}, fmt.Errorf("GetStudentByEmail: %w", err)
	}
	return s, nil
}

func (p *Postgres) GetStudents(ctx context.Context) ([]types.Student, error) {
	rows, err := p.Pool.Query(ctx, "SELECT id, name, email FROM students ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("GetStudents: %w", err)
	}
	students, err := pgx.CollectRows(rows, pgx.RowToStructByPos[types.Student])
	if err != nil {
		return nil, fmt.Errorf("GetStudents: %w", err)
	}
	return students, nil
}

func (p *Postgres) CreateCourse(ctx context.Context, title, code string, units int) (int64, error) {
	var id int64
	err := p.Pool.QueryRow(ctx,
		"INSERT INTO courses (title, code, units) VALUES ($1, $2, $3) RETURNING id",
		title, code, units,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("CreateCourse: %w", constraintErr(err))
	}
	return id, nil
}

func (p *Postgres) GetCourseByID(ctx context.Context, id int64) (types.Course, error) {
	var c types.Course
	err := p.Pool.QueryRow(ctx,
		"SELECT id, title, code, units FROM courses WHERE id = $1", id,
	).Scan(&c.ID, &c.Title, &c.Code, &c.Units)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Course{}, fmt.Errorf("no course found with id %d: %w", id, storage.ErrNotFound)
		}
		return types.Course{}, fmt.Errorf("GetCourseByID: %w", err)
	}
	return c, nil
}

func (p *Postgres) GetCourses(ctx context.Context) ([]types.Course, error) {
	rows, err := p.Pool.Query(ctx, "SELECT id, title, code, units FROM courses ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("GetCourses: %w", err)
	}
	courses, err := pgx.CollectRows(rows, pgx.RowToStructByPos[types.Course])
	if err != nil {
		return nil, fmt.Errorf("GetCourses: %w", err)
	}
	return courses, nil
}

func (p *Postgres) CreateRegistration(ctx context.Context, studentID, courseID int64, registeredAt time.Time) (int64, error) {
	var id int64
	err := p.Pool.QueryRow(ctx,
		`INSERT INTO registrations (student_id, course_id, registered_at)
		 VALUES ($1, $2, $3) RETURNING id`,
		studentID, courseID, registeredAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("CreateRegistration: %w", constraintErr(err))
	}
	return id, nil
}

func (p *Postgres) FindRegistration(ctx context.Context, studentID, courseID int64) (types.Registration, error) {
	var r types.Registration
	err := p.Pool.QueryRow(ctx,
		`SELECT id, student_id, course_id, registered_at
		   FROM registrations
		  WHERE student_id = $1 AND course_id = $2`,
		studentID, courseID,
	).Scan(&r.ID, &r.StudentID, &r.CourseID, &r.RegisteredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Registration{}, fmt.Errorf("no registration for student %d / course %d: %w",
				studentID, courseID, storage.ErrNotFound)
		}
		return types.Registration{}, fmt.Errorf("FindRegistration: %w", err)
	}
	return r, nil
}

func (p *Postgres) GetRegistrations(ctx context.Context) ([]types.Registration, error) {
	rows, err := p.Pool.Query(ctx,
		"SELECT id, student_id, course_id, registered_at FROM registrations ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("GetRegistrations: %w", err)
	}
	regs, err := pgx.CollectRows(rows, pgx.RowToStructByPos[types.Registration])
	if err != nil {
		return nil, fmt.Errorf("GetRegistrations: %w", err)
	}
	return regs, nil
}

func (p *Postgres) GetRegisteredCourses(ctx context.Context, studentID int64) ([]types.Course, error) {
	rows, err := p.Pool.Query(ctx,
		`SELECT c.id, c.title, c.code, c.units
		   FROM registrations r
		   JOIN courses c ON c.id = r.course_id
		  WHERE r.student_id = $1
		  ORDER BY r.id`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("GetRegisteredCourses: %w", err)
	}
	courses, err := pgx.CollectRows(rows, pgx.RowToStructByPos[types.Course])
	if err != nil {
		return nil, fmt.Errorf("GetRegisteredCourses: %w", err)
	}
	return courses, nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.Pool.Ping(ctx)
}

func (p *Postgres) Close() error {
	p.Pool.Close()
	return nil
}
