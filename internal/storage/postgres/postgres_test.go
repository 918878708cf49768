package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/course-registration-api/internal/config"
	"github.com/aanand-mishra/course-registration-api/internal/storage"
	"github.com/aanand-mishra/course-registration-api/internal/storage/storagetest"
)

// These tests need a disposable database; they are skipped unless
// TEST_DATABASE_URL points at one.
func TestPostgres(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := &config.Config{Storage: config.Storage{
		Driver:      config.DriverPostgres,
		DatabaseURL: url,
		MaxConns:    4,
	}}

	storagetest.Run(t, func(t *testing.T) storage.Storage {
		ctx := context.Background()
		db, err := New(ctx, cfg)
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })

		_, err = db.Pool.Exec(ctx, "TRUNCATE registrations, courses, students RESTART IDENTITY CASCADE")
		require.NoError(t, err)
		return db
	})
}

func TestConstraintErr(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: uniqueViolation, ConstraintName: "students_email_key"})
	require.ErrorIs(t, constraintErr(unique), storage.ErrConflict)

	fk := &pgconn.PgError{Code: foreignKeyViolation, ConstraintName: "registrations_course_id_fkey"}
	require.ErrorIs(t, constraintErr(fk), storage.ErrNotFound)

	other := errors.New("connection reset")
	require.Equal(t, other, constraintErr(other))
}
