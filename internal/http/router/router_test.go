package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/course-registration-api/internal/config"
	"github.com/aanand-mishra/course-registration-api/internal/service"
	"github.com/aanand-mishra/course-registration-api/internal/storage"
	"github.com/aanand-mishra/course-registration-api/internal/storage/memory"
	"github.com/aanand-mishra/course-registration-api/internal/storage/sqlite"
	"github.com/aanand-mishra/course-registration-api/internal/types"
)

var fixedNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func newServer(t *testing.T, store storage.Storage) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(store, []string{"*"}, service.WithClock(func() time.Time { return fixedNow })))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (int, []byte) {
	t.Helper()

	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, buf.Bytes()
}

func errorMessage(t *testing.T, body []byte) string {
	t.Helper()
	var resp struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "error", resp.Status)
	return resp.Error
}

func TestEndToEnd(t *testing.T) {
	stores := map[string]func(t *testing.T) storage.Storage{
		"memory": func(t *testing.T) storage.Storage { return memory.New() },
		"sqlite": func(t *testing.T) storage.Storage {
			cfg := &config.Config{Storage: config.Storage{
				Driver: config.DriverSQLite,
				Path:   filepath.Join(t.TempDir(), "e2e.db"),
			}}
			db, err := sqlite.New(cfg)
			require.NoError(t, err)
			t.Cleanup(func() { db.Close() })
			return db
		},
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			srv := newServer(t, newStore(t))

			status, body := do(t, srv, http.MethodPost, "/courses/", `{"title":"Algorithms","code":"CS201","units":3}`)
			require.Equal(t, http.StatusOK, status, string(body))
			assert.JSONEq(t, `{"id":1,"title":"Algorithms","code":"CS201","units":3}`, string(body))

			status, body = do(t, srv, http.MethodPost, "/students/", `{"name":"Ada","email":"ada@example.com"}`)
			require.Equal(t, http.StatusOK, status, string(body))
			assert.JSONEq(t, `{"id":1,"name":"Ada","email":"ada@example.com","registeredCourses":[]}`, string(body))

			status, body = do(t, srv, http.MethodPost, "/registrations/", `{"student_id":1,"course_id":1}`)
			require.Equal(t, http.StatusOK, status, string(body))
			assert.JSONEq(t, `{
				"id": 1,
				"studentId": 1,
				"courseId": 1,
				"registeredAt": "2026-10-17T12:00:00Z",
				"student": {"id":1,"name":"Ada","email":"ada@example.com"},
				"course": {"id":1,"title":"Algorithms","code":"CS201","units":3}
			}`, string(body))

			status, body = do(t, srv, http.MethodPost, "/registrations/", `{"student_id":1,"course_id":1}`)
			require.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, "Already registered", errorMessage(t, body))

			status, body = do(t, srv, http.MethodGet, "/students/", "")
			require.Equal(t, http.StatusOK, status)
			assert.JSONEq(t, `[{
				"id": 1, "name": "Ada", "email": "ada@example.com",
				"registeredCourses": [{"id":1,"title":"Algorithms","code":"CS201","units":3}]
			}]`, string(body))

			status, body = do(t, srv, http.MethodGet, "/registrations", "")
			require.Equal(t, http.StatusOK, status)
			var regs []map[string]any
			require.NoError(t, json.Unmarshal(body, &regs))
			assert.Len(t, regs, 1)
		})
	}
}

func TestStudents(t *testing.T) {
	srv := newServer(t, memory.New())

	status, body := do(t, srv, http.MethodGet, "/students/", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body))

	status, _ = do(t, srv, http.MethodPost, "/students", `{"name":"A","email":"a@example.com"}`)
	require.Equal(t, http.StatusOK, status)
	status, _ = do(t, srv, http.MethodPost, "/students/", `{"name":"B","email":"b@example.com"}`)
	require.Equal(t, http.StatusOK, status)

	status, body = do(t, srv, http.MethodPost, "/students/", `{"name":"A2","email":"a@example.com"}`)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Email already registered", errorMessage(t, body))

	status, body = do(t, srv, http.MethodGet, "/students", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[
		{"id":1,"name":"A","email":"a@example.com","registeredCourses":[]},
		{"id":2,"name":"B","email":"b@example.com","registeredCourses":[]}
	]`, string(body))

	status, body = do(t, srv, http.MethodGet, "/students/2", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"id":2,"name":"B","email":"b@example.com","registeredCourses":[]}`, string(body))

	status, body = do(t, srv, http.MethodGet, "/students/3", "")
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Student not found", errorMessage(t, body))

	status, _ = do(t, srv, http.MethodGet, "/students/abc", "")
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestValidationFailuresAre422(t *testing.T) {
	srv := newServer(t, memory.New())

	tests := []struct {
		name, path, body, contains string
	}{
		{"empty body", "/students/", "", "request body is empty"},
		{"malformed json", "/students/", `{"name":`, "not valid JSON"},
		{"missing email", "/students/", `{"name":"Ada"}`, "field email is required"},
		{"bad email", "/students/", `{"name":"Ada","email":"nope"}`, "field email must be a valid email address"},
		{"blank name", "/students/", `{"name":"  ","email":"ada@example.com"}`, "field name must not be blank"},
		{"units wrong type", "/courses/", `{"title":"T","code":"C","units":"three"}`, "field units must be of type int"},
		{"units missing", "/courses/", `{"title":"T","code":"C"}`, "field units is required"},
		{"missing course_id", "/registrations/", `{"student_id":1}`, "field course_id is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, srv, http.MethodPost, tt.path, tt.body)
			require.Equal(t, http.StatusUnprocessableEntity, status, string(body))
			assert.Contains(t, errorMessage(t, body), tt.contains)
		})
	}

	status, body := do(t, srv, http.MethodGet, "/students/", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body), "invalid requests must not write")
}

func TestRegistrationNotFound(t *testing.T) {
	srv := newServer(t, memory.New())

	status, _ := do(t, srv, http.MethodPost, "/students/", `{"name":"Ada","email":"ada@example.com"}`)
	require.Equal(t, http.StatusOK, status)

	status, body := do(t, srv, http.MethodPost, "/registrations/", `{"student_id":1,"course_id":7}`)
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Student or Course not found", errorMessage(t, body))

	status, body = do(t, srv, http.MethodGet, "/registrations/", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body))
}

func TestCourses(t *testing.T) {
	srv := newServer(t, memory.New())

	status, _ := do(t, srv, http.MethodPost, "/courses/", `{"title":"Algorithms","code":"CS201","units":3}`)
	require.Equal(t, http.StatusOK, status)
	status, _ = do(t, srv, http.MethodPost, "/courses/", `{"title":"Algorithms (repeat)","code":"CS201","units":0}`)
	require.Equal(t, http.StatusOK, status, "duplicate codes are allowed")

	status, body := do(t, srv, http.MethodGet, "/courses/", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[
		{"id":1,"title":"Algorithms","code":"CS201","units":3},
		{"id":2,"title":"Algorithms (repeat)","code":"CS201","units":0}
	]`, string(body))

	status, _ = do(t, srv, http.MethodGet, "/courses/9", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newServer(t, memory.New())

	status, _ := do(t, srv, http.MethodDelete, "/students/", "")
	assert.Equal(t, http.StatusMethodNotAllowed, status)
}

type downStore struct {
	*memory.Memory
}

func (downStore) Ping(context.Context) error { return errors.New("connection refused") }

func (downStore) GetCourses(context.Context) ([]types.Course, error) { return nil, errors.New("disk on fire") }

func TestHealth(t *testing.T) {
	srv := newServer(t, memory.New())
	status, body := do(t, srv, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	down := newServer(t, downStore{memory.New()})
	status, _ = do(t, down, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestStoreFailureIs500WithoutDetail(t *testing.T) {
	srv := newServer(t, downStore{memory.New()})

	status, body := do(t, srv, http.MethodGet, "/courses/", "")
	require.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Internal Server Error", errorMessage(t, body))
}

func TestRequestIDHeader(t *testing.T) {
	srv := newServer(t, memory.New())

	resp, err := srv.Client().Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
