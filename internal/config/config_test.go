package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_SQLiteWithDefaults(t *testing.T) {
	path := writeConfig(t, `
env: dev
storage:
  driver: sqlite
  path: storage/test.db
http_server:
  address: localhost:9000
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "storage/test.db", cfg.Storage.Path)
	assert.Equal(t, int32(10), cfg.Storage.MaxConns)
	assert.Equal(t, "localhost:9000", cfg.HTTPServer.Addr)
	assert.Equal(t, 10*time.Second, cfg.HTTPServer.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.HTTPServer.IdleTimeout)
	assert.Equal(t, 5*time.Second, cfg.HTTPServer.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
env: dev
storage:
  driver: sqlite
  path: storage/test.db
http_server:
  address: localhost:9000
`)
	t.Setenv("HTTP_SERVER_ADDR", "0.0.0.0:8080")
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPServer.Addr)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
}

func TestLoad_PostgresRequiresURL(t *testing.T) {
	path := writeConfig(t, `
env: prod
storage:
  driver: postgres
http_server:
  address: localhost:9000
`)
	t.Setenv("DATABASE_URL", "")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DatabaseURL")
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	path := writeConfig(t, `
env: dev
storage:
  driver: mongo
http_server:
  address: localhost:9000
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Driver")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")

	_, err = Load("")
	require.Error(t, err)
}
