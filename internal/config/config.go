// Package config handles loading and parsing application configuration.
// It supports two sources for the config file path (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// Every value in the file can be overridden by its environment variable.
// A .env file in the working directory, if present, is loaded into the
// process environment before anything is read.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"

	// Side-effect import: loads .env into the process environment on init.
	_ "github.com/joho/godotenv/autoload"
)

// Storage drivers understood by the application.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-required:"true" validate:"oneof=dev staging prod"`

	Storage    Storage    `yaml:"storage"`
	HTTPServer HTTPServer `yaml:"http_server"`
	CORS       CORS       `yaml:"cors"`
}

// Storage selects and configures the Data Store backend.
type Storage struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"sqlite" validate:"oneof=sqlite postgres memory"`

	// Path is the filesystem path to the SQLite .db file.
	Path string `yaml:"path" env:"STORAGE_PATH" validate:"required_if=Driver sqlite"`

	// DatabaseURL is a postgres:// connection string.
	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL" validate:"required_if=Driver postgres"`

	MaxConns int32 `yaml:"max_conns" env:"DB_MAX_CONNS" env-default:"10" validate:"gte=1"`
}

// HTTPServer holds settings specific to the HTTP server.
// Nested under http_server: in the YAML file.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:8082".
	Addr            string        `yaml:"address" env:"HTTP_SERVER_ADDR" env-required:"true"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// CORS lists the origins allowed to call the API from a browser.
type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*" env-separator:","`
}

// Load reads the YAML file at path, applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	// Verify the file exists before trying to read it, so the message is
	// clearer than the one cleanenv would produce.
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// MustLoad resolves the config path, loads the config and exits the
// process if anything is wrong. If it returns, the config is valid.
func MustLoad() *Config {
	// Source 1: environment variable (Docker / Kubernetes).
	configPath := os.Getenv("CONFIG_PATH")

	// Source 2: command-line flag (local runs).
	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	return cfg
}
