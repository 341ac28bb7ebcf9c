// Package config assembles the service configuration from code defaults, an
// optional YAML file and ITEMSTORE_ prefixed environment variables, in that
// order of precedence. Command line flags are applied on top by cmd/itemstore.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-itemstore/cache"
	"github.com/goliatone/go-itemstore/internal/logctx"
	"github.com/goliatone/go-itemstore/internal/telemetry"
	"github.com/goliatone/go-itemstore/store"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "ITEMSTORE_"

// Config is the full service configuration.
type Config struct {
	HTTP      HTTPConfig       `yaml:"http" envPrefix:"HTTP_"`
	Log       LogConfig        `yaml:"log" envPrefix:"LOG_"`
	Store     store.Config     `yaml:"store" envPrefix:"STORE_"`
	Cache     cache.Config     `yaml:"cache" envPrefix:"CACHE_"`
	Telemetry telemetry.Config `yaml:"telemetry" envPrefix:"TELEMETRY_"`
}

// HTTPConfig configures the listener and routing.
type HTTPConfig struct {
	Addr              string        `yaml:"addr" env:"ADDR"`
	Prefix            string        `yaml:"prefix" env:"PREFIX"`
	AllowedOrigins    []string      `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" env:"READ_HEADER_TIMEOUT"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level string `yaml:"level" env:"LEVEL"`
	Human bool   `yaml:"human" env:"HUMAN"`
}

// ConfigError describes an invalid setting.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in field %s: %s", e.Field, e.Message)
}

// Default returns the built in configuration.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:              ":3001",
			Prefix:            "/api",
			AllowedOrigins:    []string{"http://localhost:3000"},
			ReadHeaderTimeout: 10 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Log:       LogConfig{Level: "info"},
		Store:     store.DefaultConfig(),
		Cache:     cache.DefaultConfig(),
		Telemetry: telemetry.DefaultConfig(),
	}
}

// Load reads defaults, then the YAML file at path when path is set, then
// the environment. The result is not validated.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks every section and joins the failures.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.HTTP.Addr) == "" {
		errs = append(errs, &ConfigError{Field: "HTTP.Addr", Message: "is required"})
	}
	if c.HTTP.Prefix != "" && (!strings.HasPrefix(c.HTTP.Prefix, "/") || strings.HasSuffix(c.HTTP.Prefix, "/")) {
		errs = append(errs, &ConfigError{Field: "HTTP.Prefix", Message: "must start with / and not end with /"})
	}
	if _, err := logctx.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, &ConfigError{Field: "Log.Level", Message: err.Error()})
	}
	if err := c.Store.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if err := c.Cache.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("cache: %w", err))
	}
	if err := c.Telemetry.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
