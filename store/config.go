package store

import (
	"time"

	"github.com/goliatone/go-itemstore/internal/storeinfra"
)

// Supported backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendS3     = "s3"
)

// Config selects and configures the collection backend.
type Config struct {
	Backend         string        `yaml:"backend" env:"BACKEND"`
	Path            string        `yaml:"path" env:"PATH"`
	LockTimeout     time.Duration `yaml:"lock_timeout" env:"LOCK_TIMEOUT"`
	SerializeWrites bool          `yaml:"serialize_writes" env:"SERIALIZE_WRITES"`
	SQLite          SQLiteConfig  `yaml:"sqlite" envPrefix:"SQLITE_"`
	S3              S3Config      `yaml:"s3" envPrefix:"S3_"`
}

// SQLiteConfig holds the sqlite backend settings.
type SQLiteConfig struct {
	DSN string `yaml:"dsn" env:"DSN"`
}

// S3Config locates the collection object of the s3 backend.
// Credentials come from the default AWS chain.
type S3Config struct {
	Bucket       string `yaml:"bucket" env:"BUCKET"`
	Key          string `yaml:"key" env:"KEY"`
	Region       string `yaml:"region" env:"REGION"`
	Endpoint     string `yaml:"endpoint" env:"ENDPOINT"`
	UsePathStyle bool   `yaml:"use_path_style" env:"USE_PATH_STYLE"`
}

// DefaultConfig returns a file backed configuration under ./data.
func DefaultConfig() Config {
	return Config{
		Backend:         BackendFile,
		Path:            "data/items.json",
		LockTimeout:     3 * time.Second,
		SerializeWrites: true,
		SQLite:          SQLiteConfig{DSN: "data/items.db"},
		S3:              S3Config{Key: "items.json"},
	}
}

// Validate checks the fields required by the selected backend.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendFile:
		if c.Path == "" {
			return &storeinfra.ConfigError{Field: "Path", Message: "is required for the file backend"}
		}
		if c.LockTimeout < 0 {
			return &storeinfra.ConfigError{Field: "LockTimeout", Message: "must be non-negative"}
		}
	case BackendSQLite:
		if c.SQLite.DSN == "" {
			return &storeinfra.ConfigError{Field: "SQLite.DSN", Message: "is required for the sqlite backend"}
		}
	case BackendS3:
		if c.S3.Bucket == "" {
			return &storeinfra.ConfigError{Field: "S3.Bucket", Message: "is required for the s3 backend"}
		}
		if c.S3.Key == "" {
			return &storeinfra.ConfigError{Field: "S3.Key", Message: "is required for the s3 backend"}
		}
	default:
		return &storeinfra.ConfigError{Field: "Backend", Message: "must be one of file, sqlite, s3"}
	}
	return nil
}

func (s S3Config) toInternal() storeinfra.S3Options {
	return storeinfra.S3Options{
		Bucket:       s.Bucket,
		Key:          s.Key,
		Region:       s.Region,
		Endpoint:     s.Endpoint,
		UsePathStyle: s.UsePathStyle,
	}
}
