package cacheinfra

import (
	"time"
)

// KeySeparator joins the namespace and the logical key of an entry.
const KeySeparator = "::"

// Config holds the settings shared by the cache backends.
type Config struct {
	// Namespace prefixes every key stored in a shared backend such as Redis.
	// Must not be empty for the redis backend.
	Namespace string

	// Capacity defines the maximum number of entries that the sturdyc cache can store.
	// Must be greater than 0.
	Capacity int

	// NumShards determines the number of cache shards for concurrent access.
	// Must be greater than 0. Default: 16
	NumShards int

	// TTL is the time-to-live for cached entries. The sturdyc backend
	// requires a positive value; for redis zero means no expiry.
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries to evict
	// when the cache reaches its capacity. Must be between 1-100.
	EvictionPercentage int

	// EvictionInterval sets how often sturdyc checks for expired entries.
	// Zero value uses the default interval.
	EvictionInterval time.Duration
}

// RedisConfig holds the connection settings for the redis backend.
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
}

// DefaultConfig returns a Config sized for a single aggregate entry that
// effectively never expires on its own.
func DefaultConfig() Config {
	return Config{
		Namespace:          "itemstore",
		Capacity:           1000,
		NumShards:          16,
		TTL:                24 * time.Hour,
		EvictionPercentage: 10,
		EvictionInterval:   0,
	}
}

// Validate checks the values used by the sturdyc backend.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}

	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}

	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}

	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}

	if c.EvictionInterval < 0 {
		return &ConfigError{Field: "EvictionInterval", Message: "must be non-negative"}
	}

	return nil
}

// Validate checks the redis connection settings.
func (c RedisConfig) Validate() error {
	if c.Addr == "" {
		return &ConfigError{Field: "Redis.Addr", Message: "is required"}
	}
	if c.DB < 0 {
		return &ConfigError{Field: "Redis.DB", Message: "must be non-negative"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

func namespacedKey(namespace, key string) string {
	if namespace == "" {
		return key
	}
	return namespace + KeySeparator + key
}
