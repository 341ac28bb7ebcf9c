package cache

import (
	"time"

	"github.com/goliatone/go-itemstore/internal/cacheinfra"
)

// Supported backends.
const (
	BackendMemory  = "memory"
	BackendSturdyc = "sturdyc"
	BackendRedis   = "redis"
)

// Config exposes cache configuration options for consumers of the cache package.
type Config struct {
	Backend            string        `yaml:"backend" env:"BACKEND"`
	Namespace          string        `yaml:"namespace" env:"NAMESPACE"`
	Capacity           int           `yaml:"capacity" env:"CAPACITY"`
	NumShards          int           `yaml:"num_shards" env:"NUM_SHARDS"`
	TTL                time.Duration `yaml:"ttl" env:"TTL"`
	EvictionPercentage int           `yaml:"eviction_percentage" env:"EVICTION_PERCENTAGE"`
	EvictionInterval   time.Duration `yaml:"eviction_interval" env:"EVICTION_INTERVAL"`
	Redis              RedisConfig   `yaml:"redis" envPrefix:"REDIS_"`
}

// RedisConfig holds the connection settings of the redis backend.
type RedisConfig struct {
	Addr        string        `yaml:"addr" env:"ADDR"`
	Password    string        `yaml:"password" env:"PASSWORD"`
	DB          int           `yaml:"db" env:"DB"`
	DialTimeout time.Duration `yaml:"dial_timeout" env:"DIAL_TIMEOUT"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	cfg := convertFromInternal(cacheinfra.DefaultConfig())
	cfg.Backend = BackendMemory
	cfg.Redis.DialTimeout = 5 * time.Second
	return cfg
}

// Validate checks whether the configuration values are valid for the selected backend.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
		return nil
	case BackendSturdyc:
		return c.toInternal().Validate()
	case BackendRedis:
		if c.Namespace == "" {
			return &cacheinfra.ConfigError{Field: "Namespace", Message: "is required for redis"}
		}
		return c.Redis.toInternal().Validate()
	default:
		return &cacheinfra.ConfigError{Field: "Backend", Message: "must be one of memory, sturdyc, redis"}
	}
}

func (c Config) toInternal() cacheinfra.Config {
	return cacheinfra.Config{
		Namespace:          c.Namespace,
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		TTL:                c.TTL,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
	}
}

func (r RedisConfig) toInternal() cacheinfra.RedisConfig {
	return cacheinfra.RedisConfig{
		Addr:        r.Addr,
		Password:    r.Password,
		DB:          r.DB,
		DialTimeout: r.DialTimeout,
	}
}

func convertFromInternal(cfg cacheinfra.Config) Config {
	return Config{
		Namespace:          cfg.Namespace,
		Capacity:           cfg.Capacity,
		NumShards:          cfg.NumShards,
		TTL:                cfg.TTL,
		EvictionPercentage: cfg.EvictionPercentage,
		EvictionInterval:   cfg.EvictionInterval,
	}
}
