package cache

import (
	"context"
	"fmt"

	"github.com/goliatone/go-itemstore/internal/cacheinfra"
)

// StatsKey is the logical key of the collection aggregate.
const StatsKey = "stats"

// KeySeparator defines the delimiter between the namespace and the key in shared backends.
const KeySeparator = cacheinfra.KeySeparator

// Cache holds derived values keyed by a logical name.
// Implementations never compute values themselves; callers populate entries on a miss.
type Cache[V any] interface {
	// Get returns the entry for key and whether it was present.
	Get(ctx context.Context, key string) (V, bool, error)
	// Set stores value under key, replacing any previous entry.
	Set(ctx context.Context, key string, value V) error
	// Invalidate removes the given keys. Called without keys it removes every entry.
	Invalidate(ctx context.Context, keys ...string) error
}

// New constructs the backend selected by cfg.Backend.
func New[V any](ctx context.Context, cfg Config) (Cache[V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case BackendMemory:
		return cacheinfra.NewMemoryCache[V](), nil
	case BackendSturdyc:
		c, err := cacheinfra.NewSturdycCache[V](cfg.toInternal())
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		c, err := cacheinfra.NewRedisCache[V](ctx, cfg.toInternal(), cfg.Redis.toInternal())
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
