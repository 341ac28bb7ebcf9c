package cacheinfra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// redisClient is the subset of *goredis.Client the cache uses.
type redisClient interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *goredis.ScanCmd
}

const scanBatch = 100

// RedisCache stores JSON encoded entries under "<namespace>::<key>" so that
// several processes can share one aggregate.
type RedisCache[V any] struct {
	client    redisClient
	namespace string
	ttl       time.Duration
}

// NewRedisCache connects to Redis and verifies the connection with a ping.
func NewRedisCache[V any](ctx context.Context, cfg Config, rc RedisConfig) (*RedisCache[V], error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	if cfg.Namespace == "" {
		return nil, &ConfigError{Field: "Namespace", Message: "is required for redis"}
	}

	dialTimeout := rc.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        rc.Addr,
		Password:    rc.Password,
		DB:          rc.DB,
		DialTimeout: dialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return newRedisCache[V](rdb, cfg.Namespace, cfg.TTL), nil
}

func newRedisCache[V any](client redisClient, namespace string, ttl time.Duration) *RedisCache[V] {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisCache[V]{client: client, namespace: namespace, ttl: ttl}
}

func (r *RedisCache[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var value V

	data, err := r.client.Get(ctx, namespacedKey(r.namespace, key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return value, false, nil
	}
	if err != nil {
		return value, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(data, &value); err != nil {
		return value, false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return value, true, nil
}

func (r *RedisCache[V]) Set(ctx context.Context, key string, value V) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cached %s: %w", key, err)
	}
	if err := r.client.Set(ctx, namespacedKey(r.namespace, key), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Invalidate deletes the given keys, or every key in the namespace when no
// key is given.
func (r *RedisCache[V]) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return r.invalidateNamespace(ctx)
	}

	full := make([]string, len(keys))
	for i, key := range keys {
		full[i] = namespacedKey(r.namespace, key)
	}
	if err := r.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (r *RedisCache[V]) invalidateNamespace(ctx context.Context) error {
	match := namespacedKey(r.namespace, "*")

	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, match, scanBatch).Result()
		if err != nil {
			return fmt.Errorf("redis scan %s: %w", match, err)
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis del: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Close closes the connection pool when the client owns one.
func (r *RedisCache[V]) Close() error {
	if c, ok := r.client.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
