package cacheinfra

import (
	"context"

	"github.com/viccon/sturdyc"
)

// SturdycCache wraps a sturdyc client. Entries are bounded by Capacity and
// expire after TTL, after which the next read recomputes them.
type SturdycCache[V any] struct {
	client *sturdyc.Client[V]
}

// options maps Config values that sturdyc.New does not take positionally.
func (c Config) options() []sturdyc.Option {
	var options []sturdyc.Option
	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}
	return options
}

// NewSturdycCache validates cfg and initializes a sturdyc client with it.
func NewSturdycCache[V any](cfg Config) (*SturdycCache[V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[V](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.options()...,
	)

	return &SturdycCache[V]{client: client}, nil
}

func (s *SturdycCache[V]) Get(ctx context.Context, key string) (V, bool, error) {
	value, ok := s.client.Get(key)
	return value, ok, nil
}

func (s *SturdycCache[V]) Set(ctx context.Context, key string, value V) error {
	s.client.Set(key, value)
	return nil
}

// Invalidate removes the given keys, or every key the client holds when no
// key is given.
func (s *SturdycCache[V]) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		keys = s.client.ScanKeys()
	}
	for _, key := range keys {
		s.client.Delete(key)
	}
	return nil
}
