// Package cache provides the keyed cache used to hold derived values such as
// the collection aggregate.
//
// # Overview
//
// The package exports a single generic interface, Cache, and a factory, New,
// that builds one of three backends:
//
//   - memory: a process-local concurrent map (default). Entries never expire.
//   - sturdyc: a bounded, sharded in-process cache with TTL based expiry.
//   - redis: a shared cache; values are JSON encoded and keys are namespaced
//     as "<namespace>::<key>".
//
// # Basic Usage
//
// Caches are constructed once by the composition root and handed to the
// services that need them:
//
//	stats, err := cache.New[item.Aggregate](ctx, cache.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	svc := service.NewStatsService(store, stats)
//
// # Invalidation
//
// Invalidate removes specific keys, or every entry owned by the cache when it
// is called without keys. For the redis backend "every entry" means every key
// inside the configured namespace; other namespaces are left alone.
//
// # Read-through
//
// Cache does not fetch on a miss. Callers check, compute and Set themselves,
// which keeps the hit path free of any I/O against the source of truth.
// Concurrent misses may each recompute the value; the last Set wins.
package cache
