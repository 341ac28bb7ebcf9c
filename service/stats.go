package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/goliatone/go-itemstore/cache"
	"github.com/goliatone/go-itemstore/internal/logctx"
	"github.com/goliatone/go-itemstore/item"
)

// StatsService serves the collection aggregate through the cache.
type StatsService struct {
	store  CollectionStore
	cache  cache.Cache[item.Aggregate]
	tracer trace.Tracer
}

// NewStatsService wires the service to its store and the aggregate cache.
func NewStatsService(store CollectionStore, c cache.Cache[item.Aggregate], opts ...Option) *StatsService {
	o := buildOptions(opts)
	return &StatsService{store: store, cache: c, tracer: o.tracer}
}

// Stats returns the cached aggregate, or computes and caches it. A cache
// backend failure degrades to a recompute.
func (s *StatsService) Stats(ctx context.Context) (item.Aggregate, error) {
	ctx, span := s.tracer.Start(ctx, "stats.get")
	defer span.End()

	logger := logctx.FromContext(ctx)

	agg, ok, err := s.cache.Get(ctx, cache.StatsKey)
	switch {
	case err != nil:
		logger.Warn().Err(err).Msg("aggregate cache read failed")
	case ok:
		span.SetAttributes(attribute.Bool("cache.hit", true))
		logger.Debug().Str("key", cache.StatsKey).Msg("aggregate cache hit")
		return agg, nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))
	logger.Debug().Str("key", cache.StatsKey).Msg("aggregate cache miss")

	items, err := s.store.Load(ctx)
	if err != nil {
		logger.Error().Err(err).Str("op", "load").Msg("collection store failure")
		recordError(span, err)
		return item.Aggregate{}, item.NewIOError(err)
	}

	agg = item.ComputeAggregate(items)
	if err := s.cache.Set(ctx, cache.StatsKey, agg); err != nil {
		logger.Warn().Err(err).Msg("aggregate cache write failed")
	}

	span.SetAttributes(attribute.Int("stats.total", agg.Total))
	return agg, nil
}
