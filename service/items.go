package service

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/goliatone/go-itemstore/cache"
	"github.com/goliatone/go-itemstore/internal/logctx"
	"github.com/goliatone/go-itemstore/item"
	"github.com/goliatone/go-itemstore/query"
)

// ItemService serves list, get and create over the collection.
type ItemService struct {
	store   CollectionStore
	cache   cache.Cache[item.Aggregate]
	ids     *IDGenerator
	tracer  trace.Tracer
	writeMu *sync.Mutex
}

// NewItemService wires the service to its store and the aggregate cache.
func NewItemService(store CollectionStore, c cache.Cache[item.Aggregate], opts ...Option) *ItemService {
	o := buildOptions(opts)
	s := &ItemService{
		store:  store,
		cache:  c,
		ids:    o.ids,
		tracer: o.tracer,
	}
	if o.serializeWrites {
		s.writeMu = &sync.Mutex{}
	}
	return s
}

// List loads the collection and applies search and pagination.
func (s *ItemService) List(ctx context.Context, params query.Params) ([]item.Item, error) {
	ctx, span := s.tracer.Start(ctx, "items.list", trace.WithAttributes(
		attribute.String("query.term", params.Term),
		attribute.Int("query.page", params.Page),
		attribute.Int("query.limit", params.Limit),
	))
	defer span.End()

	items, err := s.store.Load(ctx)
	if err != nil {
		return nil, s.storeFailure(ctx, span, "load", err)
	}

	result := query.Search(items, params)
	span.SetAttributes(attribute.Int("items.count", len(result)))
	return result, nil
}

// Get returns the first item with the given id.
func (s *ItemService) Get(ctx context.Context, id int64) (item.Item, error) {
	ctx, span := s.tracer.Start(ctx, "items.get", trace.WithAttributes(attribute.Int64("item.id", id)))
	defer span.End()

	items, err := s.store.Load(ctx)
	if err != nil {
		return item.Item{}, s.storeFailure(ctx, span, "load", err)
	}

	for _, it := range items {
		if it.ID == id {
			return it, nil
		}
	}
	return item.Item{}, item.NewNotFoundError(id)
}

// Create validates payload, assigns a fresh id, appends the item and
// persists the collection. The aggregate is invalidated only once the
// persist succeeded.
func (s *ItemService) Create(ctx context.Context, payload any) (item.Item, error) {
	ctx, span := s.tracer.Start(ctx, "items.create")
	defer span.End()

	fields, _ := payload.(map[string]any)
	created, err := item.FromPayload(fields)
	if err != nil {
		span.SetAttributes(attribute.String("validation.error", err.Error()))
		return item.Item{}, err
	}

	if s.writeMu != nil {
		s.writeMu.Lock()
		defer s.writeMu.Unlock()
	}

	items, err := s.store.Load(ctx)
	if err != nil {
		return item.Item{}, s.storeFailure(ctx, span, "load", err)
	}

	created.ID = s.ids.Next(items)
	items = append(items, created)
	ctx = logctx.WithInt64(ctx, "item_id", created.ID)

	if err := s.store.Persist(ctx, items); err != nil {
		return item.Item{}, s.storeFailure(ctx, span, "persist", err)
	}

	logger := logctx.FromContext(ctx)
	if err := s.cache.Invalidate(ctx, cache.StatsKey); err != nil {
		// the item is stored; a stale aggregate is reported, not returned
		logger.Error().Err(err).Str("key", cache.StatsKey).Msg("aggregate invalidation failed")
		recordError(span, err)
	}

	span.SetAttributes(attribute.Int64("item.id", created.ID))
	logger.Info().Str("name", created.Name).Msg("item created")
	return created, nil
}

func (s *ItemService) storeFailure(ctx context.Context, span trace.Span, op string, err error) error {
	logger := logctx.FromContext(ctx)
	logger.Error().Err(err).Str("op", op).Msg("collection store failure")
	recordError(span, err)
	return item.NewIOError(err)
}
