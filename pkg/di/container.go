package di

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/goliatone/go-itemstore/cache"
	"github.com/goliatone/go-itemstore/internal/config"
	"github.com/goliatone/go-itemstore/internal/httpapi"
	"github.com/goliatone/go-itemstore/internal/logctx"
	"github.com/goliatone/go-itemstore/item"
	"github.com/goliatone/go-itemstore/service"
	"github.com/goliatone/go-itemstore/store"
)

const tracerName = "github.com/goliatone/go-itemstore"

// Container owns the singletons of one itemstore process: the collection
// store, the aggregate cache and the two services sharing them.
type Container struct {
	config config.Config
	logger zerolog.Logger
	traces trace.TracerProvider
	store  store.Store
	cache  cache.Cache[item.Aggregate]
	items  *service.ItemService
	stats  *service.StatsService
}

// Option overrides a component the container would otherwise build from config.
type Option func(*Container)

// WithStore injects a collection store. The container takes ownership and closes it.
func WithStore(s store.Store) Option {
	return func(c *Container) {
		c.store = s
	}
}

// WithCache injects the aggregate cache.
func WithCache(ac cache.Cache[item.Aggregate]) Option {
	return func(c *Container) {
		c.cache = ac
	}
}

// WithLogger sets the base logger handed to the HTTP layer.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Container) {
		c.logger = l
	}
}

// WithTracerProvider sets the provider the services draw their tracer from.
// Without it they use the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Container) {
		c.traces = tp
	}
}

// NewContainer validates cfg and builds every component it does not receive
// through opts.
func NewContainer(ctx context.Context, cfg config.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{config: cfg, logger: logctx.DefaultLogger()}
	for _, opt := range opts {
		opt(c)
	}

	if c.store == nil {
		s, err := store.New(ctx, cfg.Store)
		if err != nil {
			return nil, err
		}
		c.store = s
	}

	if c.cache == nil {
		ac, err := cache.New[item.Aggregate](ctx, cfg.Cache)
		if err != nil {
			_ = c.store.Close()
			return nil, err
		}
		c.cache = ac
	}

	var svcOpts []service.Option
	if cfg.Store.SerializeWrites {
		svcOpts = append(svcOpts, service.WithSerializedWrites())
	}
	if c.traces != nil {
		svcOpts = append(svcOpts, service.WithTracer(c.traces.Tracer(tracerName)))
	}
	c.items = service.NewItemService(c.store, c.cache, svcOpts...)
	c.stats = service.NewStatsService(c.store, c.cache, svcOpts...)

	return c, nil
}

// NewContainerWithDefaults builds a container from config.Default.
func NewContainerWithDefaults(ctx context.Context, opts ...Option) (*Container, error) {
	return NewContainer(ctx, config.Default(), opts...)
}

// Config returns the configuration the container was built with.
func (c *Container) Config() config.Config {
	return c.config
}

// Store returns the shared collection store.
func (c *Container) Store() store.Store {
	return c.store
}

// Cache returns the shared aggregate cache.
func (c *Container) Cache() cache.Cache[item.Aggregate] {
	return c.cache
}

// ItemService returns the singleton item service.
func (c *Container) ItemService() *service.ItemService {
	return c.items
}

// StatsService returns the singleton aggregate service.
func (c *Container) StatsService() *service.StatsService {
	return c.stats
}

// Router builds the HTTP handler over the container services.
func (c *Container) Router() *gin.Engine {
	opts := httpapi.Options{
		Prefix:         c.config.HTTP.Prefix,
		AllowedOrigins: c.config.HTTP.AllowedOrigins,
		Logger:         c.logger,
	}
	if c.config.Telemetry.Enabled() {
		opts.ServiceName = c.config.Telemetry.ServiceName
	}
	return httpapi.NewRouter(c.items, c.stats, opts)
}

// Close releases the store and, when it holds a connection, the cache.
func (c *Container) Close() error {
	var errs []error
	if closer, ok := c.cache.(interface{ Close() error }); ok {
		errs = append(errs, closer.Close())
	}
	errs = append(errs, c.store.Close())
	return errors.Join(errs...)
}
