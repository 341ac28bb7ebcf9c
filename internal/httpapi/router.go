// Package httpapi exposes the item services over HTTP with gin.
package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/goliatone/go-itemstore/item"
	"github.com/goliatone/go-itemstore/query"
)

// ItemService is the item side used by the handlers.
type ItemService interface {
	List(ctx context.Context, params query.Params) ([]item.Item, error)
	Get(ctx context.Context, id int64) (item.Item, error)
	Create(ctx context.Context, payload any) (item.Item, error)
}

// StatsService is the aggregate side used by the handlers.
type StatsService interface {
	Stats(ctx context.Context) (item.Aggregate, error)
}

// Options configures the router.
type Options struct {
	Prefix         string
	AllowedOrigins []string
	ServiceName    string
	Logger         zerolog.Logger
}

// NewRouter mounts the item routes under opts.Prefix and the health check at the root.
func NewRouter(items ItemService, stats StatsService, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if opts.ServiceName != "" {
		r.Use(otelgin.Middleware(opts.ServiceName))
	}
	r.Use(RequestID())
	r.Use(RequestLogger(opts.Logger))
	if len(opts.AllowedOrigins) > 0 {
		r.Use(corsMiddleware(opts.AllowedOrigins))
	}
	r.Use(ErrorHandler())

	r.GET("/healthcheck", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	h := &handlers{items: items, stats: stats}
	api := r.Group(opts.Prefix)
	api.GET("/items", h.listItems)
	api.GET("/items/:id", h.getItem)
	api.POST("/items", h.createItem)
	api.GET("/stats", h.getStats)

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Content-Type", RequestIDHeader},
		ExposeHeaders: []string{RequestIDHeader},
	})
}
