package service

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/goliatone/go-itemstore/item"
)

const tracerName = "github.com/goliatone/go-itemstore/service"

// CollectionStore is the whole-collection persistence the services depend on.
type CollectionStore interface {
	Load(ctx context.Context) ([]item.Item, error)
	Persist(ctx context.Context, items []item.Item) error
}

type options struct {
	serializeWrites bool
	ids             *IDGenerator
	tracer          trace.Tracer
}

// Option configures a service.
type Option func(*options)

// WithSerializedWrites makes Create hold a mutex across its load and
// persist, so concurrent creates in this process cannot lose each other.
func WithSerializedWrites() Option {
	return func(o *options) {
		o.serializeWrites = true
	}
}

// WithIDGenerator overrides the id source used by Create.
func WithIDGenerator(g *IDGenerator) Option {
	return func(o *options) {
		o.ids = g
	}
}

// WithTracer sets the tracer used for operation spans.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		o.tracer = t
	}
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.ids == nil {
		o.ids = NewIDGenerator()
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}
	return o
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
