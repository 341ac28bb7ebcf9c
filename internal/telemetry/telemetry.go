// Package telemetry installs the OpenTelemetry tracer provider.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Exporters.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// Config selects the span exporter and sampling.
type Config struct {
	Exporter    string            `yaml:"exporter" env:"EXPORTER"`
	ServiceName string            `yaml:"service_name" env:"SERVICE_NAME"`
	Endpoint    string            `yaml:"endpoint" env:"ENDPOINT"`
	Insecure    bool              `yaml:"insecure" env:"INSECURE"`
	Headers     map[string]string `yaml:"headers" env:"HEADERS"`
	SampleRatio float64           `yaml:"sample_ratio" env:"SAMPLE_RATIO"`
}

// DefaultConfig disables tracing.
func DefaultConfig() Config {
	return Config{
		Exporter:    ExporterNone,
		ServiceName: "itemstore",
		SampleRatio: 1,
	}
}

// Enabled reports whether spans are exported.
func (c Config) Enabled() bool {
	return c.Exporter != "" && c.Exporter != ExporterNone
}

// Validate checks the exporter name and its settings.
func (c Config) Validate() error {
	switch c.Exporter {
	case "", ExporterNone, ExporterStdout:
	case ExporterOTLP:
		if strings.TrimSpace(c.Endpoint) == "" {
			return fmt.Errorf("telemetry: endpoint is required for the otlp exporter")
		}
	default:
		return fmt.Errorf("telemetry: unknown exporter %q", c.Exporter)
	}
	if c.SampleRatio < 0 || c.SampleRatio > 1 {
		return fmt.Errorf("telemetry: sample ratio must be within [0, 1], got %v", c.SampleRatio)
	}
	return nil
}

// ShutdownFunc flushes pending spans and stops the provider.
type ShutdownFunc func(context.Context) error

// Setup installs a global tracer provider for cfg. With tracing disabled it
// leaves the global no-op provider in place. Stdout spans are written to w,
// or to os.Stdout when w is nil.
func Setup(ctx context.Context, cfg Config, w io.Writer) (ShutdownFunc, error) {
	if !cfg.Enabled() {
		return func(context.Context) error { return nil }, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	exporter, err := newExporter(ctx, cfg, w)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		attribute.String("service.name", cfg.ServiceName),
	))
	if err != nil {
		return nil, fmt.Errorf("telemetry: build resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}

func newExporter(ctx context.Context, cfg Config, w io.Writer) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case ExporterStdout:
		if w == nil {
			w = os.Stdout
		}
		return stdouttrace.New(stdouttrace.WithWriter(w))
	case ExporterOTLP:
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		if len(cfg.Headers) > 0 {
			opts = append(opts, otlptracehttp.WithHeaders(cfg.Headers))
		}
		return otlptracehttp.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("telemetry: unknown exporter %q", cfg.Exporter)
	}
}
