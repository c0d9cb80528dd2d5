// Package telemetry installs the OpenTelemetry tracer provider used by the
// scoreplot command.
//
// Library code only ever calls otel.Tracer, which is a no-op until a
// provider is installed. The command installs one when tracing is requested,
// so that compile and sample spans can be inspected.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Exporter names accepted by Setup.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
)

// ErrUnknownExporter is returned for an exporter name Setup does not know.
var ErrUnknownExporter = errors.New("unknown trace exporter")

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(context.Context) error

// Config selects the exporter.
type Config struct {
	// Exporter is "none" (default) or "stdout".
	Exporter string
	// Writer receives stdout exporter output. Defaults to os.Stdout inside
	// the exporter when nil.
	Writer io.Writer
	// ServiceName is recorded as the service.name resource attribute.
	ServiceName string
	// Version is recorded as the service.version resource attribute.
	Version string
}

// Setup installs a global tracer provider according to cfg and returns a
// function that shuts it down. With the "none" exporter nothing is installed
// and the returned function does nothing.
func Setup(cfg Config) (ShutdownFunc, error) {
	switch cfg.Exporter {
	case "", ExporterNone:
		return func(context.Context) error { return nil }, nil
	case ExporterStdout:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownExporter, cfg.Exporter)
	}

	opts := []stdouttrace.Option{stdouttrace.WithPrettyPrint()}
	if cfg.Writer != nil {
		opts = append(opts, stdouttrace.WithWriter(cfg.Writer))
	}
	exporter, err := stdouttrace.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create exporter: %w", err)
	}

	name := cfg.ServiceName
	if name == "" {
		name = "scoreplot"
	}
	res := resource.NewSchemaless(
		attribute.String("service.name", name),
		attribute.String("service.version", cfg.Version),
	)

	// A one-shot command exits right after its work, so spans are exported
	// synchronously instead of batched.
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}
