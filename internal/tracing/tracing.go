// Package tracing exports kernel scheduling events as OpenTelemetry spans:
// one span per dispatch, from the moment a task gets the CPU until the kernel
// has it back.
package tracing

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"rugos/kernel"
)

const instrumentation = "rugos/kernel"

// Init builds a tracer provider that writes spans with the stdout exporter.
// An empty outputFile selects os.Stdout. Every boot gets its own
// service.instance.id. The returned shutdown flushes the provider and closes
// the output file.
func Init(serviceName, serviceVersion, outputFile string) (*sdktrace.TracerProvider, func(context.Context) error, error) {
	var (
		w io.Writer = os.Stdout
		f *os.File
	)
	if outputFile != "" {
		var err error
		if f, err = os.Create(outputFile); err != nil {
			return nil, nil, err
		}
		w = f
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err == nil {
		var tp *sdktrace.TracerProvider
		if tp, err = NewProvider(serviceName, serviceVersion, exporter); err == nil {
			return tp, shutdownFunc(tp, f), nil
		}
	}
	if f != nil {
		f.Close()
	}
	return nil, nil, err
}

func shutdownFunc(tp *sdktrace.TracerProvider, f *os.File) func(context.Context) error {
	return func(ctx context.Context) error {
		err := tp.Shutdown(ctx)
		if f != nil {
			err = errors.Join(err, f.Close())
		}
		return err
	}
}

// NewProvider builds a tracer provider around any span exporter.
func NewProvider(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) (*sdktrace.TracerProvider, error) {
	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
			attribute.String("service.instance.id", uuid.New().String()),
		),
	)
	if err != nil {
		return nil, err
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
		sdktrace.WithResource(res),
	), nil
}

// Observer is a kernel.Observer that turns each dispatch into a span.
//
// The kernel runs one task at a time, so at most one span is open.
type Observer struct {
	tracer trace.Tracer
	span   trace.Span
}

var _ kernel.Observer = (*Observer)(nil)

// NewObserver returns an Observer that records spans with tp.
func NewObserver(tp trace.TracerProvider) *Observer {
	return &Observer{tracer: tp.Tracer(instrumentation)}
}

func (o *Observer) Dispatched(task kernel.TaskInfo, now kernel.Millis) {
	if o.span != nil {
		o.span.End()
	}
	_, o.span = o.tracer.Start(context.Background(), "dispatch "+task.Class.String(),
		trace.WithAttributes(
			attribute.Int("task.id", int(task.ID)),
			attribute.String("task.class", task.Class.String()),
			attribute.Int("task.name", int(task.Name)),
			attribute.String("task.state", task.State.String()),
			attribute.Int64("kernel.now_ms", int64(now)),
		),
	)
}

func (o *Observer) Returned(task kernel.TaskInfo, why kernel.SwitchReason, now kernel.Millis) {
	if o.span == nil {
		return
	}
	o.span.SetAttributes(
		attribute.String("switch.reason", why.String()),
		attribute.Int64("kernel.returned_ms", int64(now)),
	)
	if why == kernel.SwitchFault {
		o.span.SetStatus(codes.Error, "task faulted")
	} else {
		o.span.SetStatus(codes.Ok, "")
	}
	o.span.End()
	o.span = nil
}
