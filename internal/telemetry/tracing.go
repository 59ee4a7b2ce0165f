package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/matrix"
	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/types"
)

const instrumentationName = "github.com/ficrammanifur/tofico-analyzer-backend/pkg/matrix"

var _ matrix.Tracer = (*Tracer)(nil)

// Tracer starts one span per core operation.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer returns a Tracer over tp, or over the global provider when tp is
// nil.
func NewTracer(tp trace.TracerProvider) *Tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Tracer{tracer: tp.Tracer(instrumentationName)}
}

// Start implements matrix.Tracer.
func (t *Tracer) Start(ctx context.Context, op string) (context.Context, matrix.Span) {
	ctx, s := t.tracer.Start(ctx, "matrix."+op, trace.WithAttributes(attribute.String("tofico.operation", op)))
	return ctx, span{s}
}

type span struct {
	s trace.Span
}

// End marks store failures as span errors. Rejected requests are recorded as
// an attribute only.
func (s span) End(err error) {
	switch {
	case err == nil:
		s.s.SetStatus(codes.Ok, "")
	case types.IsCallerError(err):
		s.s.SetAttributes(attribute.String("tofico.rejected", err.Error()))
	default:
		s.s.RecordError(err)
		s.s.SetStatus(codes.Error, err.Error())
	}
	s.s.End()
}

// SetupTracing installs an OTLP/HTTP exporter as the global tracer provider
// when endpoint is set. Without an endpoint it does nothing. The returned
// shutdown flushes pending spans and should be deferred by the caller.
func SetupTracing(ctx context.Context, serviceName, endpoint string) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }
	if endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return noop, err
	}
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}
