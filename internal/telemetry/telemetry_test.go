package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/ficrammanifur/tofico-analyzer-backend/internal/memory"
	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/matrix"
	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/types"
)

func TestMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	m.Observe(context.Background(), "location.create", true, 3*time.Millisecond)
	m.Observe(context.Background(), "location.create", true, 5*time.Millisecond)
	m.Observe(context.Background(), "location.create", false, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("location.create", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("location.create", OutcomeError)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestNewMetricsReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewMetrics(reg)
	require.NoError(t, err)
	second, err := NewMetrics(reg)
	require.NoError(t, err)

	first.Observe(context.Background(), "ping", true, time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(second.operations.WithLabelValues("ping", OutcomeSuccess)))
}

func TestTracerSpans(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	store := memory.New()
	svc, err := matrix.New(store, matrix.WithTracer(NewTracer(tp)))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Locations.Create(ctx, types.NewLocation{Name: "A"})
	require.NoError(t, err)
	_, err = svc.Locations.Get(ctx, 42)
	require.ErrorIs(t, err, types.ErrNotFound)
	require.NoError(t, store.Close())
	_, err = svc.Locations.List(ctx)
	require.Error(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 3)
	assert.Equal(t, "matrix.location.create", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Equal(t, codes.Unset, spans[1].Status().Code)
	assert.Equal(t, codes.Error, spans[2].Status().Code)
}

func TestSetupTracingWithoutEndpoint(t *testing.T) {
	shutdown, err := SetupTracing(context.Background(), "tofico", "")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSpanEndWithPlainError(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	_, s := NewTracer(tp).Start(context.Background(), "ping")
	s.End(errors.New("boom"))

	require.Len(t, rec.Ended(), 1)
	assert.Equal(t, codes.Error, rec.Ended()[0].Status().Code)
}
