package matrix

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/types"
)

// Observer records the outcome and latency of each core operation.
type Observer interface {
	Observe(ctx context.Context, op string, success bool, d time.Duration)
}

// Tracer starts a span around each core operation.
type Tracer interface {
	Start(ctx context.Context, op string) (context.Context, Span)
}

// Span is ended exactly once with the operation's terminal error.
type Span interface {
	End(err error)
}

// options holds the internal configuration for the Service.
type options struct {
	logger   *slog.Logger
	limits   types.Limits
	observer Observer
	tracer   Tracer
}

// Option defines a functional option for configuring the Service.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		limits:   types.DefaultLimits(),
		observer: noopObserver{},
		tracer:   noopTracer{},
	}
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithLimits overrides the weight and value ranges.
func WithLimits(limits types.Limits) Option {
	return func(o *options) {
		o.limits = limits
	}
}

// WithObserver installs a metrics recorder.
func WithObserver(observer Observer) Option {
	return func(o *options) {
		if observer != nil {
			o.observer = observer
		}
	}
}

// WithTracer installs a tracer.
func WithTracer(tracer Tracer) Option {
	return func(o *options) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

type noopObserver struct{}

func (noopObserver) Observe(context.Context, string, bool, time.Duration) {}

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string) (context.Context, Span) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End(error) {}
