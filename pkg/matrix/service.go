// Package matrix is the evaluation matrix store: it owns locations, weighted
// criteria and the sparse integer evaluations between them, enforces their
// invariants, and materializes the flat and normalized read shapes.
//
// Every operation runs in exactly one store transaction. Writes validate all
// input before touching storage, so a rejected request leaves the store
// unchanged.
package matrix

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/types"
)

// Service bundles the repositories, the evaluation matrix and the view
// materializer over one store.
type Service struct {
	store    types.Store
	limits   types.Limits
	logger   *slog.Logger
	observer Observer
	tracer   Tracer

	Locations   *LocationRepository
	Criteria    *CriterionRepository
	Evaluations *EvaluationMatrix
	Views       *ViewMaterializer
}

// New returns a Service over store. The store stays owned by the caller.
func New(store types.Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if err := o.limits.Validate(); err != nil {
		return nil, fmt.Errorf("validate limits: %w", err)
	}

	s := &Service{
		store:    store,
		limits:   o.limits,
		logger:   o.logger,
		observer: o.observer,
		tracer:   o.tracer,
	}
	s.Locations = &LocationRepository{svc: s}
	s.Criteria = &CriterionRepository{svc: s}
	s.Evaluations = &EvaluationMatrix{svc: s}
	s.Views = &ViewMaterializer{svc: s}
	return s, nil
}

// Limits returns the ranges the service validates against.
func (s *Service) Limits() types.Limits { return s.limits }

// Health status values.
const (
	StatusHealthy        = "healthy"
	StatusUnhealthy      = "unhealthy"
	DatabaseConnected    = "connected"
	DatabaseDisconnected = "disconnected"
)

// HealthStatus is the liveness report for the store.
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

// Healthy reports whether the store answered.
func (h HealthStatus) Healthy() bool { return h.Status == StatusHealthy }

// Ping performs a cheap round-trip to the store.
func (s *Service) Ping(ctx context.Context) error {
	return s.run(ctx, "ping", func(ctx context.Context) error {
		err := s.store.Ping(ctx)
		if err == nil || errors.Is(err, types.ErrStoreUnavailable) || ctx.Err() != nil {
			return err
		}
		return &types.StoreError{Op: "ping", Unavailable: true, Err: err}
	})
}

// Health never fails; an unreachable store is reported in the status.
func (s *Service) Health(ctx context.Context) HealthStatus {
	if err := s.Ping(ctx); err != nil {
		return HealthStatus{Status: StatusUnhealthy, Database: DatabaseDisconnected, Error: err.Error()}
	}
	return HealthStatus{Status: StatusHealthy, Database: DatabaseConnected}
}

// run wraps one operation with tracing, metrics, error classification and
// logging.
func (s *Service) run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, op)
	start := time.Now()

	err := classify(op, fn(ctx))

	s.observer.Observe(ctx, op, err == nil, time.Since(start))
	span.End(err)

	switch {
	case err == nil:
	case types.IsCallerError(err):
		s.logger.DebugContext(ctx, "operation rejected", "op", op, "err", err)
	default:
		s.logger.ErrorContext(ctx, "operation failed", "op", op, "err", err, "cause", errors.Unwrap(err))
	}
	return err
}

// classify guarantees that every error leaving the core belongs to the
// taxonomy. Context cancellation is passed through unchanged.
func classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case types.IsCallerError(err),
		errors.Is(err, types.ErrStoreFailure),
		errors.Is(err, types.ErrStoreUnavailable),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return &types.StoreError{Op: op, Err: err}
	}
}
