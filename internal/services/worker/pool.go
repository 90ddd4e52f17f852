package worker

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	apperrors "github.com/phambaophuc/image-transform/internal/errors"
)

const tracerName = "github.com/phambaophuc/image-transform/internal/services/worker"

// Stages reported to Observer.TaskAbandoned.
const (
	StageQueued  = "queued"
	StageRunning = "running"
)

// Observer is notified around every task the pool runs.
type Observer interface {
	TaskQueued(op string, wait time.Duration)
	TaskStarted(op string)
	TaskFinished(op string, d time.Duration, err error)
	// TaskAbandoned fires when the caller stops waiting. stage is "queued"
	// or "running"; a running task still reports TaskFinished later.
	TaskAbandoned(op, stage string)
}

type nopObserver struct{}

func (nopObserver) TaskQueued(string, time.Duration) {}

func (nopObserver) TaskStarted(string) {}

func (nopObserver) TaskFinished(string, time.Duration, error) {}

func (nopObserver) TaskAbandoned(string, string) {}

type Option func(*Pool)

func WithObserver(o Observer) Option {
	return func(p *Pool) {
		if o != nil {
			p.observer = o
		}
	}
}

// Pool bounds the number of CPU-bound tasks running at once. Callers waiting
// for a slot queue without limit.
type Pool struct {
	sem      *semaphore.Weighted
	size     int
	inFlight atomic.Int64
	logger   *zap.Logger
	observer Observer
}

// NewPool creates a pool with size slots; size <= 0 means runtime.NumCPU().
func NewPool(size int, logger *zap.Logger, opts ...Option) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Pool{
		sem:      semaphore.NewWeighted(int64(size)),
		size:     size,
		logger:   logger,
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pool) Size() int { return p.size }

// InFlight returns the number of tasks currently executing.
func (p *Pool) InFlight() int64 { return p.inFlight.Load() }

type result[T any] struct {
	value T
	err   error
}

// Run executes fn on a pool slot and waits for its result.
//
// If ctx ends before a slot is free, fn is never started. If ctx ends while
// fn is running, Run returns ctx.Err() immediately; fn keeps running until it
// finishes and its result is dropped. A panic in fn is returned as a
// KindWorkerFailure error.
func Run[T any](ctx context.Context, p *Pool, op string, fn func() (T, error)) (T, error) {
	var zero T

	ctx, span := otel.Tracer(tracerName).Start(ctx, "worker."+op,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("worker.operation", op)),
	)
	defer span.End()

	queuedAt := time.Now()
	if err := p.sem.Acquire(ctx, 1); err != nil {
		p.observer.TaskAbandoned(op, StageQueued)
		span.SetStatus(codes.Error, "cancelled while queued")
		return zero, err
	}
	wait := time.Since(queuedAt)
	p.observer.TaskQueued(op, wait)
	span.SetAttributes(attribute.Int64("worker.queue_wait_ms", wait.Milliseconds()))

	done := make(chan result[T], 1)
	go func() {
		started := time.Now()
		p.inFlight.Add(1)
		p.observer.TaskStarted(op)

		var res result[T]
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("Worker task panicked",
					zap.String("op", op),
					zap.Stringer("trace_id", span.SpanContext().TraceID()),
					zap.Any("panic", r),
					zap.Stack("stack"),
				)
				res = result[T]{err: apperrors.New(apperrors.KindWorkerFailure, op, fmt.Errorf("panic: %v", r))}
			}
			p.inFlight.Add(-1)
			p.sem.Release(1)
			p.observer.TaskFinished(op, time.Since(started), res.err)
			done <- res
		}()

		res.value, res.err = fn()
	}()

	select {
	case res := <-done:
		if res.err != nil {
			span.RecordError(res.err)
			span.SetStatus(codes.Error, string(apperrors.KindOf(res.err)))
		}
		return res.value, res.err
	case <-ctx.Done():
		p.logger.Debug("Caller gone, worker result will be discarded", zap.String("op", op))
		p.observer.TaskAbandoned(op, StageRunning)
		span.SetStatus(codes.Error, "caller cancelled")
		return zero, ctx.Err()
	}
}
