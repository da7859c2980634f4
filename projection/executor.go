package projection

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"
)

const defaultExecutorName = "default"

// Executor runs sequences of operations strictly one after another.
//
// An Executor holds only configuration, it is safe to start any number of independent
// sequences concurrently from one Executor. The zero value is usable and has observability disabled.
type Executor struct {
	name             string
	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
	tracingCollector TracingCollector
}

// NewExecutor creates an Executor with optional configuration.
func NewExecutor(options ...ExecutorOption) (Executor, error) {
	e := Executor{name: defaultExecutorName}

	for _, option := range options {
		if err := option(&e); err != nil {
			return Executor{}, err
		}
	}

	return e, nil
}

// RunSequential runs the operations yielded by operations one at a time and returns immediately.
//
// Operation i+1 is pulled and started only after operation i returned. The sequence stops at the first
// operation error, which becomes the terminal error unchanged. An element with a non-nil error counts as
// a failure of the producer and is treated the same way. ctx is checked before every pull; once it ended,
// nothing else is pulled or started and the Completion turns OutcomeCanceled.
//
// The sequence is consumed with iter.Pull2 from a single goroutine in a flat loop, so the length of the
// sequence never translates into stack depth. The pull iterator is stopped exactly once, on every exit path.
func (e Executor) RunSequential(ctx context.Context, operations iter.Seq2[Operation, error]) *Completion {
	completion := newCompletion()

	if operations == nil {
		completion.finish(OutcomeFailed, ErrNilOperationSequence)
		return completion
	}

	go e.drive(ctx, operations, completion)

	return completion
}

// RunSequential runs operations with a zero-configured Executor, see Executor.RunSequential.
func RunSequential(ctx context.Context, operations iter.Seq2[Operation, error]) *Completion {
	return Executor{name: defaultExecutorName}.RunSequential(ctx, operations)
}

// ExecuteSequential runs operations with a zero-configured Executor and blocks until the sequence finished.
func ExecuteSequential(ctx context.Context, operations iter.Seq2[Operation, error]) error {
	return RunSequential(ctx, operations).Wait(context.WithoutCancel(ctx))
}

// drive wraps the run loop with observability and publishes the terminal state.
func (e Executor) drive(ctx context.Context, operations iter.Seq2[Operation, error], completion *Completion) {
	tracing, ctx := e.startSequenceTracing(ctx)
	metrics := e.startSequenceMetrics(ctx)
	start := time.Now()

	outcome, err := e.loop(ctx, operations, completion)

	duration := time.Since(start)
	started := completion.Started()

	tracing.finish(outcome, started, duration)
	metrics.record(outcome, started, duration)
	e.logSequenceFinished(ctx, outcome, started, duration)

	completion.finish(outcome, err)
}

// loop is the trampoline: each iteration continues exactly where the previous operation finished.
func (e Executor) loop(
	ctx context.Context,
	operations iter.Seq2[Operation, error],
	completion *Completion,
) (outcome Outcome, err error) {

	next, stop := iter.Pull2(operations)
	defer func() {
		if releaseErr := release(stop); releaseErr != nil && outcome == OutcomeCompleted {
			outcome, err = OutcomeFailed, releaseErr
		}
	}()

	for {
		if ctx.Err() != nil {
			return OutcomeCanceled, canceledError(ctx)
		}

		operation, ok, producerErr := pull(next)
		if !ok {
			return OutcomeCompleted, nil
		}

		if producerErr != nil {
			return OutcomeFailed, producerErr
		}

		if operation == nil {
			return OutcomeFailed, ErrNilOperation
		}

		index := completion.started.Add(1)
		operationStart := time.Now()
		operationErr := invoke(ctx, operation)
		e.logOperationExecuted(ctx, index, time.Since(operationStart))

		if operationErr != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(operationErr, ctxErr) {
				return OutcomeCanceled, canceledError(ctx)
			}

			return OutcomeFailed, operationErr
		}
	}
}

// pull advances the producer and converts a panic while producing into a producer failure.
func pull(next func() (Operation, error, bool)) (operation Operation, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			operation, ok, err = nil, true, errors.Join(ErrProducerPanicked, fmt.Errorf("%v", r))
		}
	}()

	operation, err, ok = next()

	return operation, ok, err
}

// invoke runs one operation and converts a panic into an operation failure.
func invoke(ctx context.Context, operation Operation) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Join(ErrOperationPanicked, fmt.Errorf("%v", r))
		}
	}()

	return operation(ctx)
}

// release stops the pull iterator, which runs the teardown of the producer, e.g. its deferred calls.
func release(stop func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Join(ErrProducerPanicked, fmt.Errorf("%v", r))
		}
	}()

	stop()

	return nil
}

func canceledError(ctx context.Context) error {
	return errors.Join(ErrSequenceCanceled, context.Cause(ctx))
}
