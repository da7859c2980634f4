package projection

import (
	"context"
	"sync/atomic"
)

// Outcome is the state of a sequence run.
type Outcome int

const (
	// OutcomeRunning means the sequence has not reached a terminal state yet.
	OutcomeRunning Outcome = iota

	// OutcomeCompleted means every operation succeeded.
	OutcomeCompleted

	// OutcomeFailed means an operation or the producer failed, Completion.Err returns that error.
	OutcomeFailed

	// OutcomeCanceled means the context ended before the sequence was exhausted.
	OutcomeCanceled
)

// String provides a string representation of Outcome for logging, metrics labels, and span status.
func (o Outcome) String() string {
	switch o {
	case OutcomeRunning:
		return "running"
	case OutcomeCompleted:
		return "completed"
	case OutcomeFailed:
		return "failed"
	case OutcomeCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Completion is the asynchronous handle of one sequence run.
// It transitions exactly once from OutcomeRunning into a terminal Outcome, at which point Done is closed.
type Completion struct {
	done    chan struct{}
	outcome Outcome
	err     error
	started atomic.Int64
}

func newCompletion() *Completion {
	return &Completion{done: make(chan struct{})}
}

// finish must be called exactly once, the close of done publishes outcome and err to all readers.
func (c *Completion) finish(outcome Outcome, err error) {
	c.outcome = outcome
	c.err = err
	close(c.done)
}

// Done returns a channel that is closed when the sequence reached its terminal state.
func (c *Completion) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the sequence finished and returns its terminal error.
//
// If ctx ends first, Wait returns ctx.Err() without affecting the sequence itself,
// cancellation of a run is controlled only by the context passed to RunSequential.
func (c *Completion) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return c.err
	default:
	}

	select {
	case <-c.done:
		return c.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the terminal error: nil while running or after success,
// the failing operation's error verbatim, or an error wrapping ErrSequenceCanceled.
func (c *Completion) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}

// Outcome returns the current state.
func (c *Completion) Outcome() Outcome {
	select {
	case <-c.done:
		return c.outcome
	default:
		return OutcomeRunning
	}
}

// Started returns how many operations have been started so far.
func (c *Completion) Started() int {
	return int(c.started.Load())
}
