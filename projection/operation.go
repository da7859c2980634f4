package projection

import (
	"context"
	"iter"
)

// Operation executes one unit of work, typically one materialized command.
// It is expected to observe ctx itself; the executor never aborts a running Operation.
type Operation func(ctx context.Context) error

// Materializer converts one command into the Operation executing it.
// A returned error is treated as a producer failure of the sequence.
type Materializer[C any] func(command C) (Operation, error)

// Operations returns a sequence yielding the given operations in order.
func Operations(operations ...Operation) iter.Seq2[Operation, error] {
	return func(yield func(Operation, error) bool) {
		for _, operation := range operations {
			if !yield(operation, nil) {
				return
			}
		}
	}
}

// Materialize lazily converts commands into operations.
//
// A command is only pulled from commands and materialized when the executor asks for the next
// Operation, so unbounded command sources are fine. The first materializer error is yielded
// as the last element.
func Materialize[C any](commands iter.Seq[C], materializer Materializer[C]) iter.Seq2[Operation, error] {
	return func(yield func(Operation, error) bool) {
		if materializer == nil {
			yield(nil, ErrNilMaterializer)
			return
		}

		if commands == nil {
			return
		}

		for command := range commands {
			operation, err := materializer(command)
			if err != nil {
				yield(nil, err)
				return
			}

			if !yield(operation, nil) {
				return
			}
		}
	}
}
