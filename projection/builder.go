package projection

import (
	"iter"
	"reflect"
	"slices"
)

// Builder collects Handler entries with a fluent, persistent API.
//
// Every registration returns a new Builder and leaves the receiver unchanged, so partially
// built Builders can be shared and extended from multiple call sites without synchronization.
//
// Go does not allow type parameters on methods, so registrations are package-level functions:
//
//	b := projection.NewBuilder[Command]()
//	b, err := projection.When(b, func(e OrderPlaced) Command { ... })
//
// or, chained, via Builder.With and the On/OnMany/OnSeq registrations.
type Builder[C any] struct {
	handlers []Handler[C]
}

// Registration is a deferred registration step applied by Builder.With.
type Registration[C any] func(Builder[C]) (Builder[C], error)

// NewBuilder creates an empty Builder for commands of type C.
func NewBuilder[C any]() Builder[C] {
	return Builder[C]{}
}

// NewBuilderFrom creates a Builder that starts out with the given handlers, e.g. those of another Table.
func NewBuilderFrom[C any](handlers ...Handler[C]) Builder[C] {
	return Builder[C]{handlers: slices.Clone(handlers)}
}

// When registers a projector returning exactly one command for messages of type M.
// The command is wrapped into a one-element CommandSet.
func When[M, C any](b Builder[C], fn func(M) C) (Builder[C], error) {
	if fn == nil {
		return b, ErrNilProjectorFunc
	}

	return register(b, func(message M) CommandSet[C] {
		return CommandSet[C]{commands: []C{fn(message)}}
	})
}

// WhenMany registers a projector returning an arbitrary number of commands (possibly none) for messages of type M.
func WhenMany[M, C any](b Builder[C], fn func(M) []C) (Builder[C], error) {
	if fn == nil {
		return b, ErrNilProjectorFunc
	}

	return register(b, func(message M) CommandSet[C] {
		return NewCommandSet(fn(message)...)
	})
}

// WhenSeq registers a projector returning a lazy sequence of commands for messages of type M.
// The sequence is drained when the message is resolved, a nil sequence counts as empty.
func WhenSeq[M, C any](b Builder[C], fn func(M) iter.Seq[C]) (Builder[C], error) {
	if fn == nil {
		return b, ErrNilProjectorFunc
	}

	return register(b, func(message M) CommandSet[C] {
		commands := fn(message)
		if commands == nil {
			return CommandSet[C]{}
		}

		return CommandSet[C]{commands: slices.Collect(commands)}
	})
}

// On returns a Registration equivalent to When.
func On[M, C any](fn func(M) C) Registration[C] {
	return func(b Builder[C]) (Builder[C], error) {
		return When(b, fn)
	}
}

// OnMany returns a Registration equivalent to WhenMany.
func OnMany[M, C any](fn func(M) []C) Registration[C] {
	return func(b Builder[C]) (Builder[C], error) {
		return WhenMany(b, fn)
	}
}

// OnSeq returns a Registration equivalent to WhenSeq.
func OnSeq[M, C any](fn func(M) iter.Seq[C]) Registration[C] {
	return func(b Builder[C]) (Builder[C], error) {
		return WhenSeq(b, fn)
	}
}

// With applies the registrations in order.
// It fails fast: on the first error, the receiver is returned unchanged together with the error.
func (b Builder[C]) With(registrations ...Registration[C]) (Builder[C], error) {
	next := b

	for _, registration := range registrations {
		if registration == nil {
			return b, ErrNilRegistration
		}

		var err error
		if next, err = registration(next); err != nil {
			return b, err
		}
	}

	return next, nil
}

// Len returns the number of registered handlers.
func (b Builder[C]) Len() int {
	return len(b.handlers)
}

// Build returns an immutable snapshot of all registered handlers in registration order.
// The Builder remains usable, later registrations don't affect the returned Table.
//
// More than one handler for the same message type is allowed; the first one registered wins at resolution time.
func (b Builder[C]) Build() Table[C] {
	return Table[C]{handlers: slices.Clip(b.handlers)}
}

// BuildStrict is like Build, but fails with ErrDuplicateMessageType if any message type has more than one handler.
func (b Builder[C]) BuildStrict() (Table[C], error) {
	table := b.Build()

	if duplicates := table.Duplicates(); len(duplicates) > 0 {
		return Table[C]{}, duplicateMessageTypeError(duplicates)
	}

	return table, nil
}

// register appends a new handler using copy-on-append, so that no two Builders ever share a writable backing array.
func register[M, C any](b Builder[C], fn func(M) CommandSet[C]) (Builder[C], error) {
	messageType := reflect.TypeFor[M]()
	if messageType.Kind() == reflect.Interface {
		return b, ErrInterfaceMessageType
	}

	handlers := make([]Handler[C], len(b.handlers), len(b.handlers)+1)
	copy(handlers, b.handlers)
	handlers = append(handlers, newHandler(fn))

	return Builder[C]{handlers: handlers}, nil
}
