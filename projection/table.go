package projection

import (
	"errors"
	"fmt"
	"iter"
	"reflect"
	"slices"
)

// Table is the immutable, ordered collection of Handler entries produced by Builder.Build.
//
// A Table is safe for concurrent use without synchronization, nothing ever writes to it after Build.
// The zero value is an empty Table which resolves every message to an empty CommandSet.
type Table[C any] struct {
	handlers []Handler[C]
}

// Len returns the number of handlers.
func (t Table[C]) Len() int {
	return len(t.handlers)
}

// Handlers returns a copy of all handlers in registration order.
func (t Table[C]) Handlers() []Handler[C] {
	return slices.Clone(t.handlers)
}

// HandlersFor returns all handlers registered for the exact runtime type of message, in registration order.
func (t Table[C]) HandlersFor(message any) []Handler[C] {
	var handlers []Handler[C]

	for _, handler := range t.handlers {
		if handler.Handles(message) {
			handlers = append(handlers, handler)
		}
	}

	return handlers
}

// Handles reports whether at least one handler is registered for the runtime type of message.
func (t Table[C]) Handles(message any) bool {
	_, found := t.first(message)
	return found
}

// Resolve projects message with the first handler registered for its exact runtime type.
// If there is none, or message is nil, the result is an empty CommandSet.
func (t Table[C]) Resolve(message any) CommandSet[C] {
	handler, found := t.first(message)
	if !found {
		return CommandSet[C]{}
	}

	return handler.project(message)
}

// ResolveAll lazily resolves each message and yields all resulting commands in order.
// Messages are pulled from the source one at a time, only when the commands of the previous one were consumed.
func (t Table[C]) ResolveAll(messages iter.Seq[any]) iter.Seq[C] {
	return func(yield func(C) bool) {
		if messages == nil {
			return
		}

		for message := range messages {
			for command := range t.Resolve(message).All() {
				if !yield(command) {
					return
				}
			}
		}
	}
}

// Duplicates returns every message type that has more than one handler, in order of first registration.
func (t Table[C]) Duplicates() []reflect.Type {
	seen := make(map[reflect.Type]int, len(t.handlers))
	var duplicates []reflect.Type

	for _, handler := range t.handlers {
		seen[handler.messageType]++
		if seen[handler.messageType] == 2 {
			duplicates = append(duplicates, handler.messageType)
		}
	}

	return duplicates
}

// first does the linear scan in registration order, table sizes are small and this runs once per message.
func (t Table[C]) first(message any) (Handler[C], bool) {
	if message == nil {
		return Handler[C]{}, false
	}

	messageType := reflect.TypeOf(message)

	for _, handler := range t.handlers {
		if handler.messageType == messageType {
			return handler, true
		}
	}

	return Handler[C]{}, false
}

func duplicateMessageTypeError(duplicates []reflect.Type) error {
	names := make([]string, 0, len(duplicates))
	for _, duplicate := range duplicates {
		names = append(names, duplicate.String())
	}

	return errors.Join(ErrDuplicateMessageType, fmt.Errorf("duplicate message types: %v", names))
}
