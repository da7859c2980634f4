package projection

import (
	"reflect"
)

// Handler is one entry of a Table: a message type token and the projector registered for it.
//
// Handlers are only created through the Builder registration functions, which bind the projector
// to its message type at the call site.
type Handler[C any] struct {
	messageType reflect.Type
	project     func(message any) CommandSet[C]
}

// newHandler erases the message type of fn after capturing it as a type token.
// The type assertion in the closure cannot fail because project is only invoked after the token matched.
func newHandler[M, C any](fn func(M) CommandSet[C]) Handler[C] {
	return Handler[C]{
		messageType: reflect.TypeFor[M](),
		project: func(message any) CommandSet[C] {
			return fn(message.(M))
		},
	}
}

// MessageType returns the type token this handler was registered for.
func (h Handler[C]) MessageType() reflect.Type {
	return h.messageType
}

// Handles reports whether the runtime type of message is exactly the registered type.
func (h Handler[C]) Handles(message any) bool {
	return h.messageType != nil && reflect.TypeOf(message) == h.messageType
}

// Project applies the projector to message.
// It returns false, and does not invoke the projector, if the handler does not handle the message type.
func (h Handler[C]) Project(message any) (CommandSet[C], bool) {
	if !h.Handles(message) {
		return CommandSet[C]{}, false
	}

	return h.project(message), true
}
