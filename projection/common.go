package projection

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is the umbrella for all errors caused by invalid input to a registration or constructor.
var ErrInvalidArgument = errors.New("invalid argument")

var (
	// ErrNilProjectorFunc is returned when a handler is registered with a nil projector function.
	ErrNilProjectorFunc = fmt.Errorf("%w: projector function must not be nil", ErrInvalidArgument)

	// ErrInterfaceMessageType is returned when a handler is registered for an interface type.
	// Runtime type tokens are always concrete, so such a handler could never match.
	ErrInterfaceMessageType = fmt.Errorf("%w: message type must be a concrete type", ErrInvalidArgument)

	// ErrNilRegistration is returned by Builder.With when one of the registrations is nil.
	ErrNilRegistration = fmt.Errorf("%w: registration must not be nil", ErrInvalidArgument)

	// ErrNilOperationSequence is returned when RunSequential is called without a sequence.
	ErrNilOperationSequence = fmt.Errorf("%w: operation sequence must not be nil", ErrInvalidArgument)

	// ErrNilMaterializer is produced by Materialize when no materializer function was supplied.
	ErrNilMaterializer = fmt.Errorf("%w: materializer must not be nil", ErrInvalidArgument)
)

var (
	// ErrDuplicateMessageType is returned by Builder.BuildStrict if more than one handler is registered for the same type.
	ErrDuplicateMessageType = errors.New("more than one handler registered for the same message type")

	// ErrSequenceCanceled is the terminal error of a sequence that stopped because its context ended.
	ErrSequenceCanceled = errors.New("operation sequence canceled")

	// ErrNilOperation is the terminal error of a sequence whose producer yielded a nil Operation.
	ErrNilOperation = errors.New("operation sequence produced a nil operation")

	// ErrProducerPanicked is the terminal error of a sequence whose producer panicked while being advanced.
	ErrProducerPanicked = errors.New("operation producer panicked")

	// ErrOperationPanicked is the terminal error of a sequence where an operation panicked.
	ErrOperationPanicked = errors.New("operation panicked")
)

// IsCanceled reports whether err is the terminal error of a canceled sequence.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrSequenceCanceled)
}
