package sqlengine

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Decoder maps stored event types to Go message types and unmarshals payloads into them.
//
// Like projection.Builder, a Decoder is persistent: DecodeAs returns a new Decoder and leaves
// the receiver unchanged. The zero value decodes nothing.
type Decoder struct {
	decoders map[string]decodeFunc
}

type decodeFunc func(payload []byte) (any, error)

// NewDecoder creates an empty Decoder.
func NewDecoder() Decoder {
	return Decoder{}
}

// DecodeAs registers message type M for stored events of eventType.
// Payloads are unmarshalled into a value of M, so the Table handler must be registered for M, not *M.
func DecodeAs[M any](d Decoder, eventType string) (Decoder, error) {
	if eventType == "" {
		return d, ErrEmptyEventType
	}

	if _, exists := d.decoders[eventType]; exists {
		return d, errors.Join(ErrDuplicateEventType, fmt.Errorf("event type %q", eventType))
	}

	decoders := maps.Clone(d.decoders)
	if decoders == nil {
		decoders = make(map[string]decodeFunc, 1)
	}

	decoders[eventType] = func(payload []byte) (any, error) {
		var message M
		if err := json.Unmarshal(payload, &message); err != nil {
			return nil, err
		}

		return message, nil
	}

	return Decoder{decoders: decoders}, nil
}

// Knows reports whether a message type is registered for eventType.
func (d Decoder) Knows(eventType string) bool {
	_, exists := d.decoders[eventType]
	return exists
}

// EventTypes returns the registered event types in lexical order.
func (d Decoder) EventTypes() []string {
	return slices.Sorted(maps.Keys(d.decoders))
}

// Decode unmarshals the payload of event into the message type registered for its event type.
func (d Decoder) Decode(event StoredEvent) (any, error) {
	decode, exists := d.decoders[event.EventType]
	if !exists {
		return nil, errors.Join(ErrUnknownEventType, fmt.Errorf("event type %q", event.EventType))
	}

	message, err := decode(event.PayloadJSON)
	if err != nil {
		return nil, errors.Join(
			ErrDecodingEventFailed,
			fmt.Errorf("event type %q at position %d", event.EventType, event.Position),
			err,
		)
	}

	return message, nil
}
