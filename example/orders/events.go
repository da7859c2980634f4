package orders

import (
	"time"

	"github.com/google/uuid"
)

const (
	OrderPlacedEventType    = "OrderPlaced"
	OrderCancelledEventType = "OrderCancelled"
)

// DomainEvent represents a business event that has occurred in the orders domain.
type DomainEvent interface {
	// EventType returns the string identifier for this event type
	EventType() string
	// HasOccurredAt returns when this event occurred
	HasOccurredAt() time.Time
}

type OrderIDString = string

type OrderPlaced struct {
	OrderID    OrderIDString
	CustomerID string
	TotalCents int64
	OccurredAt time.Time
}

func BuildOrderPlaced(orderID uuid.UUID, customerID uuid.UUID, totalCents int64, occurredAt time.Time) OrderPlaced {
	return OrderPlaced{
		OrderID:    orderID.String(),
		CustomerID: customerID.String(),
		TotalCents: totalCents,
		OccurredAt: occurredAt.UTC(),
	}
}

func (e OrderPlaced) EventType() string {
	return OrderPlacedEventType
}

func (e OrderPlaced) HasOccurredAt() time.Time {
	return e.OccurredAt
}

type OrderCancelled struct {
	OrderID    OrderIDString
	Reason     string
	OccurredAt time.Time
}

func BuildOrderCancelled(orderID uuid.UUID, reason string, occurredAt time.Time) OrderCancelled {
	return OrderCancelled{
		OrderID:    orderID.String(),
		Reason:     reason,
		OccurredAt: occurredAt.UTC(),
	}
}

func (e OrderCancelled) EventType() string {
	return OrderCancelledEventType
}

func (e OrderCancelled) HasOccurredAt() time.Time {
	return e.OccurredAt
}
