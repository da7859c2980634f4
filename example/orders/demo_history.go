package orders

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DemoHistory generates count placed orders starting at start, one second apart.
// Every third order is cancelled one minute after it was placed.
func DemoHistory(count int, start time.Time) ([]DomainEvent, error) {
	history := make([]DomainEvent, 0, count+count/3)

	for i := range count {
		orderID, err := uuid.NewV7()
		if err != nil {
			return nil, err
		}

		customerID, err := uuid.NewRandom()
		if err != nil {
			return nil, err
		}

		placedAt := start.Add(time.Duration(i) * time.Second)
		history = append(history, BuildOrderPlaced(orderID, customerID, int64(1000+i*250), placedAt))

		if i%3 == 2 {
			reason := fmt.Sprintf("demo cancellation #%d", i/3+1)
			history = append(history, BuildOrderCancelled(orderID, reason, placedAt.Add(time.Minute)))
		}
	}

	return history, nil
}
