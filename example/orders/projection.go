package orders

import (
	"errors"

	"github.com/doug-martin/goqu/v9"

	"github.com/AntonStoeckl/dynamic-streams-projector-go/projection"
	"github.com/AntonStoeckl/dynamic-streams-projector-go/projection/sqlengine"
)

// Tables of the orders read model and the order statuses stored in it.
const (
	OrdersTable     = "orders"
	OrderAuditTable = "order_audit"

	StatusPlaced    = "placed"
	StatusCancelled = "cancelled"
)

// ErrBuildingProjectionFailed is returned when the orders dispatch table or decoder can't be assembled.
var ErrBuildingProjectionFailed = errors.New("building the orders projection failed")

// Projection builds the dispatch table of the orders read model. Every message type has exactly one handler.
func Projection(commands sqlengine.CommandBuilder) (projection.Table[sqlengine.Command], error) {
	builder, err := projection.NewBuilder[sqlengine.Command]().With(
		projection.On(func(e OrderPlaced) sqlengine.Command {
			return commands.Insert(OrdersTable, goqu.Record{
				"order_id":    e.OrderID,
				"customer_id": e.CustomerID,
				"total_cents": e.TotalCents,
				"status":      StatusPlaced,
				"placed_at":   e.OccurredAt,
			})
		}),
		projection.OnMany(func(e OrderCancelled) []sqlengine.Command {
			return []sqlengine.Command{
				commands.Update(OrdersTable,
					goqu.Record{"status": StatusCancelled},
					goqu.Ex{"order_id": e.OrderID},
				),
				commands.Insert(OrderAuditTable, goqu.Record{
					"order_id":    e.OrderID,
					"entry":       StatusCancelled + ": " + e.Reason,
					"occurred_at": e.OccurredAt,
				}),
			}
		}),
	)
	if err != nil {
		return projection.Table[sqlengine.Command]{}, errors.Join(ErrBuildingProjectionFailed, err)
	}

	table, err := builder.BuildStrict()
	if err != nil {
		return projection.Table[sqlengine.Command]{}, errors.Join(ErrBuildingProjectionFailed, err)
	}

	return table, nil
}

// Decoder maps the stored event types of the orders domain to their message types.
func Decoder() (sqlengine.Decoder, error) {
	decoder, err := sqlengine.DecodeAs[OrderPlaced](sqlengine.NewDecoder(), OrderPlacedEventType)
	if err != nil {
		return sqlengine.Decoder{}, errors.Join(ErrBuildingProjectionFailed, err)
	}

	decoder, err = sqlengine.DecodeAs[OrderCancelled](decoder, OrderCancelledEventType)
	if err != nil {
		return sqlengine.Decoder{}, errors.Join(ErrBuildingProjectionFailed, err)
	}

	return decoder, nil
}
