package sqlengine_test

import (
	"database/sql"
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-streams-projector-go/projection"
	. "github.com/AntonStoeckl/dynamic-streams-projector-go/projection/sqlengine"
)

const (
	orderPlacedEventType    = "OrderPlaced"
	orderCancelledEventType = "OrderCancelled"
	orderShippedEventType   = "OrderShipped"
)

var ordersSchema = []string{
	`CREATE TABLE orders (
		order_id TEXT PRIMARY KEY,
		customer TEXT NOT NULL,
		status   TEXT NOT NULL
	)`,
	`CREATE TABLE order_audit (
		order_id TEXT NOT NULL,
		entry    TEXT NOT NULL
	)`,
}

type orderPlaced struct {
	OrderID  string `json:"OrderID"`
	Customer string `json:"Customer"`
}

type orderCancelled struct {
	OrderID string `json:"OrderID"`
	Reason  string `json:"Reason"`
}

type orderShipped struct {
	OrderID string `json:"OrderID"`
}

func givenOrdersSchema(t testing.TB, db *sql.DB) {
	for _, ddl := range ordersSchema {
		_, err := db.Exec(ddl)
		require.NoError(t, err, "error in arranging test data")
	}
}

// ordersTable is the read model projection used throughout the tests:
// OrderPlaced -> insert order, OrderCancelled -> update status + insert audit row.
func ordersTable(t testing.TB, commands CommandBuilder) projection.Table[Command] {
	builder, err := projection.NewBuilder[Command]().With(
		projection.On(func(e orderPlaced) Command {
			return commands.Insert("orders", goqu.Record{
				"order_id": e.OrderID,
				"customer": e.Customer,
				"status":   "placed",
			})
		}),
		projection.OnMany(func(e orderCancelled) []Command {
			return []Command{
				commands.Update("orders", goqu.Record{"status": "cancelled"}, goqu.Ex{"order_id": e.OrderID}),
				commands.Insert("order_audit", goqu.Record{"order_id": e.OrderID, "entry": "cancelled: " + e.Reason}),
			}
		}),
	)
	require.NoError(t, err, "error in arranging test data")

	table, err := builder.BuildStrict()
	require.NoError(t, err, "error in arranging test data")

	return table
}

func ordersDecoder(t testing.TB) Decoder {
	decoder, err := DecodeAs[orderPlaced](NewDecoder(), orderPlacedEventType)
	require.NoError(t, err, "error in arranging test data")

	decoder, err = DecodeAs[orderCancelled](decoder, orderCancelledEventType)
	require.NoError(t, err, "error in arranging test data")

	return decoder
}

func orderStatus(t testing.TB, db *sql.DB, orderID string) string {
	var status string
	err := db.QueryRow(`SELECT status FROM orders WHERE order_id = ?`, orderID).Scan(&status)
	require.NoError(t, err, "error in asserting test data")

	return status
}
