// Package orders is a small demo domain wired into a SQL read model.
//
// Two events are projected:
//   - OrderPlaced inserts a row into the orders table.
//   - OrderCancelled updates the order status and appends an audit row.
//
// The package also owns the DDL of its read model and a demo variant of the event store's events table,
// which the projector CLI uses to set up SQLite playgrounds and to append demo events.
package orders
