package orders

import (
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/dynamic-streams-projector-go/projection/sqlengine"
)

// ErrMarshalingEventFailed is returned when a domain event can't be turned into a stored event payload.
var ErrMarshalingEventFailed = errors.New("marshaling event failed")

// Schema returns the DDL statements of the orders read model, one statement per element.
func Schema(dialect string) []string {
	timestampType := timestampTypeFor(dialect)

	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	order_id    TEXT PRIMARY KEY,
	customer_id TEXT NOT NULL,
	total_cents BIGINT NOT NULL,
	status      TEXT NOT NULL,
	placed_at   %s NOT NULL
)`, OrdersTable, timestampType),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	order_id    TEXT NOT NULL,
	entry       TEXT NOT NULL,
	occurred_at %s NOT NULL
)`, OrderAuditTable, timestampType),
	}
}

// EventsSchema returns the DDL of an events table shaped like the one of the dynamic-streams event store.
// It is meant for demos, production event tables are owned by the event store.
func EventsSchema(dialect string, table string) []string {
	if dialect == sqlengine.DialectSQLite {
		return []string{fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	sequence_number INTEGER PRIMARY KEY AUTOINCREMENT,
	event_type      TEXT      NOT NULL,
	occurred_at     TIMESTAMP NOT NULL,
	payload         TEXT      NOT NULL,
	metadata        TEXT      NOT NULL DEFAULT '{}'
)`, table)}
	}

	return []string{fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	sequence_number BIGSERIAL PRIMARY KEY,
	event_type      TEXT        NOT NULL,
	occurred_at     TIMESTAMPTZ NOT NULL,
	payload         JSONB       NOT NULL,
	metadata        JSONB       NOT NULL DEFAULT '{}'
)`, table)}
}

// AppendCommand builds the command that appends event to the events table.
func AppendCommand(commands sqlengine.CommandBuilder, table string, event DomainEvent) (sqlengine.Command, error) {
	payloadJSON, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(event)
	if err != nil {
		return sqlengine.Command{}, errors.Join(ErrMarshalingEventFailed, err)
	}

	return commands.Insert(table, goqu.Record{
		"event_type":  event.EventType(),
		"occurred_at": event.HasOccurredAt(),
		"payload":     string(payloadJSON),
		"metadata":    "{}",
	}), nil
}

func timestampTypeFor(dialect string) string {
	if dialect == sqlengine.DialectSQLite {
		return "TIMESTAMP"
	}

	return "TIMESTAMPTZ"
}
