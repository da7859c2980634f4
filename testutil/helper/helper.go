package helper

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// EventsTableSQLite mirrors the events table of the dynamic-streams event store for SQLite.
const EventsTableSQLite = `CREATE TABLE IF NOT EXISTS events (
	sequence_number INTEGER PRIMARY KEY AUTOINCREMENT,
	event_type      TEXT      NOT NULL,
	occurred_at     TIMESTAMP NOT NULL,
	payload         TEXT      NOT NULL,
	metadata        TEXT      NOT NULL DEFAULT '{}'
)`

func GivenUniqueID(t testing.TB) uuid.UUID {
	id, err := uuid.NewV7()
	assert.NoError(t, err, "error in arranging test data")

	return id
}

// FakeClock returns a fixed point in time for deterministic test data.
func FakeClock() time.Time {
	return time.Date(2025, time.March, 14, 9, 26, 53, 0, time.UTC)
}

func GivenEventsTable(t testing.TB, db *sql.DB) {
	_, err := db.Exec(EventsTableSQLite)
	require.NoError(t, err, "error in arranging test data")
}

// GivenEventWasAppended marshals payload to JSON and appends it with an empty metadata object.
func GivenEventWasAppended(t testing.TB, db *sql.DB, eventType string, occurredAt time.Time, payload any) {
	payloadJSON, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(payload)
	require.NoError(t, err, "error in arranging test data")

	GivenRawEventWasAppended(t, db, eventType, occurredAt, string(payloadJSON))
}

func GivenRawEventWasAppended(t testing.TB, db *sql.DB, eventType string, occurredAt time.Time, payloadJSON string) {
	_, err := db.Exec(
		`INSERT INTO events (event_type, occurred_at, payload, metadata) VALUES (?, ?, ?, '{}')`,
		eventType, occurredAt, payloadJSON,
	)
	require.NoError(t, err, "error in arranging test data")
}

func CountRows(t testing.TB, db *sql.DB, table string) int {
	var count int
	err := db.QueryRow(fmt.Sprintf(`SELECT count(*) FROM %q`, table)).Scan(&count)
	require.NoError(t, err, "error in asserting test data")

	return count
}
