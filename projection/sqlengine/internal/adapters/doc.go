// Package adapters provide database adapter implementations for the SQL projection engine.
//
// Projections may run on pgx.Pool, sql.DB, or sqlx.DB. All adapters provide equivalent functionality
// through the DBAdapter interface, so the engine executes commands and reads events the same way
// regardless of the connection type. Placeholders are passed through unchanged, the SQL text must
// already be rendered for the dialect of the underlying database.
package adapters
