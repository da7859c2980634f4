// Package config provides the environment driven configuration of the projector
// and factory functions for the supported database connections.
//
// PostgreSQL can be reached through pgx.Pool, sql.DB (lib/pq), or sqlx.DB, SQLite through
// the pure Go modernc.org/sqlite driver. Every factory applies the pool settings from Config
// and pings the database before returning it.
package config
