package config

import (
	"context"
	"database/sql"
	"errors"

	_ "modernc.org/sqlite" // sqlite driver
)

const sqliteDriverName = "sqlite"

// SQLiteDB opens a *sql.DB for dsn using the modernc.org/sqlite driver and pings it.
//
// SQLite serializes writers, so the pool is limited to one connection. This also keeps
// in-memory databases (":memory:") alive for the lifetime of the returned *sql.DB.
func SQLiteDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, dsn)
	if err != nil {
		return nil, errors.Join(ErrConnectingFailed, err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, errors.Join(ErrConnectingFailed, pingErr)
	}

	return db, nil
}

// SQLiteDriverName returns the database/sql driver name registered by modernc.org/sqlite, e.g. for sqlx.NewDb.
func SQLiteDriverName() string {
	return sqliteDriverName
}
