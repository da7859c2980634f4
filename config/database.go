package config

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/dynamic-streams-projector-go/projection/sqlengine"
)

// OpenDatabase connects to the database selected by c.Adapter and wraps it into a sqlengine.Database.
// The returned close function releases the connection(s).
func (c Config) OpenDatabase(ctx context.Context) (sqlengine.Database, func(), error) {
	switch c.Adapter {
	case AdapterSQLDB:
		db, err := c.PostgresSQLDB(ctx)
		if err != nil {
			return sqlengine.Database{}, nil, err
		}

		database, err := sqlengine.NewDatabaseFromSQLDB(db)

		return database, func() { _ = db.Close() }, err

	case AdapterSQLXDB:
		db, err := c.PostgresSQLX(ctx)
		if err != nil {
			return sqlengine.Database{}, nil, err
		}

		database, err := sqlengine.NewDatabaseFromSQLX(db)

		return database, func() { _ = db.Close() }, err

	case AdapterSQLite:
		db, err := SQLiteDB(ctx, c.SQLiteDSN)
		if err != nil {
			return sqlengine.Database{}, nil, err
		}

		database, err := sqlengine.NewDatabaseFromSQLX(
			sqlx.NewDb(db, sqliteDriverName),
			sqlengine.WithDialect(sqlengine.DialectSQLite),
		)

		return database, func() { _ = db.Close() }, err

	default:
		return c.openPGXPool(ctx)
	}
}

func (c Config) openPGXPool(ctx context.Context) (sqlengine.Database, func(), error) {
	pool, err := c.PGXPool(ctx, c.PostgresDSN)
	if err != nil {
		return sqlengine.Database{}, nil, err
	}

	if c.PostgresReplicaDSN == "" {
		database, err := sqlengine.NewDatabaseFromPGXPool(pool)
		return database, pool.Close, err
	}

	replica, err := c.PGXPool(ctx, c.PostgresReplicaDSN)
	if err != nil {
		pool.Close()
		return sqlengine.Database{}, nil, err
	}

	database, err := sqlengine.NewDatabaseFromPGXPoolWithReplica(pool, replica)

	return database, func() {
		replica.Close()
		pool.Close()
	}, err
}
