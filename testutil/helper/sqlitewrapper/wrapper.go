package sqlitewrapper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-streams-projector-go/config"
	"github.com/AntonStoeckl/dynamic-streams-projector-go/projection/sqlengine"
	"github.com/AntonStoeckl/dynamic-streams-projector-go/testutil/helper"
)

// Engine type constants
const (
	typeSQLDB  = "sql.db"
	typeSQLXDB = "sqlx.db"
)

// Wrapper abstracts over the connection types a sqlengine.Database can be created from.
type Wrapper interface {
	GetDatabase() sqlengine.Database
	GetDB() *sql.DB
	Close()
}

// SQLDBWrapper wraps sql.DB-based testing
type SQLDBWrapper struct {
	db       *sql.DB
	database sqlengine.Database
}

func (w *SQLDBWrapper) GetDatabase() sqlengine.Database {
	return w.database
}

func (w *SQLDBWrapper) GetDB() *sql.DB {
	return w.db
}

func (w *SQLDBWrapper) Close() {
	_ = w.db.Close() // ignore error
}

// SQLXWrapper wraps sqlx.DB-based testing
type SQLXWrapper struct {
	db       *sqlx.DB
	database sqlengine.Database
}

func (w *SQLXWrapper) GetDatabase() sqlengine.Database {
	return w.database
}

func (w *SQLXWrapper) GetDB() *sql.DB {
	return w.db.DB
}

func (w *SQLXWrapper) Close() {
	_ = w.db.Close() // ignore error
}

// CreateWrapperWithTestConfig opens a fresh in-memory SQLite database with an events table.
// The connection type is selected with the ADAPTER_TYPE environment variable.
func CreateWrapperWithTestConfig(t testing.TB) Wrapper {
	engineTypeFromEnv := strings.ToLower(os.Getenv("ADAPTER_TYPE"))

	db, err := config.SQLiteDB(context.Background(), ":memory:")
	require.NoError(t, err, "error connecting to DB in test setup")

	helper.GivenEventsTable(t, db)

	switch engineTypeFromEnv {
	case typeSQLDB, "":
		database, dbErr := sqlengine.NewDatabaseFromSQLDB(db, sqlengine.WithDialect(sqlengine.DialectSQLite))
		require.NoError(t, dbErr, "error creating database in test setup")

		return &SQLDBWrapper{db: db, database: database}

	case typeSQLXDB:
		sqlxDB := sqlx.NewDb(db, config.SQLiteDriverName())
		database, dbErr := sqlengine.NewDatabaseFromSQLX(sqlxDB, sqlengine.WithDialect(sqlengine.DialectSQLite))
		require.NoError(t, dbErr, "error creating database in test setup")

		return &SQLXWrapper{db: sqlxDB, database: database}

	default: // neither one of the known types nor empty
		panic(fmt.Sprintf("unsupported wrapper type from env: %s", engineTypeFromEnv))
	}
}
