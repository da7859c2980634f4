package sqlengine

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/dynamic-streams-projector-go/projection/sqlengine/internal/adapters"
)

const (
	// DialectPostgres renders SQL with double-quoted identifiers and $n placeholders.
	DialectPostgres = "postgres"

	// DialectSQLite renders SQL with backtick-quoted identifiers and ? placeholders.
	DialectSQLite = "sqlite3"
)

// Database bundles a database connection with the SQL dialect used to render commands and queries for it.
type Database struct {
	adapter     adapters.DBAdapter
	dialectName string
}

// DatabaseOption defines a functional option for configuring a Database.
type DatabaseOption func(*Database) error

// WithDialect sets the SQL dialect, DialectPostgres (the default) or DialectSQLite.
func WithDialect(dialect string) DatabaseOption {
	return func(db *Database) error {
		switch dialect {
		case DialectPostgres, DialectSQLite:
			db.dialectName = dialect
			return nil

		default:
			return ErrUnsupportedDialect
		}
	}
}

// NewDatabaseFromPGXPool creates a Database using a pgx Pool.
func NewDatabaseFromPGXPool(pool *pgxpool.Pool, options ...DatabaseOption) (Database, error) {
	if pool == nil {
		return Database{}, ErrNilDatabaseConnection
	}

	return newDatabase(adapters.NewPGXAdapter(pool), options)
}

// NewDatabaseFromPGXPoolWithReplica creates a Database that executes commands on the primary pool.
// Reads go to the replica pool only under EventualConsistency, see WithEventualConsistency.
func NewDatabaseFromPGXPoolWithReplica(pool *pgxpool.Pool, replica *pgxpool.Pool, options ...DatabaseOption) (Database, error) {
	if pool == nil || replica == nil {
		return Database{}, ErrNilDatabaseConnection
	}

	return newDatabase(adapters.NewPGXAdapterWithReplica(pool, replica, readsFromReplica), options)
}

// NewDatabaseFromSQLDB creates a Database using a sql.DB.
func NewDatabaseFromSQLDB(db *sql.DB, options ...DatabaseOption) (Database, error) {
	if db == nil {
		return Database{}, ErrNilDatabaseConnection
	}

	return newDatabase(adapters.NewSQLAdapter(db), options)
}

// NewDatabaseFromSQLX creates a Database using a sqlx.DB.
func NewDatabaseFromSQLX(db *sqlx.DB, options ...DatabaseOption) (Database, error) {
	if db == nil {
		return Database{}, ErrNilDatabaseConnection
	}

	return newDatabase(adapters.NewSQLXAdapter(db), options)
}

func newDatabase(adapter adapters.DBAdapter, options []DatabaseOption) (Database, error) {
	db := Database{
		adapter:     adapter,
		dialectName: DialectPostgres,
	}

	for _, option := range options {
		if err := option(&db); err != nil {
			return Database{}, err
		}
	}

	return db, nil
}

// Dialect returns the name of the configured SQL dialect.
func (db Database) Dialect() string {
	return db.dialectName
}

// Commands returns a CommandBuilder rendering commands for the dialect of this Database.
func (db Database) Commands() CommandBuilder {
	return CommandBuilder{dialect: goqu.Dialect(db.dialectName)}
}

func (db Database) isZero() bool {
	return db.adapter == nil
}

func (db Database) dialect() goqu.DialectWrapper {
	return goqu.Dialect(db.dialectName)
}

func (db Database) exec(ctx context.Context, query string, args ...any) (adapters.DBResult, error) {
	return db.adapter.Exec(ctx, query, args...)
}

func (db Database) query(ctx context.Context, query string, args ...any) (adapters.DBRows, error) {
	return db.adapter.Query(ctx, query, args...)
}
