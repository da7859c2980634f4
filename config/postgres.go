package config

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
)

// ErrConnectingFailed wraps errors while opening or pinging a database.
var ErrConnectingFailed = errors.New("connecting to database failed")

// PGXPoolConfig creates a pgxpool.Config for dsn with the pool settings of c.
func (c Config) PGXPoolConfig(dsn string) (*pgxpool.Config, error) {
	dbConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	dbConfig.MaxConns = int32(min(c.MaxOpenConns, math.MaxInt32))
	dbConfig.MinConns = int32(min(c.MaxIdleConns, c.MaxOpenConns, math.MaxInt32))
	dbConfig.MaxConnLifetime = c.ConnMaxLifetime
	dbConfig.MaxConnIdleTime = c.ConnMaxIdleTime
	dbConfig.ConnConfig.ConnectTimeout = c.ConnectTimeout

	return dbConfig, nil
}

// PGXPool creates a pgxpool.Pool for dsn and pings it.
func (c Config) PGXPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	dbConfig, err := c.PGXPoolConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, errors.Join(ErrConnectingFailed, err)
	}

	if pingErr := pool.Ping(ctx); pingErr != nil {
		pool.Close()
		return nil, errors.Join(ErrConnectingFailed, pingErr)
	}

	return pool, nil
}

// PostgresSQLDB creates a *sql.DB using the lib/pq driver and pings it.
func (c Config) PostgresSQLDB(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("postgres", c.PostgresDSN)
	if err != nil {
		return nil, errors.Join(ErrConnectingFailed, err)
	}

	c.applyPoolSettings(db)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, errors.Join(ErrConnectingFailed, pingErr)
	}

	return db, nil
}

// PostgresSQLX creates a *sqlx.DB using the lib/pq driver and pings it.
func (c Config) PostgresSQLX(ctx context.Context) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", c.PostgresDSN)
	if err != nil {
		return nil, errors.Join(ErrConnectingFailed, err)
	}

	c.applyPoolSettings(db.DB)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, errors.Join(ErrConnectingFailed, pingErr)
	}

	return db, nil
}

func (c Config) applyPoolSettings(db *sql.DB) {
	db.SetMaxOpenConns(c.MaxOpenConns)
	db.SetMaxIdleConns(c.MaxIdleConns)
	db.SetConnMaxLifetime(c.ConnMaxLifetime)
	db.SetConnMaxIdleTime(c.ConnMaxIdleTime)
}
