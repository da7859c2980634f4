package sqlengine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/AntonStoeckl/dynamic-streams-projector-go/projection"
)

const (
	defaultCheckpointTableName = "projection_checkpoints"
	colProjectionName          = "projection_name"
	colLastPosition            = "last_position"
	colUpdatedAt               = "updated_at"
)

// CheckpointStore persists the position up to which a projection has processed the event stream.
//
// Save is not safe for concurrent first writes of the same projection name,
// run at most one catch-up per projection name at a time.
type CheckpointStore struct {
	db        Database
	tableName string
	now       func() time.Time
}

// NewCheckpointStore creates a CheckpointStore with optional configuration.
func NewCheckpointStore(db Database, options ...CheckpointStoreOption) (CheckpointStore, error) {
	if db.isZero() {
		return CheckpointStore{}, ErrNilDatabaseConnection
	}

	cs := CheckpointStore{
		db:        db,
		tableName: defaultCheckpointTableName,
		now:       func() time.Time { return time.Now().UTC() },
	}

	for _, option := range options {
		if err := option(&cs); err != nil {
			return CheckpointStore{}, err
		}
	}

	return cs, nil
}

// EnsureSchema creates the checkpoint table if it does not exist yet.
func (cs CheckpointStore) EnsureSchema(ctx context.Context) error {
	timestampType := "TIMESTAMPTZ"
	if cs.db.Dialect() == DialectSQLite {
		timestampType = "TIMESTAMP"
	}

	ddl := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (%s TEXT PRIMARY KEY, %s BIGINT NOT NULL, %s %s NOT NULL)",
		quoteIdentifier(cs.tableName),
		quoteIdentifier(colProjectionName),
		quoteIdentifier(colLastPosition),
		quoteIdentifier(colUpdatedAt),
		timestampType,
	)

	if _, err := cs.db.exec(ctx, ddl); err != nil {
		return errors.Join(ErrCreatingSchemaFailed, err)
	}

	return nil
}

// Load returns the saved position of projection name, or 0 if nothing was saved yet.
// It always reads from the primary database, where Save writes.
func (cs CheckpointStore) Load(ctx context.Context, name string) (Position, error) {
	sqlQuery, args, buildErr := cs.db.dialect().
		From(cs.tableName).
		Select(colLastPosition).
		Where(goqu.Ex{colProjectionName: name}).
		Prepared(true).
		ToSQL()
	if buildErr != nil {
		return 0, errors.Join(ErrBuildingQueryFailed, buildErr)
	}

	rows, queryErr := cs.db.query(WithStrongConsistency(ctx), sqlQuery, args...)
	if queryErr != nil {
		return 0, errors.Join(ErrLoadingCheckpointFailed, queryErr)
	}
	defer func() { _ = rows.Close() }()

	var position Position

	if rows.Next() {
		if scanErr := rows.Scan(&position); scanErr != nil {
			return 0, errors.Join(ErrScanningDBRowFailed, scanErr)
		}
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return 0, errors.Join(ErrLoadingCheckpointFailed, rowsErr)
	}

	return position, nil
}

// Save stores position for projection name, replacing a previously saved position.
func (cs CheckpointStore) Save(ctx context.Context, name string, position Position) error {
	record := goqu.Record{
		colLastPosition: int64(position),
		colUpdatedAt:    cs.now(),
	}

	update := cs.db.Commands().Update(cs.tableName, record, goqu.Ex{colProjectionName: name})
	if err := update.Err(); err != nil {
		return errors.Join(ErrSavingCheckpointFailed, err)
	}

	result, updateErr := cs.db.exec(ctx, update.text, update.args...)
	if updateErr != nil {
		return errors.Join(ErrSavingCheckpointFailed, updateErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		return errors.Join(ErrSavingCheckpointFailed, rowsAffectedErr)
	}

	if rowsAffected > 0 {
		return nil
	}

	record[colProjectionName] = name

	insert := cs.db.Commands().Insert(cs.tableName, record)
	if err := insert.Err(); err != nil {
		return errors.Join(ErrSavingCheckpointFailed, err)
	}

	if _, insertErr := cs.db.exec(ctx, insert.text, insert.args...); insertErr != nil {
		return errors.Join(ErrSavingCheckpointFailed, insertErr)
	}

	return nil
}

// SaveOperation returns an Operation saving position, to be run as the last step of a projected batch.
func (cs CheckpointStore) SaveOperation(name string, position Position) projection.Operation {
	return func(ctx context.Context) error {
		return cs.Save(ctx, name, position)
	}
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
