package sqlengine

import (
	"errors"
)

var (
	// ErrNilDatabaseConnection is returned when a nil connection is supplied to a Database factory.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrUnsupportedDialect is returned by WithDialect for dialects the engine can not render SQL for.
	ErrUnsupportedDialect = errors.New("unsupported sql dialect")

	// ErrEmptyTableName is returned when an empty table name is supplied.
	ErrEmptyTableName = errors.New("table name must not be empty")

	// ErrInvalidBatchSize is returned when a batch size of zero is supplied.
	ErrInvalidBatchSize = errors.New("batch size must be greater than zero")

	// ErrEmptyProjectionName is returned when a catch-up runner is created without a projection name.
	ErrEmptyProjectionName = errors.New("projection name must not be empty")

	// ErrInvalidPollInterval is returned when a non-positive poll interval is supplied.
	ErrInvalidPollInterval = errors.New("poll interval must be greater than zero")

	// ErrNilCollaborator is returned when a catch-up runner is created with a zero-value collaborator.
	ErrNilCollaborator = errors.New("catch-up collaborator must not be a zero value")
)

var (
	// ErrBuildingCommandFailed is carried by a Command whose SQL could not be rendered.
	ErrBuildingCommandFailed = errors.New("building sql command failed")

	// ErrEmptyRecord is carried by an insert or update Command without any column values.
	ErrEmptyRecord = errors.New("record must contain at least one column")

	// ErrMissingWhereClause is carried by an update or delete Command without a where expression.
	ErrMissingWhereClause = errors.New("update and delete commands require a where expression")

	// ErrEmptyCommandText is carried by a Command created with an empty SQL text.
	ErrEmptyCommandText = errors.New("sql command text must not be empty")

	// ErrExecutingCommandFailed wraps the database error of a failed Command.
	ErrExecutingCommandFailed = errors.New("executing sql command failed")
)

var (
	// ErrQueryingEventsFailed wraps database errors while reading events.
	ErrQueryingEventsFailed = errors.New("querying events failed")

	// ErrScanningDBRowFailed wraps errors while scanning a database row.
	ErrScanningDBRowFailed = errors.New("scanning db row failed")

	// ErrBuildingQueryFailed wraps goqu errors while rendering a query.
	ErrBuildingQueryFailed = errors.New("building query failed")

	// ErrLoadingCheckpointFailed wraps database errors while loading a checkpoint.
	ErrLoadingCheckpointFailed = errors.New("loading checkpoint failed")

	// ErrSavingCheckpointFailed wraps database errors while saving a checkpoint.
	ErrSavingCheckpointFailed = errors.New("saving checkpoint failed")

	// ErrCreatingSchemaFailed wraps database errors while creating the checkpoint table.
	ErrCreatingSchemaFailed = errors.New("creating checkpoint schema failed")
)

var (
	// ErrUnknownEventType is returned by Decoder.Decode for event types without a registered message type.
	ErrUnknownEventType = errors.New("unknown event type")

	// ErrDecodingEventFailed wraps payload unmarshalling errors.
	ErrDecodingEventFailed = errors.New("decoding event payload failed")

	// ErrEmptyEventType is returned when a message type is registered for an empty event type.
	ErrEmptyEventType = errors.New("event type must not be empty")

	// ErrDuplicateEventType is returned when an event type is registered more than once.
	ErrDuplicateEventType = errors.New("event type already registered")
)

// Position is the sequence number of a stored event, positions are strictly increasing.
// Position 0 means "before the first event".
type Position = uint
