package sqlengine

import (
	"context"
	"errors"
	"iter"
	"time"

	"github.com/doug-martin/goqu/v9"
)

const (
	defaultEventTableName = "events"
	defaultBatchSize      = 500
	colEventType          = "event_type"
	colOccurredAt         = "occurred_at"
	colPayload            = "payload"
	colMetadata           = "metadata"
	colSequenceNumber     = "sequence_number"
)

// StoredEvent is one row of the events table as written by the dynamic-streams event store.
type StoredEvent struct {
	Position     Position
	EventType    string
	OccurredAt   time.Time
	PayloadJSON  []byte
	MetadataJSON []byte
}

// EventSource reads stored events in sequence order, it never writes.
type EventSource struct {
	db        Database
	tableName string
	batchSize uint
}

// NewEventSource creates an EventSource reading from the events table of db.
func NewEventSource(db Database, options ...EventSourceOption) (EventSource, error) {
	if db.isZero() {
		return EventSource{}, ErrNilDatabaseConnection
	}

	es := EventSource{
		db:        db,
		tableName: defaultEventTableName,
		batchSize: defaultBatchSize,
	}

	for _, option := range options {
		if err := option(&es); err != nil {
			return EventSource{}, err
		}
	}

	return es, nil
}

// BatchSize returns how many events are read per query.
func (es EventSource) BatchSize() uint {
	return es.batchSize
}

// ReadAfter returns at most limit events with a position greater than after, ordered by position.
// A limit of 0 uses the configured batch size. Events are read with EventualConsistency unless ctx
// already carries a consistency level.
func (es EventSource) ReadAfter(ctx context.Context, after Position, limit uint) ([]StoredEvent, error) {
	if limit == 0 {
		limit = es.batchSize
	}

	sqlQuery, args, buildErr := es.db.dialect().
		From(es.tableName).
		Select(colEventType, colOccurredAt, colPayload, colMetadata, colSequenceNumber).
		Where(goqu.C(colSequenceNumber).Gt(int64(after))).
		Order(goqu.I(colSequenceNumber).Asc()).
		Limit(limit).
		Prepared(true).
		ToSQL()
	if buildErr != nil {
		return nil, errors.Join(ErrBuildingQueryFailed, buildErr)
	}

	if _, isSet := ctx.Value(ConsistencyLevelKey).(ConsistencyLevel); !isSet {
		ctx = WithEventualConsistency(ctx)
	}

	rows, queryErr := es.db.query(ctx, sqlQuery, args...)
	if queryErr != nil {
		return nil, errors.Join(ErrQueryingEventsFailed, queryErr)
	}
	defer func() { _ = rows.Close() }()

	events := make([]StoredEvent, 0, min(limit, es.batchSize))

	for rows.Next() {
		var event StoredEvent

		scanErr := rows.Scan(&event.EventType, &event.OccurredAt, &event.PayloadJSON, &event.MetadataJSON, &event.Position)
		if scanErr != nil {
			return nil, errors.Join(ErrScanningDBRowFailed, scanErr)
		}

		events = append(events, event)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, errors.Join(ErrQueryingEventsFailed, rowsErr)
	}

	return events, nil
}

// Events lazily reads all events after position, one batch per query.
// The first error is yielded as the last element.
func (es EventSource) Events(ctx context.Context, after Position) iter.Seq2[StoredEvent, error] {
	return func(yield func(StoredEvent, error) bool) {
		for {
			batch, err := es.ReadAfter(ctx, after, es.batchSize)
			if err != nil {
				yield(StoredEvent{}, err)
				return
			}

			for _, event := range batch {
				if !yield(event, nil) {
					return
				}

				after = event.Position
			}

			if uint(len(batch)) < es.batchSize {
				return
			}
		}
	}
}
