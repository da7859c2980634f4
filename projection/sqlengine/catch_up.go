package sqlengine

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/AntonStoeckl/dynamic-streams-projector-go/projection"
)

const (
	defaultPollInterval     = time.Second
	logMsgCatchUp           = "catch-up: "
	logMsgBatchProjected    = "batch projected"
	logMsgCaughtUp          = "caught up"
	logMsgEventSkipped      = "event of unknown type skipped"
	logAttrEventType        = "event_type"
	logAttrPosition         = "position"
	logAttrEventCount       = "event_count"
	logAttrSkippedCount     = "skipped_count"
	logAttrBatchCount       = "batch_count"
	logAttrFromPosition     = "from_position"
	logAttrCheckpointedUpTo = "checkpointed_up_to"
)

// CatchUpResult summarizes one catch-up run.
type CatchUpResult struct {
	Batches  int
	Events   int
	Skipped  int
	Position Position
}

// CatchUp brings a projection up to date with the event stream.
//
// Each batch of stored events is decoded, projected through the Connector as one sequence, and
// followed by saving the checkpoint as the last Operation of that same sequence. If any command
// fails, the checkpoint of that batch is not saved and the next run starts again with that batch.
// Events whose type the Decoder does not know are skipped.
type CatchUp struct {
	connector    Connector
	source       EventSource
	checkpoints  CheckpointStore
	decoder      Decoder
	name         string
	logger       projection.Logger
	pollInterval time.Duration
}

// NewCatchUp creates a CatchUp runner for the projection name.
func NewCatchUp(
	connector Connector,
	source EventSource,
	checkpoints CheckpointStore,
	decoder Decoder,
	name string,
	options ...CatchUpOption,
) (CatchUp, error) {

	if connector.db.isZero() || source.db.isZero() || checkpoints.db.isZero() {
		return CatchUp{}, ErrNilCollaborator
	}

	if name == "" {
		return CatchUp{}, ErrEmptyProjectionName
	}

	cu := CatchUp{
		connector:    connector,
		source:       source,
		checkpoints:  checkpoints,
		decoder:      decoder,
		name:         name,
		logger:       connector.obs.logger,
		pollInterval: defaultPollInterval,
	}

	for _, option := range options {
		if err := option(&cu); err != nil {
			return CatchUp{}, err
		}
	}

	return cu, nil
}

// Run projects all events after the saved checkpoint and returns once the projection caught up.
func (cu CatchUp) Run(ctx context.Context) (CatchUpResult, error) {
	position, loadErr := cu.checkpoints.Load(ctx, cu.name)
	if loadErr != nil {
		return CatchUpResult{}, loadErr
	}

	result := CatchUpResult{Position: position}

	for {
		if ctx.Err() != nil {
			return result, errors.Join(projection.ErrSequenceCanceled, context.Cause(ctx))
		}

		events, readErr := cu.source.ReadAfter(ctx, result.Position, cu.source.BatchSize())
		if readErr != nil {
			return result, readErr
		}

		if len(events) == 0 {
			break
		}

		messages, skipped, decodeErr := cu.decode(events)
		if decodeErr != nil {
			return result, decodeErr
		}

		last := events[len(events)-1].Position

		completion := cu.connector.run(
			ctx,
			cu.connector.table.ResolveAll(slices.Values(messages)),
			cu.checkpoints.SaveOperation(cu.name, last),
		)

		if err := completion.Wait(context.WithoutCancel(ctx)); err != nil {
			return result, err
		}

		result.Batches++
		result.Events += len(events)
		result.Skipped += skipped
		result.Position = last

		cu.logInfo(logMsgBatchProjected,
			logAttrEventCount, len(events),
			logAttrSkippedCount, skipped,
			logAttrCheckpointedUpTo, last,
		)

		if uint(len(events)) < cu.source.BatchSize() {
			break
		}
	}

	cu.logInfo(logMsgCaughtUp,
		logAttrBatchCount, result.Batches,
		logAttrEventCount, result.Events,
		logAttrFromPosition, position,
		logAttrPosition, result.Position,
	)

	return result, nil
}

// Follow runs catch-ups repeatedly, waiting for the poll interval after each one, until ctx ends or a run fails.
// The returned result accumulates all runs.
func (cu CatchUp) Follow(ctx context.Context) (CatchUpResult, error) {
	var total CatchUpResult

	ticker := time.NewTicker(cu.pollInterval)
	defer ticker.Stop()

	for {
		result, err := cu.Run(ctx)

		total.Batches += result.Batches
		total.Events += result.Events
		total.Skipped += result.Skipped
		total.Position = max(total.Position, result.Position)

		if err != nil {
			if projection.IsCanceled(err) || ctx.Err() != nil {
				return total, nil
			}

			return total, err
		}

		select {
		case <-ctx.Done():
			return total, nil
		case <-ticker.C:
		}
	}
}

// decode converts stored events into messages, skipping events of unknown type.
func (cu CatchUp) decode(events []StoredEvent) ([]any, int, error) {
	messages := make([]any, 0, len(events))
	skipped := 0

	for _, event := range events {
		if !cu.decoder.Knows(event.EventType) {
			skipped++
			cu.logDebug(logMsgEventSkipped, logAttrEventType, event.EventType, logAttrPosition, event.Position)

			continue
		}

		message, err := cu.decoder.Decode(event)
		if err != nil {
			return nil, 0, err
		}

		messages = append(messages, message)
	}

	return messages, skipped, nil
}

func (cu CatchUp) logInfo(action string, args ...any) {
	if cu.logger != nil {
		cu.logger.Info(logMsgCatchUp+action, append([]any{logAttrProjection, cu.name}, args...)...)
	}
}

func (cu CatchUp) logDebug(action string, args ...any) {
	if cu.logger != nil {
		cu.logger.Debug(logMsgCatchUp+action, append([]any{logAttrProjection, cu.name}, args...)...)
	}
}
