package sqlengine

import (
	"time"

	"github.com/AntonStoeckl/dynamic-streams-projector-go/projection"
)

// observability bundles the optional observability collaborators shared by Connector and CatchUp.
type observability struct {
	logger           projection.Logger
	contextualLogger projection.ContextualLogger
	metricsCollector projection.MetricsCollector
	tracingCollector projection.TracingCollector
}

// ConnectorOption defines a functional option for configuring a Connector.
type ConnectorOption func(*Connector) error

// WithName sets the projection name, used as executor name in logs, metrics, and spans.
func WithName(name string) ConnectorOption {
	return func(c *Connector) error {
		if name == "" {
			return projection.ErrEmptyExecutorName
		}

		c.name = name

		return nil
	}
}

// WithLogger sets the logger for the Connector.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL commands with execution timing (development use)
// Info level: sequence summaries with outcome and duration (production-safe)
// Error level: failed SQL commands.
func WithLogger(logger projection.Logger) ConnectorOption {
	return func(c *Connector) error {
		c.obs.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Connector.
func WithContextualLogger(logger projection.ContextualLogger) ConnectorOption {
	return func(c *Connector) error {
		c.obs.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Connector.
// It receives command durations and failures as well as the sequence metrics of the executor.
func WithMetrics(collector projection.MetricsCollector) ConnectorOption {
	return func(c *Connector) error {
		c.obs.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Connector, one span per executed sequence.
func WithTracing(collector projection.TracingCollector) ConnectorOption {
	return func(c *Connector) error {
		c.obs.tracingCollector = collector
		return nil
	}
}

// EventSourceOption defines a functional option for configuring an EventSource.
type EventSourceOption func(*EventSource) error

// WithEventTableName sets the name of the events table, "events" by default.
func WithEventTableName(tableName string) EventSourceOption {
	return func(es *EventSource) error {
		if tableName == "" {
			return ErrEmptyTableName
		}

		es.tableName = tableName

		return nil
	}
}

// WithBatchSize sets how many events are read per query, 500 by default.
func WithBatchSize(size uint) EventSourceOption {
	return func(es *EventSource) error {
		if size == 0 {
			return ErrInvalidBatchSize
		}

		es.batchSize = size

		return nil
	}
}

// CheckpointStoreOption defines a functional option for configuring a CheckpointStore.
type CheckpointStoreOption func(*CheckpointStore) error

// WithCheckpointTableName sets the name of the checkpoint table, "projection_checkpoints" by default.
func WithCheckpointTableName(tableName string) CheckpointStoreOption {
	return func(cs *CheckpointStore) error {
		if tableName == "" {
			return ErrEmptyTableName
		}

		cs.tableName = tableName

		return nil
	}
}

// CatchUpOption defines a functional option for configuring a CatchUp runner.
type CatchUpOption func(*CatchUp) error

// WithCatchUpLogger sets the logger for the CatchUp runner.
//
// Debug level: skipped events of unknown type
// Info level: one summary per processed batch and per run.
func WithCatchUpLogger(logger projection.Logger) CatchUpOption {
	return func(cu *CatchUp) error {
		cu.logger = logger
		return nil
	}
}

// WithPollInterval sets how long Follow waits before polling again once the projection caught up, 1s by default.
func WithPollInterval(interval time.Duration) CatchUpOption {
	return func(cu *CatchUp) error {
		if interval <= 0 {
			return ErrInvalidPollInterval
		}

		cu.pollInterval = interval

		return nil
	}
}
