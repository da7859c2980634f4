package projection

import (
	"errors"
)

// ErrEmptyExecutorName is returned when an empty name is supplied to WithName.
var ErrEmptyExecutorName = errors.New("executor name must not be empty")

// ExecutorOption defines a functional option for configuring an Executor.
type ExecutorOption func(*Executor) error

// WithName sets the name used as label in logs, metrics, and spans, e.g. the name of the projection.
func WithName(name string) ExecutorOption {
	return func(e *Executor) error {
		if name == "" {
			return ErrEmptyExecutorName
		}

		e.name = name

		return nil
	}
}

// WithLogger sets the logger for the Executor.
//
// Debug level: every executed operation with its duration (development use)
// Info level: one summary per sequence with outcome, operation count, and duration (production-safe)
//
// Terminal errors are never logged, they are surfaced through the Completion only.
func WithLogger(logger Logger) ExecutorOption {
	return func(e *Executor) error {
		e.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger, which receives the same messages as the Logger,
// correlated with the active trace when tracing is enabled.
func WithContextualLogger(logger ContextualLogger) ExecutorOption {
	return func(e *Executor) error {
		e.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector, which receives sequence durations, outcomes, and operation counts.
func WithMetrics(collector MetricsCollector) ExecutorOption {
	return func(e *Executor) error {
		e.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector, which receives one span per sequence run.
func WithTracing(collector TracingCollector) ExecutorOption {
	return func(e *Executor) error {
		e.tracingCollector = collector
		return nil
	}
}
