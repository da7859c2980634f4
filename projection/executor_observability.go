package projection

import (
	"context"
	"fmt"
	"math"
	"time"
)

const (
	logMsgOperation         = "projection operation: "
	logMsgSequenceFinished  = "sequence finished"
	logMsgOperationExecuted = "operation executed"
	logAttrExecutor         = "executor"
	logAttrOutcome          = "outcome"
	logAttrOperationCount   = "operation_count"
	logAttrOperationIndex   = "operation_index"
	logAttrDurationMS       = "duration_ms"
	spanNameRunSequential   = "projection.run_sequential"
	spanAttrExecutor        = "executor"
	spanAttrOperationCount  = "operation_count"
	spanAttrDurationMS      = "duration_ms"
	metricSequenceDuration  = "projection_sequence_duration_seconds"
	metricSequencesTotal    = "projection_sequences_total"
	metricOperationsStarted = "projection_operations_started"
	labelExecutor           = "executor"
	labelOutcome            = "outcome"
)

// sequenceTracingObserver encapsulates the span lifecycle of one sequence run.
type sequenceTracingObserver struct {
	e    Executor
	span SpanContext
}

func (e Executor) startSequenceTracing(ctx context.Context) (*sequenceTracingObserver, context.Context) {
	observer := &sequenceTracingObserver{e: e}

	if e.tracingCollector == nil {
		return observer, ctx
	}

	newCtx, span := e.tracingCollector.StartSpan(ctx, spanNameRunSequential, map[string]string{
		spanAttrExecutor: e.name,
	})
	observer.span = span

	return observer, newCtx
}

func (o *sequenceTracingObserver) finish(outcome Outcome, started int, duration time.Duration) {
	if o.span == nil {
		return
	}

	attrs := map[string]string{
		spanAttrOperationCount: fmt.Sprintf("%d", started),
		spanAttrDurationMS:     fmt.Sprintf("%.2f", toMilliseconds(duration)),
	}

	o.span.SetStatus(outcome.String())
	for key, value := range attrs {
		o.span.AddAttribute(key, value)
	}

	o.e.tracingCollector.FinishSpan(o.span, outcome.String(), attrs)
}

// sequenceMetricsObserver encapsulates the metrics collection of one sequence run.
type sequenceMetricsObserver struct {
	e   Executor
	ctx context.Context
}

func (e Executor) startSequenceMetrics(ctx context.Context) *sequenceMetricsObserver {
	return &sequenceMetricsObserver{e: e, ctx: ctx}
}

func (o *sequenceMetricsObserver) record(outcome Outcome, started int, duration time.Duration) {
	collector := o.e.metricsCollector
	if collector == nil {
		return
	}

	labels := map[string]string{
		labelExecutor: o.e.name,
		labelOutcome:  outcome.String(),
	}

	// Use context-aware methods if available
	if contextual, ok := collector.(ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(o.ctx, metricSequenceDuration, duration, labels)
		contextual.IncrementCounterContext(o.ctx, metricSequencesTotal, labels)
		contextual.RecordValueContext(o.ctx, metricOperationsStarted, float64(started), labels)

		return
	}

	collector.RecordDuration(metricSequenceDuration, duration, labels)
	collector.IncrementCounter(metricSequencesTotal, labels)
	collector.RecordValue(metricOperationsStarted, float64(started), labels)
}

// logSequenceFinished logs the sequence summary at info level to all configured loggers.
func (e Executor) logSequenceFinished(ctx context.Context, outcome Outcome, started int, duration time.Duration) {
	args := []any{
		logAttrExecutor, e.name,
		logAttrOutcome, outcome.String(),
		logAttrOperationCount, started,
		logAttrDurationMS, toMilliseconds(duration),
	}

	if e.logger != nil {
		e.logger.Info(logMsgOperation+logMsgSequenceFinished, args...)
	}

	if e.contextualLogger != nil {
		e.contextualLogger.InfoContext(ctx, logMsgOperation+logMsgSequenceFinished, args...)
	}
}

// logOperationExecuted logs one executed operation at debug level to all configured loggers.
func (e Executor) logOperationExecuted(ctx context.Context, index int64, duration time.Duration) {
	if e.logger == nil && e.contextualLogger == nil {
		return
	}

	args := []any{
		logAttrExecutor, e.name,
		logAttrOperationIndex, index,
		logAttrDurationMS, toMilliseconds(duration),
	}

	if e.logger != nil {
		e.logger.Debug(logMsgOperation+logMsgOperationExecuted, args...)
	}

	if e.contextualLogger != nil {
		e.contextualLogger.DebugContext(ctx, logMsgOperation+logMsgOperationExecuted, args...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
