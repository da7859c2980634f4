package sqlengine

import (
	"context"
	"math"
	"time"

	"github.com/AntonStoeckl/dynamic-streams-projector-go/projection"
	"github.com/AntonStoeckl/dynamic-streams-projector-go/projection/sqlengine/internal/adapters"
)

const (
	logMsgSQLExecuted     = "executed sql for: command"
	logMsgCommandFailed   = "sql command execution failed"
	logAttrError          = "error"
	logAttrQuery          = "query"
	logAttrProjection     = "projection"
	logAttrDurationMS     = "duration_ms"
	logAttrRowsAffected   = "rows_affected"
	metricCommandDuration = "projection_sql_command_duration_seconds"
	metricCommandErrors   = "projection_sql_command_errors_total"
	labelProjection       = "projection"
	labelStatus           = "status"
	statusSuccess         = "success"
	statusError           = "error"
)

// logCommandWithDuration logs an executed SQL command with timing at debug level if a logger is configured.
func (c Connector) logCommandWithDuration(ctx context.Context, query string, result adapters.DBResult, duration time.Duration) {
	if c.obs.logger == nil && c.obs.contextualLogger == nil {
		return
	}

	args := []any{
		logAttrProjection, c.name,
		logAttrDurationMS, toMilliseconds(duration),
		logAttrQuery, query,
	}

	if rowsAffected, err := result.RowsAffected(); err == nil {
		args = append(args, logAttrRowsAffected, rowsAffected)
	}

	if c.obs.logger != nil {
		c.obs.logger.Debug(logMsgSQLExecuted, args...)
	}

	if c.obs.contextualLogger != nil {
		c.obs.contextualLogger.DebugContext(ctx, logMsgSQLExecuted, args...)
	}
}

// logError logs error information at the error level if a logger is configured.
func (c Connector) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrProjection, c.name, logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if c.obs.logger != nil {
		c.obs.logger.Error(message, allArgs...)
	}

	if c.obs.contextualLogger != nil {
		c.obs.contextualLogger.ErrorContext(ctx, message, allArgs...)
	}
}

// recordCommandMetrics records the command duration and, for failures, the error counter.
func (c Connector) recordCommandMetrics(ctx context.Context, status string, duration time.Duration) {
	collector := c.obs.metricsCollector
	if collector == nil {
		return
	}

	labels := map[string]string{
		labelProjection: c.name,
		labelStatus:     status,
	}

	// Use context-aware methods if available
	if contextual, ok := collector.(projection.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metricCommandDuration, duration, labels)
		if status == statusError {
			contextual.IncrementCounterContext(ctx, metricCommandErrors, labels)
		}

		return
	}

	collector.RecordDuration(metricCommandDuration, duration, labels)
	if status == statusError {
		collector.IncrementCounter(metricCommandErrors, labels)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
