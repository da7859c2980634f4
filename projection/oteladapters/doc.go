// Package oteladapters provides OpenTelemetry implementations of the observability interfaces
// of package projection: TracingCollector, MetricsCollector, and ContextualLogger.
//
// They plug into projection.NewExecutor and sqlengine.NewConnector:
//
//	connector, err := sqlengine.NewConnector(db, table,
//		sqlengine.WithTracing(oteladapters.NewTracingCollector(otel.Tracer("projector"))),
//		sqlengine.WithMetrics(oteladapters.NewMetricsCollector(otel.Meter("projector"))),
//		sqlengine.WithContextualLogger(oteladapters.NewSlogBridgeLogger("projector")),
//	)
package oteladapters
