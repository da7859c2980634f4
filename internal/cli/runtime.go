package cli

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"

	"github.com/AntonStoeckl/dynamic-streams-projector-go/config"
	"github.com/AntonStoeckl/dynamic-streams-projector-go/example/orders"
	"github.com/AntonStoeckl/dynamic-streams-projector-go/projection/oteladapters"
	"github.com/AntonStoeckl/dynamic-streams-projector-go/projection/sqlengine"
)

// runtime bundles what every command needs: configuration, the open database, and the orders connector.
type runtime struct {
	cfg       config.Config
	db        sqlengine.Database
	connector sqlengine.Connector
	logger    *slog.Logger
	close     func()
}

// openRuntime loads the configuration from the environment and opens the database.
// The connector reports to the global OpenTelemetry providers, which are noop unless the embedding program sets them.
func openRuntime(ctx context.Context, opts *RootOptions, logOutput io.Writer, projectionName string) (*runtime, error) {
	level, err := parseLogLevel(opts.LogLevel)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	db, closeDB, err := cfg.OpenDatabase(ctx)
	if err != nil {
		return nil, err
	}

	table, err := orders.Projection(db.Commands())
	if err != nil {
		closeDB()
		return nil, err
	}

	connector, err := sqlengine.NewConnector(db, table,
		sqlengine.WithName(projectionName),
		sqlengine.WithLogger(logger),
		sqlengine.WithContextualLogger(oteladapters.NewSlogBridgeLogger(cfg.ServiceName)),
		sqlengine.WithMetrics(oteladapters.NewMetricsCollector(otel.Meter(cfg.ServiceName))),
		sqlengine.WithTracing(oteladapters.NewTracingCollector(otel.Tracer(cfg.ServiceName))),
	)
	if err != nil {
		closeDB()
		return nil, err
	}

	return &runtime{
		cfg:       cfg,
		db:        db,
		connector: connector,
		logger:    logger,
		close:     closeDB,
	}, nil
}

// execute runs commands through the connector in one sequence and waits for it.
func (r *runtime) execute(ctx context.Context, commands []sqlengine.Command) error {
	return r.connector.Execute(ctx, commands...).Wait(context.WithoutCancel(ctx))
}
