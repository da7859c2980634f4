package sqlengine

import (
	"context"
	"errors"
	"iter"
	"slices"
	"time"

	"github.com/AntonStoeckl/dynamic-streams-projector-go/projection"
)

const defaultProjectionName = "default"

// Connector projects messages into a SQL database.
//
// It resolves messages with a projection.Table of Commands, materializes every Command into an
// Operation executing it on the Database, and runs the resulting sequence with a projection.Executor.
// Commands of one message, or of one batch of messages, are executed strictly in order and the
// first failing Command stops the sequence.
//
// Connector does not open transactions. Commands run with the auto-commit semantics of the connection.
type Connector struct {
	db       Database
	table    projection.Table[Command]
	name     string
	obs      observability
	executor projection.Executor
}

// NewConnector creates a Connector for the given Database and dispatch table with optional configuration.
func NewConnector(db Database, table projection.Table[Command], options ...ConnectorOption) (Connector, error) {
	if db.isZero() {
		return Connector{}, ErrNilDatabaseConnection
	}

	c := Connector{
		db:    db,
		table: table,
		name:  defaultProjectionName,
	}

	for _, option := range options {
		if err := option(&c); err != nil {
			return Connector{}, err
		}
	}

	executor, err := projection.NewExecutor(
		projection.WithName(c.name),
		projection.WithLogger(c.obs.logger),
		projection.WithContextualLogger(c.obs.contextualLogger),
		projection.WithMetrics(c.obs.metricsCollector),
		projection.WithTracing(c.obs.tracingCollector),
	)
	if err != nil {
		return Connector{}, err
	}

	c.executor = executor

	return c, nil
}

// Name returns the projection name.
func (c Connector) Name() string {
	return c.name
}

// Commands returns a CommandBuilder for the dialect of the underlying Database.
func (c Connector) Commands() CommandBuilder {
	return c.db.Commands()
}

// Operation materializes command into an Operation executing it. It satisfies projection.Materializer.
// A Command that failed to build is rejected with its build error.
func (c Connector) Operation(command Command) (projection.Operation, error) {
	if err := command.Err(); err != nil {
		return nil, err
	}

	return func(ctx context.Context) error {
		return c.execute(ctx, command)
	}, nil
}

// Execute runs the given commands in order and returns immediately.
func (c Connector) Execute(ctx context.Context, commands ...Command) *projection.Completion {
	return c.run(ctx, slices.Values(commands))
}

// ProjectAsync resolves message and runs its commands in order. It returns immediately.
// A message without a handler completes without executing anything.
func (c Connector) ProjectAsync(ctx context.Context, message any) *projection.Completion {
	return c.run(ctx, c.table.Resolve(message).All())
}

// Project resolves message, runs its commands in order, and blocks until they finished.
func (c Connector) Project(ctx context.Context, message any) error {
	return c.ProjectAsync(ctx, message).Wait(context.WithoutCancel(ctx))
}

// ProjectAll runs the commands of all messages as one sequence, message after message.
// Messages are resolved lazily while the sequence advances.
func (c Connector) ProjectAll(ctx context.Context, messages iter.Seq[any]) *projection.Completion {
	if messages == nil {
		messages = func(func(any) bool) {}
	}

	return c.run(ctx, c.table.ResolveAll(messages))
}

// run executes commands followed by the trailing operations as one sequence.
func (c Connector) run(
	ctx context.Context,
	commands iter.Seq[Command],
	trailing ...projection.Operation,
) *projection.Completion {

	materialized := projection.Materialize(commands, c.Operation)

	return c.executor.RunSequential(ctx, func(yield func(projection.Operation, error) bool) {
		for operation, err := range materialized {
			if !yield(operation, err) || err != nil {
				return
			}
		}

		for _, operation := range trailing {
			if !yield(operation, nil) {
				return
			}
		}
	})
}

// execute runs one Command on the database.
func (c Connector) execute(ctx context.Context, command Command) error {
	start := time.Now()
	result, execErr := c.db.exec(ctx, command.text, command.args...)
	duration := time.Since(start)

	if execErr != nil {
		c.logError(ctx, logMsgCommandFailed, execErr, logAttrQuery, command.text)
		c.recordCommandMetrics(ctx, statusError, duration)

		return errors.Join(ErrExecutingCommandFailed, execErr)
	}

	c.logCommandWithDuration(ctx, command.text, result, duration)
	c.recordCommandMetrics(ctx, statusSuccess, duration)

	return nil
}
