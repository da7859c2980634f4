package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/dynamic-streams-projector-go/example/orders"
	"github.com/AntonStoeckl/dynamic-streams-projector-go/projection/sqlengine"
)

// SchemaOptions holds flags for the schema command.
type SchemaOptions struct {
	*RootOptions
	WithEvents bool
}

// NewSchemaCommand creates the schema command.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SchemaOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Create the checkpoint table and the orders read model tables",
		Long: `Create the checkpoint table and the tables of the orders read model if they don't exist yet.

With --events the demo events table is created as well, which is handy for SQLite playgrounds.

Examples:
  PROJECTOR_ADAPTER=sqlite projector schema --events
  projector schema`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSchema(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.WithEvents, "events", false, "also create the demo events table")

	return cmd
}

func runSchema(cmd *cobra.Command, opts *SchemaOptions) error {
	ctx := cmd.Context()

	rt, err := openRuntime(ctx, opts.RootOptions, cmd.ErrOrStderr(), defaultProjectionName)
	if err != nil {
		return err
	}
	defer rt.close()

	checkpoints, err := sqlengine.NewCheckpointStore(rt.db, sqlengine.WithCheckpointTableName(rt.cfg.CheckpointTable))
	if err != nil {
		return err
	}

	if err = checkpoints.EnsureSchema(ctx); err != nil {
		return err
	}

	statements := orders.Schema(rt.db.Dialect())
	if opts.WithEvents {
		statements = append(orders.EventsSchema(rt.db.Dialect(), rt.cfg.EventTable), statements...)
	}

	commands := make([]sqlengine.Command, 0, len(statements))
	for _, ddl := range statements {
		commands = append(commands, sqlengine.NewCommand(ddl))
	}

	if err = rt.execute(ctx, commands); err != nil {
		return err
	}

	rt.logger.InfoContext(ctx, "schema: created", "statements", len(commands)+1, "dialect", rt.db.Dialect())
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "schema ready (%s)\n", rt.db.Dialect())

	return err
}
