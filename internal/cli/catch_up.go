package cli

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/dynamic-streams-projector-go/example/orders"
	"github.com/AntonStoeckl/dynamic-streams-projector-go/projection/sqlengine"
)

const defaultProjectionName = "orders"

// CatchUpOptions holds flags for the catch-up command.
type CatchUpOptions struct {
	*RootOptions
	Projection string
	Follow     bool
}

// CatchUpOutput is the JSON shape of the catch-up result.
type CatchUpOutput struct {
	Projection string `json:"projection"`
	Batches    int    `json:"batches"`
	Events     int    `json:"events"`
	Skipped    int    `json:"skipped"`
	Position   uint   `json:"position"`
}

// NewCatchUpCommand creates the catch-up command.
func NewCatchUpCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CatchUpOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "catch-up",
		Short: "Project all events after the saved checkpoint",
		Long: `Read the events after the saved checkpoint batch by batch, project them into the orders read model,
and advance the checkpoint after every batch.

With --follow the command keeps polling for new events until it is interrupted.

Examples:
  projector catch-up
  projector catch-up --follow --log-level debug
  projector catch-up --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCatchUp(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Projection, "projection", defaultProjectionName, "name the checkpoint is saved under")
	cmd.Flags().BoolVar(&opts.Follow, "follow", false, "keep polling for new events until interrupted")

	return cmd
}

func runCatchUp(cmd *cobra.Command, opts *CatchUpOptions) error {
	ctx := cmd.Context()

	rt, err := openRuntime(ctx, opts.RootOptions, cmd.ErrOrStderr(), opts.Projection)
	if err != nil {
		return err
	}
	defer rt.close()

	catchUp, err := newCatchUp(rt, opts.Projection)
	if err != nil {
		return err
	}

	run := catchUp.Run
	if opts.Follow {
		run = catchUp.Follow
	}

	result, err := run(ctx)
	if err != nil {
		return err
	}

	return outputCatchUp(cmd.OutOrStdout(), opts.Format, opts.Projection, result)
}

func newCatchUp(rt *runtime, name string) (sqlengine.CatchUp, error) {
	source, err := sqlengine.NewEventSource(rt.db,
		sqlengine.WithEventTableName(rt.cfg.EventTable),
		sqlengine.WithBatchSize(rt.cfg.BatchSize),
	)
	if err != nil {
		return sqlengine.CatchUp{}, err
	}

	checkpoints, err := sqlengine.NewCheckpointStore(rt.db, sqlengine.WithCheckpointTableName(rt.cfg.CheckpointTable))
	if err != nil {
		return sqlengine.CatchUp{}, err
	}

	decoder, err := orders.Decoder()
	if err != nil {
		return sqlengine.CatchUp{}, err
	}

	return sqlengine.NewCatchUp(rt.connector, source, checkpoints, decoder, name,
		sqlengine.WithCatchUpLogger(rt.logger),
		sqlengine.WithPollInterval(rt.cfg.PollInterval),
	)
}

func outputCatchUp(w io.Writer, format string, name string, result sqlengine.CatchUpResult) error {
	output := CatchUpOutput{
		Projection: name,
		Batches:    result.Batches,
		Events:     result.Events,
		Skipped:    result.Skipped,
		Position:   result.Position,
	}

	if format == "json" {
		encoder := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
		return encoder.Encode(output)
	}

	_, err := fmt.Fprintf(w, "%s: %d events in %d batches (%d skipped), position %d\n",
		output.Projection, output.Events, output.Batches, output.Skipped, output.Position)

	return err
}

