package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/dynamic-streams-projector-go/example/orders"
	"github.com/AntonStoeckl/dynamic-streams-projector-go/projection/sqlengine"
)

// AppendDemoOptions holds flags for the append-demo command.
type AppendDemoOptions struct {
	*RootOptions
	Orders int
}

// NewAppendDemoCommand creates the append-demo command.
func NewAppendDemoCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AppendDemoOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "append-demo",
		Short: "Append generated order events to the events table",
		Long: `Append a generated order history to the events table: every order is placed,
every third order is cancelled a minute later.

Examples:
  projector append-demo --orders 100`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAppendDemo(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Orders, "orders", 10, "number of orders to place")

	return cmd
}

func runAppendDemo(cmd *cobra.Command, opts *AppendDemoOptions) error {
	if opts.Orders <= 0 {
		return errors.New("--orders must be greater than zero")
	}

	ctx := cmd.Context()

	rt, err := openRuntime(ctx, opts.RootOptions, cmd.ErrOrStderr(), defaultProjectionName)
	if err != nil {
		return err
	}
	defer rt.close()

	history, err := orders.DemoHistory(opts.Orders, time.Now().UTC())
	if err != nil {
		return err
	}

	commands := make([]sqlengine.Command, 0, len(history))
	for _, event := range history {
		command, appendErr := orders.AppendCommand(rt.db.Commands(), rt.cfg.EventTable, event)
		if appendErr != nil {
			return appendErr
		}

		commands = append(commands, command)
	}

	if err = rt.execute(ctx, commands); err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "appended %d events\n", len(commands))

	return err
}
