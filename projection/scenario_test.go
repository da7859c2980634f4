package projection_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/AntonStoeckl/dynamic-streams-projector-go/projection"
)

func Test_Scenario_EventsProjectedIntoCommands_AreExecutedInOrder(t *testing.T) {
	// setup
	builder, err := NewBuilder[testCommand]().With(
		On(insertOrder),
		OnMany(cancelOrder),
	)
	require.NoError(t, err)
	table, err := builder.BuildStrict()
	require.NoError(t, err)

	log := &orderLog{}
	materializer := func(command testCommand) (Operation, error) {
		return loggingOperation(log, fmt.Sprintf("%s(%s)", command.name, command.orderID)), nil
	}

	history := messages(
		orderPlaced{orderID: "o-1"},
		orderShipped{orderID: "o-1"}, // not handled by this projection
		orderCancelled{orderID: "o-1", reason: "customer request"},
	)

	// act
	err = ExecuteSequential(context.Background(), Materialize(table.ResolveAll(history), materializer))

	// assert
	require.NoError(t, err)
	assert.Equal(t, []string{
		"InsertOrder(o-1)",
		"UpdateOrderStatus(o-1)",
		"InsertAuditRow(o-1)",
	}, log.all())
}

func Test_Scenario_FailingCommand_StopsTheProjection(t *testing.T) {
	// setup
	builder, err := NewBuilder[testCommand]().With(
		On(insertOrder),
		OnMany(cancelOrder),
	)
	require.NoError(t, err)
	table := builder.Build()

	log := &orderLog{}
	updateErr := fmt.Errorf("order %s not found", "o-2")
	materializer := func(command testCommand) (Operation, error) {
		if command.name == "UpdateOrderStatus" {
			return failingOperation(log, command.name, updateErr), nil
		}

		return loggingOperation(log, command.name), nil
	}

	history := messages(
		orderCancelled{orderID: "o-2"},
		orderPlaced{orderID: "o-3"},
	)

	// act
	completion := RunSequential(context.Background(), Materialize(table.ResolveAll(history), materializer))
	err = waitFor(t, completion)

	// assert
	assert.Same(t, updateErr, err)
	assert.Equal(t, []string{"UpdateOrderStatus"}, log.all())
	assert.Equal(t, 1, completion.Started())
}
