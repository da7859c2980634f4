package orders_test

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/AntonStoeckl/dynamic-streams-projector-go/example/orders"
	"github.com/AntonStoeckl/dynamic-streams-projector-go/projection/sqlengine"
	"github.com/AntonStoeckl/dynamic-streams-projector-go/testutil/helper"
	"github.com/AntonStoeckl/dynamic-streams-projector-go/testutil/helper/sqlitewrapper"
)

func Test_Projection_ResolvesCommandsPerEvent(t *testing.T) {
	// setup
	commands, err := sqlengine.NewCommandBuilder(sqlengine.DialectPostgres)
	require.NoError(t, err)

	table, err := Projection(commands)
	require.NoError(t, err)

	orderID := helper.GivenUniqueID(t)
	customerID := helper.GivenUniqueID(t)

	// act
	placed := table.Resolve(BuildOrderPlaced(orderID, customerID, 4200, helper.FakeClock()))
	cancelled := table.Resolve(BuildOrderCancelled(orderID, "customer changed mind", helper.FakeClock()))
	unhandled := table.Resolve("not an order event")

	// assert
	require.Equal(t, 1, placed.Len())
	assert.Contains(t, placed.At(0).Text(), `INSERT INTO "orders"`)

	require.Equal(t, 2, cancelled.Len())
	assert.Contains(t, cancelled.At(0).Text(), `UPDATE "orders"`)
	assert.Contains(t, cancelled.At(1).Text(), `INSERT INTO "order_audit"`)
	assert.Contains(t, cancelled.At(1).Args(), "cancelled: customer changed mind")

	assert.True(t, unhandled.IsEmpty())
}

func Test_Decoder_KnowsBothOrderEvents(t *testing.T) {
	// act
	decoder, err := Decoder()

	// assert
	require.NoError(t, err)
	assert.Equal(t, []string{OrderCancelledEventType, OrderPlacedEventType}, decoder.EventTypes())
}

func Test_DemoHistory_CancelsEveryThirdOrder(t *testing.T) {
	// act
	history, err := DemoHistory(6, helper.FakeClock())

	// assert
	require.NoError(t, err)
	require.Len(t, history, 8)

	var cancelled []OrderCancelled
	for _, event := range history {
		if c, ok := event.(OrderCancelled); ok {
			cancelled = append(cancelled, c)
		}
	}
	require.Len(t, cancelled, 2)
	assert.Equal(t, history[2].(OrderPlaced).OrderID, cancelled[0].OrderID)
	assert.Equal(t, history[2].HasOccurredAt().Add(time.Minute), cancelled[0].HasOccurredAt())
}

func Test_OrdersReadModel_When_DemoHistoryIsCaughtUp(t *testing.T) {
	// setup
	wrapper := sqlitewrapper.CreateWrapperWithTestConfig(t)
	defer wrapper.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := wrapper.GetDatabase()
	givenStatements(t, wrapper, slices.Concat(EventsSchema(db.Dialect(), "events"), Schema(db.Dialect())))

	table, err := Projection(db.Commands())
	require.NoError(t, err)
	connector, err := sqlengine.NewConnector(db, table, sqlengine.WithName("orders"))
	require.NoError(t, err)

	// arrange
	history, err := DemoHistory(5, helper.FakeClock())
	require.NoError(t, err)

	appends := make([]sqlengine.Command, 0, len(history))
	for _, event := range history {
		cmd, appendErr := AppendCommand(db.Commands(), "events", event)
		require.NoError(t, appendErr)
		appends = append(appends, cmd)
	}
	require.NoError(t, connector.Execute(ctx, appends...).Wait(ctx))

	source, err := sqlengine.NewEventSource(db, sqlengine.WithBatchSize(2))
	require.NoError(t, err)
	checkpoints, err := sqlengine.NewCheckpointStore(db)
	require.NoError(t, err)
	require.NoError(t, checkpoints.EnsureSchema(ctx))
	decoder, err := Decoder()
	require.NoError(t, err)

	catchUp, err := sqlengine.NewCatchUp(connector, source, checkpoints, decoder, "orders")
	require.NoError(t, err)

	// act
	result, err := catchUp.Run(ctx)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 6, result.Events)
	assert.Equal(t, sqlengine.Position(6), result.Position)
	assert.Equal(t, 5, helper.CountRows(t, wrapper.GetDB(), OrdersTable))
	assert.Equal(t, 1, helper.CountRows(t, wrapper.GetDB(), OrderAuditTable))

	var cancelledCount int
	err = wrapper.GetDB().QueryRow(`SELECT count(*) FROM orders WHERE status = ?`, StatusCancelled).Scan(&cancelledCount)
	require.NoError(t, err)
	assert.Equal(t, 1, cancelledCount)
}

func givenStatements(t *testing.T, wrapper sqlitewrapper.Wrapper, statements []string) {
	for _, ddl := range statements {
		_, err := wrapper.GetDB().Exec(ddl)
		require.NoError(t, err, "error in arranging test data")
	}
}
