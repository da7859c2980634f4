package sqlengine_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/AntonStoeckl/dynamic-streams-projector-go/projection/sqlengine"
	"github.com/AntonStoeckl/dynamic-streams-projector-go/testutil/helper"
	"github.com/AntonStoeckl/dynamic-streams-projector-go/testutil/helper/sqlitewrapper"
	"github.com/AntonStoeckl/dynamic-streams-projector-go/testutil/spies"
)

type catchUpFixture struct {
	wrapper     sqlitewrapper.Wrapper
	checkpoints CheckpointStore
	catchUp     CatchUp
	logHandler  *spies.LogHandlerSpy
}

func givenCatchUp(t *testing.T, batchSize uint) catchUpFixture {
	t.Helper()

	ctx := context.Background()
	wrapper := sqlitewrapper.CreateWrapperWithTestConfig(t)
	givenOrdersSchema(t, wrapper.GetDB())

	logHandler := spies.NewLogHandlerSpy(false)
	database := wrapper.GetDatabase()

	connector, err := NewConnector(database, ordersTable(t, database.Commands()), WithName("orders"))
	require.NoError(t, err)

	source, err := NewEventSource(database, WithBatchSize(batchSize))
	require.NoError(t, err)

	checkpoints, err := NewCheckpointStore(database)
	require.NoError(t, err)
	require.NoError(t, checkpoints.EnsureSchema(ctx))

	catchUp, err := NewCatchUp(
		connector,
		source,
		checkpoints,
		ordersDecoder(t),
		"orders",
		WithCatchUpLogger(slog.New(logHandler)),
		WithPollInterval(10*time.Millisecond),
	)
	require.NoError(t, err)

	return catchUpFixture{wrapper: wrapper, checkpoints: checkpoints, catchUp: catchUp, logHandler: logHandler}
}

func givenOrderHistory(t testing.TB, wrapper sqlitewrapper.Wrapper) {
	db := wrapper.GetDB()
	fakeClock := helper.FakeClock()

	helper.GivenEventWasAppended(t, db, orderPlacedEventType, fakeClock, orderPlaced{OrderID: "o-1", Customer: "c-1"})
	helper.GivenEventWasAppended(t, db, orderPlacedEventType, fakeClock, orderPlaced{OrderID: "o-2", Customer: "c-2"})
	helper.GivenEventWasAppended(t, db, orderShippedEventType, fakeClock, orderShipped{OrderID: "o-2"})
	helper.GivenEventWasAppended(t, db, orderCancelledEventType, fakeClock, orderCancelled{OrderID: "o-1", Reason: "duplicate"})
	helper.GivenEventWasAppended(t, db, orderPlacedEventType, fakeClock, orderPlaced{OrderID: "o-3", Customer: "c-1"})
}

func Test_CatchUp_Run_ProjectsAllEvents_AndSavesTheCheckpoint(t *testing.T) {
	// setup
	ctx := context.Background()
	fixture := givenCatchUp(t, 2)
	defer fixture.wrapper.Close()
	db := fixture.wrapper.GetDB()

	// arrange
	givenOrderHistory(t, fixture.wrapper)

	// act
	result, err := fixture.catchUp.Run(ctx)

	// assert
	require.NoError(t, err)
	assert.Equal(t, CatchUpResult{Batches: 3, Events: 5, Skipped: 1, Position: 5}, result)
	assert.Equal(t, "cancelled", orderStatus(t, db, "o-1"))
	assert.Equal(t, "placed", orderStatus(t, db, "o-2"))
	assert.Equal(t, "placed", orderStatus(t, db, "o-3"))
	assert.Equal(t, 1, helper.CountRows(t, db, "order_audit"))

	position, err := fixture.checkpoints.Load(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, Position(5), position)

	assert.Equal(t, 1, fixture.logHandler.CountLogs(slog.LevelDebug, "catch-up: event of unknown type skipped"))
	assert.Equal(t, 3, fixture.logHandler.CountLogs(slog.LevelInfo, "catch-up: batch projected"))
	assert.True(t, fixture.logHandler.HasLog(slog.LevelInfo, "catch-up: caught up"))
}

func Test_CatchUp_Run_ContinuesFromTheCheckpoint(t *testing.T) {
	// setup
	ctx := context.Background()
	fixture := givenCatchUp(t, 10)
	defer fixture.wrapper.Close()
	db := fixture.wrapper.GetDB()

	// arrange
	givenOrderHistory(t, fixture.wrapper)
	_, err := fixture.catchUp.Run(ctx)
	require.NoError(t, err)
	helper.GivenEventWasAppended(t, db, orderCancelledEventType, helper.FakeClock(), orderCancelled{OrderID: "o-3"})

	// act
	result, err := fixture.catchUp.Run(ctx)

	// assert
	require.NoError(t, err)
	assert.Equal(t, CatchUpResult{Batches: 1, Events: 1, Skipped: 0, Position: 6}, result)
	assert.Equal(t, "cancelled", orderStatus(t, db, "o-3"))
	assert.Equal(t, 2, helper.CountRows(t, db, "order_audit"))
}

func Test_CatchUp_Run_WhenCaughtUp_DoesNothing(t *testing.T) {
	// setup
	ctx := context.Background()
	fixture := givenCatchUp(t, 10)
	defer fixture.wrapper.Close()

	// act
	result, err := fixture.catchUp.Run(ctx)

	// assert
	require.NoError(t, err)
	assert.Equal(t, CatchUpResult{}, result)
}

func Test_CatchUp_Run_FailingBatch_KeepsThePreviousCheckpoint(t *testing.T) {
	// setup
	ctx := context.Background()
	fixture := givenCatchUp(t, 2)
	defer fixture.wrapper.Close()
	db := fixture.wrapper.GetDB()

	// arrange
	fakeClock := helper.FakeClock()
	helper.GivenEventWasAppended(t, db, orderPlacedEventType, fakeClock, orderPlaced{OrderID: "o-1", Customer: "c-1"})
	helper.GivenEventWasAppended(t, db, orderPlacedEventType, fakeClock, orderPlaced{OrderID: "o-2", Customer: "c-2"})
	helper.GivenEventWasAppended(t, db, orderPlacedEventType, fakeClock, orderPlaced{OrderID: "o-3", Customer: "c-3"})
	helper.GivenEventWasAppended(t, db, orderPlacedEventType, fakeClock, orderPlaced{OrderID: "o-1", Customer: "c-4"})

	// act
	result, err := fixture.catchUp.Run(ctx)

	// assert
	assert.ErrorIs(t, err, ErrExecutingCommandFailed)
	assert.Equal(t, CatchUpResult{Batches: 1, Events: 2, Skipped: 0, Position: 2}, result)

	position, loadErr := fixture.checkpoints.Load(ctx, "orders")
	require.NoError(t, loadErr)
	assert.Equal(t, Position(2), position)
	assert.Equal(t, 3, helper.CountRows(t, db, "orders"), "commands before the failing one stay applied")
}

func Test_CatchUp_Run_MalformedPayload_Fails(t *testing.T) {
	// setup
	fixture := givenCatchUp(t, 10)
	defer fixture.wrapper.Close()

	// arrange
	helper.GivenRawEventWasAppended(t, fixture.wrapper.GetDB(), orderPlacedEventType, helper.FakeClock(), `{"OrderID": 1}`)

	// act
	_, err := fixture.catchUp.Run(context.Background())

	// assert
	assert.ErrorIs(t, err, ErrDecodingEventFailed)
}

func Test_CatchUp_Follow_ProjectsNewEvents_UntilCanceled(t *testing.T) {
	// setup
	fixture := givenCatchUp(t, 10)
	defer fixture.wrapper.Close()
	db := fixture.wrapper.GetDB()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type followOutcome struct {
		result CatchUpResult
		err    error
	}
	done := make(chan followOutcome, 1)

	// act
	go func() {
		result, err := fixture.catchUp.Follow(ctx)
		done <- followOutcome{result: result, err: err}
	}()

	helper.GivenEventWasAppended(t, db, orderPlacedEventType, helper.FakeClock(), orderPlaced{OrderID: "o-1", Customer: "c-1"})

	assert.Eventually(t, func() bool {
		position, err := fixture.checkpoints.Load(context.Background(), "orders")
		return err == nil && position == 1
	}, 5*time.Second, 10*time.Millisecond)

	cancel()

	// assert
	select {
	case outcome := <-done:
		require.NoError(t, outcome.err)
		assert.Equal(t, 1, outcome.result.Events)
		assert.Equal(t, Position(1), outcome.result.Position)
	case <-time.After(5 * time.Second):
		t.Fatal("Follow did not return after cancellation")
	}
}

func Test_NewCatchUp_Validation(t *testing.T) {
	// setup
	fixture := givenCatchUp(t, 10)
	defer fixture.wrapper.Close()
	database := fixture.wrapper.GetDatabase()

	connector, err := NewConnector(database, ordersTable(t, database.Commands()))
	require.NoError(t, err)
	source, err := NewEventSource(database)
	require.NoError(t, err)

	// act
	_, emptyNameErr := NewCatchUp(connector, source, fixture.checkpoints, ordersDecoder(t), "")
	_, zeroSourceErr := NewCatchUp(connector, EventSource{}, fixture.checkpoints, ordersDecoder(t), "orders")
	_, badIntervalErr := NewCatchUp(connector, source, fixture.checkpoints, ordersDecoder(t), "orders", WithPollInterval(0))

	// assert
	assert.ErrorIs(t, emptyNameErr, ErrEmptyProjectionName)
	assert.ErrorIs(t, zeroSourceErr, ErrNilCollaborator)
	assert.ErrorIs(t, badIntervalErr, ErrInvalidPollInterval)
}
