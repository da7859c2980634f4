package sqlengine_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/AntonStoeckl/dynamic-streams-projector-go/projection/sqlengine"
	"github.com/AntonStoeckl/dynamic-streams-projector-go/testutil/helper"
	"github.com/AntonStoeckl/dynamic-streams-projector-go/testutil/helper/sqlitewrapper"
)

func givenOrdersWerePlaced(t testing.TB, wrapper sqlitewrapper.Wrapper, count int) {
	fakeClock := helper.FakeClock()

	for i := 1; i <= count; i++ {
		fakeClock = fakeClock.Add(time.Second)
		helper.GivenEventWasAppended(t, wrapper.GetDB(), orderPlacedEventType, fakeClock, orderPlaced{
			OrderID:  fmt.Sprintf("o-%d", i),
			Customer: "c-1",
		})
	}
}

func Test_EventSource_ReadAfter_ReturnsEventsInSequenceOrder(t *testing.T) {
	// setup
	wrapper := sqlitewrapper.CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	givenOrdersWerePlaced(t, wrapper, 5)

	source, err := NewEventSource(wrapper.GetDatabase())
	require.NoError(t, err)

	// act
	events, err := source.ReadAfter(context.Background(), 2, 2)

	// assert
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, Position(3), events[0].Position)
	assert.Equal(t, Position(4), events[1].Position)
	assert.Equal(t, orderPlacedEventType, events[0].EventType)
	assert.JSONEq(t, `{"OrderID":"o-3","Customer":"c-1"}`, string(events[0].PayloadJSON))
	assert.JSONEq(t, `{}`, string(events[0].MetadataJSON))
	assert.True(t, events[0].OccurredAt.Equal(helper.FakeClock().Add(3*time.Second)))
}

func Test_EventSource_ReadAfter_PastTheEnd_ReturnsNothing(t *testing.T) {
	// setup
	wrapper := sqlitewrapper.CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	givenOrdersWerePlaced(t, wrapper, 2)

	source, err := NewEventSource(wrapper.GetDatabase())
	require.NoError(t, err)

	// act
	events, err := source.ReadAfter(context.Background(), 2, 0)

	// assert
	require.NoError(t, err)
	assert.Empty(t, events)
}

func Test_EventSource_Events_PagesThroughAllEvents(t *testing.T) {
	// setup
	wrapper := sqlitewrapper.CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	givenOrdersWerePlaced(t, wrapper, 5)

	source, err := NewEventSource(wrapper.GetDatabase(), WithBatchSize(2))
	require.NoError(t, err)

	// act
	var positions []Position
	for event, readErr := range source.Events(context.Background(), 1) {
		require.NoError(t, readErr)
		positions = append(positions, event.Position)
	}

	// assert
	assert.Equal(t, []Position{2, 3, 4, 5}, positions)
}

func Test_EventSource_Events_YieldsQueryErrors(t *testing.T) {
	// setup
	wrapper := sqlitewrapper.CreateWrapperWithTestConfig(t)
	defer wrapper.Close()

	source, err := NewEventSource(wrapper.GetDatabase(), WithEventTableName("missing_events"))
	require.NoError(t, err)

	// act
	var errs []error
	for _, readErr := range source.Events(context.Background(), 0) {
		errs = append(errs, readErr)
	}

	// assert
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrQueryingEventsFailed)
}

func Test_NewEventSource_Validation(t *testing.T) {
	// setup
	wrapper := sqlitewrapper.CreateWrapperWithTestConfig(t)
	defer wrapper.Close()

	// act
	_, emptyTableErr := NewEventSource(wrapper.GetDatabase(), WithEventTableName(""))
	_, zeroBatchErr := NewEventSource(wrapper.GetDatabase(), WithBatchSize(0))
	_, nilDBErr := NewEventSource(Database{})

	// assert
	assert.ErrorIs(t, emptyTableErr, ErrEmptyTableName)
	assert.ErrorIs(t, zeroBatchErr, ErrInvalidBatchSize)
	assert.ErrorIs(t, nilDBErr, ErrNilDatabaseConnection)
}
