package projection_test

import (
	"iter"
	"slices"
)

type orderPlaced struct {
	orderID string
}

type orderCancelled struct {
	orderID string
	reason  string
}

type orderShipped struct {
	orderID string
}

type orderEvent interface {
	id() string
}

func (e orderPlaced) id() string { return e.orderID }

type testCommand struct {
	name    string
	orderID string
}

func insertOrder(e orderPlaced) testCommand {
	return testCommand{name: "InsertOrder", orderID: e.orderID}
}

func cancelOrder(e orderCancelled) []testCommand {
	return []testCommand{
		{name: "UpdateOrderStatus", orderID: e.orderID},
		{name: "InsertAuditRow", orderID: e.orderID},
	}
}

func names(commands iter.Seq[testCommand]) []string {
	var result []string
	for command := range commands {
		result = append(result, command.name)
	}

	return result
}

func messages(msgs ...any) iter.Seq[any] {
	return slices.Values(msgs)
}
