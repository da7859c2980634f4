// Package projection provides the core building blocks for projecting domain messages
// into ordered sets of data-mutation commands and for executing those commands strictly
// one after another.
//
// It consists of two independent parts:
//
//   - A type-keyed dispatch mechanism: Builder collects Handler entries, each bound to a
//     concrete message type at the call site, and Build freezes them into an immutable Table.
//     Table.Resolve maps a message to the CommandSet of the first handler registered for its
//     exact runtime type.
//   - A sequential executor: Executor.RunSequential drives a lazily produced sequence of
//     Operation(s) to completion, never running two of them at the same time, and reports
//     exactly one terminal outcome (completed, failed, canceled) through a Completion handle.
//
// The command type is a type parameter, so the package knows nothing about SQL or any other
// store. See the sqlengine package for the SQL implementation.
//
// Common usage pattern:
//
//	builder, err := projection.NewBuilder[sqlengine.Command]().With(
//		projection.On(func(e OrderPlaced) sqlengine.Command {
//			return cb.Insert("orders", goqu.Record{"order_id": e.OrderID.String()})
//		}),
//		projection.OnMany(func(e OrderCancelled) []sqlengine.Command {
//			return []sqlengine.Command{updateStatus(e), insertAuditRow(e)}
//		}),
//	)
//	if err != nil {
//		// handle error
//	}
//
//	table := builder.Build()
//	commands := table.Resolve(message)
//
//	completion := executor.RunSequential(ctx, projection.Materialize(commands.All(), materializer))
//	if err := completion.Wait(ctx); err != nil {
//		// projection.IsCanceled(err) tells a cancellation apart from a failed operation
//	}
package projection
