// Package sqlengine connects projections to SQL databases.
//
// Projections produce Commands, SQL statements with bind arguments, which a Connector materializes
// into operations and runs with the sequential executor of package projection:
//
//	db, _ := sqlengine.NewDatabaseFromPGXPool(pool)
//	commands := db.Commands()
//
//	b, _ := projection.NewBuilder[sqlengine.Command]().With(
//		projection.On(func(e OrderPlaced) sqlengine.Command {
//			return commands.Insert("orders", goqu.Record{"order_id": e.OrderID, "status": "placed"})
//		}),
//	)
//
//	connector, _ := sqlengine.NewConnector(db, b.Build(), sqlengine.WithName("orders"))
//	err := connector.Project(ctx, OrderPlaced{OrderID: "o-1"})
//
// For projections fed from the events table of the dynamic-streams event store, EventSource reads
// stored events in sequence order, Decoder turns them into typed messages, CheckpointStore remembers
// how far a projection got, and CatchUp combines all of them into a restartable runner.
//
// Database connections can be pgx.Pool, sql.DB, or sqlx.DB. SQL is rendered with goqu for
// PostgreSQL (default) or SQLite, see WithDialect.
package sqlengine
