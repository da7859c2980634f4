package sqlengine

import "context"

// ConsistencyLevel defines which database a read may be served from when a replica is configured.
type ConsistencyLevel int

const (
	// StrongConsistency reads from the primary database. This is the default, so checkpoints
	// are always read where they were written.
	StrongConsistency ConsistencyLevel = iota

	// EventualConsistency allows reads from the replica database, the event source reads events this way.
	EventualConsistency
)

// contextKey is a private type to prevent context key collisions.
type contextKey string

// ConsistencyLevelKey is the context key used to store consistency level preferences.
const ConsistencyLevelKey contextKey = "sqlengine.consistency_level"

// WithStrongConsistency returns a context that routes reads to the primary database.
func WithStrongConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, StrongConsistency)
}

// WithEventualConsistency returns a context that allows reads from the replica database.
//
// Example usage:
//
//	ctx = sqlengine.WithEventualConsistency(ctx)
//	events, err := source.ReadAfter(ctx, position, 0)
func WithEventualConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, EventualConsistency)
}

// GetConsistencyLevel extracts the consistency level from the context, StrongConsistency if none is set.
func GetConsistencyLevel(ctx context.Context) ConsistencyLevel {
	if level, ok := ctx.Value(ConsistencyLevelKey).(ConsistencyLevel); ok {
		return level
	}

	return StrongConsistency
}

// String provides a string representation of ConsistencyLevel for logging and debugging.
func (c ConsistencyLevel) String() string {
	switch c {
	case StrongConsistency:
		return "strong"
	case EventualConsistency:
		return "eventual"
	default:
		return "unknown"
	}
}

// readsFromReplica is the routing rule handed to adapters with a replica.
func readsFromReplica(ctx context.Context) bool {
	return GetConsistencyLevel(ctx) == EventualConsistency
}
