// Package spies provides test doubles that capture logging, metrics, and tracing calls
// made by the projection executor and the sqlengine components.
//
// All spies are safe for concurrent use, sequences report from their own goroutines.
package spies
