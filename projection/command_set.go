package projection

import (
	"iter"
	"slices"
)

// CommandSet is the immutable, ordered sequence of commands a projector produced for one message.
//
// The zero value is an empty CommandSet.
type CommandSet[C any] struct {
	commands []C
}

// NewCommandSet creates a CommandSet holding a copy of the given commands.
func NewCommandSet[C any](commands ...C) CommandSet[C] {
	if len(commands) == 0 {
		return CommandSet[C]{}
	}

	return CommandSet[C]{commands: slices.Clone(commands)}
}

// Len returns the number of commands.
func (cs CommandSet[C]) Len() int {
	return len(cs.commands)
}

// IsEmpty reports whether the set contains no commands.
func (cs CommandSet[C]) IsEmpty() bool {
	return len(cs.commands) == 0
}

// At returns the command at position i. It panics if i is out of range, like a slice index.
func (cs CommandSet[C]) At(i int) C {
	return cs.commands[i]
}

// All iterates the commands in order.
func (cs CommandSet[C]) All() iter.Seq[C] {
	return slices.Values(cs.commands)
}

// Slice returns a copy of the commands.
func (cs CommandSet[C]) Slice() []C {
	return slices.Clone(cs.commands)
}

// Concat returns a new CommandSet with the commands of other appended to the ones of cs.
func (cs CommandSet[C]) Concat(other CommandSet[C]) CommandSet[C] {
	if other.IsEmpty() {
		return cs
	}

	if cs.IsEmpty() {
		return other
	}

	return CommandSet[C]{commands: slices.Concat(cs.commands, other.commands)}
}
