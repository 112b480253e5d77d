// Package conversation defines the turn data model and the append-only log
// shared by every node of a run.
//
// A Log is owned by exactly one run for its whole lifetime. Nodes receive a
// read view via Turns, Latest or First and hand new turns back to the
// orchestrator to append; nothing mutates a turn in place and nothing is
// ever deleted.
package conversation

// Log is an ordered, append-only sequence of turns.
//
// Log is not safe for concurrent use. The orchestrator owns it exclusively
// and runs nodes sequentially, so no locking is required.
type Log struct {
	turns []Turn
}

// NewLog creates a log seeded with the given turns, typically an optional
// system priming turn followed by the user's question.
func NewLog(seed ...Turn) *Log {
	l := &Log{}
	l.Append(seed...)
	return l
}

// Append adds one or more turns, preserving order.
func (l *Log) Append(turns ...Turn) {
	l.turns = append(l.turns, turns...)
}

// Len returns the number of turns in the log.
func (l *Log) Len() int {
	return len(l.turns)
}

// Latest returns the last turn. The zero Turn is returned for an empty log.
func (l *Log) Latest() Turn {
	if len(l.turns) == 0 {
		return Turn{}
	}
	return l.turns[len(l.turns)-1]
}

// First returns the seed turn: the original user question, regardless of how
// many rewrite cycles have occurred since. A leading system priming turn is
// skipped. The zero Turn is returned when no user turn exists.
func (l *Log) First() Turn {
	for _, t := range l.turns {
		if t.Role == RoleUser {
			return t
		}
	}
	return Turn{}
}

// Turns returns a copy of the turn sequence. Mutating the returned slice
// does not affect the log.
func (l *Log) Turns() []Turn {
	cp := make([]Turn, len(l.turns))
	copy(cp, l.turns)
	return cp
}

// Filtered returns the turns whose role is accepted by keep, preserving
// order. Used to build the model-facing view that excludes system priming
// turns while the full log stays intact for audit.
func (l *Log) Filtered(keep func(Role) bool) []Turn {
	out := make([]Turn, 0, len(l.turns))
	for _, t := range l.turns {
		if keep(t.Role) {
			out = append(out, t)
		}
	}
	return out
}
