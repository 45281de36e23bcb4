// Package trace captures a parser's step-by-step trace (package parse) into
// a log that can be exported and re-imported as a binary blob, for
// after-the-fact inspection or cross-process shipping of a parse's
// diagnostic history (§4.2 supplemental tracing). Binary encoding uses
// dekarrin/rezi, the same library the teacher uses to serialize its own
// game.State and tunascript AST values to and from SQLite BLOB columns.
package trace

import (
	"github.com/dekarrin/rezi"

	"github.com/ashgrove/formulang/internal/parse"
)

// Entry is one recorded parser step, flattened from parse.TraceEvent into a
// plain, rezi-encodable shape.
type Entry struct {
	Step       int
	Type       int
	State      int
	Lookahead  string
	Production int
	Stack      []int
}

func fromEvent(e parse.TraceEvent) Entry {
	return Entry{
		Step: e.Step, Type: int(e.Type), State: e.State,
		Lookahead: e.Lookahead, Production: e.Production,
		Stack: append([]int{}, e.Stack...),
	}
}

// Log is an ordered capture of one parse's trace events.
type Log struct {
	Entries []Entry
}

// Listener returns a parse.TraceListener that appends every event it
// receives onto l, for use with Parser.RegisterTraceListener.
func (l *Log) Listener() parse.TraceListener {
	return func(e parse.TraceEvent) {
		l.Entries = append(l.Entries, fromEvent(e))
	}
}

// Encode serializes l to its binary form.
func Encode(l *Log) []byte {
	return rezi.EncBinary(l)
}

// Decode parses a binary blob produced by Encode back into a Log.
func Decode(data []byte) (*Log, error) {
	l := &Log{}
	if _, err := rezi.DecBinary(data, l); err != nil {
		return nil, err
	}
	return l, nil
}
