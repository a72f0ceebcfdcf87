// Package pipeline contains the execution side of a scan: check runners,
// the interleaved merge over source streams, and the drivers that hold an
// assembled run together.
//
// Execution is cooperative and single-threaded: producing the next item is
// deferred until the merge asks for it, and each lifecycle call returns a
// finite batch of results consumed exactly once.
package pipeline

import "pkgscan/internal/result"

// Stage is one node of an execution tree: a check, a check runner, or a
// transform adapter wrapping a child stage.
//
// Every stage observes exactly one Start, zero or more Feeds, and exactly
// one Finish, in that order.
type Stage interface {
	Start() ([]result.Result, error)
	Feed(item any) ([]result.Result, error)
	Finish() ([]result.Result, error)
}

// ItemStream is the pull interface over a source's lazy, ordered item
// sequence. Next reports false on exhaustion; Err reports a failure after
// exhaustion, if any.
type ItemStream interface {
	Next() (any, bool)
	Err() error
}
