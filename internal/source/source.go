// Package source defines the physical item sources a scan can draw from.
package source

import (
	"pkgscan/internal/feed"
	"pkgscan/internal/pipeline"
)

// Source emits one lazy, ordered stream of items of exactly one feed type,
// at exactly one scope, tagged with one filter type, and carrying a relative
// cost modeling fetch/compute expense. When multiple sources share
// (scope, feed, filter), planning keeps only the cheapest.
type Source interface {
	ID() string
	Feed() feed.Type
	Scope() feed.Scope
	Filter() feed.Filter
	Cost() int

	// Stream opens the item stream. Each call returns a fresh stream.
	Stream() (pipeline.ItemStream, error)
}
