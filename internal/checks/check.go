package checks

import (
	"pkgscan/internal/feed"
	"pkgscan/internal/repo"
	"pkgscan/internal/result"
)

// Spec declares the binding requirements of a check: the feed type it
// consumes, the minimum scope it may run at, the filtering it expects its
// source to have applied, and a priority ordering sibling checks under the
// same runner (lower runs first).
type Spec struct {
	Feed     feed.Type
	Scope    feed.Scope
	Filter   feed.Filter
	Priority int
}

// Check is a terminal consumer of feed items.
//
// Start, Feed and Finish each return a finite batch of results; Feed is
// called once per item routed to the check. A *repo.MetadataError returned
// from any of the three is treated as recoverable by the runner; any other
// error aborts the run.
type Check interface {
	ID() string
	Title() string
	Description() string

	Spec() Spec

	Start() ([]result.Result, error)
	Feed(item any) ([]result.Result, error)
	Finish() ([]result.Result, error)
}

// RepoAware checks receive the target repository before the scan starts.
type RepoAware interface {
	SetRepo(r *repo.Repository)
}

// Base provides no-op lifecycle defaults for checks that only implement Feed.
type Base struct{}

func (Base) Start() ([]result.Result, error)  { return nil, nil }
func (Base) Finish() ([]result.Result, error) { return nil, nil }
