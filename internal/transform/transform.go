// Package transform defines the conversion stages that connect a source's
// native feed type to the feed types checks consume.
package transform

import (
	"pkgscan/internal/feed"
	"pkgscan/internal/pipeline"
)

// Transform is a pure conversion stage from one feed type to another. It is
// valid only when driven by a source whose scope is at least Scope; Cost is
// added once per pipeline that uses it. Wrap builds the execution adapter
// forwarding converted items to a child stage.
type Transform interface {
	ID() string
	From() feed.Type
	To() feed.Type
	Scope() feed.Scope
	Cost() int
	Wrap(child pipeline.Stage) pipeline.Stage
}

// Defaults returns the standard transform set.
func Defaults() []Transform {
	return []Transform{
		VersionToEbuild{},
		EbuildToVersion{},
		VersionToPackage{},
		VersionToCategory{},
		PackageToCategory{},
		PackageToRepo{},
		CategoryToRepo{},
	}
}
