// Package feed defines the granularity model shared by sources, transforms
// and checks: feed types, scopes and filter types.
//
// Feed types have to match exactly; there is no implicit coercion. Scopes
// are ordered and define a minimally accepted scope: a check declaring
// Package scope can be driven by any source at Package scope or above.
package feed

// Type tags the granularity and payload shape of an item flowing through a
// pipeline. The concrete payload per type is documented in internal/repo.
type Type string

const (
	Repo     Type = "repo"
	Category Type = "cat"
	Package  Type = "cat/pkg"
	Version  Type = "cat/pkg-ver"
	Ebuild   Type = "cat/pkg-ver+text"

	// Commit is only used by the fixed-binding commit pipeline; it never
	// participates in transform planning.
	Commit Type = "commit"
)

// Scope is the ordinal granularity level a check or source operates at.
type Scope int

const (
	VersionScope Scope = iota
	PackageScope
	CategoryScope
	RepoScope
)

const MaxScope = RepoScope

func (s Scope) String() string {
	switch s {
	case VersionScope:
		return "version"
	case PackageScope:
		return "package"
	case CategoryScope:
		return "category"
	case RepoScope:
		return "repository"
	}
	return "unknown"
}

// Threshold returns the canonical feed type for a scope.
func (s Scope) Threshold() Type {
	switch s {
	case VersionScope:
		return Version
	case PackageScope:
		return Package
	case CategoryScope:
		return Category
	default:
		return Repo
	}
}

// KnownScopes maps the -S/--scopes option names to scopes, ordered from
// broadest to narrowest for help output.
var KnownScopes = []struct {
	Name  string
	Scope Scope
}{
	{"repo", RepoScope},
	{"cat", CategoryScope},
	{"pkg", PackageScope},
	{"ver", VersionScope},
}

// Filter describes what pre-filtering a source's underlying view already
// applied. Checks may require a specific filter type.
type Filter string

const (
	NoFilter   Filter = "none"
	MaskFilter Filter = "mask"
	GitFilter  Filter = "git"
)

// Normalize maps the zero value to NoFilter, so a check that leaves the
// filter unset means unfiltered rather than an unservable filter type.
func (f Filter) Normalize() Filter {
	if f == "" {
		return NoFilter
	}
	return f
}
