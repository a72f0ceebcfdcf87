package repo

import (
	"fmt"
	"os"
	"strings"
)

// Package identifies one version of a package in a repository, backed by a
// build file on disk. Packages are ordered by (category, package, version).
type Package struct {
	Category string
	Name     string
	Version  string

	// Path is the absolute path of the package's build file.
	Path string
}

// Key returns the category/package identifier shared by all versions.
func (p *Package) Key() string {
	return p.Category + "/" + p.Name
}

// CPV returns the fully qualified category/package-version identifier.
func (p *Package) CPV() string {
	return p.Key() + "-" + p.Version
}

func (p *Package) String() string {
	return p.CPV()
}

// Lines reads the package's build file and returns its lines. Failures are
// reported as a *MetadataError so runners can treat them as recoverable
// data-quality problems.
func (p *Package) Lines() ([]string, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, &MetadataError{Pkg: p, Attr: "build", Err: err}
	}
	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}

// Compare orders two packages by (category, package, version).
func Compare(a, b *Package) int {
	if c := strings.Compare(a.Category, b.Category); c != 0 {
		return c
	}
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return CompareVersions(a.Version, b.Version)
}

// Ebuild pairs a package with the text of its build file; it is the payload
// of the cat/pkg-ver+text feed.
type Ebuild struct {
	Pkg   *Package
	Lines []string
}

// entity returns the reference package used to order an item: the item
// itself when scalar, the first element when the item is a batch.
func entity(item any) *Package {
	switch v := item.(type) {
	case *Package:
		return v
	case Ebuild:
		return v.Pkg
	case []*Package:
		if len(v) > 0 {
			return v[0]
		}
	case [][]*Package:
		if len(v) > 0 && len(v[0]) > 0 {
			return v[0][0]
		}
	}
	return nil
}

// CompareItems orders two feed items by their reference package. Items
// without a reference package compare equal; the merge breaks such ties by
// pipeline index.
func CompareItems(a, b any) int {
	pa, pb := entity(a), entity(b)
	switch {
	case pa == nil && pb == nil:
		return 0
	case pa == nil:
		return -1
	case pb == nil:
		return 1
	}
	return Compare(pa, pb)
}

// MetadataError marks a recoverable, per-item data-quality failure: the
// item's metadata is malformed, as opposed to the analysis being broken.
type MetadataError struct {
	Pkg  *Package
	Attr string
	Err  error
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("%s: attr(%s): %v", e.Pkg.CPV(), e.Attr, e.Err)
}

func (e *MetadataError) Unwrap() error {
	return e.Err
}
