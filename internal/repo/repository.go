package repo

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"pkgscan/internal/feed"
)

// buildExt is the extension of package build files.
const buildExt = ".build"

// skipDirs are top-level entries that never contain categories.
var skipDirs = map[string]struct{}{
	"metadata": {},
	"profiles": {},
	"files":    {},
}

// Repository is an on-disk package tree laid out as
// <category>/<package>/<package>-<version>.build.
type Repository struct {
	root string
}

func Open(root string) (*Repository, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve repository path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("repository path %s is not a directory", abs)
	}
	return &Repository{root: abs}, nil
}

func (r *Repository) Root() string {
	return r.root
}

// Categories lists category directories in sorted order.
func (r *Repository) Categories() ([]string, error) {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		return nil, fmt.Errorf("read repository root: %w", err)
	}
	var cats []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if _, skip := skipDirs[name]; skip {
			continue
		}
		cats = append(cats, name)
	}
	sort.Strings(cats)
	return cats, nil
}

// PackageNames lists package directories of a category in sorted order.
func (r *Repository) PackageNames(category string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(r.root, category))
	if err != nil {
		return nil, fmt.Errorf("read category %s: %w", category, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Versions returns all versions of a package, sorted by version order.
func (r *Repository) Versions(category, name string) ([]*Package, error) {
	dir := filepath.Join(r.root, category, name)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read package %s/%s: %w", category, name, err)
	}
	var pkgs []*Package
	for _, e := range entries {
		fname := e.Name()
		if e.IsDir() || !strings.HasSuffix(fname, buildExt) {
			continue
		}
		pv := strings.TrimSuffix(fname, buildExt)
		if !strings.HasPrefix(pv, name+"-") {
			continue
		}
		_, version, ok := splitPV(pv)
		if !ok {
			return nil, fmt.Errorf("malformed build file name %s in %s/%s", fname, category, name)
		}
		pkgs = append(pkgs, &Package{
			Category: category,
			Name:     name,
			Version:  version,
			Path:     filepath.Join(dir, fname),
		})
	}
	sort.Slice(pkgs, func(i, j int) bool {
		return CompareVersions(pkgs[i].Version, pkgs[j].Version) < 0
	})
	return pkgs, nil
}

// FilesDir returns the path of a package's files/ directory.
func (r *Repository) FilesDir(category, name string) string {
	return filepath.Join(r.root, category, name, "files")
}

// MaskedAtoms reads profiles/package.mask and returns the set of masked
// category/package atoms. A missing mask file is an empty set.
func (r *Repository) MaskedAtoms() (map[string]struct{}, error) {
	path := filepath.Join(r.root, "profiles", "package.mask")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]struct{}{}, nil
		}
		return nil, fmt.Errorf("read package.mask: %w", err)
	}
	defer f.Close()

	masked := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		masked[line] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read package.mask: %w", err)
	}
	return masked, nil
}

// Restrict narrows a repository walk to a category, package or version.
// The zero value matches the whole repository.
type Restrict struct {
	Category string
	Package  string
	Version  string
}

// ParseRestrict parses "", "cat", "cat/pkg" or "cat/pkg-ver".
func ParseRestrict(s string) (Restrict, error) {
	if s == "" {
		return Restrict{}, nil
	}
	cat, rest, ok := strings.Cut(s, "/")
	if cat == "" || (ok && rest == "") {
		return Restrict{}, fmt.Errorf("invalid target %q", s)
	}
	if !ok {
		return Restrict{Category: cat}, nil
	}
	if name, version, found := splitPV(rest); found {
		return Restrict{Category: cat, Package: name, Version: version}, nil
	}
	return Restrict{Category: cat, Package: rest}, nil
}

// Scope returns the narrowest scope the restriction pins the walk to,
// mirroring how a restricted source reports its own scope.
func (t Restrict) Scope() feed.Scope {
	switch {
	case t.Version != "":
		return feed.VersionScope
	case t.Package != "":
		return feed.PackageScope
	case t.Category != "":
		return feed.CategoryScope
	}
	return feed.RepoScope
}

// PackageIter walks a repository in sorted (category, package, version)
// order, one directory level at a time.
type PackageIter struct {
	repo     *Repository
	restrict Restrict
	masked   map[string]struct{}

	cats    []string
	names   []string
	pending []*Package
	catIdx  int
	nameIdx int
	started bool
	err     error
}

// Iter returns an iterator over the repository limited by the restriction.
// If masked is non-nil, packages whose atom appears in the set are skipped.
func (r *Repository) Iter(restrict Restrict, masked map[string]struct{}) *PackageIter {
	return &PackageIter{repo: r, restrict: restrict, masked: masked}
}

// Next returns the next package, or false when the walk is exhausted or
// failed. Err reports the failure after exhaustion.
func (it *PackageIter) Next() (*Package, bool) {
	if it.err != nil {
		return nil, false
	}
	if !it.started {
		it.started = true
		if err := it.loadCategories(); err != nil {
			it.err = err
			return nil, false
		}
	}

	for {
		if len(it.pending) > 0 {
			pkg := it.pending[0]
			it.pending = it.pending[1:]
			return pkg, true
		}
		if it.names == nil {
			if it.catIdx >= len(it.cats) {
				return nil, false
			}
			names, err := it.repo.PackageNames(it.cats[it.catIdx])
			if err != nil {
				it.err = err
				return nil, false
			}
			it.names = names
			it.nameIdx = 0
		}
		if it.nameIdx >= len(it.names) {
			it.names = nil
			it.catIdx++
			continue
		}
		cat := it.cats[it.catIdx]
		name := it.names[it.nameIdx]
		it.nameIdx++
		if it.restrict.Package != "" && name != it.restrict.Package {
			continue
		}
		if it.masked != nil {
			if _, ok := it.masked[cat+"/"+name]; ok {
				continue
			}
		}
		pkgs, err := it.repo.Versions(cat, name)
		if err != nil {
			it.err = err
			return nil, false
		}
		if it.restrict.Version != "" {
			filtered := pkgs[:0]
			for _, p := range pkgs {
				if p.Version == it.restrict.Version {
					filtered = append(filtered, p)
				}
			}
			pkgs = filtered
		}
		it.pending = pkgs
	}
}

func (it *PackageIter) Err() error {
	return it.err
}

func (it *PackageIter) loadCategories() error {
	if it.restrict.Category != "" {
		if _, err := os.Stat(filepath.Join(it.repo.root, it.restrict.Category)); err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return fmt.Errorf("read category %s: %w", it.restrict.Category, err)
		}
		it.cats = []string{it.restrict.Category}
		return nil
	}
	cats, err := it.repo.Categories()
	if err != nil {
		return err
	}
	it.cats = cats
	return nil
}
