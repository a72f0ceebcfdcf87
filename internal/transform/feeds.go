package transform

import (
	"fmt"

	"pkgscan/internal/feed"
	"pkgscan/internal/pipeline"
	"pkgscan/internal/repo"
	"pkgscan/internal/result"
)

// VersionToEbuild converts a package into a (package, lines) pair by
// reading its build file. Read failures surface as metadata errors, which
// the enclosing runner catches and deduplicates.
type VersionToEbuild struct{}

func (VersionToEbuild) ID() string        { return "ver-to-text" }
func (VersionToEbuild) From() feed.Type   { return feed.Version }
func (VersionToEbuild) To() feed.Type     { return feed.Ebuild }
func (VersionToEbuild) Scope() feed.Scope { return feed.VersionScope }
func (VersionToEbuild) Cost() int         { return 20 }

func (VersionToEbuild) Wrap(child pipeline.Stage) pipeline.Stage {
	return &versionToEbuildStage{child: child}
}

type versionToEbuildStage struct {
	child pipeline.Stage
}

func (s *versionToEbuildStage) Start() ([]result.Result, error) {
	return s.child.Start()
}

func (s *versionToEbuildStage) Feed(item any) ([]result.Result, error) {
	pkg, ok := item.(*repo.Package)
	if !ok {
		return nil, fmt.Errorf("ver-to-text: unexpected item type %T", item)
	}
	lines, err := pkg.Lines()
	if err != nil {
		return nil, err
	}
	return s.child.Feed(repo.Ebuild{Pkg: pkg, Lines: lines})
}

func (s *versionToEbuildStage) Finish() ([]result.Result, error) {
	return s.child.Finish()
}

// EbuildToVersion strips the text from a (package, lines) pair.
type EbuildToVersion struct{}

func (EbuildToVersion) ID() string        { return "text-to-ver" }
func (EbuildToVersion) From() feed.Type   { return feed.Ebuild }
func (EbuildToVersion) To() feed.Type     { return feed.Version }
func (EbuildToVersion) Scope() feed.Scope { return feed.VersionScope }
func (EbuildToVersion) Cost() int         { return 5 }

func (EbuildToVersion) Wrap(child pipeline.Stage) pipeline.Stage {
	return &ebuildToVersionStage{child: child}
}

type ebuildToVersionStage struct {
	child pipeline.Stage
}

func (s *ebuildToVersionStage) Start() ([]result.Result, error) {
	return s.child.Start()
}

func (s *ebuildToVersionStage) Feed(item any) ([]result.Result, error) {
	pair, ok := item.(repo.Ebuild)
	if !ok {
		return nil, fmt.Errorf("text-to-ver: unexpected item type %T", item)
	}
	return s.child.Feed(pair.Pkg)
}

func (s *ebuildToVersionStage) Finish() ([]result.Result, error) {
	return s.child.Finish()
}

// collapseStage groups consecutive versions into batches keyed by keyFunc,
// flushing a batch whenever the key changes and at finish. It relies on the
// incoming stream being in repository-definition order.
type collapseStage struct {
	name    string
	child   pipeline.Stage
	keyFunc func(*repo.Package) string
	chunk   []*repo.Package
	key     string
}

func (s *collapseStage) Start() ([]result.Result, error) {
	s.chunk = nil
	s.key = ""
	return s.child.Start()
}

func (s *collapseStage) Feed(item any) ([]result.Result, error) {
	pkg, ok := item.(*repo.Package)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected item type %T", s.name, item)
	}
	key := s.keyFunc(pkg)
	if key == s.key && s.chunk != nil {
		s.chunk = append(s.chunk, pkg)
		return nil, nil
	}
	var out []result.Result
	if s.chunk != nil {
		results, err := s.child.Feed(s.chunk)
		out = append(out, results...)
		if err != nil {
			return out, err
		}
	}
	s.chunk = []*repo.Package{pkg}
	s.key = key
	return out, nil
}

func (s *collapseStage) Finish() ([]result.Result, error) {
	var out []result.Result
	if s.chunk != nil {
		results, err := s.child.Feed(s.chunk)
		out = append(out, results...)
		if err != nil {
			return out, err
		}
		s.chunk = nil
		s.key = ""
	}
	results, err := s.child.Finish()
	return append(out, results...), err
}

// VersionToPackage collapses versions into per-package batches.
type VersionToPackage struct{}

func (VersionToPackage) ID() string        { return "ver-to-pkg" }
func (VersionToPackage) From() feed.Type   { return feed.Version }
func (VersionToPackage) To() feed.Type     { return feed.Package }
func (VersionToPackage) Scope() feed.Scope { return feed.PackageScope }
func (VersionToPackage) Cost() int         { return 10 }

func (VersionToPackage) Wrap(child pipeline.Stage) pipeline.Stage {
	return &collapseStage{
		name:    "ver-to-pkg",
		child:   child,
		keyFunc: func(p *repo.Package) string { return p.Key() },
	}
}

// VersionToCategory collapses versions into per-category batches.
type VersionToCategory struct{}

func (VersionToCategory) ID() string        { return "ver-to-cat" }
func (VersionToCategory) From() feed.Type   { return feed.Version }
func (VersionToCategory) To() feed.Type     { return feed.Category }
func (VersionToCategory) Scope() feed.Scope { return feed.CategoryScope }
func (VersionToCategory) Cost() int         { return 10 }

func (VersionToCategory) Wrap(child pipeline.Stage) pipeline.Stage {
	return &collapseStage{
		name:    "ver-to-cat",
		child:   child,
		keyFunc: func(p *repo.Package) string { return p.Category },
	}
}

// PackageToCategory merges per-package batches into per-category batches.
type PackageToCategory struct{}

func (PackageToCategory) ID() string        { return "pkg-to-cat" }
func (PackageToCategory) From() feed.Type   { return feed.Package }
func (PackageToCategory) To() feed.Type     { return feed.Category }
func (PackageToCategory) Scope() feed.Scope { return feed.CategoryScope }
func (PackageToCategory) Cost() int         { return 10 }

func (PackageToCategory) Wrap(child pipeline.Stage) pipeline.Stage {
	return &packageToCategoryStage{child: child}
}

type packageToCategoryStage struct {
	child    pipeline.Stage
	chunk    []*repo.Package
	category string
}

func (s *packageToCategoryStage) Start() ([]result.Result, error) {
	s.chunk = nil
	s.category = ""
	return s.child.Start()
}

func (s *packageToCategoryStage) Feed(item any) ([]result.Result, error) {
	batch, ok := item.([]*repo.Package)
	if !ok {
		return nil, fmt.Errorf("pkg-to-cat: unexpected item type %T", item)
	}
	if len(batch) == 0 {
		return nil, nil
	}
	category := batch[0].Category
	if category == s.category && s.chunk != nil {
		s.chunk = append(s.chunk, batch...)
		return nil, nil
	}
	var out []result.Result
	if s.chunk != nil {
		results, err := s.child.Feed(s.chunk)
		out = append(out, results...)
		if err != nil {
			return out, err
		}
	}
	s.chunk = append([]*repo.Package(nil), batch...)
	s.category = category
	return out, nil
}

func (s *packageToCategoryStage) Finish() ([]result.Result, error) {
	var out []result.Result
	if s.chunk != nil {
		results, err := s.child.Feed(s.chunk)
		out = append(out, results...)
		if err != nil {
			return out, err
		}
		s.chunk = nil
		s.category = ""
	}
	results, err := s.child.Finish()
	return append(out, results...), err
}

// repoStage accumulates every batch and feeds the whole repository view to
// the child once, at finish, before finishing the child.
type repoStage struct {
	name    string
	child   pipeline.Stage
	batches [][]*repo.Package
}

func (s *repoStage) Start() ([]result.Result, error) {
	s.batches = nil
	return s.child.Start()
}

func (s *repoStage) Feed(item any) ([]result.Result, error) {
	batch, ok := item.([]*repo.Package)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected item type %T", s.name, item)
	}
	s.batches = append(s.batches, batch)
	return nil, nil
}

func (s *repoStage) Finish() ([]result.Result, error) {
	results, err := s.child.Feed(s.batches)
	out := append([]result.Result(nil), results...)
	if err != nil {
		return out, err
	}
	s.batches = nil
	finishResults, err := s.child.Finish()
	return append(out, finishResults...), err
}

// PackageToRepo aggregates per-package batches into one repository item.
type PackageToRepo struct{}

func (PackageToRepo) ID() string        { return "pkg-to-repo" }
func (PackageToRepo) From() feed.Type   { return feed.Package }
func (PackageToRepo) To() feed.Type     { return feed.Repo }
func (PackageToRepo) Scope() feed.Scope { return feed.RepoScope }
func (PackageToRepo) Cost() int         { return 10 }

func (PackageToRepo) Wrap(child pipeline.Stage) pipeline.Stage {
	return &repoStage{name: "pkg-to-repo", child: child}
}

// CategoryToRepo aggregates per-category batches into one repository item.
type CategoryToRepo struct{}

func (CategoryToRepo) ID() string        { return "cat-to-repo" }
func (CategoryToRepo) From() feed.Type   { return feed.Category }
func (CategoryToRepo) To() feed.Type     { return feed.Repo }
func (CategoryToRepo) Scope() feed.Scope { return feed.RepoScope }
func (CategoryToRepo) Cost() int         { return 10 }

func (CategoryToRepo) Wrap(child pipeline.Stage) pipeline.Stage {
	return &repoStage{name: "cat-to-repo", child: child}
}
