package transform

import (
	"os"
	"path/filepath"
	"testing"

	"pkgscan/internal/repo"
	"pkgscan/internal/result"
)

type recordingStage struct {
	started  bool
	finished bool
	items    []any
}

func (s *recordingStage) Start() ([]result.Result, error) {
	s.started = true
	return nil, nil
}

func (s *recordingStage) Feed(item any) ([]result.Result, error) {
	if !s.started || s.finished {
		panic("Feed outside Start/Finish window")
	}
	s.items = append(s.items, item)
	return nil, nil
}

func (s *recordingStage) Finish() ([]result.Result, error) {
	s.finished = true
	return nil, nil
}

func feedAll(t *testing.T, stage interface {
	Start() ([]result.Result, error)
	Feed(any) ([]result.Result, error)
	Finish() ([]result.Result, error)
}, items ...any) {
	t.Helper()
	if _, err := stage.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	for _, item := range items {
		if _, err := stage.Feed(item); err != nil {
			t.Fatalf("Feed(%v) error = %v", item, err)
		}
	}
	if _, err := stage.Finish(); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
}

func mkpkg(cat, name, version string) *repo.Package {
	return &repo.Package{Category: cat, Name: name, Version: version}
}

func TestVersionToPackageBatchesByKey(t *testing.T) {
	child := &recordingStage{}
	stage := VersionToPackage{}.Wrap(child)

	feedAll(t, stage,
		mkpkg("dev-libs", "libfoo", "1.0"),
		mkpkg("dev-libs", "libfoo", "1.1"),
		mkpkg("dev-libs", "libbar", "2.0"),
	)

	if !child.finished {
		t.Fatal("child was not finished")
	}
	if len(child.items) != 2 {
		t.Fatalf("child saw %d batches, want 2", len(child.items))
	}
	first := child.items[0].([]*repo.Package)
	second := child.items[1].([]*repo.Package)
	if len(first) != 2 || first[0].Name != "libfoo" {
		t.Errorf("first batch = %v, want two libfoo versions", first)
	}
	if len(second) != 1 || second[0].Name != "libbar" {
		t.Errorf("second batch = %v, want one libbar version", second)
	}
}

func TestVersionToCategoryBatchesByCategory(t *testing.T) {
	child := &recordingStage{}
	stage := VersionToCategory{}.Wrap(child)

	feedAll(t, stage,
		mkpkg("app-misc", "alpha", "1.0"),
		mkpkg("app-misc", "beta", "1.0"),
		mkpkg("dev-libs", "libfoo", "1.0"),
	)

	if len(child.items) != 2 {
		t.Fatalf("child saw %d batches, want 2", len(child.items))
	}
	first := child.items[0].([]*repo.Package)
	if len(first) != 2 || first[0].Category != "app-misc" {
		t.Errorf("first batch = %v, want two app-misc packages", first)
	}
}

func TestPackageToRepoFeedsOnceAtFinish(t *testing.T) {
	child := &recordingStage{}
	stage := PackageToRepo{}.Wrap(child)

	feedAll(t, stage,
		[]*repo.Package{mkpkg("dev-libs", "libfoo", "1.0")},
		[]*repo.Package{mkpkg("dev-libs", "libbar", "1.0")},
	)

	if len(child.items) != 1 {
		t.Fatalf("child saw %d items, want 1", len(child.items))
	}
	batches := child.items[0].([][]*repo.Package)
	if len(batches) != 2 {
		t.Errorf("repo item holds %d batches, want 2", len(batches))
	}
	if !child.finished {
		t.Error("child was not finished")
	}
}

func TestVersionToEbuildReadsBuildFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "libfoo-1.0.build")
	if err := os.WriteFile(path, []byte("# Copyright 2026 Authors\nline two\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	child := &recordingStage{}
	stage := VersionToEbuild{}.Wrap(child)
	pkg := &repo.Package{Category: "dev-libs", Name: "libfoo", Version: "1.0", Path: path}
	feedAll(t, stage, pkg)

	if len(child.items) != 1 {
		t.Fatalf("child saw %d items, want 1", len(child.items))
	}
	eb := child.items[0].(repo.Ebuild)
	if eb.Pkg != pkg {
		t.Error("ebuild does not reference the fed package")
	}
	if len(eb.Lines) != 2 || eb.Lines[1] != "line two" {
		t.Errorf("lines = %v, want the file's two lines", eb.Lines)
	}
}

func TestVersionToEbuildMissingFileIsMetadataError(t *testing.T) {
	child := &recordingStage{}
	stage := VersionToEbuild{}.Wrap(child)
	pkg := &repo.Package{Category: "dev-libs", Name: "libfoo", Version: "1.0", Path: "/nonexistent/libfoo-1.0.build"}

	if _, err := stage.Start(); err != nil {
		t.Fatal(err)
	}
	_, err := stage.Feed(pkg)
	if err == nil {
		t.Fatal("Feed() should fail for a missing build file")
	}
	if _, ok := err.(*repo.MetadataError); !ok {
		t.Errorf("error type = %T, want *repo.MetadataError", err)
	}
}

func TestDefaultsAreUniqueAndWired(t *testing.T) {
	ids := make(map[string]struct{})
	for _, tr := range Defaults() {
		if _, dup := ids[tr.ID()]; dup {
			t.Errorf("duplicate transform id %s", tr.ID())
		}
		ids[tr.ID()] = struct{}{}
		if tr.From() == tr.To() {
			t.Errorf("transform %s maps a feed type to itself", tr.ID())
		}
		if tr.Cost() <= 0 {
			t.Errorf("transform %s has non-positive cost", tr.ID())
		}
	}
	if len(ids) != 7 {
		t.Errorf("got %d transforms, want 7", len(ids))
	}
}
