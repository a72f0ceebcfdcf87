package source

import (
	"fmt"

	"pkgscan/internal/feed"
	"pkgscan/internal/pipeline"
	"pkgscan/internal/repo"
)

// RepoSource walks the target repository in definition order, emitting one
// item per package version. Its scope narrows with the target restriction,
// mirroring how a restricted walk pins the granularity.
type RepoSource struct {
	repository *repo.Repository
	restrict   repo.Restrict
}

func NewRepoSource(r *repo.Repository, restrict repo.Restrict) *RepoSource {
	return &RepoSource{repository: r, restrict: restrict}
}

func (s *RepoSource) ID() string          { return "repo" }
func (s *RepoSource) Feed() feed.Type     { return feed.Version }
func (s *RepoSource) Scope() feed.Scope   { return s.restrict.Scope() }
func (s *RepoSource) Filter() feed.Filter { return feed.NoFilter }
func (s *RepoSource) Cost() int           { return 10 }

func (s *RepoSource) Stream() (pipeline.ItemStream, error) {
	return &packageStream{it: s.repository.Iter(s.restrict, nil)}, nil
}

// MaskedRepoSource is a RepoSource view with profiles/package.mask applied:
// masked packages are filtered out before items are emitted.
type MaskedRepoSource struct {
	repository *repo.Repository
	restrict   repo.Restrict
}

func NewMaskedRepoSource(r *repo.Repository, restrict repo.Restrict) *MaskedRepoSource {
	return &MaskedRepoSource{repository: r, restrict: restrict}
}

func (s *MaskedRepoSource) ID() string          { return "repo-masked" }
func (s *MaskedRepoSource) Feed() feed.Type     { return feed.Version }
func (s *MaskedRepoSource) Scope() feed.Scope   { return s.restrict.Scope() }
func (s *MaskedRepoSource) Filter() feed.Filter { return feed.MaskFilter }
func (s *MaskedRepoSource) Cost() int           { return 15 }

func (s *MaskedRepoSource) Stream() (pipeline.ItemStream, error) {
	masked, err := s.repository.MaskedAtoms()
	if err != nil {
		return nil, fmt.Errorf("open masked source: %w", err)
	}
	return &packageStream{it: s.repository.Iter(s.restrict, masked)}, nil
}

type packageStream struct {
	it *repo.PackageIter
}

func (s *packageStream) Next() (any, bool) {
	pkg, ok := s.it.Next()
	if !ok {
		return nil, false
	}
	return pkg, true
}

func (s *packageStream) Err() error {
	return s.it.Err()
}
