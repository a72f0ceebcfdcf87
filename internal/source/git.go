package source

import (
	"errors"
	"fmt"
	"io"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"pkgscan/internal/feed"
	"pkgscan/internal/pipeline"
	"pkgscan/internal/repo"
)

// GitSource emits the repository's commit history newest-first from HEAD.
// It only serves the fixed-binding commit pipeline and never participates
// in transform planning.
type GitSource struct {
	path  string
	limit int
}

// NewGitSource reads at most limit commits from the git repository at path;
// limit <= 0 means unbounded.
func NewGitSource(path string, limit int) *GitSource {
	return &GitSource{path: path, limit: limit}
}

func (s *GitSource) ID() string          { return "git" }
func (s *GitSource) Feed() feed.Type     { return feed.Commit }
func (s *GitSource) Scope() feed.Scope   { return feed.RepoScope }
func (s *GitSource) Filter() feed.Filter { return feed.GitFilter }
func (s *GitSource) Cost() int           { return 20 }

func (s *GitSource) Stream() (pipeline.ItemStream, error) {
	gitRepo, err := git.PlainOpen(s.path)
	if err != nil {
		return nil, fmt.Errorf("open git repository %s: %w", s.path, err)
	}
	iter, err := gitRepo.Log(&git.LogOptions{})
	if err != nil {
		return nil, fmt.Errorf("read git log: %w", err)
	}
	return &commitStream{iter: iter, limit: s.limit}, nil
}

type commitStream struct {
	iter  object.CommitIter
	limit int
	count int
	done  bool
	err   error
}

func (s *commitStream) Next() (any, bool) {
	if s.done {
		return nil, false
	}
	if s.limit > 0 && s.count >= s.limit {
		s.close()
		return nil, false
	}
	c, err := s.iter.Next()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			s.err = err
		}
		s.close()
		return nil, false
	}
	s.count++
	return convertCommit(c), true
}

func (s *commitStream) Err() error {
	return s.err
}

func (s *commitStream) close() {
	if !s.done {
		s.done = true
		s.iter.Close()
	}
}

func convertCommit(c *object.Commit) *repo.Commit {
	summary, _, _ := strings.Cut(c.Message, "\n")
	commit := &repo.Commit{
		Hash:    c.Hash.String(),
		Author:  c.Author.Name,
		When:    c.Author.When,
		Summary: strings.TrimSpace(summary),
		Message: c.Message,
	}
	// File stats need a parent diff; commits where that fails (e.g. the
	// initial commit of an unusual tree) just carry no file list.
	if stats, err := c.Stats(); err == nil {
		for _, st := range stats {
			commit.Files = append(commit.Files, st.Name)
		}
	}
	return commit
}
