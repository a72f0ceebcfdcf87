package builtin

import (
	"fmt"

	"pkgscan/internal/checks"
	"pkgscan/internal/feed"
	"pkgscan/internal/repo"
	"pkgscan/internal/result"
)

// RepoProfile runs repository-wide sanity checks that need the full tree
// view, currently limited to empty category detection.
type RepoProfile struct {
	checks.Base
	repo *repo.Repository
}

func (c *RepoProfile) ID() string    { return "repo-profile" }
func (c *RepoProfile) Title() string { return "Repository layout sanity" }
func (c *RepoProfile) Description() string {
	return `Validates the repository layout as a whole and reports category
directories that contain no packages.`
}

func (c *RepoProfile) Spec() checks.Spec {
	return checks.Spec{Feed: feed.Repo, Scope: feed.RepoScope, Filter: feed.NoFilter}
}

func (c *RepoProfile) SetRepo(r *repo.Repository) { c.repo = r }

func (c *RepoProfile) Feed(item any) ([]result.Result, error) {
	batches, ok := item.([][]*repo.Package)
	if !ok {
		return nil, fmt.Errorf("repo-profile: unexpected item type %T", item)
	}

	populated := make(map[string]struct{})
	for _, batch := range batches {
		for _, pkg := range batch {
			populated[pkg.Category] = struct{}{}
		}
	}

	cats, err := c.repo.Categories()
	if err != nil {
		return nil, fmt.Errorf("repo-profile: %w", err)
	}

	var out []result.Result
	for _, cat := range cats {
		if _, ok := populated[cat]; ok {
			continue
		}
		names, err := c.repo.PackageNames(cat)
		if err != nil {
			return nil, fmt.Errorf("repo-profile: %w", err)
		}
		if len(names) == 0 {
			out = append(out, result.EmptyCategory{Category: cat})
		}
	}
	return out, nil
}

func init() {
	checks.Register(&RepoProfile{})
}
