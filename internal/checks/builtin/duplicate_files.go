package builtin

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"pkgscan/internal/checks"
	"pkgscan/internal/feed"
	"pkgscan/internal/repo"
	"pkgscan/internal/result"
)

// DuplicateFiles reports byte-identical files/ payloads shared by sibling
// packages of one category. Shared patches usually belong in a common
// location instead of per-package copies.
type DuplicateFiles struct {
	checks.Base
	repo *repo.Repository
}

func (c *DuplicateFiles) ID() string    { return "duplicate-files" }
func (c *DuplicateFiles) Title() string { return "Duplicated files/ payloads within a category" }
func (c *DuplicateFiles) Description() string {
	return `Hashes every file under each package's files/ directory and reports
contents duplicated across two or more packages of the same category.`
}

func (c *DuplicateFiles) Spec() checks.Spec {
	return checks.Spec{Feed: feed.Category, Scope: feed.CategoryScope, Filter: feed.NoFilter}
}

func (c *DuplicateFiles) SetRepo(r *repo.Repository) { c.repo = r }

func (c *DuplicateFiles) Feed(item any) ([]result.Result, error) {
	batch, ok := item.([]*repo.Package)
	if !ok {
		return nil, fmt.Errorf("duplicate-files: unexpected item type %T", item)
	}
	if len(batch) == 0 {
		return nil, nil
	}
	category := batch[0].Category

	type entry struct {
		pkg  string
		file string
	}
	byDigest := make(map[[sha256.Size]byte][]entry)
	var order [][sha256.Size]byte

	seen := make(map[string]struct{})
	for _, pkg := range batch {
		if _, done := seen[pkg.Name]; done {
			continue
		}
		seen[pkg.Name] = struct{}{}

		dir := c.repo.FilesDir(pkg.Category, pkg.Name)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("duplicate-files: read files dir for %s: %w", pkg.Key(), err)
		}
		for _, fe := range entries {
			if fe.IsDir() {
				continue
			}
			data, err := os.ReadFile(filepath.Join(dir, fe.Name()))
			if err != nil {
				return nil, fmt.Errorf("duplicate-files: read %s: %w", fe.Name(), err)
			}
			sum := sha256.Sum256(data)
			if _, ok := byDigest[sum]; !ok {
				order = append(order, sum)
			}
			byDigest[sum] = append(byDigest[sum], entry{pkg: pkg.Name, file: fe.Name()})
		}
	}

	var out []result.Result
	for _, sum := range order {
		entries := byDigest[sum]
		pkgs := make([]string, 0, len(entries))
		distinct := make(map[string]struct{})
		for _, e := range entries {
			if _, ok := distinct[e.pkg]; ok {
				continue
			}
			distinct[e.pkg] = struct{}{}
			pkgs = append(pkgs, e.pkg)
		}
		if len(pkgs) < 2 {
			continue
		}
		out = append(out, result.DuplicateFiles{
			Category: category,
			File:     entries[0].file,
			Packages: pkgs,
		})
	}
	return out, nil
}

func init() {
	checks.Register(&DuplicateFiles{})
}
