package builtin

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"pkgscan/internal/checks"
	"pkgscan/internal/feed"
	"pkgscan/internal/repo"
	"pkgscan/internal/result"
)

// MaskedUnremovable runs on the mask-filtered view of the repository and
// reports masked packages whose directories are still in the tree. The
// filtered feed records what remains visible; everything masked but present
// on disk is a removal candidate.
type MaskedUnremovable struct {
	repo    *repo.Repository
	visible map[string]struct{}
}

func (c *MaskedUnremovable) ID() string    { return "masked-unremovable" }
func (c *MaskedUnremovable) Title() string { return "Masked packages still in the tree" }
func (c *MaskedUnremovable) Description() string {
	return `Reports packages listed in profiles/package.mask whose directories
still exist in the repository. Masked packages invisible to users are
candidates for removal.`
}

func (c *MaskedUnremovable) Spec() checks.Spec {
	return checks.Spec{Feed: feed.Version, Scope: feed.RepoScope, Filter: feed.MaskFilter, Priority: 10}
}

func (c *MaskedUnremovable) SetRepo(r *repo.Repository) { c.repo = r }

func (c *MaskedUnremovable) Start() ([]result.Result, error) {
	c.visible = make(map[string]struct{})
	return nil, nil
}

func (c *MaskedUnremovable) Feed(item any) ([]result.Result, error) {
	pkg, ok := item.(*repo.Package)
	if !ok {
		return nil, fmt.Errorf("masked-unremovable: unexpected item type %T", item)
	}
	c.visible[pkg.Key()] = struct{}{}
	return nil, nil
}

func (c *MaskedUnremovable) Finish() ([]result.Result, error) {
	masked, err := c.repo.MaskedAtoms()
	if err != nil {
		return nil, fmt.Errorf("masked-unremovable: %w", err)
	}

	atoms := make([]string, 0, len(masked))
	for atom := range masked {
		atoms = append(atoms, atom)
	}
	sort.Strings(atoms)

	var out []result.Result
	for _, atom := range atoms {
		if _, ok := c.visible[atom]; ok {
			// Mask did not take effect for this atom; not ours to report.
			continue
		}
		cat, name, ok := strings.Cut(atom, "/")
		if !ok {
			continue
		}
		if _, err := os.Stat(filepath.Join(c.repo.Root(), cat, name)); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return out, fmt.Errorf("masked-unremovable: stat %s: %w", atom, err)
		}
		versions, err := c.repo.Versions(cat, name)
		if err != nil {
			return out, fmt.Errorf("masked-unremovable: %w", err)
		}
		for _, v := range versions {
			out = append(out, result.NewMaskedPackage(v))
		}
	}
	return out, nil
}

func init() {
	checks.Register(&MaskedUnremovable{})
}
