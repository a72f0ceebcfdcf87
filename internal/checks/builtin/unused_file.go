package builtin

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"pkgscan/internal/checks"
	"pkgscan/internal/feed"
	"pkgscan/internal/repo"
	"pkgscan/internal/result"
)

// versionPrefixRe strips a leading package version from a filename so that
// files like libfoo-1.2.3-fix-build.patch are matched by the part that
// actually appears in build files.
var versionPrefixRe = regexp.MustCompile(`^([0-9]+(\.[0-9]+)*)([a-z]?)((_(alpha|beta|pre|rc|p)[0-9]*)*)(-r[0-9]+)?`)

// minSearchLen guards against false positives: stripped names shorter than
// this are too generic to search for.
const minSearchLen = 16

// UnusedFile flags files under a package's files/ directory that no version
// of the package references.
type UnusedFile struct {
	checks.Base
	repo *repo.Repository
}

func (c *UnusedFile) ID() string    { return "unused-file" }
func (c *UnusedFile) Title() string { return "Potentially unused files in files/" }
func (c *UnusedFile) Description() string {
	return `Scans each package's files/ directory and reports files whose name,
after stripping the package name and a version prefix, appears in no
version's build file. Short stripped names are skipped to avoid false
positives.`
}

func (c *UnusedFile) Spec() checks.Spec {
	return checks.Spec{Feed: feed.Package, Scope: feed.PackageScope, Filter: feed.NoFilter}
}

func (c *UnusedFile) SetRepo(r *repo.Repository) { c.repo = r }

func (c *UnusedFile) Feed(item any) ([]result.Result, error) {
	batch, ok := item.([]*repo.Package)
	if !ok {
		return nil, fmt.Errorf("unused-file: unexpected item type %T", item)
	}
	if len(batch) == 0 {
		return nil, nil
	}
	pkg := batch[0]

	entries, err := os.ReadDir(c.repo.FilesDir(pkg.Category, pkg.Name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("unused-file: read files dir for %s: %w", pkg.Key(), err)
	}

	// Read every version's build file once; a failed read is recoverable
	// metadata breakage and handled by the enclosing runner.
	texts := make([]string, 0, len(batch))
	for _, version := range batch {
		lines, err := version.Lines()
		if err != nil {
			return nil, err
		}
		texts = append(texts, strings.Join(lines, "\n"))
	}

	var out []result.Result
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()

		stripped := name
		if strings.HasPrefix(stripped, pkg.Name) {
			stripped = strings.TrimPrefix(stripped[len(pkg.Name):], "-")
		}
		stripped = versionPrefixRe.ReplaceAllString(stripped, "")
		if len(stripped) < minSearchLen {
			continue
		}

		used := false
		for _, text := range texts {
			if strings.Contains(text, stripped) {
				used = true
				break
			}
		}
		if !used {
			out = append(out, result.NewPotentiallyUnusedFile(pkg, name))
		}
	}
	return out, nil
}

func init() {
	checks.Register(&UnusedFile{})
}
