package builtin

import (
	"testing"

	"pkgscan/internal/repo"
)

func categoryBatch(t *testing.T, r *repo.Repository, cat string, names ...string) []*repo.Package {
	t.Helper()
	var batch []*repo.Package
	for _, name := range names {
		batch = append(batch, packagesOf(t, r, cat, name)...)
	}
	return batch
}

func TestDuplicateFilesAcrossPackages(t *testing.T) {
	r := writeTree(t, map[string]string{
		"dev-libs/libfoo/libfoo-1.0.build":     "build\n",
		"dev-libs/libfoo/files/shared.patch":   "identical payload\n",
		"dev-libs/libbar/libbar-1.0.build":     "build\n",
		"dev-libs/libbar/files/other.patch":    "identical payload\n",
		"dev-libs/libbaz/libbaz-1.0.build":     "build\n",
		"dev-libs/libbaz/files/distinct.patch": "something else\n",
	})

	c := &DuplicateFiles{}
	c.SetRepo(r)
	results, err := c.Feed(categoryBatch(t, r, "dev-libs", "libbar", "libbaz", "libfoo"))
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Kind() != "DuplicateFiles" {
		t.Errorf("kind = %s, want DuplicateFiles", results[0].Kind())
	}
	if results[0].Entity() != "dev-libs" {
		t.Errorf("entity = %s, want dev-libs", results[0].Entity())
	}
}

func TestDuplicateFilesWithinOnePackageIgnored(t *testing.T) {
	r := writeTree(t, map[string]string{
		"dev-libs/libfoo/libfoo-1.0.build": "build\n",
		"dev-libs/libfoo/libfoo-1.1.build": "build\n",
		"dev-libs/libfoo/files/a.patch":    "identical payload\n",
		"dev-libs/libfoo/files/b.patch":    "identical payload\n",
	})

	c := &DuplicateFiles{}
	c.SetRepo(r)
	results, err := c.Feed(categoryBatch(t, r, "dev-libs", "libfoo"))
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}
