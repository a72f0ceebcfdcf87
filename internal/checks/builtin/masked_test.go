package builtin

import (
	"testing"
)

func TestMaskedUnremovableReportsMaskedTree(t *testing.T) {
	r := writeTree(t, map[string]string{
		"app-misc/tool/tool-0.9.build":     "build\n",
		"app-misc/tool/tool-1.0.build":     "build\n",
		"dev-libs/libfoo/libfoo-1.0.build": "build\n",
		"profiles/package.mask":            "app-misc/tool\n",
	})

	c := &MaskedUnremovable{}
	c.SetRepo(r)
	if _, err := c.Start(); err != nil {
		t.Fatal(err)
	}
	// The mask-filtered walk only yields the unmasked package.
	for _, p := range packagesOf(t, r, "dev-libs", "libfoo") {
		if _, err := c.Feed(p); err != nil {
			t.Fatal(err)
		}
	}
	results, err := c.Finish()
	if err != nil {
		t.Fatalf("Finish() error = %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2 (one per masked version)", len(results))
	}
	for _, res := range results {
		if res.Kind() != "MaskedPackage" {
			t.Errorf("kind = %s, want MaskedPackage", res.Kind())
		}
	}
}

func TestMaskedUnremovableIgnoresRemovedPackages(t *testing.T) {
	r := writeTree(t, map[string]string{
		"dev-libs/libfoo/libfoo-1.0.build": "build\n",
		"profiles/package.mask":            "app-misc/gone\n",
	})

	c := &MaskedUnremovable{}
	c.SetRepo(r)
	if _, err := c.Start(); err != nil {
		t.Fatal(err)
	}
	results, err := c.Finish()
	if err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}
