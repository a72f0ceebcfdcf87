package builtin

import (
	"testing"

	"pkgscan/internal/repo"
)

func TestFileHeader(t *testing.T) {
	pkg := &repo.Package{Category: "dev-libs", Name: "libfoo", Version: "1.0"}

	tests := []struct {
		name  string
		lines []string
		kinds []string
	}{
		{
			name: "valid header",
			lines: []string{
				"# Copyright 2020-2026 Gentoo Authors",
				"# Distributed under the terms of the GNU General Public License v2",
			},
			kinds: nil,
		},
		{
			name: "single year",
			lines: []string{
				"# Copyright 2026 Gentoo Authors",
				"# Distributed under the terms of the GNU General Public License v2",
			},
			kinds: nil,
		},
		{
			name: "missing copyright",
			lines: []string{
				"inherit something",
				"# Distributed under the terms of the GNU General Public License v2",
			},
			kinds: []string{"InvalidCopyright"},
		},
		{
			name: "retired holder",
			lines: []string{
				"# Copyright 1999-2018 Gentoo Foundation",
				"# Distributed under the terms of the GNU General Public License v2",
			},
			kinds: []string{"OldCopyright"},
		},
		{
			name: "bad license line",
			lines: []string{
				"# Copyright 2026 Gentoo Authors",
				"# All rights reserved",
			},
			kinds: []string{"InvalidLicenseHeader"},
		},
		{
			name:  "empty file",
			lines: nil,
			kinds: []string{"InvalidCopyright", "InvalidLicenseHeader"},
		},
	}

	c := &FileHeader{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := c.Feed(repo.Ebuild{Pkg: pkg, Lines: tt.lines})
			if err != nil {
				t.Fatalf("Feed() error = %v", err)
			}
			if len(results) != len(tt.kinds) {
				t.Fatalf("got %d results, want %d", len(results), len(tt.kinds))
			}
			for i, kind := range tt.kinds {
				if results[i].Kind() != kind {
					t.Errorf("result[%d] = %s, want %s", i, results[i].Kind(), kind)
				}
			}
		})
	}
}
