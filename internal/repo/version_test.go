package repo

import "testing"

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0", "1.0", 0},
		{"1.0", "1.1", -1},
		{"1.1", "1.0", 1},
		{"1.0", "1.0.1", -1},
		{"1.9", "1.10", -1},
		{"2", "10", -1},
		{"1.2a", "1.2b", -1},
		{"1.2", "1.2a", -1},
		{"1.0_alpha", "1.0", -1},
		{"1.0_alpha1", "1.0_alpha2", -1},
		{"1.0_alpha", "1.0_beta", -1},
		{"1.0_beta", "1.0_pre", -1},
		{"1.0_pre", "1.0_rc", -1},
		{"1.0_rc1", "1.0", -1},
		{"1.0", "1.0_p1", -1},
		{"1.0", "1.0-r1", -1},
		{"1.0-r1", "1.0-r2", -1},
		{"1.0_rc1-r2", "1.0", -1},
	}
	for _, tt := range tests {
		if got := CompareVersions(tt.a, tt.b); got != tt.want {
			t.Errorf("CompareVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCompareVersionsLexicalFallback(t *testing.T) {
	// Unparsable versions stay totally ordered via plain string comparison.
	if got := CompareVersions("abc", "abd"); got != -1 {
		t.Errorf("CompareVersions(abc, abd) = %d, want -1", got)
	}
	if got := CompareVersions("weird", "weird"); got != 0 {
		t.Errorf("CompareVersions(weird, weird) = %d, want 0", got)
	}
}

func TestSplitPV(t *testing.T) {
	tests := []struct {
		in      string
		name    string
		version string
		ok      bool
	}{
		{"libfoo-1.0", "libfoo", "1.0", true},
		{"libfoo-1.0-r1", "libfoo", "1.0-r1", true},
		{"foo-bar-2.3.4", "foo-bar", "2.3.4", true},
		{"gtk+-3.24_rc1", "gtk+", "3.24_rc1", true},
		{"noversion", "", "", false},
		{"trailing-", "", "", false},
	}
	for _, tt := range tests {
		name, version, ok := splitPV(tt.in)
		if ok != tt.ok || name != tt.name || version != tt.version {
			t.Errorf("splitPV(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.in, name, version, ok, tt.name, tt.version, tt.ok)
		}
	}
}

func TestComparePackages(t *testing.T) {
	a := &Package{Category: "app-misc", Name: "tool", Version: "1.0"}
	b := &Package{Category: "dev-libs", Name: "libfoo", Version: "1.0"}
	if Compare(a, b) >= 0 {
		t.Error("app-misc should sort before dev-libs")
	}
	c := &Package{Category: "dev-libs", Name: "libfoo", Version: "1.1"}
	if Compare(b, c) >= 0 {
		t.Error("libfoo-1.0 should sort before libfoo-1.1")
	}
}
