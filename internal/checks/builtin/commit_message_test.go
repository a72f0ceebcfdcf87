package builtin

import (
	"strings"
	"testing"

	"pkgscan/internal/repo"
)

func TestCommitMessage(t *testing.T) {
	tests := []struct {
		name    string
		summary string
		want    int
	}{
		{"conventional summary", "dev-libs/libfoo: bump to 1.1", 0},
		{"empty summary", "", 1},
		{"too long", strings.Repeat("x", 80), 1},
		{"trailing period", "dev-libs/libfoo: bump to 1.1.", 1},
		{"too long and trailing period", strings.Repeat("x", 80) + ".", 2},
	}

	c := &CommitMessage{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			commit := &repo.Commit{Hash: "0123456789abcdef0123", Summary: tt.summary}
			results, err := c.Feed(commit)
			if err != nil {
				t.Fatalf("Feed() error = %v", err)
			}
			if len(results) != tt.want {
				t.Fatalf("got %d results, want %d", len(results), tt.want)
			}
			for _, r := range results {
				if r.Kind() != "BadCommitSummary" {
					t.Errorf("kind = %s, want BadCommitSummary", r.Kind())
				}
			}
		})
	}
}
