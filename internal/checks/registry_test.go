package checks

import (
	"strings"
	"testing"

	"pkgscan/internal/feed"
	"pkgscan/internal/result"
)

type stubCheck struct {
	Base
	id    string
	scope feed.Scope
}

func (c *stubCheck) ID() string          { return c.id }
func (c *stubCheck) Title() string       { return "Stub" }
func (c *stubCheck) Description() string { return "Stub check" }
func (c *stubCheck) Spec() Spec {
	return Spec{Feed: feed.Version, Scope: c.scope}
}
func (c *stubCheck) Feed(item any) ([]result.Result, error) { return nil, nil }

func TestRegisterDuplicatePanics(t *testing.T) {
	Register(&stubCheck{id: "registry-test-dup"})
	defer func() {
		if recover() == nil {
			t.Error("duplicate Register did not panic")
		}
	}()
	Register(&stubCheck{id: "registry-test-dup"})
}

func TestResolve(t *testing.T) {
	Register(&stubCheck{id: "registry-test-a"})
	Register(&stubCheck{id: "registry-test-b"})

	cs, err := Resolve("registry-test-b, registry-test-a")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(cs) != 2 {
		t.Fatalf("resolved %d checks, want 2", len(cs))
	}
	if cs[0].ID() != "registry-test-b" {
		t.Errorf("selector order not preserved: got %s first", cs[0].ID())
	}

	if _, err := Resolve("registry-test-missing"); err == nil {
		t.Error("Resolve() with unknown id should fail")
	} else if !strings.Contains(err.Error(), "registry-test-missing") {
		t.Errorf("error %q does not name the missing check", err)
	}
}

func TestListSortedByID(t *testing.T) {
	Register(&stubCheck{id: "registry-test-z"})
	Register(&stubCheck{id: "registry-test-m"})

	var prev string
	for _, c := range List() {
		if c.ID() < prev {
			t.Fatalf("List() not sorted: %s after %s", c.ID(), prev)
		}
		prev = c.ID()
	}
}

func TestFilterScopes(t *testing.T) {
	cs := []Check{
		&stubCheck{id: "s-ver", scope: feed.VersionScope},
		&stubCheck{id: "s-repo", scope: feed.RepoScope},
	}

	got, err := FilterScopes(cs, []string{"ver"})
	if err != nil {
		t.Fatalf("FilterScopes() error = %v", err)
	}
	if len(got) != 1 || got[0].ID() != "s-ver" {
		t.Errorf("FilterScopes() = %v, want only s-ver", got)
	}

	all, err := FilterScopes(cs, nil)
	if err != nil || len(all) != 2 {
		t.Errorf("FilterScopes(nil) = %v, %v; want all checks", all, err)
	}

	if _, err := FilterScopes(cs, []string{"bogus"}); err == nil {
		t.Error("FilterScopes() with unknown scope should fail")
	}
}
