package checks

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"pkgscan/internal/feed"
)

var (
	registry = make(map[string]Check)
	mu       sync.RWMutex
)

func Register(c Check) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[c.ID()]; exists {
		panic(fmt.Sprintf("check %s already registered", c.ID()))
	}
	registry[c.ID()] = c
}

func List() []Check {
	mu.RLock()
	defer mu.RUnlock()
	var cs []Check
	for _, c := range registry {
		cs = append(cs, c)
	}
	sort.Slice(cs, func(i, j int) bool {
		return cs[i].ID() < cs[j].ID()
	})
	return cs
}

// Resolve selects checks by a comma-separated list of IDs. An empty
// selector means all registered checks.
func Resolve(selector string) ([]Check, error) {
	if selector == "" {
		return List(), nil
	}

	mu.RLock()
	defer mu.RUnlock()

	var selected []Check
	for _, id := range strings.Split(selector, ",") {
		id = strings.TrimSpace(id)
		if c, ok := registry[id]; ok {
			selected = append(selected, c)
		} else {
			return nil, fmt.Errorf("check not found: %s", id)
		}
	}
	return selected, nil
}

// FilterScopes keeps only checks whose minimum scope is named in scopes
// (see feed.KnownScopes for the accepted names). An empty list keeps all.
func FilterScopes(cs []Check, scopes []string) ([]Check, error) {
	if len(scopes) == 0 {
		return cs, nil
	}

	wanted := make(map[feed.Scope]struct{}, len(scopes))
	for _, name := range scopes {
		found := false
		for _, known := range feed.KnownScopes {
			if known.Name == name {
				wanted[known.Scope] = struct{}{}
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown scope: %s", name)
		}
	}

	var out []Check
	for _, c := range cs {
		if _, ok := wanted[c.Spec().Scope]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}
