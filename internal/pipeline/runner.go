package pipeline

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"pkgscan/internal/repo"
	"pkgscan/internal/result"
)

type metadataKey struct {
	entity string
	msg    string
}

// CheckRunner drives an ordered list of child stages sharing one exact
// (feed type, filter type, scope) attachment point. Children are a mix of
// checks and wrapped transform subtrees.
//
// Recoverable metadata failures are caught per child per call and reported
// once: duplicate (entity, message) pairs observed anywhere in the runner's
// lifetime are suppressed. Any other error aborts the whole run.
type CheckRunner struct {
	children       []Stage
	metadataErrors map[metadataKey]struct{}
}

func NewCheckRunner(children ...Stage) *CheckRunner {
	return &CheckRunner{
		children:       children,
		metadataErrors: make(map[metadataKey]struct{}),
	}
}

func (r *CheckRunner) Start() ([]result.Result, error) {
	return r.collect(func(s Stage) ([]result.Result, error) {
		return s.Start()
	})
}

func (r *CheckRunner) Feed(item any) ([]result.Result, error) {
	return r.collect(func(s Stage) ([]result.Result, error) {
		return s.Feed(item)
	})
}

func (r *CheckRunner) Finish() ([]result.Result, error) {
	return r.collect(func(s Stage) ([]result.Result, error) {
		return s.Finish()
	})
}

func (r *CheckRunner) collect(call func(Stage) ([]result.Result, error)) ([]result.Result, error) {
	var out []result.Result
	for _, child := range r.children {
		results, err := call(child)
		out = append(out, results...)
		if err == nil {
			continue
		}
		var metaErr *repo.MetadataError
		if !errors.As(err, &metaErr) {
			return out, err
		}
		key := metadataKey{entity: metaErr.Pkg.CPV(), msg: metaErr.Err.Error()}
		if _, seen := r.metadataErrors[key]; seen {
			continue
		}
		r.metadataErrors[key] = struct{}{}
		out = append(out, result.NewMetadataError(metaErr))
	}
	return out, nil
}

func (r *CheckRunner) String() string {
	names := make([]string, 0, len(r.children))
	for _, c := range r.children {
		names = append(names, fmt.Sprintf("%v", c))
	}
	sort.Strings(names)
	return fmt.Sprintf("CheckRunner(%s)", strings.Join(names, ", "))
}
