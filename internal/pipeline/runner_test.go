package pipeline

import (
	"errors"
	"testing"

	"pkgscan/internal/repo"
	"pkgscan/internal/result"
)

type erringStage struct {
	errs []error
	call int
}

func (s *erringStage) Start() ([]result.Result, error) { return nil, nil }
func (s *erringStage) Feed(item any) ([]result.Result, error) {
	var err error
	if s.call < len(s.errs) {
		err = s.errs[s.call]
	}
	s.call++
	return nil, err
}
func (s *erringStage) Finish() ([]result.Result, error) { return nil, nil }

func metaErr(version, msg string) *repo.MetadataError {
	return &repo.MetadataError{
		Pkg:  &repo.Package{Category: "dev-libs", Name: "libfoo", Version: version},
		Attr: "build",
		Err:  errors.New(msg),
	}
}

func TestCheckRunnerDeduplicatesMetadataErrors(t *testing.T) {
	stage := &erringStage{errs: []error{
		metaErr("1.0", "bad data"),
		metaErr("1.0", "bad data"),
		metaErr("1.0", "other problem"),
		metaErr("1.1", "bad data"),
	}}
	r := NewCheckRunner(stage)

	var all []result.Result
	for i := 0; i < 4; i++ {
		results, err := r.Feed(nil)
		if err != nil {
			t.Fatalf("Feed() error = %v", err)
		}
		all = append(all, results...)
	}

	// One per distinct (entity, message) pair.
	if len(all) != 3 {
		t.Fatalf("got %d results, want 3", len(all))
	}
	for _, res := range all {
		if res.Kind() != "MetadataError" {
			t.Errorf("result kind = %s, want MetadataError", res.Kind())
		}
	}
}

func TestCheckRunnerSameErrorAcrossChildren(t *testing.T) {
	a := &erringStage{errs: []error{metaErr("1.0", "bad data")}}
	b := &erringStage{errs: []error{metaErr("1.0", "bad data")}}
	r := NewCheckRunner(a, b)

	results, err := r.Feed(nil)
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
}

func TestCheckRunnerAbortsOnOtherErrors(t *testing.T) {
	wantErr := errors.New("broken check")
	r := NewCheckRunner(&erringStage{errs: []error{wantErr}})

	if _, err := r.Feed(nil); !errors.Is(err, wantErr) {
		t.Fatalf("Feed() error = %v, want %v", err, wantErr)
	}
}
