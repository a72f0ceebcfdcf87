package pipeline

import (
	"fmt"

	"pkgscan/internal/result"
)

// Assignment pairs one source's item stream with the transform tree that
// consumes it.
type Assignment struct {
	Stream ItemStream
	Tree   Stage
}

// Pipeline owns the interleaved merge plus the assigned transform trees and
// drives start/feed/finish across the whole assembly. Every runner in every
// tree observes exactly one Start, zero or more Feeds and exactly one
// Finish, regardless of how the merge paces the member streams.
type Pipeline struct {
	merge *InterleavedSources
	trees []Stage
}

func New(assignments []Assignment) *Pipeline {
	streams := make([]ItemStream, 0, len(assignments))
	trees := make([]Stage, 0, len(assignments))
	for _, a := range assignments {
		streams = append(streams, a.Stream)
		trees = append(trees, a.Tree)
	}
	return &Pipeline{
		merge: NewInterleavedSources(streams),
		trees: trees,
	}
}

// Run executes the pipeline, pushing every result to report. It returns the
// first fatal error: a failed source stream, a non-recoverable check error,
// or a report failure.
func (p *Pipeline) Run(report func(result.Result) error) error {
	for _, tree := range p.trees {
		rs, err := tree.Start()
		if err := emit(report, rs, err); err != nil {
			return err
		}
	}

	for {
		item, idx, ok := p.merge.Next()
		if !ok {
			break
		}
		rs, err := p.trees[idx].Feed(item)
		if err := emit(report, rs, err); err != nil {
			return err
		}
	}
	if err := p.merge.Err(); err != nil {
		return fmt.Errorf("source stream failed: %w", err)
	}

	for _, tree := range p.trees {
		rs, err := tree.Finish()
		if err := emit(report, rs, err); err != nil {
			return err
		}
	}
	return nil
}

func emit(report func(result.Result) error, results []result.Result, err error) error {
	for _, r := range results {
		if repErr := report(r); repErr != nil {
			return fmt.Errorf("report result: %w", repErr)
		}
	}
	return err
}
