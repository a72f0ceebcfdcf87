package engine

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"pkgscan/internal/checks"
	"pkgscan/internal/config"
	"pkgscan/internal/feed"
	"pkgscan/internal/output"
	"pkgscan/internal/pipeline"
	"pkgscan/internal/repo"
	"pkgscan/internal/result"
	"pkgscan/internal/source"
	"pkgscan/internal/transform"
)

// Exit codes of a scan run.
const (
	ExitClean    = 0 // scan completed, no findings
	ExitFindings = 1 // scan completed with warnings or errors
	ExitPartial  = 2 // some checks could not run or some output failed
	ExitFatal    = 3 // the scan itself failed
)

// Engine resolves checks against the target repository, plans pipelines and
// drives a scan end to end.
type Engine struct {
	Repo *repo.Repository
	Log  zerolog.Logger
}

// Run executes a scan per cfg and returns the process exit code. A non-nil
// error always pairs with ExitFatal.
func (e *Engine) Run(ctx context.Context, cfg *config.Config) (int, error) {
	selected, err := checks.Resolve(cfg.Checks.Selector)
	if err != nil {
		return ExitFatal, err
	}
	selected, err = checks.FilterScopes(selected, cfg.Checks.Scopes)
	if err != nil {
		return ExitFatal, err
	}
	if len(selected) == 0 {
		return ExitFatal, fmt.Errorf("no checks selected")
	}
	for _, c := range selected {
		if aware, ok := c.(checks.RepoAware); ok {
			aware.SetRepo(e.Repo)
		}
	}

	// Commit checks run on a fixed git binding and never participate in
	// transform planning.
	var treeChecks, commitChecks []checks.Check
	for _, c := range selected {
		if c.Spec().Feed == feed.Commit {
			commitChecks = append(commitChecks, c)
		} else {
			treeChecks = append(treeChecks, c)
		}
	}

	restrict, err := repo.ParseRestrict(cfg.Targeting.Target)
	if err != nil {
		return ExitFatal, err
	}

	manager, err := buildManager(cfg)
	if err != nil {
		return ExitFatal, err
	}

	code, runErr := e.scan(ctx, cfg, manager, treeChecks, commitChecks, restrict)

	if err := manager.Write(output.Event{Type: "run.finished", ExitCode: code}); err != nil {
		e.Log.Error().Err(err).Msg("writing run.finished event")
		if runErr == nil && code < ExitPartial {
			code = ExitPartial
		}
	}
	if err := manager.Close(); err != nil {
		e.Log.Error().Err(err).Msg("closing output sinks")
		if runErr == nil && code < ExitPartial {
			code = ExitPartial
		}
	}
	return code, runErr
}

func (e *Engine) scan(ctx context.Context, cfg *config.Config, manager *output.Manager, treeChecks, commitChecks []checks.Check, restrict repo.Restrict) (int, error) {
	sources := []source.Source{
		source.NewRepoSource(e.Repo, restrict),
		source.NewMaskedRepoSource(e.Repo, restrict),
	}

	var badSinks []BadSink
	var planned []Planned
	if len(treeChecks) > 0 {
		var err error
		badSinks, planned, err = Plug(treeChecks, transform.Defaults(), sources, e.Log)
		if err != nil {
			return ExitFatal, err
		}
	}

	pipelines := len(planned)
	var commitPipe *pipeline.CommitPipeline
	if len(commitChecks) > 0 {
		switch {
		case restrict.Scope() < feed.RepoScope:
			for _, c := range commitChecks {
				badSinks = append(badSinks, BadSink{
					Check:  c,
					Reason: "commit checks only run on whole-repository scans",
				})
			}
		default:
			gitSrc := source.NewGitSource(e.Repo.Root(), cfg.Targeting.Commits)
			stream, err := gitSrc.Stream()
			if err != nil {
				for _, c := range commitChecks {
					badSinks = append(badSinks, BadSink{
						Check:  c,
						Reason: fmt.Sprintf("git history unavailable: %v", err),
					})
				}
			} else {
				stages := make([]pipeline.Stage, len(commitChecks))
				for i, c := range commitChecks {
					stages[i] = c
				}
				commitPipe = pipeline.NewCommitPipeline(pipeline.NewCheckRunner(stages...), stream)
				pipelines++
			}
		}
	}

	partial := len(badSinks) > 0
	if err := manager.Write(output.Event{
		Type:      "run.started",
		Checks:    len(treeChecks) + len(commitChecks),
		Pipelines: pipelines,
	}); err != nil {
		e.Log.Error().Err(err).Msg("writing run.started event")
		partial = true
	}

	resCh := make(chan result.Result, 64)
	g, gctx := errgroup.WithContext(ctx)
	report := func(r result.Result) error {
		select {
		case resCh <- r:
			return nil
		case <-gctx.Done():
			return gctx.Err()
		}
	}

	g.Go(func() error {
		defer close(resCh)
		for _, bad := range badSinks {
			warn := result.LogWarning{
				Msg: fmt.Sprintf("check %s cannot run: %s", bad.Check.ID(), bad.Reason),
			}
			if err := report(warn); err != nil {
				return err
			}
		}
		if len(planned) > 0 {
			assignments := make([]pipeline.Assignment, 0, len(planned))
			for _, pl := range planned {
				stream, err := pl.Source.Stream()
				if err != nil {
					return fmt.Errorf("open source %s: %w", pl.Source.ID(), err)
				}
				assignments = append(assignments, pipeline.Assignment{Stream: stream, Tree: pl.Tree})
			}
			if err := pipeline.New(assignments).Run(report); err != nil {
				return err
			}
		}
		if commitPipe != nil {
			if err := commitPipe.Run(report); err != nil {
				return fmt.Errorf("commit pipeline: %w", err)
			}
		}
		return nil
	})

	var findings int
	for r := range resCh {
		if err := manager.Write(r); err != nil {
			e.Log.Error().Err(err).Msg("writing result")
			partial = true
			continue
		}
		switch r.Level() {
		case result.LevelWarning, result.LevelError:
			findings++
		}
	}

	if err := g.Wait(); err != nil {
		return ExitFatal, err
	}
	return exitCodeForRun(partial, findings), nil
}

func exitCodeForRun(partial bool, findings int) int {
	switch {
	case partial:
		return ExitPartial
	case findings > 0:
		return ExitFindings
	default:
		return ExitClean
	}
}

func buildManager(cfg *config.Config) (*output.Manager, error) {
	manager := output.NewManager()
	if !cfg.Output.NoConsole {
		sink := output.NewConsoleSink(os.Stdout, cfg.Output.ConsoleFormat, cfg.Output.ConsoleFilterLevels)
		if err := manager.AddSink(sink); err != nil {
			return nil, err
		}
	}
	if cfg.Output.Out != "" {
		sink, err := output.NewFileSink(cfg.Output.Out, cfg.Output.OutFormat)
		if err != nil {
			return nil, err
		}
		if err := manager.AddSink(sink); err != nil {
			return nil, err
		}
	}
	return manager, nil
}
