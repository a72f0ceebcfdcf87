package pipeline

import "pkgscan/internal/result"

// CommitPipeline is the degenerate fixed-binding flow: one linear commit
// stream feeding one runner, with no transform search and no cost model.
type CommitPipeline struct {
	runner *CheckRunner
	stream ItemStream
}

func NewCommitPipeline(runner *CheckRunner, stream ItemStream) *CommitPipeline {
	return &CommitPipeline{runner: runner, stream: stream}
}

func (p *CommitPipeline) Run(report func(result.Result) error) error {
	rs, err := p.runner.Start()
	if err := emit(report, rs, err); err != nil {
		return err
	}
	for {
		commit, ok := p.stream.Next()
		if !ok {
			break
		}
		rs, err := p.runner.Feed(commit)
		if err := emit(report, rs, err); err != nil {
			return err
		}
	}
	if err := p.stream.Err(); err != nil {
		return err
	}
	rs, err = p.runner.Finish()
	return emit(report, rs, err)
}
