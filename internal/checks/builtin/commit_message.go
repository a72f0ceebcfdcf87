package builtin

import (
	"fmt"
	"strings"

	"pkgscan/internal/checks"
	"pkgscan/internal/feed"
	"pkgscan/internal/repo"
	"pkgscan/internal/result"
)

// maxSummaryLen bounds the commit summary line; anything longer gets
// truncated by common tooling.
const maxSummaryLen = 72

// CommitMessage validates commit summary lines against the repository's
// conventions.
type CommitMessage struct {
	checks.Base
}

func (c *CommitMessage) ID() string    { return "commit-message" }
func (c *CommitMessage) Title() string { return "Commit summary conventions" }
func (c *CommitMessage) Description() string {
	return `Checks each commit's summary line: it must be present, at most 72
characters and must not end with a period.`
}

func (c *CommitMessage) Spec() checks.Spec {
	return checks.Spec{Feed: feed.Commit, Scope: feed.RepoScope, Filter: feed.GitFilter}
}

func (c *CommitMessage) Feed(item any) ([]result.Result, error) {
	commit, ok := item.(*repo.Commit)
	if !ok {
		return nil, fmt.Errorf("commit-message: unexpected item type %T", item)
	}

	var out []result.Result
	switch {
	case commit.Summary == "":
		out = append(out, result.BadCommitSummary{
			Commit: commit.String(),
			Msg:    "empty commit summary",
		})
	default:
		if len(commit.Summary) > maxSummaryLen {
			out = append(out, result.BadCommitSummary{
				Commit: commit.String(),
				Msg:    fmt.Sprintf("summary line longer than %d characters", maxSummaryLen),
			})
		}
		if strings.HasSuffix(commit.Summary, ".") {
			out = append(out, result.BadCommitSummary{
				Commit: commit.String(),
				Msg:    "summary line ends with a period",
			})
		}
	}
	return out, nil
}

func init() {
	checks.Register(&CommitMessage{})
}
