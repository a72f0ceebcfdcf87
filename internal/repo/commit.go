package repo

import "time"

// Commit is the payload of the commit feed used by the fixed-binding commit
// pipeline. Commits never flow through the transform planner.
type Commit struct {
	Hash    string
	Author  string
	When    time.Time
	Summary string
	Message string
	Files   []string
}

func (c *Commit) String() string {
	short := c.Hash
	if len(short) > 12 {
		short = short[:12]
	}
	return short
}
