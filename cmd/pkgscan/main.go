package main

import (
	"pkgscan/internal/cli"
	_ "pkgscan/internal/checks/builtin"
)

// These variables are populated by the build via -ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cli.SetBuildInfo(version, commit, date)
	cli.Execute()
}
