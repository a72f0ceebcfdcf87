package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "pkgscan",
	Short: "Scan package repositories and report QA problems",
	Long: `pkgscan walks an on-disk package repository and reports QA problems.

pkgscan is scan-only: it finds problems, it never rewrites the tree.

Examples:
	# Show available commands and global flags
	pkgscan --help

	# Scan a repository
	pkgscan scan --repo /var/db/repos/main

	# Scan a single package
	pkgscan scan --repo /var/db/repos/main --target dev-libs/libfoo

	# List checks
	pkgscan checks list

	# Print build info
	pkgscan version

Output:
	By default, commands write human-readable output to stdout.
	The scan command supports structured output (see "pkgscan scan --help").`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, "verbose", false, "Enable verbose logging (prints pipeline planning details)")
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
