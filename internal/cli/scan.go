package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"pkgscan/internal/config"
	"pkgscan/internal/engine"
	"pkgscan/internal/repo"
)

var (
	cfg        = config.New()
	configFile string
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan a package repository",
	Long: `Scan an on-disk package repository and report QA problems.

pkgscan reads the repository layout (<category>/<package>/<package>-<version>.build
plus optional files/ directories, profiles/package.mask and a git history) and
feeds every addressed entity through the selected checks.

Targeting:
	--target narrows the scan to a category ("dev-libs"), a package
	("dev-libs/libfoo") or a single version ("dev-libs/libfoo-1.2.3").
	Checks needing a broader scope than the target provides are skipped
	and reported.

Output:
	Console output is controlled by --console-format (default: text).
	Structured output can be written via:
	- --out / --out-format: write an aggregate JSON array or NDJSON stream to a file
	- --no-console: suppress the console sink (use with --out for machine output)

	NDJSON mode emits one JSON object per line: lifecycle events with a "type"
	field (run.started, run.finished) interleaved with result records.

Exit codes:
	0 = clean run, no findings
	1 = findings reported
	2 = partial failure (some checks skipped or some output failed)
	3 = fatal error (scan did not run)

Examples:
	# Scan a whole repository
	pkgscan scan --repo /var/db/repos/main

	# Scan one package with only version-scope checks
	pkgscan scan --repo /var/db/repos/main --target dev-libs/libfoo --scopes ver

	# Machine-readable stream
	pkgscan scan --repo /var/db/repos/main --no-console --out results.ndjson
`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 && cmd.Flags().NFlag() == 0 {
			_ = cmd.Help()
			return
		}

		if configFile != "" {
			if err := cfg.LoadFile(configFile); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(engine.ExitFatal)
			}
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(engine.ExitFatal)
		}

		repository, err := repo.Open(cfg.Targeting.Repo)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(engine.ExitFatal)
		}

		logLevel := zerolog.WarnLevel
		if cfg.Runtime.Verbose {
			logLevel = zerolog.DebugLevel
		}
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(logLevel).With().Timestamp().Logger()

		eng := &engine.Engine{Repo: repository, Log: logger}
		code, err := eng.Run(context.Background(), cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(code)
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)

	// Targeting
	scanCmd.Flags().StringVar(&cfg.Targeting.Repo, "repo", "", "Path of the package repository to scan (required)")
	scanCmd.Flags().StringVar(&cfg.Targeting.Target, "target", "", "Restrict the scan to a category, package or version")
	scanCmd.Flags().IntVar(&cfg.Targeting.Commits, "commits", cfg.Targeting.Commits, "Maximum git commits to feed commit checks (0 = unlimited)")

	// Checks
	scanCmd.Flags().StringVarP(&cfg.Checks.Selector, "checks", "c", "", "Comma-separated check IDs to run (empty = all checks)")
	scanCmd.Flags().StringSliceVarP(&cfg.Checks.Scopes, "scopes", "S", nil, "Only run checks at the given scopes: repo|cat|pkg|ver (comma-separated)")

	// Output
	scanCmd.Flags().StringVar(&cfg.Output.ConsoleFormat, "console-format", cfg.Output.ConsoleFormat, "Console output format: text|json|ndjson")
	scanCmd.Flags().StringSliceVar(&cfg.Output.ConsoleFilterLevels, "console-filter-level", nil, "Filter console output by level (info, warning, error). Comma-separated.")
	scanCmd.Flags().StringVar(&cfg.Output.Out, "out", "", "Write structured output to this path")
	scanCmd.Flags().StringVar(&cfg.Output.OutFormat, "out-format", "", "Structured output format for --out: json|ndjson (default: inferred from file extension)")
	scanCmd.Flags().BoolVar(&cfg.Output.NoConsole, "no-console", false, "Suppress console output (use with --out)")

	// Runtime
	scanCmd.Flags().StringVar(&configFile, "config", "", "Config file providing flag defaults (YAML)")
}
