package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Targeting Targeting
	Checks    Checks
	Output    Output
	Runtime   Runtime
}

type Targeting struct {
	// Repo is the path of the package repository to scan (see --repo).
	Repo string

	// Target narrows the scan to a category, package or version, given as
	// "cat", "cat/pkg" or "cat/pkg-ver" (see --target). Empty scans the
	// whole repository.
	Target string

	// Commits bounds how many commits the commit pipeline reads from the
	// repository's git history (see --commits). 0 means unlimited.
	Commits int
}

type Checks struct {
	// Selector selects which checks to run as a comma-separated list of
	// check IDs (see --checks). Empty means all checks.
	Selector string

	// Scopes keeps only checks running at the named scopes (see --scopes).
	// Accepted names: repo, cat, pkg, ver.
	Scopes []string
}

type Output struct {
	// ConsoleFormat controls the console sink format (see --console-format).
	// Allowed values: text, json, ndjson.
	ConsoleFormat string

	// ConsoleFilterLevels filters console output by result level (see
	// --console-filter-level). Allowed values: info, warning, error.
	ConsoleFilterLevels []string

	// Out writes structured output to this path (see --out).
	Out string

	// OutFormat selects the format for --out: json or ndjson. If empty, it
	// is inferred from the --out file extension.
	OutFormat string

	// NoConsole suppresses the console sink (see --no-console).
	NoConsole bool
}

type Runtime struct {
	// Verbose enables planner debug logging on stderr.
	Verbose bool
}

func New() *Config {
	return &Config{
		Targeting: Targeting{Commits: 100},
		Output:    Output{ConsoleFormat: "text"},
	}
}

func (c *Config) Validate() error {
	if c.Targeting.Repo == "" {
		return fmt.Errorf("--repo is required")
	}
	if c.Targeting.Commits < 0 {
		return fmt.Errorf("--commits must be >= 0, got %d", c.Targeting.Commits)
	}

	switch c.Output.ConsoleFormat {
	case "text", "json", "ndjson":
	default:
		return fmt.Errorf("invalid console format %q (allowed: text, json, ndjson)", c.Output.ConsoleFormat)
	}
	if c.Output.OutFormat != "" && c.Output.OutFormat != "json" && c.Output.OutFormat != "ndjson" {
		return fmt.Errorf("invalid output format %q (allowed: json, ndjson)", c.Output.OutFormat)
	}
	for _, l := range c.Output.ConsoleFilterLevels {
		switch l {
		case "info", "warning", "error":
		default:
			return fmt.Errorf("invalid console filter level %q (allowed: info, warning, error)", l)
		}
	}
	return nil
}

// LoadFile merges defaults from a YAML config file into fields still at
// their zero or constructor defaults; explicit flags always win because the
// CLI applies them after loading.
func (c *Config) LoadFile(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	if c.Targeting.Repo == "" {
		c.Targeting.Repo = v.GetString("repo")
	}
	if c.Targeting.Target == "" {
		c.Targeting.Target = v.GetString("target")
	}
	if v.IsSet("commits") && c.Targeting.Commits == 100 {
		c.Targeting.Commits = v.GetInt("commits")
	}
	if c.Checks.Selector == "" {
		c.Checks.Selector = v.GetString("checks")
	}
	if len(c.Checks.Scopes) == 0 {
		c.Checks.Scopes = v.GetStringSlice("scopes")
	}
	if v.IsSet("console-format") && c.Output.ConsoleFormat == "text" {
		c.Output.ConsoleFormat = v.GetString("console-format")
	}
	if c.Output.Out == "" {
		c.Output.Out = v.GetString("out")
	}
	return nil
}
