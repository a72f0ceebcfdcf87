package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pkgscan/internal/checks"
	"pkgscan/internal/feed"
)

var checksListQuiet bool
var checksCmd = &cobra.Command{
	Use:   "checks",
	Short: "Manage and list checks",
	Long: `Manage pkgscan checks.

This command group helps you discover which checks exist and what each one
looks for. Checks are evaluated during scans (see "pkgscan scan --help").

Examples:
  # List all available checks
  pkgscan checks list
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var checksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available checks",
	Long: `List all checks registered in this build, sorted by check ID.

Examples:
  pkgscan checks list
  pkgscan checks list --quiet
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, c := range checks.List() {
			if checksListQuiet {
				fmt.Fprintln(cmd.OutOrStdout(), c.ID())
			} else {
				printCheck(cmd.OutOrStdout(), c)
			}
		}
		return nil
	},
}

var checksShowCmd = &cobra.Command{
	Use:   "show [check-id]",
	Short: "Show details of a specific check",
	Long: `Show details of a specific check by its ID.

Examples:
  pkgscan checks show unused-file
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cs, err := checks.Resolve(args[0])
		if err != nil {
			return err
		}
		if len(cs) == 0 {
			return fmt.Errorf("check not found: %s", args[0])
		}
		printCheck(cmd.OutOrStdout(), cs[0])
		return nil
	},
}

func printCheck(w io.Writer, c checks.Check) {
	bold := color.New(color.Bold)
	spec := c.Spec()
	fmt.Fprintln(w, "----------------------------------------")
	bold.Fprintf(w, "CHECK: %s\n", c.ID())
	fmt.Fprintln(w, "----------------------------------------")
	fmt.Fprintln(w, c.Title())
	fmt.Fprintln(w, c.Description())
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Feed:   %s\n", spec.Feed)
	fmt.Fprintf(w, "  Scope:  %s\n", spec.Scope)
	if f := spec.Filter.Normalize(); f != feed.NoFilter {
		fmt.Fprintf(w, "  Filter: %s\n", f)
	}
	fmt.Fprintln(w)
}

func init() {
	rootCmd.AddCommand(checksCmd)
	checksCmd.AddCommand(checksListCmd)
	checksListCmd.Flags().BoolVarP(&checksListQuiet, "quiet", "q", false, "Only print check IDs")
	checksCmd.AddCommand(checksShowCmd)
}
