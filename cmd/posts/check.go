package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.hacdias.com/posts/contract"
	"go.hacdias.com/posts/harness"
)

func init() {
	checkCmd.Flags().StringArray("run", nil, "only run cases whose id matches this regex")
	checkCmd.Flags().StringArray("skip", nil, "skip cases whose id matches this regex")
	checkCmd.Flags().Int64("seed", 0, "fixture seed, random when not set")
	checkCmd.Flags().Int("size", harness.DefaultSeedSize, "number of posts seeded before each case")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the API checks against a throwaway server",
	Long: `Starts the API on a random local port, backed by the test database, and runs
every check against it. The test database is seeded before each check and
wiped after it. If no test database is configured, a temporary bolt file is
used.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := parseConfig()
		if err != nil {
			return err
		}

		run, err := cmd.Flags().GetStringArray("run")
		if err != nil {
			return err
		}

		skip, err := cmd.Flags().GetStringArray("skip")
		if err != nil {
			return err
		}

		seed, err := seedFromFlags(cmd)
		if err != nil {
			return err
		}

		size, err := cmd.Flags().GetInt("size")
		if err != nil {
			return err
		}

		filters, err := contract.NewRegexFilters(run, skip)
		if err != nil {
			return err
		}

		h, err := harness.Start(cmd.Context(), harness.Options{
			Database: c.TestDatabase,
			SeedSize: size,
			Seed:     seed,
		})
		if err != nil {
			return fmt.Errorf("harness setup: %w", err)
		}

		if s := filters.String(); s != "" {
			fmt.Printf("Running checks (%s)\n", s)
		}

		results := contract.Run(cmd.Context(), h, filters.AsFilter, consoleTestLogger{})

		if err := h.Stop(); err != nil {
			color.Yellow("harness teardown: %s", err)
		}

		return printResults(results)
	},
}

type consoleTestLogger struct{}

func (consoleTestLogger) TestStarted(id string) {
	fmt.Printf("[%s]\n", id)
}

func (consoleTestLogger) TestError(id string, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Printf("  %s\n", line)
	}
}

func (consoleTestLogger) TestFinished(id string, failed bool) {
	if failed {
		color.Red("  FAILED: %s", id)
	}
}

func (consoleTestLogger) TestSkipped(id string, reason string) {
	if reason == "" {
		color.Yellow("  SKIPPED: %s", id)
	} else {
		color.Yellow("  SKIPPED: %s (%s)", id, reason)
	}
}

func printResults(results contract.Results) error {
	fmt.Println()
	if results.OK() {
		color.Green("All checks passed")
		return nil
	}

	color.Red("FAILED CHECKS:")
	for _, f := range results.Failures {
		fmt.Printf("  * %s\n", f.ID)
	}

	return fmt.Errorf("%d of %d checks failed", len(results.Failures), len(results.Tests))
}
