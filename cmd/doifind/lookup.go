package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/doifind/internal/citation"
	"github.com/matsen/doifind/internal/config"
)

func init() {
	lookupCmd.Flags().DurationVar(&processDelay, "delay", 0, "Politeness delay between external calls (default 500ms)")
	lookupCmd.Flags().DurationVar(&processTimeout, "timeout", 0, "Lookup timeout (default 45s)")
	rootCmd.AddCommand(lookupCmd)
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <citation text>",
	Short: "Resolve a single citation string to a DOI",
	Long: `Parse one citation string and resolve it to a DOI via PubMed and
CrossRef. Multiple arguments are joined with spaces.

Example:
  doifind lookup "Smith J, Jones K. A study of things. J Things. 2020."`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookup,
}

func runLookup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	c := citation.Parse(strings.Join(args, " "), 1)

	logger := newLogger()
	resolver := buildResolver(cfg, logger)
	resolver.Resolve(context.Background(), &c)

	if humanOutput {
		fmt.Printf("status: %s\n", c.Status)
		if c.DOI != "" {
			fmt.Printf("doi: %s\nconfidence: %.1f\n", c.DOI, c.Confidence)
			if c.Source != "" {
				fmt.Printf("source: %s\n", c.Source)
			}
		}
		if c.Message != "" {
			fmt.Printf("message: %s\n", c.Message)
		}
		return nil
	}
	return outputJSON(c)
}
