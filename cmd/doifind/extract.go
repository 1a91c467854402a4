package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/doifind/internal/citation"
	"github.com/matsen/doifind/internal/document"
	"github.com/matsen/doifind/internal/extract"
	"github.com/matsen/doifind/internal/job"
)

func init() {
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract citations from a document without resolving DOIs",
	Long: `Extract the references section from a document, segment it into
citations, and parse each one for embedded DOIs and years. No network
lookups are performed.

Example:
  doifind extract paper.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

// extractResult is the JSON output of the extract command.
type extractResult struct {
	Citations       []citation.Citation     `json:"citations"`
	SectionStrategy extract.SectionStrategy `json:"section_strategy"`
	SplitStrategy   extract.SplitStrategy   `json:"split_strategy"`
	Stats           citation.Stats          `json:"stats"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	doc, err := document.FromFile(args[0])
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	citations, sectionStrategy, splitStrategy := job.ExtractCitations(doc.Text())

	if humanOutput {
		fmt.Printf("%d citations (section: %s, split: %s)\n",
			len(citations), sectionStrategy, splitStrategy)
		for _, c := range citations {
			fmt.Printf("%3d. %.70s\n", c.ID, c.Original)
			if c.DOI != "" {
				fmt.Printf("     doi:%s\n", c.DOI)
			}
		}
		return nil
	}

	return outputJSON(extractResult{
		Citations:       citations,
		SectionStrategy: sectionStrategy,
		SplitStrategy:   splitStrategy,
		Stats:           citation.Summarize(citations),
	})
}
