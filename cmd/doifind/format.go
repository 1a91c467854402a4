package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/doifind/internal/style"
)

var formatStyle string

func init() {
	formatCmd.Flags().StringVar(&formatStyle, "style", "APA", "Citation style (APA or AMA)")
	rootCmd.AddCommand(formatCmd)
}

var formatCmd = &cobra.Command{
	Use:   "format <citations.json>",
	Short: "Render resolved citations in a citation style",
	Long: `Render every citation with a DOI in the chosen style. Reads the
JSON output of process or extract; pass - to read stdin.

Example:
  doifind process paper.docx | doifind format - --style AMA`,
	Args: cobra.ExactArgs(1),
	RunE: runFormat,
}

// formattedCitation pairs a citation id with its rendered string.
type formattedCitation struct {
	ID        int    `json:"id"`
	Formatted string `json:"formatted"`
}

func runFormat(cmd *cobra.Command, args []string) error {
	citations, err := loadCitations(args[0])
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	var rendered []formattedCitation
	for _, c := range citations {
		if c.DOI == "" {
			continue
		}
		meta := c.Metadata
		meta.DOI = c.DOI
		rendered = append(rendered, formattedCitation{
			ID:        c.ID,
			Formatted: style.Format(meta, style.Style(formatStyle)),
		})
	}

	if humanOutput {
		for _, r := range rendered {
			fmt.Printf("%d. %s\n", r.ID, r.Formatted)
		}
		return nil
	}
	return outputJSON(rendered)
}
