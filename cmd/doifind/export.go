package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/doifind/internal/export"
)

var (
	exportOutput string
	exportFormat string
)

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv or bibtex")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <citations.json>",
	Short: "Export citations to CSV or BibTeX",
	Long: `Export the citation list. CSV is a flat projection: id, original
text, status, DOI, confidence, looked-up metadata, and source. BibTeX
emits one entry per citation with a DOI.

Example:
  doifind process paper.docx | doifind export - -o citations.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	citations, err := loadCitations(args[0])
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	out := os.Stdout
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			exitWithError(ExitError, "creating %s: %v", exportOutput, err)
		}
		defer f.Close()
		out = f
	}

	switch exportFormat {
	case "csv":
		err = export.WriteCSV(out, citations)
	case "bibtex":
		err = export.WriteBibTeX(out, citations)
	default:
		exitWithError(ExitError, "unknown export format %q", exportFormat)
	}
	if err != nil {
		exitWithError(ExitError, "writing %s: %v", exportFormat, err)
	}

	if exportOutput != "" && humanOutput {
		fmt.Printf("wrote %s (%d citations)\n", exportOutput, len(citations))
	}
	return nil
}
