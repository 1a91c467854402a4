package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/doifind/internal/document"
	"github.com/matsen/doifind/internal/style"
)

var (
	applyCitationsPath string
	applyMode          string
	applyStyle         string
	applyOutput        string
	applySelected      []int
	applyEdits         map[string]string
)

func init() {
	applyCmd.Flags().StringVar(&applyCitationsPath, "citations", "", "Citations JSON file from process (required)")
	applyCmd.Flags().StringVar(&applyMode, "mode", string(document.AppendNewSection),
		"Apply mode: append_new_section or replace_references")
	applyCmd.Flags().StringVar(&applyStyle, "style", "APA", "Citation style (APA or AMA)")
	applyCmd.Flags().StringVarP(&applyOutput, "output", "o", "", "Output file (default: <file>_with_dois.txt)")
	applyCmd.Flags().IntSliceVar(&applySelected, "select", nil,
		"Citation ids to apply (default: all with a DOI)")
	applyCmd.Flags().StringToStringVar(&applyEdits, "set-doi", nil,
		"Manual DOI edits as id=doi pairs")
	applyCmd.MarkFlagRequired("citations")
	rootCmd.AddCommand(applyCmd)
}

var applyCmd = &cobra.Command{
	Use:   "apply <file>",
	Short: "Write resolved citations back into a document",
	Long: `Render the accepted citations and write them into the document,
either appending a new References section or replacing the existing
one. The patched document is written as plain text; the original file
is never modified.

Example:
  doifind apply paper.docx --citations citations.json --mode replace_references -o paper_with_dois.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

// applyResult is the JSON output of the apply command.
type applyResult struct {
	Output  string `json:"output"`
	Applied int    `json:"applied"`
	Warning string `json:"warning,omitempty"`
}

func runApply(cmd *cobra.Command, args []string) error {
	citations, err := loadCitations(applyCitationsPath)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	edits, err := parseDOIEdits(applyEdits)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	applySelections(citations, applySelected, edits)

	doc, err := document.FromFile(args[0])
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	patched, warning, err := document.ApplyCitations(doc, citations,
		document.ApplyMode(applyMode), style.Style(applyStyle))
	if err != nil {
		exitWithError(ExitError, "applying citations: %v", err)
	}

	output := applyOutput
	if output == "" {
		output = defaultOutputPath(args[0])
	}
	if err := patched.WriteFile(output); err != nil {
		exitWithError(ExitError, "writing %s: %v", output, err)
	}

	applied := 0
	for _, c := range citations {
		if c.Accepted && c.DOI != "" {
			applied++
		}
	}

	if humanOutput {
		fmt.Printf("wrote %s (%d citations applied)\n", output, applied)
		if warning != "" {
			fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
		}
		return nil
	}
	return outputJSON(applyResult{Output: output, Applied: applied, Warning: warning})
}

// parseDOIEdits converts id=doi flag pairs into an id-keyed map.
func parseDOIEdits(edits map[string]string) (map[int]string, error) {
	out := make(map[int]string, len(edits))
	for key, doi := range edits {
		var id int
		if _, err := fmt.Sscanf(key, "%d", &id); err != nil {
			return nil, fmt.Errorf("invalid citation id %q in --set-doi", key)
		}
		out[id] = doi
	}
	return out, nil
}

// defaultOutputPath derives the output filename from the input.
func defaultOutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + "_with_dois.txt"
}
