package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matsen/doifind/internal/citation"
	"github.com/matsen/doifind/internal/job"
)

// loadCitations reads a citation list from a JSON file ("-" for stdin).
// The file may be a bare citation array, the output of `doifind
// process` (a job wrapper), or a job object.
func loadCitations(path string) ([]citation.Citation, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading citations: %w", err)
	}

	var citations []citation.Citation
	if err := json.Unmarshal(data, &citations); err == nil {
		return citations, nil
	}

	var wrapper struct {
		Job       *job.Job            `json:"job"`
		Citations []citation.Citation `json:"citations"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("parsing citations from %s: %w", path, err)
	}
	if wrapper.Job != nil {
		return wrapper.Job.Citations, nil
	}
	return wrapper.Citations, nil
}

// applySelections marks citations accepted by id and applies manual DOI
// edits. An empty selection accepts every citation with a DOI. A manual
// DOI on a not_found citation promotes it to found with the
// user-supplied confidence.
func applySelections(citations []citation.Citation, selected []int, edits map[int]string) {
	selectedSet := make(map[int]bool, len(selected))
	for _, id := range selected {
		selectedSet[id] = true
	}

	for i := range citations {
		c := &citations[i]
		if len(selected) == 0 {
			c.Accepted = c.DOI != ""
		} else {
			c.Accepted = selectedSet[c.ID]
		}

		if doi, ok := edits[c.ID]; ok && doi != "" {
			c.DOI = doi
			if c.Status == citation.StatusNotFound {
				c.Status = citation.StatusFound
				c.Confidence = 0.5 // User-provided DOI
			}
		}
	}
}
