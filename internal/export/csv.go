// Package export writes citation lists to external formats.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/matsen/doifind/internal/citation"
)

// csvHeader is the column order of the CSV projection.
var csvHeader = []string{
	"ID", "Original Citation", "Status", "DOI", "Confidence",
	"Title", "Authors", "Journal", "Year", "Source",
}

// WriteCSV writes a flat projection of the citations to w.
func WriteCSV(w io.Writer, citations []citation.Citation) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, c := range citations {
		record := []string{
			strconv.Itoa(c.ID),
			c.Original,
			string(c.Status),
			c.DOI,
			strconv.FormatFloat(c.Confidence, 'g', -1, 64),
			c.Metadata.Title,
			c.Metadata.Authors,
			c.Metadata.Journal,
			c.Metadata.Year,
			string(c.Source),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
