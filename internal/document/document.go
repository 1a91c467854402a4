// Package document handles plain-text document artifacts: extracting
// paragraph text from source files and patching references sections
// back in. The binary container formats themselves are delegated to
// conversion libraries; the pipeline only ever sees paragraphs.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv/v2"
	"github.com/ledongthuc/pdf"
)

// Document is an ordered list of paragraphs.
type Document struct {
	Paragraphs []string `json:"paragraphs"`
}

// Text joins the paragraphs with newlines, the form the extraction
// pipeline consumes.
func (d Document) Text() string {
	return strings.Join(d.Paragraphs, "\n")
}

// Clone returns a deep copy. Patching never mutates the original.
func (d Document) Clone() Document {
	paragraphs := make([]string, len(d.Paragraphs))
	copy(paragraphs, d.Paragraphs)
	return Document{Paragraphs: paragraphs}
}

// FromText splits raw text into a Document, one paragraph per line.
func FromText(text string) Document {
	return Document{Paragraphs: strings.Split(text, "\n")}
}

// FromFile extracts a Document from a file. Plain text and Markdown
// are read directly, PDFs through ledongthuc/pdf, and Word/RTF/ODT
// formats through docconv.
func FromFile(path string) (Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return Document{}, fmt.Errorf("reading %s: %w", path, err)
		}
		return FromText(string(data)), nil
	case ".pdf":
		text, err := extractPDFText(path)
		if err != nil {
			return Document{}, fmt.Errorf("extracting PDF text from %s: %w", path, err)
		}
		return FromText(text), nil
	default:
		res, err := docconv.ConvertPath(path)
		if err != nil {
			return Document{}, fmt.Errorf("converting %s: %w", path, err)
		}
		if strings.TrimSpace(res.Body) == "" {
			return Document{}, fmt.Errorf("no text extracted from %s", path)
		}
		return FromText(res.Body), nil
	}
}

// extractPDFText extracts plain text from every page of a PDF.
func extractPDFText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var builder strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	return builder.String(), nil
}

// WriteFile writes the document as plain text, one paragraph per line.
func (d Document) WriteFile(path string) error {
	return os.WriteFile(path, []byte(d.Text()+"\n"), 0644)
}
