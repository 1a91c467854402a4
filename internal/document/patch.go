package document

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/matsen/doifind/internal/citation"
	"github.com/matsen/doifind/internal/style"
)

// ApplyMode selects how formatted citations are written back.
type ApplyMode string

const (
	// AppendNewSection adds a References heading and the citations at
	// the end of the document, leaving existing content untouched.
	AppendNewSection ApplyMode = "append_new_section"
	// ReplaceReferences replaces the body of an existing references
	// section, falling back to appending when none is found.
	ReplaceReferences ApplyMode = "replace_references"
)

// ErrNoCitations is returned when no accepted citation has a DOI.
var ErrNoCitations = errors.New("no citations selected for application")

var (
	referencesHeading = regexp.MustCompile(`(?i)^\s*(references?|bibliography)\s*$`)
	sectionTerminator = regexp.MustCompile(`(?i)^\s*(appendix|acknowledgment)`)
)

// ApplyCitations renders every accepted citation with a DOI in the
// given style and writes them into a copy of the document according to
// mode. The returned warning is non-empty when ReplaceReferences found
// no heading and fell back to appending.
func ApplyCitations(doc Document, citations []citation.Citation, mode ApplyMode, st style.Style) (Document, string, error) {
	formatted := formatAccepted(citations, st)
	if len(formatted) == 0 {
		return Document{}, "", ErrNoCitations
	}

	switch mode {
	case ReplaceReferences:
		if patched, ok := replaceReferences(doc, formatted); ok {
			return patched, "", nil
		}
		return appendSection(doc, formatted), "no existing references section found, appended a new one", nil
	default:
		return appendSection(doc, formatted), "", nil
	}
}

// formatAccepted renders the accepted citations, each prefixed with its
// id and a period.
func formatAccepted(citations []citation.Citation, st style.Style) []string {
	var formatted []string
	for _, c := range citations {
		if !c.Accepted || c.DOI == "" {
			continue
		}
		meta := c.Metadata
		meta.DOI = c.DOI
		formatted = append(formatted, fmt.Sprintf("%d. %s", c.ID, style.Format(meta, st)))
	}
	return formatted
}

// appendSection adds a References heading and the citations at the end.
func appendSection(doc Document, formatted []string) Document {
	out := doc.Clone()
	out.Paragraphs = append(out.Paragraphs, "References")
	out.Paragraphs = append(out.Paragraphs, formatted...)
	return out
}

// replaceReferences finds a references/bibliography heading paragraph,
// removes every immediately following non-blank paragraph until a blank
// one or an appendix/acknowledgment heading, and inserts the formatted
// citations in the gap. Returns false when no heading exists.
func replaceReferences(doc Document, formatted []string) (Document, bool) {
	headingIdx := -1
	for i, p := range doc.Paragraphs {
		if referencesHeading.MatchString(strings.TrimSpace(p)) {
			headingIdx = i
			break
		}
	}
	if headingIdx < 0 {
		return Document{}, false
	}

	end := headingIdx + 1
	for end < len(doc.Paragraphs) {
		p := doc.Paragraphs[end]
		if strings.TrimSpace(p) == "" || sectionTerminator.MatchString(p) {
			break
		}
		end++
	}

	out := Document{}
	out.Paragraphs = append(out.Paragraphs, doc.Paragraphs[:headingIdx+1]...)
	out.Paragraphs = append(out.Paragraphs, formatted...)
	out.Paragraphs = append(out.Paragraphs, doc.Paragraphs[end:]...)
	return out, true
}
