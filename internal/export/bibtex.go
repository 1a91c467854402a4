package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/matsen/doifind/internal/citation"
)

// WriteBibTeX writes one BibTeX entry per citation that carries a DOI.
func WriteBibTeX(w io.Writer, citations []citation.Citation) error {
	var entries []string
	for _, c := range citations {
		if c.DOI == "" {
			continue
		}
		entries = append(entries, toBibTeX(c))
	}
	_, err := io.WriteString(w, strings.Join(entries, "\n"))
	return err
}

// toBibTeX renders a single citation as a BibTeX entry.
func toBibTeX(c citation.Citation) string {
	meta := c.Metadata
	var b strings.Builder

	b.WriteString(fmt.Sprintf("@%s{%s,\n", entryType(meta.Journal), citationKey(c)))

	if meta.Authors != "" {
		b.WriteString(fmt.Sprintf("  author = {%s},\n", bibtexAuthors(meta.Authors)))
	}
	if meta.Title != "" {
		b.WriteString(fmt.Sprintf("  title = {%s},\n", escapeLatex(meta.Title)))
	}
	if meta.Journal != "" {
		fieldName := "journal"
		if entryType(meta.Journal) == "inproceedings" {
			fieldName = "booktitle"
		}
		b.WriteString(fmt.Sprintf("  %s = {%s},\n", fieldName, escapeLatex(meta.Journal)))
	}
	if meta.Year != "" {
		b.WriteString(fmt.Sprintf("  year = {%s},\n", meta.Year))
	}
	if meta.Volume != "" {
		b.WriteString(fmt.Sprintf("  volume = {%s},\n", meta.Volume))
	}
	if meta.Issue != "" {
		b.WriteString(fmt.Sprintf("  number = {%s},\n", meta.Issue))
	}
	if meta.Pages != "" {
		b.WriteString(fmt.Sprintf("  pages = {%s},\n", meta.Pages))
	}
	b.WriteString(fmt.Sprintf("  doi = {%s},\n", c.DOI))

	b.WriteString("}\n")
	return b.String()
}

// citationKey builds a citation key from the first author's last name,
// the year, and the citation id as a uniqueness suffix.
func citationKey(c citation.Citation) string {
	last := "ref"
	if c.Metadata.Authors != "" {
		first := strings.SplitN(c.Metadata.Authors, ";", 2)[0]
		if name, _, ok := strings.Cut(first, ","); ok {
			last = name
		} else {
			last = first
		}
		last = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(last), " ", ""))
	}
	return fmt.Sprintf("%s%s_%d", last, c.Metadata.Year, c.ID)
}

// entryType picks a BibTeX entry type from the venue name.
func entryType(journal string) string {
	venue := strings.ToLower(journal)
	if strings.Contains(venue, "proceedings") ||
		strings.Contains(venue, "conference") ||
		strings.Contains(venue, "workshop") ||
		strings.Contains(venue, "symposium") {
		return "inproceedings"
	}
	return "article"
}

// bibtexAuthors rejoins a semicolon-separated author list with "and".
func bibtexAuthors(authors string) string {
	parts := strings.Split(authors, ";")
	for i, p := range parts {
		parts[i] = escapeLatex(strings.TrimSpace(p))
	}
	return strings.Join(parts, " and ")
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	// & must come first so later escapes never double up
	replacer := strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}
