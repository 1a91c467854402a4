package style

import (
	"fmt"
	"strings"

	"github.com/matsen/doifind/internal/citation"
)

// FormatAPA renders metadata as an APA citation:
// Author(s). (Year). Title. *Journal*, Volume(Issue), pages. DOI URL.
func FormatAPA(meta citation.Metadata) string {
	var parts []string

	if meta.Authors != "" {
		parts = append(parts, apaAuthors(meta.Authors))
	}

	if meta.Year != "" {
		parts = append(parts, fmt.Sprintf("(%s).", meta.Year))
	}

	if meta.Title != "" {
		parts = append(parts, apaTitle(meta.Title))
	}

	if meta.Journal != "" {
		journal := "*" + meta.Journal + "*"
		if meta.Volume != "" {
			if meta.Issue != "" {
				journal += fmt.Sprintf(", %s(%s)", meta.Volume, meta.Issue)
			} else {
				journal += ", " + meta.Volume
			}
		}
		if meta.Pages != "" {
			journal += ", " + meta.Pages
		}
		parts = append(parts, journal+".")
	}

	if meta.DOI != "" {
		parts = append(parts, apaDOI(meta.DOI))
	}

	if len(parts) == 0 {
		return Incomplete
	}

	out := strings.Join(parts, " ")
	if !strings.HasSuffix(out, ".") {
		out += "."
	}
	return out
}

// apaAuthors formats "Last, First Middle" names as "Last, F. M." and
// joins them with commas and an ampersand before the final author.
func apaAuthors(authors string) string {
	names := splitAuthors(authors)
	formatted := make([]string, 0, len(names))

	for _, name := range names {
		last, first, ok := strings.Cut(name, ",")
		if !ok {
			formatted = append(formatted, name)
			continue
		}
		var initials []string
		for _, token := range strings.Fields(first) {
			initials = append(initials, initial(token)+".")
		}
		formatted = append(formatted, strings.TrimSpace(last)+", "+strings.Join(initials, " "))
	}

	switch len(formatted) {
	case 1:
		return formatted[0]
	case 2:
		return formatted[0] + " & " + formatted[1]
	default:
		return strings.Join(formatted[:len(formatted)-1], ", ") + ", & " + formatted[len(formatted)-1]
	}
}

// apaTitle sentence-cases the title: the first word of the main title
// is capitalized, every other word (including the post-colon subtitle)
// is lowercased, and the result collapses to exactly one trailing
// period.
func apaTitle(title string) string {
	var text string
	if main, subtitle, ok := strings.Cut(title, ":"); ok {
		text = sentenceCase(main) + ": " + lowerWords(subtitle)
	} else {
		text = sentenceCase(title)
	}

	text = strings.ReplaceAll(text, "..", ".")
	return strings.TrimRight(text, ".") + "."
}

// apaDOI normalizes a DOI to a full https://doi.org/ URL.
func apaDOI(doi string) string {
	if strings.HasPrefix(doi, "https://doi.org/") {
		return doi
	}
	return "https://doi.org/" + strings.TrimPrefix(doi, "doi:")
}
