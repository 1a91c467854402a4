package style

import (
	"fmt"
	"strings"

	"github.com/matsen/doifind/internal/citation"
)

// amaMaxAuthors is how many authors AMA style lists before "et al".
const amaMaxAuthors = 6

// FormatAMA renders metadata as an AMA citation:
// Author(s). Title. *Journal*. Year;Volume(Issue):pages. doi:DOI
func FormatAMA(meta citation.Metadata) string {
	var parts []string

	if meta.Authors != "" {
		parts = append(parts, amaAuthors(meta.Authors)+".")
	}

	if meta.Title != "" {
		words := strings.Fields(meta.Title)
		if len(words) > 0 {
			words[0] = capitalize(words[0])
		}
		parts = append(parts, strings.Join(words, " ")+".")
	}

	if meta.Journal != "" {
		parts = append(parts, "*"+meta.Journal+"*.")
	}

	// Year;Volume(Issue):pages with components omitted progressively:
	// volume attaches only when a year is present, pages only when a
	// volume is.
	if meta.Year != "" {
		info := meta.Year
		if meta.Volume != "" {
			if meta.Issue != "" {
				info += fmt.Sprintf(";%s(%s)", meta.Volume, meta.Issue)
			} else {
				info += ";" + meta.Volume
			}
			if meta.Pages != "" {
				info += ":" + meta.Pages
			}
		}
		parts = append(parts, info+".")
	}

	if meta.DOI != "" {
		parts = append(parts, "doi:"+amaDOI(meta.DOI))
	}

	if len(parts) == 0 {
		return Incomplete
	}
	return strings.Join(parts, " ")
}

// amaAuthors formats "Last, First" names as "Last F", lists at most
// six, and appends "et al" when more existed.
func amaAuthors(authors string) string {
	names := splitAuthors(authors)

	listed := names
	if len(listed) > amaMaxAuthors {
		listed = listed[:amaMaxAuthors]
	}

	formatted := make([]string, 0, len(listed)+1)
	for _, name := range listed {
		last, first, ok := strings.Cut(name, ",")
		if !ok {
			formatted = append(formatted, name)
			continue
		}
		tokens := strings.Fields(first)
		firstInitial := ""
		if len(tokens) > 0 {
			firstInitial = initial(tokens[0])
		}
		formatted = append(formatted, strings.TrimSpace(last)+" "+firstInitial)
	}

	if len(names) > amaMaxAuthors {
		formatted = append(formatted, "et al")
	}

	return strings.Join(formatted, ", ")
}

// amaDOI strips any URL or doi: prefix so the DOI renders bare.
func amaDOI(doi string) string {
	doi = strings.TrimPrefix(doi, "https://doi.org/")
	return strings.TrimPrefix(doi, "doi:")
}
