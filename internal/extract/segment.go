package extract

import (
	"regexp"
	"strings"
)

// SplitStrategy records which segmentation heuristic produced the
// citation list.
type SplitStrategy string

const (
	// SplitNumbered matched decimal-numbered entries ("1. ...").
	SplitNumbered SplitStrategy = "numbered"
	// SplitBracketed matched square-bracket-numbered entries ("[1] ...").
	SplitBracketed SplitStrategy = "bracketed"
	// SplitAuthorYear kept lines that look like author-year citations.
	SplitAuthorYear SplitStrategy = "author_year"
	// SplitLines returned every non-blank line verbatim.
	SplitLines SplitStrategy = "lines"
)

const (
	// minCitationLen is the minimum length for a cleaned citation entry.
	minCitationLen = 30
	// minNumberedMatches is how many numbered entries a strategy must
	// find before it is trusted.
	minNumberedMatches = 3
)

var (
	decimalBoundary = regexp.MustCompile(`(?m)^[ \t]*\d+\.\s`)
	bracketBoundary = regexp.MustCompile(`(?m)^[ \t]*\[\d+\]`)
	leadingNumber   = regexp.MustCompile(`^\s*[\d\[\]]+\.?\s*`)
	innerWhitespace = regexp.MustCompile(`\s+`)
	yearToken       = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	authorToken     = regexp.MustCompile(`[A-Z][a-z]+,\s*[A-Z]`)
)

// SplitCitations splits a references section into individual citation
// strings. Numbered formats are tried first (decimal then bracketed,
// each requiring at least 3 entries), then an author-year line scan,
// then every non-blank line as a last resort.
func SplitCitations(text string) ([]string, SplitStrategy) {
	if citations := splitNumbered(text, decimalBoundary); len(citations) > 0 {
		return citations, SplitNumbered
	}
	if citations := splitNumbered(text, bracketBoundary); len(citations) > 0 {
		return citations, SplitBracketed
	}

	lines := strings.Split(text, "\n")

	var authorYear []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) >= minCitationLen && authorToken.MatchString(line) && yearToken.MatchString(line) {
			authorYear = append(authorYear, line)
		}
	}
	if len(authorYear) > 0 {
		return authorYear, SplitAuthorYear
	}

	var nonBlank []string
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			nonBlank = append(nonBlank, trimmed)
		}
	}
	return nonBlank, SplitLines
}

// splitNumbered slices text at each numbering boundary and cleans the
// entries. It returns nil unless the boundary matched at least 3 times
// and at least one entry survived filtering.
func splitNumbered(text string, boundary *regexp.Regexp) []string {
	locs := boundary.FindAllStringIndex(text, -1)
	if len(locs) < minNumberedMatches {
		return nil
	}

	var citations []string
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		entry := cleanEntry(text[loc[0]:end])
		if len(entry) >= minCitationLen && yearToken.MatchString(entry) {
			citations = append(citations, entry)
		}
	}
	return citations
}

// cleanEntry strips the leading number or brackets and collapses all
// internal whitespace to single spaces.
func cleanEntry(entry string) string {
	entry = leadingNumber.ReplaceAllString(strings.TrimSpace(entry), "")
	return strings.TrimSpace(innerWhitespace.ReplaceAllString(entry, " "))
}
