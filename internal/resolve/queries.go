package resolve

import (
	"regexp"
	"strings"
)

const (
	// minTitleLen and maxTitleLen bound an extracted title candidate.
	minTitleLen = 10
	maxTitleLen = 150

	// maxFallbackLen truncates the raw-text fallback query.
	maxFallbackLen = 200
)

// Title candidate patterns tried in priority order: quoted text, a
// capitalized clause after the year, a capitalized clause after a
// period. Only the first candidate inside the length bounds is kept.
var titlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`"([^"]{10,})"`),
	regexp.MustCompile(`\d{4}[;,.]?\s*([A-Z][^.]{10,}?)\.`),
	regexp.MustCompile(`\.?\s*([A-Z][^.]{10,}?)\.`),
}

// BuildQueries derives an ordered list of search strings from raw
// citation text: at most one title-like candidate, then the raw text
// truncated to 200 characters as a fallback.
func BuildQueries(text string) []string {
	var queries []string

	for _, pattern := range titlePatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		candidate := strings.TrimSpace(m[1])
		if len(candidate) >= minTitleLen && len(candidate) <= maxTitleLen {
			queries = append(queries, candidate)
			break
		}
	}

	runes := []rune(text)
	if len(runes) > maxFallbackLen {
		runes = runes[:maxFallbackLen]
	}
	queries = append(queries, string(runes))

	return queries
}
