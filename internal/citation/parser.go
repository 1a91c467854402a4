package citation

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DOI patterns tried in priority order. The bare form is first because
// it also matches the payload of every prefixed form.
var doiPatterns = []*regexp.Regexp{
	regexp.MustCompile(`10\.\d{4,}/[^\s)\]\n]+`),
	regexp.MustCompile(`(?i)doi:\s*10\.\d{4,}/[^\s)\]\n]+`),
	regexp.MustCompile(`(?i)DOI:\s*10\.\d{4,}/[^\s)\]\n]+`),
	regexp.MustCompile(`(?i)https?://(?:dx\.)?doi\.org/10\.\d{4,}/[^\s)\]\n]+`),
}

var doiPrefix = regexp.MustCompile(`(?i)^(doi:|https?://(?:dx\.)?doi\.org/)\s*`)

// Year patterns tried in priority order: parenthesized, punctuated,
// then any bare 4-digit token in the 1900-2099 range.
var yearPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\((\d{4})\)`),
	regexp.MustCompile(`\b(\d{4})[;,.]`),
	regexp.MustCompile(`\b((?:19|20)\d{2})\b`),
}

// Parse converts one raw citation string into a Citation with the given
// 1-based id. The citation starts pending; if the text already embeds a
// DOI it is promoted to has_doi with full confidence.
func Parse(text string, id int) Citation {
	c := Citation{
		ID:       id,
		Original: strings.TrimSpace(text),
		Status:   StatusPending,
	}

	if doi := ExtractDOI(text); doi != "" {
		c.DOI = doi
		c.Status = StatusHasDOI
		c.Confidence = 1.0
		c.Metadata.ExistingDOI = true
		c.Metadata.DOI = doi
	}

	// Year extraction runs regardless of the DOI outcome; the year feeds
	// search query construction later.
	if year := ExtractYear(text); year != "" {
		c.Metadata.Year = year
	}

	return c
}

// ExtractDOI returns a DOI embedded in citation text, stripped of any
// doi:/URL prefix and trailing punctuation, or "" if none is present.
// Running it again on its own output yields the same string.
func ExtractDOI(text string) string {
	for _, pattern := range doiPatterns {
		match := pattern.FindString(text)
		if match == "" {
			continue
		}
		doi := doiPrefix.ReplaceAllString(match, "")
		doi = strings.TrimRight(doi, " \t)]\n")
		return strings.TrimSpace(doi)
	}
	return ""
}

// ExtractYear returns the publication year found in citation text, or ""
// when no candidate falls in [1900, current year]. A parenthesized year
// is preferred over a punctuated one, which is preferred over a bare
// 4-digit token.
func ExtractYear(text string) string {
	currentYear := time.Now().Year()
	for _, pattern := range yearPatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		year, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if year >= 1900 && year <= currentYear {
			return strconv.Itoa(year)
		}
	}
	return ""
}
