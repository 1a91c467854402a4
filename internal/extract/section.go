// Package extract locates and segments the references section of a
// document's plain text. Reference-list formatting varies enormously
// across journals, so every stage is a cascade of heuristics ordered
// from precise to permissive, and each reports which strategy fired so
// callers can discount fallback output.
package extract

import (
	"regexp"
	"strings"
)

// SectionStrategy records how the references section was located.
type SectionStrategy string

const (
	// SectionHeading means a references/bibliography heading matched.
	SectionHeading SectionStrategy = "heading"
	// SectionTail means no heading matched and the last 30% of the
	// document was taken instead.
	SectionTail SectionStrategy = "tail"
)

// minSectionLen is the minimum captured body size for a heading match
// to be trusted.
const minSectionLen = 100

// tailFraction is the share of the document kept by the fallback.
const tailFraction = 0.30

// Heading patterns tried in order. RE2 has no lookahead, so the stop
// keyword is consumed while the body is captured; the end-anchored
// variants come last and take the rest of the document.
var sectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)\n[ \t]*references?[ \t]*\n(.*?)\n\s*(?:appendix|acknowledgment|table|figure|author)`),
	regexp.MustCompile(`(?is)\n[ \t]*bibliography[ \t]*\n(.*?)\n\s*(?:appendix|acknowledgment|table|figure|author)`),
	regexp.MustCompile(`(?is)\n[ \t]*references?[ \t]*\n(.*)$`),
	regexp.MustCompile(`(?is)\n[ \t]*bibliography[ \t]*\n(.*)$`),
}

// FindReferencesSection returns the substring of text believed to hold
// the bibliography. If no heading pattern captures a body longer than
// 100 characters it falls back to the last 30% of the document by
// character offset; callers must expect false positives in that branch.
func FindReferencesSection(text string) (string, SectionStrategy) {
	for _, pattern := range sectionPatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		body := strings.TrimSpace(m[1])
		if len(body) > minSectionLen {
			return body, SectionHeading
		}
	}

	// Bibliographies conventionally sit at the document tail; returning
	// something non-empty beats failing outright.
	runes := []rune(text)
	split := int(float64(len(runes)) * (1 - tailFraction))
	return string(runes[split:]), SectionTail
}
