// Package style renders citation metadata into standard citation
// formats. Formatting is a pure function of the metadata: no external
// state, deterministic, idempotent.
package style

import (
	"strings"
	"unicode"

	"github.com/matsen/doifind/internal/citation"
)

// Style selects a citation format.
type Style string

const (
	// APA is American Psychological Association style.
	APA Style = "APA"
	// AMA is American Medical Association style.
	AMA Style = "AMA"
)

// Incomplete is returned when the metadata produced no output fragments.
const Incomplete = "Incomplete citation data"

// Format renders metadata in the given style. Anything other than APA
// formats as AMA.
func Format(meta citation.Metadata, style Style) string {
	if style == APA {
		return FormatAPA(meta)
	}
	return FormatAMA(meta)
}

// splitAuthors splits a semicolon-joined author list into trimmed names.
func splitAuthors(authors string) []string {
	parts := strings.Split(authors, ";")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		names = append(names, strings.TrimSpace(p))
	}
	return names
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	first := unicode.ToUpper(runes[0])
	return string(first) + strings.ToLower(string(runes[1:]))
}

// sentenceCase lowercases every word except the first, which is
// capitalized.
func sentenceCase(text string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	words[0] = capitalize(words[0])
	for i := 1; i < len(words); i++ {
		words[i] = strings.ToLower(words[i])
	}
	return strings.Join(words, " ")
}

// lowerWords lowercases every word, collapsing whitespace.
func lowerWords(text string) string {
	words := strings.Fields(text)
	for i := range words {
		words[i] = strings.ToLower(words[i])
	}
	return strings.Join(words, " ")
}

// initial returns the first rune of a name token.
func initial(token string) string {
	runes := []rune(token)
	if len(runes) == 0 {
		return ""
	}
	return string(runes[0])
}
