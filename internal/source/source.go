// Package source provides clients for external bibliographic metadata
// databases. Each client implements the Source interface so the
// resolver can try an ordered list of databases without knowing their
// wire formats; adding a database means adding a client, not touching
// the resolver.
package source

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/matsen/doifind/internal/citation"
)

// Source is a free-text searchable bibliographic database.
type Source interface {
	// Name identifies the database in citation records.
	Name() citation.Source

	// Confidence is the score assigned to DOIs this database resolves.
	Confidence() float64

	// Search queries the database and returns metadata for the most
	// relevant match, or nil when nothing with a DOI was found.
	// A nil, nil return is the normal "no result" outcome.
	Search(ctx context.Context, query string) (*Result, error)
}

// Result is the metadata record returned by a successful search.
type Result struct {
	DOI     string          `json:"doi,omitempty"`
	Title   string          `json:"title,omitempty"`   // Truncated to 200 chars
	Authors string          `json:"authors,omitempty"` // Semicolon-joined "Last, First", max 5
	Journal string          `json:"journal,omitempty"` // Truncated to 100 chars
	Year    string          `json:"year,omitempty"`
	Source  citation.Source `json:"source"`
}

// Common errors returned by source clients.
var (
	// ErrRateLimited indicates the database rejected the request for
	// exceeding its rate limits.
	ErrRateLimited = errors.New("source rate limit exceeded")

	// ErrInvalidResponse indicates an unparseable API response.
	ErrInvalidResponse = errors.New("invalid response from source")
)

// APIError represents an HTTP-level error from a metadata database.
type APIError struct {
	Source     citation.Source
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s API error (status %d): %s", e.Source, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s API error (status %d)", e.Source, e.StatusCode)
}

// Field length limits shared by all clients.
const (
	maxTitleLen   = 200
	maxJournalLen = 100
	maxAuthors    = 5
)

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// joinAuthors joins up to maxAuthors "Last, First" names with "; ".
func joinAuthors(names []string) string {
	if len(names) > maxAuthors {
		names = names[:maxAuthors]
	}
	return strings.Join(names, "; ")
}
