// Package citation defines the core domain types for extracted citations.
package citation

// Status tracks a citation through the lookup pipeline. The machine is
// forward-only: once a citation leaves StatusPending it never returns.
type Status string

const (
	// StatusPending means the citation has been parsed but not yet looked up.
	StatusPending Status = "pending"
	// StatusHasDOI means the original text already contained a DOI.
	StatusHasDOI Status = "has_doi"
	// StatusFound means an external source resolved the citation to a DOI.
	StatusFound Status = "found"
	// StatusNotFound means every source was exhausted without a DOI.
	StatusNotFound Status = "not_found"
)

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	return s == StatusHasDOI || s == StatusFound || s == StatusNotFound
}

// Source identifies the external system that supplied a DOI.
// Empty for embedded or user-supplied DOIs.
type Source string

const (
	SourcePubMed   Source = "PubMed"
	SourceCrossRef Source = "CrossRef"
)

// Metadata holds the bibliographic fields extracted from the citation
// text or returned by an external source. Fields are optional strings;
// Authors is a semicolon-joined "Last, First" list.
type Metadata struct {
	Year        string `json:"year,omitempty"`
	Title       string `json:"title,omitempty"`
	Authors     string `json:"authors,omitempty"`
	Journal     string `json:"journal,omitempty"`
	Volume      string `json:"volume,omitempty"`
	Issue       string `json:"issue,omitempty"`
	Pages       string `json:"pages,omitempty"`
	DOI         string `json:"doi,omitempty"`
	ExistingDOI bool   `json:"existing_doi,omitempty"`
}

// Citation represents one detected reference and its resolution state.
type Citation struct {
	ID         int      `json:"id"`       // 1-based position in the references section
	Original   string   `json:"original"` // Raw extracted text, never modified
	Status     Status   `json:"status"`
	DOI        string   `json:"doi,omitempty"`
	Confidence float64  `json:"confidence"`
	Metadata   Metadata `json:"metadata"`
	Source     Source   `json:"source,omitempty"`
	Accepted   bool     `json:"accepted,omitempty"`
	Message    string   `json:"message,omitempty"` // Failure explanation, set on not_found
}

// Stats summarizes a citation list by status.
type Stats struct {
	Total     int `json:"total"`
	HasDOI    int `json:"has_doi"`
	Found     int `json:"found"`
	NotFound  int `json:"not_found"`
	Pending   int `json:"pending"`
	Processed int `json:"processed"`
	DOIsFound int `json:"dois_found"`
}

// Summarize computes status counts for a citation list.
func Summarize(citations []Citation) Stats {
	stats := Stats{Total: len(citations)}
	for _, c := range citations {
		switch c.Status {
		case StatusHasDOI:
			stats.HasDOI++
		case StatusFound:
			stats.Found++
		case StatusNotFound:
			stats.NotFound++
		case StatusPending:
			stats.Pending++
		}
		if c.Status.Terminal() {
			stats.Processed++
		}
		if c.DOI != "" {
			stats.DOIsFound++
		}
	}
	return stats
}
