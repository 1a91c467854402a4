package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/matsen/doifind/internal/citation"
)

const (
	// CrossRefBaseURL is the CrossRef REST API works endpoint.
	CrossRefBaseURL = "https://api.crossref.org/works"

	// CrossRefRateLimit keeps us well inside the polite pool limits.
	CrossRefRateLimit = 10.0

	// DefaultMailto identifies us to the polite pool when no contact
	// address is configured.
	DefaultMailto = "doifind@example.com"

	// crossrefMaxQueryLen bounds the query parameter length.
	crossrefMaxQueryLen = 300

	// crossrefRows limits how many works a search returns.
	crossrefRows = "5"
)

// CrossRef is a rate-limited client for the CrossRef REST API.
type CrossRef struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	mailto     string
}

// CrossRefOption configures a CrossRef client.
type CrossRefOption func(*CrossRef)

// WithMailto sets the contact address sent with every request, which
// routes us into CrossRef's polite pool.
func WithMailto(mailto string) CrossRefOption {
	return func(c *CrossRef) {
		c.mailto = mailto
	}
}

// WithCrossRefBaseURL sets a custom base URL (for testing).
func WithCrossRefBaseURL(u string) CrossRefOption {
	return func(c *CrossRef) {
		c.baseURL = u
	}
}

// WithCrossRefHTTPClient sets a custom HTTP client.
func WithCrossRefHTTPClient(hc *http.Client) CrossRefOption {
	return func(c *CrossRef) {
		c.httpClient = hc
	}
}

// NewCrossRef creates a CrossRef client.
func NewCrossRef(opts ...CrossRefOption) *CrossRef {
	c := &CrossRef{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(CrossRefRateLimit), 1),
		baseURL:    CrossRefBaseURL,
		mailto:     DefaultMailto,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name implements Source.
func (c *CrossRef) Name() citation.Source { return citation.SourceCrossRef }

// Confidence implements Source.
func (c *CrossRef) Confidence() float64 { return 0.8 }

// worksResponse is the JSON shape of a /works search result.
type worksResponse struct {
	Message struct {
		Items []workItem `json:"items"`
	} `json:"message"`
}

type workItem struct {
	DOI            string       `json:"DOI"`
	Title          []string     `json:"title"`
	Authors        []workAuthor `json:"author"`
	ContainerTitle []string     `json:"container-title"`
	PublishedPrint *workDate    `json:"published-print"`
	PublishedOnl   *workDate    `json:"published-online"`
}

type workAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

type workDate struct {
	DateParts [][]int `json:"date-parts"`
}

// year extracts the year from a date-parts array, or "" if absent.
func (d *workDate) year() string {
	if d == nil || len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 {
		return ""
	}
	return strconv.Itoa(d.DateParts[0][0])
}

// Search implements Source.
func (c *CrossRef) Search(ctx context.Context, query string) (*Result, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{
		"query":  {truncate(query, crossrefMaxQueryLen)},
		"rows":   {crossrefRows},
		"mailto": {c.mailto},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", fmt.Sprintf("doifind/1.0 (mailto:%s)", c.mailto))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return nil, &APIError{Source: citation.SourceCrossRef, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var works worksResponse
	if err := json.Unmarshal(body, &works); err != nil {
		return nil, fmt.Errorf("%w: parsing works result: %v", ErrInvalidResponse, err)
	}
	if len(works.Message.Items) == 0 {
		return nil, nil
	}

	item := works.Message.Items[0]
	result := &Result{
		Source: citation.SourceCrossRef,
		DOI:    item.DOI,
	}

	if len(item.Title) > 0 {
		result.Title = truncate(item.Title[0], maxTitleLen)
	}
	if len(item.ContainerTitle) > 0 {
		result.Journal = truncate(item.ContainerTitle[0], maxJournalLen)
	}

	var names []string
	for _, a := range item.Authors {
		if a.Family == "" {
			continue
		}
		name := a.Family
		if a.Given != "" {
			name = a.Family + ", " + a.Given
		}
		names = append(names, name)
	}
	result.Authors = joinAuthors(names)

	// Print date takes priority over online date, matching CrossRef's
	// own display convention.
	if year := item.PublishedPrint.year(); year != "" {
		result.Year = year
	} else if year := item.PublishedOnl.year(); year != "" {
		result.Year = year
	}

	if result.DOI == "" {
		return nil, nil
	}
	return result, nil
}
