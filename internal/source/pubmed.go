package source

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/matsen/doifind/internal/citation"
)

const (
	// PubMedBaseURL is the NCBI E-utilities API base URL.
	PubMedBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

	// PubMedRateLimit is 3 requests per second without an API key,
	// per NCBI usage guidelines.
	PubMedRateLimit = 3.0

	// pubmedMaxQueryLen bounds the search term to avoid URL issues.
	pubmedMaxQueryLen = 500

	// pubmedRetMax limits how many PMIDs a search returns.
	pubmedRetMax = "5"
)

// PubMed is a rate-limited client for the NCBI E-utilities API. A
// search is two steps: esearch resolves the query to PMIDs, efetch
// pulls article metadata for the most relevant one.
type PubMed struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	apiKey     string
}

// PubMedOption configures a PubMed client.
type PubMedOption func(*PubMed)

// WithPubMedAPIKey sets an NCBI API key, which raises the rate limit.
func WithPubMedAPIKey(key string) PubMedOption {
	return func(p *PubMed) {
		p.apiKey = key
		p.limiter = rate.NewLimiter(rate.Limit(10.0), 1)
	}
}

// WithPubMedBaseURL sets a custom base URL (for testing).
func WithPubMedBaseURL(u string) PubMedOption {
	return func(p *PubMed) {
		p.baseURL = u
	}
}

// WithPubMedHTTPClient sets a custom HTTP client.
func WithPubMedHTTPClient(hc *http.Client) PubMedOption {
	return func(p *PubMed) {
		p.httpClient = hc
	}
}

// NewPubMed creates a PubMed client.
func NewPubMed(opts ...PubMedOption) *PubMed {
	p := &PubMed{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(PubMedRateLimit), 1),
		baseURL:    PubMedBaseURL,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements Source.
func (p *PubMed) Name() citation.Source { return citation.SourcePubMed }

// Confidence implements Source. PubMed results are curated, so they
// score higher than CrossRef's.
func (p *PubMed) Confidence() float64 { return 0.9 }

// esearchResponse is the JSON shape of an esearch result.
type esearchResponse struct {
	ESearchResult struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// efetchResponse is the XML shape of an efetch result. Only the fields
// needed for citation metadata are mapped.
type efetchResponse struct {
	XMLName  xml.Name        `xml:"PubmedArticleSet"`
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	Title      string            `xml:"MedlineCitation>Article>ArticleTitle"`
	Journal    string            `xml:"MedlineCitation>Article>Journal>Title"`
	Year       string            `xml:"MedlineCitation>Article>Journal>JournalIssue>PubDate>Year"`
	Authors    []pubmedAuthor    `xml:"MedlineCitation>Article>AuthorList>Author"`
	ArticleIDs []pubmedArticleID `xml:"PubmedData>ArticleIdList>ArticleId"`
}

type pubmedAuthor struct {
	LastName string `xml:"LastName"`
	ForeName string `xml:"ForeName"`
}

type pubmedArticleID struct {
	IDType string `xml:"IdType,attr"`
	Value  string `xml:",chardata"`
}

// Search implements Source.
func (p *PubMed) Search(ctx context.Context, query string) (*Result, error) {
	pmids, err := p.search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(pmids) == 0 {
		return nil, nil
	}

	article, err := p.fetch(ctx, pmids[0])
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, nil
	}

	result := &Result{
		Source:  citation.SourcePubMed,
		Title:   truncate(article.Title, maxTitleLen),
		Journal: truncate(article.Journal, maxJournalLen),
		Year:    article.Year,
	}

	for _, id := range article.ArticleIDs {
		if id.IDType == "doi" {
			result.DOI = id.Value
			break
		}
	}

	var names []string
	for _, a := range article.Authors {
		if a.LastName == "" {
			continue
		}
		name := a.LastName
		if a.ForeName != "" {
			name += ", " + a.ForeName
		}
		names = append(names, name)
	}
	result.Authors = joinAuthors(names)

	// A record without a DOI is the same as no record.
	if result.DOI == "" {
		return nil, nil
	}
	return result, nil
}

// search resolves a free-text query to a relevance-sorted PMID list.
func (p *PubMed) search(ctx context.Context, query string) ([]string, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"term":    {truncate(query, pubmedMaxQueryLen)},
		"retmode": {"json"},
		"retmax":  {pubmedRetMax},
		"sort":    {"relevance"},
	}
	if p.apiKey != "" {
		params.Set("api_key", p.apiKey)
	}

	body, err := p.get(ctx, p.baseURL+"/esearch.fcgi", params)
	if err != nil {
		return nil, err
	}

	var resp esearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: parsing esearch result: %v", ErrInvalidResponse, err)
	}
	return resp.ESearchResult.IDList, nil
}

// fetch retrieves article metadata for a single PMID.
func (p *PubMed) fetch(ctx context.Context, pmid string) (*pubmedArticle, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {pmid},
		"retmode": {"xml"},
	}
	if p.apiKey != "" {
		params.Set("api_key", p.apiKey)
	}

	body, err := p.get(ctx, p.baseURL+"/efetch.fcgi", params)
	if err != nil {
		return nil, err
	}

	var resp efetchResponse
	if err := xml.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: parsing efetch result: %v", ErrInvalidResponse, err)
	}
	if len(resp.Articles) == 0 {
		return nil, nil
	}
	return &resp.Articles[0], nil
}

// get performs a rate-limited GET and returns the response body.
func (p *PubMed) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return nil, &APIError{Source: citation.SourcePubMed, StatusCode: resp.StatusCode}
	}

	return io.ReadAll(resp.Body)
}
