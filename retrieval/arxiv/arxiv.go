// Package arxiv implements academic paper retrieval against the arXiv
// Atom API (https://info.arxiv.org/help/api/).
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/askdoc/core"
	"github.com/poiesic/askdoc/retrieval"
)

const (
	defaultBaseURL    = "http://export.arxiv.org/api/query"
	defaultMaxResults = 2
	defaultTimeout    = 10 * time.Second

	// summaries are truncated so a couple of papers don't crowd the
	// synthesis prompt
	summaryLimit = 500
)

// feed mirrors the subset of the Atom response we consume.
type feed struct {
	Entries []entry `xml:"entry"`
}

type entry struct {
	Title   string `xml:"title"`
	Summary string `xml:"summary"`
}

// Client retrieves paper titles and abstracts from arXiv.
type Client struct {
	httpClient *http.Client
	baseURL    string
	maxResults int
	logger     *slog.Logger
}

var _ retrieval.Provider = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithMaxResults sets how many papers are retrieved per query.
func WithMaxResults(max int) Option {
	return func(c *Client) {
		if max > 0 {
			c.maxResults = max
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates an arXiv retrieval client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    defaultBaseURL,
		maxResults: defaultMaxResults,
		logger:     slog.Default().With("component", "arxiv"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Retrieve searches arXiv by relevance and formats the top papers as
// "Paper Title: ...\nSummary: ..." blocks separated by blank lines.
func (c *Client) Retrieve(ctx context.Context, query string) (string, error) {
	c.logger.Debug("searching arxiv", "query", query)

	params := url.Values{}
	params.Set("search_query", "all:"+query)
	params.Set("max_results", strconv.Itoa(c.maxResults))
	params.Set("sortBy", "relevance")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("arxiv: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("arxiv: %w: %w", core.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("arxiv: %w: status %d", core.ErrProviderUnavailable, resp.StatusCode)
	}

	var parsed feed
	if err := xml.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("arxiv: %w: %w", core.ErrProviderUnavailable, err)
	}

	if len(parsed.Entries) == 0 {
		return "", fmt.Errorf("arxiv: %w", core.ErrNoResults)
	}

	blocks := make([]string, 0, len(parsed.Entries))
	for _, e := range parsed.Entries {
		title := strings.Join(strings.Fields(e.Title), " ")
		summary := strings.TrimSpace(e.Summary)
		if len([]rune(summary)) > summaryLimit {
			summary = string([]rune(summary)[:summaryLimit]) + "..."
		}
		blocks = append(blocks, "Paper Title: "+title+"\nSummary: "+summary)
	}

	c.logger.Debug("arxiv search complete", "papers", len(blocks))
	return strings.Join(blocks, "\n\n"), nil
}
